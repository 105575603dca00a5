package cfg

type Cfg struct {
	// Storage configuration
	DBPath string

	// Application configuration
	Port         string
	SourcesFile  string
	WorkerCount  int
	TickInterval int
	FetchTimeout int
	APIAccessKey string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
