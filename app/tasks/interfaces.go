package tasks

// TaskSchedulerInterface is what the rest of the application sees of the
// background scheduler: lifecycle plus a way to enqueue work.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
