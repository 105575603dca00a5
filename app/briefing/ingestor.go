package briefing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/nexlern/briefing/app/database"
)

// Ingestor drives one briefing run: it enumerates enabled sources, fetches
// and parses their feeds with bounded parallelism, classifies and dedups
// items, publishes the resulting drafts, prunes the retention window and
// records the outcome in the run ledger.
type Ingestor struct {
	sourceRepo database.SourceRepository
	itemRepo   database.ItemRepository
	runRepo    database.RunRepository
	settings   *SettingsLoader
	parser     *Parser
	classifier *Classifier

	httpClient   *http.Client
	userAgent    string
	fetchTimeout time.Duration
	workerCount  int
}

func NewIngestor(sourceRepo database.SourceRepository, itemRepo database.ItemRepository,
	runRepo database.RunRepository, settings *SettingsLoader, parser *Parser,
	classifier *Classifier, httpClient *http.Client, userAgent string,
	fetchTimeout time.Duration, workerCount int) *Ingestor {
	if workerCount < 1 {
		workerCount = 1
	}

	return &Ingestor{
		sourceRepo:   sourceRepo,
		itemRepo:     itemRepo,
		runRepo:      runRepo,
		settings:     settings,
		parser:       parser,
		classifier:   classifier,
		httpClient:   httpClient,
		userAgent:    userAgent,
		fetchTimeout: fetchTimeout,
		workerCount:  workerCount,
	}
}

type sourceResult struct {
	fetched    int
	created    int
	duplicates int
	sourceErr  string
	fatal      error
}

// RunIfDue evaluates the cadence policy and executes a run when approved.
// A run-ledger read failure fails closed: no run, reason reported.
func (in *Ingestor) RunIfDue(ctx context.Context, now time.Time) (Decision, *RunSummary, error) {
	settings := in.settings.Load()

	last, err := in.runRepo.GetLastSuccessfulRun()
	if err != nil {
		return Decision{Run: false, Reason: fmt.Sprintf("run ledger unreachable: %v", err)}, nil, nil
	}

	var lastSuccess *time.Time
	if last != nil {
		lastSuccess = last.FinishedAt
	}

	decision := ShouldRun(now, settings.Cadence, lastSuccess)
	if !decision.Run {
		return decision, nil, nil
	}

	summary, err := in.RunOnce(ctx)
	return decision, summary, err
}

// RunOnce executes a single ingestion run. The run row is finalized exactly
// once, including on the panic path, so the cadence throttle always has an
// accurate last-success timestamp.
func (in *Ingestor) RunOnce(ctx context.Context) (summary *RunSummary, err error) {
	settings := in.settings.Load()

	runID, err := in.runRepo.OpenRun(time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to open run: %w", err)
	}

	finalized := false
	finalize := func(status string, fetched, created, duplicates int, errorText string) {
		if finalized {
			return
		}
		finalized = true
		if ferr := in.runRepo.FinalizeRun(runID, status, fetched, created, duplicates, errorText); ferr != nil {
			slog.Error("Failed to finalize run", "run_id", runID, "error", ferr)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			finalize(database.RunStatusError, 0, 0, 0, fmt.Sprintf("panic: %v", r))
			summary = nil
			err = fmt.Errorf("run panicked: %v", r)
		}
	}()

	sources, err := in.sourceRepo.GetEnabledSources()
	if err != nil {
		finalize(database.RunStatusError, 0, 0, 0, err.Error())
		return nil, fmt.Errorf("failed to load sources: %w", err)
	}

	if len(sources) == 0 {
		finalize(database.RunStatusSuccess, 0, 0, 0, "")
		slog.Info("Run completed", "run_id", runID, "sources", 0)
		return &RunSummary{RunID: runID, Errors: []string{}}, nil
	}

	var (
		mu         sync.Mutex
		fetched    int
		created    int
		duplicates int
		sourceErrs []string
		fatalErr   error
	)

	workers := in.workerCount
	if workers > len(sources) {
		workers = len(sources)
	}

	jobs := make(chan database.Source)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for source := range jobs {
				result := in.processSource(ctx, source)

				mu.Lock()
				fetched += result.fetched
				created += result.created
				duplicates += result.duplicates
				if result.sourceErr != "" {
					sourceErrs = append(sourceErrs, result.sourceErr)
				}
				if result.fatal != nil && fatalErr == nil {
					fatalErr = result.fatal
				}
				mu.Unlock()
			}
		}()
	}

	for _, source := range sources {
		jobs <- source
	}
	close(jobs)
	wg.Wait()

	if fatalErr != nil {
		finalize(database.RunStatusError, fetched, created, duplicates, fatalErr.Error())
		return nil, fatalErr
	}

	published, err := in.itemRepo.PublishDrafts()
	if err != nil {
		finalize(database.RunStatusError, fetched, created, duplicates, err.Error())
		return nil, fmt.Errorf("failed to publish drafts: %w", err)
	}

	pruned, err := in.itemRepo.Prune(settings.RetentionLimit)
	if err != nil {
		finalize(database.RunStatusError, fetched, created, duplicates, err.Error())
		return nil, fmt.Errorf("failed to prune items: %w", err)
	}

	// Source-level failures are partial, not fatal: the run still succeeds
	// with the failures recorded on it.
	finalize(database.RunStatusSuccess, fetched, created, duplicates, joinErrors(sourceErrs))

	slog.Info("Run completed",
		"run_id", runID,
		"sources", len(sources),
		"fetched", fetched,
		"created", created,
		"duplicates", duplicates,
		"published", published,
		"pruned", pruned,
		"source_errors", len(sourceErrs))

	if sourceErrs == nil {
		sourceErrs = []string{}
	}

	return &RunSummary{
		RunID:   runID,
		Fetched: fetched,
		Created: created,
		Updated: duplicates,
		Errors:  sourceErrs,
	}, nil
}

// processSource handles one source end to end. Transport and parse failures
// become per-source error strings; only store failures are fatal to the run.
func (in *Ingestor) processSource(ctx context.Context, source database.Source) sourceResult {
	data, err := in.fetchFeed(ctx, source.URL)
	if err != nil {
		return sourceResult{sourceErr: fmt.Sprintf("%s: %v", source.Name, err)}
	}

	items, err := in.parser.Run(data)
	if err != nil {
		return sourceResult{sourceErr: fmt.Sprintf("%s: %v", source.Name, err)}
	}

	result := sourceResult{fetched: len(items)}

	for _, item := range items {
		select {
		case <-ctx.Done():
			result.fatal = ctx.Err()
			return result
		default:
		}

		fingerprint := Fingerprint(item.Title, item.Link)

		existing, err := in.itemRepo.FindByFingerprint(fingerprint)
		if err != nil {
			result.fatal = fmt.Errorf("failed to check for duplicates: %w", err)
			return result
		}
		if existing != nil {
			result.duplicates++
			continue
		}

		inserted, err := in.itemRepo.InsertItem(database.NewItem{
			SourceID:    source.ID,
			Title:       item.Title,
			URL:         item.Link,
			PublishedAt: item.PublishedAt,
			Fingerprint: fingerprint,
			Category:    in.classifier.Run(source.CategoryHint, item.Title),
			Summary:     Summarize(item.Description, item.Content),
			ImageURL:    item.ImageURL,
		})
		if err != nil {
			result.fatal = fmt.Errorf("failed to insert item: %w", err)
			return result
		}

		if inserted {
			result.created++
		} else {
			// Lost the insert race to a concurrent worker; the store's
			// uniqueness constraint is authoritative.
			result.duplicates++
		}
	}

	return result
}

func (in *Ingestor) fetchFeed(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, in.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", in.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := in.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

func joinErrors(errs []string) string {
	text := ""
	for i, e := range errs {
		if i > 0 {
			text += "; "
		}
		text += e
	}
	return text
}
