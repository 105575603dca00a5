package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/nexlern/briefing/app/briefing"
)

// IngestTask runs one cadence-gated briefing ingestion. The cadence
// controller decides per tick whether the run actually executes, so the
// task itself is never retried: the next tick reconsiders from scratch.
type IngestTask struct {
	Task
	ingestor *briefing.Ingestor
}

func NewIngestTask(ingestor *briefing.Ingestor) *IngestTask {
	return &IngestTask{
		Task:     NewTask(TaskTypeIngestBriefing, 0),
		ingestor: ingestor,
	}
}

func (t *IngestTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	decision, summary, err := t.ingestor.RunIfDue(ctx, time.Now())
	if err != nil {
		return err
	}

	if !decision.Run {
		slog.Debug("Ingestion skipped", "reason", decision.Reason)
		return nil
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"duration", t.GetDuration(),
		"run_id", summary.RunID,
		"fetched", summary.Fetched,
		"created", summary.Created,
		"duplicates", summary.Updated,
		"source_errors", len(summary.Errors))

	return nil
}
