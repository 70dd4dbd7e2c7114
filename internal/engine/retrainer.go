package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/fareflow/fareflow/internal/common"
	"github.com/fareflow/fareflow/internal/estimator"
)

// Retrainer periodically reruns training and hot-swaps the estimator's
// artifact. The swap is atomic: in-flight predictions finish against the
// artifact they started with.
type Retrainer struct {
	engine    *TrainingEngine
	estimator *estimator.Estimator
	interval  time.Duration
}

// NewRetrainer creates a retrainer running every interval.
func NewRetrainer(engine *TrainingEngine, est *estimator.Estimator, interval time.Duration) *Retrainer {
	return &Retrainer{
		engine:    engine,
		estimator: est,
		interval:  interval,
	}
}

// Start schedules retraining until the context is canceled. A failed run
// logs and leaves the currently served artifact untouched.
func (r *Retrainer) Start(ctx context.Context) {
	scheduler := gocron.NewScheduler(time.UTC)

	slog.Info("Starting retraining scheduler", "interval", r.interval)

	_, err := scheduler.Every(r.interval).Do(func() {
		r.retrain(ctx)
	})
	if err != nil {
		slog.Error("Failed to schedule retraining", "error", err)
		return
	}

	scheduler.StartAsync()

	<-ctx.Done()

	scheduler.Stop()
	slog.Info("Retraining scheduler stopped")
}

func (r *Retrainer) retrain(ctx context.Context) {
	slog.Info("Scheduled retraining starting")

	art, summary, err := r.engine.TrainedArtifact(ctx)
	if err != nil {
		common.LogError(err, "Scheduled retraining failed", nil)
		return
	}

	if err := r.estimator.LoadArtifact(art); err != nil {
		common.LogError(err, "Failed to swap in retrained artifact", common.Fields{
			"artifact_id": art.ID,
		})
		return
	}

	common.LogInfo("Retrained artifact swapped in", common.Fields{
		"artifact_id":  summary.ArtifactID,
		"rows_trained": summary.RowsTrained,
	})
}
