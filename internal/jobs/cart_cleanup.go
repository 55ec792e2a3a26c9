package jobs

import (
	"context"
	"time"

	"github.com/oguzsenturk/vitalshop-backend/pkg/logger"
)

// cartPurger is the slice of the cart repository this job needs.
type cartPurger interface {
	DeleteCartsInactiveSince(ctx context.Context, cutoff time.Time) (int64, error)
}

// CartCleanupJob drops carts nobody touched within the retention
// window. Tokens are minted freely on first contact, so abandoned
// carts accumulate without this.
type CartCleanupJob struct {
	carts     cartPurger
	retention time.Duration
	logg      *logger.Logger
	now       func() time.Time
}

// NewCartCleanupJob builds the cleanup job.
func NewCartCleanupJob(carts cartPurger, retention time.Duration, logg *logger.Logger) *CartCleanupJob {
	return &CartCleanupJob{carts: carts, retention: retention, logg: logg, now: time.Now}
}

func (j *CartCleanupJob) Name() string { return "cart_cleanup" }

func (j *CartCleanupJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)
	removed, err := j.carts.DeleteCartsInactiveSince(ctx, cutoff)
	if err != nil {
		return err
	}
	if removed > 0 {
		logCtx := j.logg.WithField(ctx, "removed", removed)
		j.logg.Info(logCtx, "abandoned carts purged")
	}
	return nil
}
