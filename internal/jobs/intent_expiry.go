package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/oguzsenturk/vitalshop-backend/pkg/db/models"
	"github.com/oguzsenturk/vitalshop-backend/pkg/logger"
)

const (
	intentExpiryBatch   = 100
	expiredIntentReason = "payment session expired"
)

// intentStore is the slice of the intent repository this job needs.
type intentStore interface {
	ListExpired(ctx context.Context, cutoff time.Time, limit int) ([]models.PaymentIntent, error)
	MarkFailedIfActive(ctx context.Context, id uuid.UUID, message string) (bool, error)
}

// IntentExpiryJob fails card payment intents the gateway never
// answered for. Failed is terminal: a callback arriving after expiry
// loses, and finalization returns the recorded failure to the client.
// The conditional update skips intents a concurrent callback settled
// between the list and the write.
type IntentExpiryJob struct {
	intents intentStore
	logg    *logger.Logger
	now     func() time.Time
}

// NewIntentExpiryJob builds the expiry job.
func NewIntentExpiryJob(intents intentStore, logg *logger.Logger) *IntentExpiryJob {
	return &IntentExpiryJob{intents: intents, logg: logg, now: time.Now}
}

func (j *IntentExpiryJob) Name() string { return "intent_expiry" }

func (j *IntentExpiryJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC()

	var errs []error
	expired := 0
	for {
		intents, err := j.intents.ListExpired(ctx, cutoff, intentExpiryBatch)
		if err != nil {
			errs = append(errs, err)
			break
		}
		if len(intents) == 0 {
			break
		}

		failed := 0
		for i := range intents {
			changed, err := j.intents.MarkFailedIfActive(ctx, intents[i].ID, expiredIntentReason)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if changed {
				failed++
			}
		}
		expired += failed

		// A full batch that changed nothing would repeat forever.
		if failed == 0 || len(intents) < intentExpiryBatch {
			break
		}
	}

	if expired > 0 {
		logCtx := j.logg.WithField(ctx, "expired", expired)
		j.logg.Info(logCtx, "stale payment intents failed")
	}
	return multierr.Combine(errs...)
}
