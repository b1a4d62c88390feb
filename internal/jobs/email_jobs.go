package jobs

import (
	"context"
	"time"

	"eventrent-backend/internal/logger"
)

// RetryFailedEmails re-dispatches outbox entries whose next attempt is due
func (jr *JobRunner) RetryFailedEmails() {
	jr.runWithRecovery("RetryFailedEmails", func() {
		ctx := context.Background()
		limit := jr.config.Scheduler.RetryBatchSize

		sent, failed, err := jr.services.Email.RetryDue(ctx, jr.now().UTC(), limit)
		if err != nil {
			logger.Error("Failed to retry outbox emails", "error", err)
			return
		}
		if sent+failed == 0 {
			logger.Debug("No outbox emails due")
			return
		}
		logger.Info("Retried outbox emails", "sent", sent, "failed", failed)
	})
}

// PurgeSentEmails deletes delivered outbox entries past the retention window
func (jr *JobRunner) PurgeSentEmails() {
	jr.runWithRecovery("PurgeSentEmails", func() {
		ctx := context.Background()
		retention := time.Duration(jr.config.Scheduler.SentRetentionDays) * 24 * time.Hour

		n, err := jr.services.Email.PurgeSent(ctx, jr.now().UTC().Add(-retention))
		if err != nil {
			logger.Error("Failed to purge sent outbox emails", "error", err)
			return
		}
		logger.Info("Purged sent outbox emails", "count", n)
	})
}
