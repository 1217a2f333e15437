package service

import (
	"context"
	"log/slog"
)

// recordOrLog issues a fire-and-forget ledger write after a primary mutation.
// A failed ledger write is logged and dropped; it never joins the primary
// operation's result.
func recordOrLog(ctx context.Context, activities ActivityService, logger *slog.Logger, input RecordActivityInput) {
	if activities == nil {
		return
	}
	if err := activities.Record(ctx, input); err != nil {
		logger.WarnContext(ctx, "failed to record activity",
			"type", input.Type,
			"error", err,
		)
	}
}
