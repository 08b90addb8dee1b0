package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/logging"
)

// internalError logs err and hides it behind common.ErrorInternal.
func internalError(ctx context.Context, logger logging.Logger, op string, err error) error {
	logger.Error(ctx, op+" failed", "error", err)
	return fmt.Errorf("%s: %w", op, common.ErrorInternal)
}
