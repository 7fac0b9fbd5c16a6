package dashboards

import (
	"fmt"

	"player-analytics/internal/shared/svcerrors"
)

const (
	codeInvalidLimit = "DASH_1000"

	codeSourceUnavailable = "DASH_9002"
)

func errInvalidLimit(limit, maxLimit int) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeInvalidLimit, fmt.Sprintf("limit must be between 1 and %d, got %d", maxLimit, limit), nil)
}

func errSourceUnavailable(cause error) *svcerrors.ServiceError {
	return svcerrors.NewUnavailableError(codeSourceUnavailable, "player store unavailable", cause)
}
