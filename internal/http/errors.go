package http

import (
	"fmt"

	"player-analytics/internal/shared/svcerrors"
)

const (
	codeInvalidQueryParam = "DASH_1001"
	codeRenderFailed      = "DASH_9003"
)

func errInvalidQueryParam(name, value string) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeInvalidQueryParam, fmt.Sprintf("invalid value %q for query parameter %q", value, name), nil)
}

func errRenderFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeRenderFailed, fmt.Errorf("renderDashboard: %w", cause))
}
