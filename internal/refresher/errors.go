package refresher

import "player-analytics/internal/shared/svcerrors"

const codeReportNotReady = "DASH_9001"

func errReportNotReady() *svcerrors.ServiceError {
	return svcerrors.NewUnavailableError(codeReportNotReady, "no report has been built yet", nil)
}
