package dashboards

// Identity fields injected by flattening.
const (
	FieldUID          = "uid"
	FieldTrackingKey  = "key"
	FieldUserID       = "user_id"
	FieldConversionID = "conversion_id"
)

// Player document fields.
const (
	FieldInstallTime = "Install_time"
	FieldSource      = "Source"
	FieldGeo         = "Geo"
	FieldIP          = "IP"
	FieldWins        = "Wins"
	FieldGoal        = "Goal"
	FieldImpressions = "Impressions"
	FieldAdRevenue   = "Ad_Revenue"

	FieldFormattedInstallTime = "Formatted_Install_time"
)

// Tracking and conversion document fields.
const (
	FieldTrackingIP    = "ip"
	FieldUserAgent     = "user_agent"
	FieldTime          = "time"
	FieldConvGoal      = "goal"
	FieldConvSource    = "source"
	FieldFormattedTime = "Formatted_time"
)

var (
	playerColumns = []string{
		FieldUID, FieldFormattedInstallTime, FieldSource, FieldGeo, FieldIP,
		FieldWins, FieldGoal, FieldImpressions, FieldAdRevenue,
	}
	conversionColumns = []string{
		FieldUserID, FieldConversionID, FieldFormattedTime, FieldConvGoal, FieldConvSource,
	}
	sharedIPColumns = []string{FieldIP, FieldUID, FieldGeo, FieldSource}
	joinColumns     = []string{FieldIP, FieldUID, FieldTrackingKey, FieldGeo, FieldUserAgent}
)
