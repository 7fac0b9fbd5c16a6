package dashboards

import "fmt"

// Strategy selects how much of the store a render cycle reads.
type Strategy string

const (
	// StrategyFullScan reads whole collections; every statistic is exact.
	StrategyFullScan Strategy = "full_scan"
	// StrategyIndexed reads the latest window through ordered queries and
	// counts collections with shallow reads. Panels cover the window only.
	StrategyIndexed Strategy = "indexed"
	// StrategySampled reads a larger recent sample and extrapolates
	// collection-wide totals from it.
	StrategySampled Strategy = "sampled"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyFullScan, StrategyIndexed, StrategySampled:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("unknown strategy %q", s)
}

// scope names the records the statistics panels were computed over.
func (s Strategy) scope() string {
	switch s {
	case StrategyFullScan:
		return ScopeCollection
	case StrategySampled:
		return ScopeSample
	default:
		return ScopeWindow
	}
}
