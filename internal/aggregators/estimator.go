package aggregators

import "player-analytics/internal/records"

// EstimateCaveat is shown next to every estimated value.
const EstimateCaveat = "estimated from the most recent records; assumes they are representative of the whole collection"

// Estimate is an extrapolated aggregate. Approximate is always true for values
// produced by EstimateAggregate and must be surfaced to whoever reads Value.
type Estimate struct {
	Value       float64 `json:"value"`
	SampleSize  int     `json:"sampleSize"`
	TotalCount  int     `json:"totalCount"`
	Approximate bool    `json:"approximate"`
	Caveat      string  `json:"caveat,omitempty"`
}

// EstimateAggregate extrapolates the total of field over a collection of
// totalCount records from a sample: mean(sample.field) * totalCount.
// Non-numeric values count as 0. An empty sample or a zero total yields 0.
//
// The estimate is biased whenever the sample is not representative, which is
// the normal case for a "latest K" sample when the field trends over time.
func EstimateAggregate(sample records.RecordSet, totalCount int, field string) float64 {
	if len(sample) == 0 || totalCount <= 0 {
		return 0
	}
	mean := SumNumeric(sample, field) / float64(len(sample))
	return mean * float64(totalCount)
}

// Estimated wraps EstimateAggregate with the metadata consumers need to
// present it as an approximation.
func Estimated(sample records.RecordSet, totalCount int, field string) Estimate {
	return Estimate{
		Value:       EstimateAggregate(sample, totalCount, field),
		SampleSize:  len(sample),
		TotalCount:  totalCount,
		Approximate: true,
		Caveat:      EstimateCaveat,
	}
}

// Exact wraps an exact sum in the same shape as an estimate.
func Exact(rs records.RecordSet, field string) Estimate {
	return Estimate{
		Value:      SumNumeric(rs, field),
		SampleSize: len(rs),
		TotalCount: len(rs),
	}
}
