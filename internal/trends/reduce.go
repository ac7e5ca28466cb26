package trends

import (
	"sort"
	"time"

	"github.com/pageza/nutrilog/backend/internal/nutrition"
)

// Reduce applies reducer to the records of b. dateOf extracts the date each
// record is filed under.
func Reduce[R, S any](b Bucket, records []R, dateOf func(R) time.Time, reducer func(Bucket, []R) S) S {
	var in []R
	for _, r := range records {
		if b.Contains(dateOf(r)) {
			in = append(in, r)
		}
	}
	return reducer(b, in)
}

// Aggregate builds the buckets for [from, to] and reduces records into each.
// Records are sorted by day once and walked in a single pass; the input
// slice is left untouched.
func Aggregate[R, S any](from, to time.Time, quantizationDays int, records []R, dateOf func(R) time.Time, reducer func(Bucket, []R) S) []S {
	buckets := BuildBuckets(from, to, quantizationDays)
	if len(buckets) == 0 {
		return []S{}
	}

	sorted := make([]R, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return Day(dateOf(sorted[i])).Before(Day(dateOf(sorted[j])))
	})

	out := make([]S, 0, len(buckets))
	i := 0
	for _, b := range buckets {
		for i < len(sorted) && Day(dateOf(sorted[i])).Before(b.Start) {
			i++
		}
		j := i
		for j < len(sorted) && !Day(dateOf(sorted[j])).After(b.End) {
			j++
		}
		var in []R
		if j > i {
			in = sorted[i:j:j]
		}
		out = append(out, reducer(b, in))
		i = j
	}
	return out
}

// IntakeRecord is the nutrition of one logged meal.
type IntakeRecord struct {
	Date   time.Time
	Totals nutrition.Totals
}

// IntakeSummary is the intake of one bucket. Calories is the bucket total;
// the other channels are daily averages over the bucket's days.
type IntakeSummary struct {
	Bucket
	Calories float64 `json:"calories"`
	Proteins float64 `json:"proteins"`
	Fats     float64 `json:"fats"`
	Carbs    float64 `json:"carbs"`
	Fiber    float64 `json:"fiber"`
	Alcohol  float64 `json:"alcohol"`
	Records  int     `json:"records"`
}

// ReduceIntake sums the records of a bucket. An empty bucket reports zeros.
func ReduceIntake(b Bucket, records []IntakeRecord) IntakeSummary {
	s := IntakeSummary{Bucket: b, Records: len(records)}
	if len(records) == 0 {
		return s
	}
	var sum nutrition.Totals
	for _, r := range records {
		sum = sum.Add(r.Totals)
	}
	days := float64(b.Days())
	s.Calories = sum.Calories
	s.Proteins = sum.Proteins / days
	s.Fats = sum.Fats / days
	s.Carbs = sum.Carbs / days
	s.Fiber = sum.Fiber / days
	s.Alcohol = sum.Alcohol / days
	return s
}

// AggregateIntake reduces intake records into buckets of quantizationDays days.
func AggregateIntake(from, to time.Time, quantizationDays int, records []IntakeRecord) []IntakeSummary {
	return Aggregate(from, to, quantizationDays, records, func(r IntakeRecord) time.Time { return r.Date }, ReduceIntake)
}

// ValueRecord is a single dated measurement such as a body weight.
type ValueRecord struct {
	Date  time.Time
	Value float64
}

// ValueSummary is the mean of the measurements in a bucket. Average is zero
// when the bucket has no records; check Records to tell the two apart.
type ValueSummary struct {
	Bucket
	Average float64 `json:"average"`
	Records int     `json:"records"`
}

// ReduceValues averages the records of a bucket.
func ReduceValues(b Bucket, records []ValueRecord) ValueSummary {
	s := ValueSummary{Bucket: b, Records: len(records)}
	if len(records) == 0 {
		return s
	}
	var sum float64
	for _, r := range records {
		sum += r.Value
	}
	s.Average = sum / float64(len(records))
	return s
}

// AggregateValues reduces measurements into buckets of quantizationDays days.
func AggregateValues(from, to time.Time, quantizationDays int, records []ValueRecord) []ValueSummary {
	return Aggregate(from, to, quantizationDays, records, func(r ValueRecord) time.Time { return r.Date }, ReduceValues)
}
