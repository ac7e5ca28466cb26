// Package trends partitions a date range into fixed-width day buckets and
// reduces dated records into one summary per bucket for charting.
package trends

import (
	"time"
)

// MaxQuantizationDays is the widest bucket a caller may ask for.
const MaxQuantizationDays = 365

// MaxBuckets bounds the number of buckets a single trend may span.
const MaxBuckets = 1000

const day = 24 * time.Hour

// Bucket is a closed interval of whole days. Start and End are both UTC midnights.
type Bucket struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Days returns the number of days covered by the bucket, counting both ends.
func (b Bucket) Days() int {
	return int(b.End.Sub(b.Start)/day) + 1
}

// Contains reports whether t falls on one of the bucket's days.
func (b Bucket) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(b.Start) && !d.After(b.End)
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ClampQuantization clamps a requested bucket width into [1, MaxQuantizationDays].
func ClampQuantization(days int) int {
	switch {
	case days < 1:
		return 1
	case days > MaxQuantizationDays:
		return MaxQuantizationDays
	default:
		return days
	}
}

// BucketCount returns how many buckets BuildBuckets would produce for the
// same arguments without building them.
func BucketCount(from, to time.Time, quantizationDays int) int {
	start, end := Day(from), Day(to)
	if start.After(end) {
		return 0
	}
	q := ClampQuantization(quantizationDays)
	// Unix seconds, since time.Duration saturates after about 292 years.
	span := (end.Unix()-start.Unix())/int64(day/time.Second) + 1
	return int((span + int64(q) - 1) / int64(q))
}

// BuildBuckets splits [from, to] into consecutive buckets of quantizationDays
// days. The last bucket is cut short at to. The width is clamped with
// ClampQuantization; a from after to yields no buckets.
func BuildBuckets(from, to time.Time, quantizationDays int) []Bucket {
	start, end := Day(from), Day(to)
	if start.After(end) {
		return nil
	}
	q := ClampQuantization(quantizationDays)

	buckets := make([]Bucket, 0, BucketCount(start, end, q))
	for cur := start; !cur.After(end); {
		last := cur.AddDate(0, 0, q-1)
		if last.After(end) {
			last = end
		}
		buckets = append(buckets, Bucket{Start: cur, End: last})
		cur = last.AddDate(0, 0, 1)
	}
	return buckets
}
