package types

import "time"

// ShareEvent is one recorded share click. Rows are append-only; they serve
// both as an audit trail and as the input for analytics rollups.
type ShareEvent struct {
	ID          int64     `json:"id"`
	NetworkName string    `json:"network_name"`
	PostID      int64     `json:"post_id"`
	IPInfo      string    `json:"ip_info"` // opaque origin descriptor
	IPAddress   string    `json:"ip_address"`
	Location    string    `json:"location"`
	ShareURL    string    `json:"share_url"`
	LatestCount int       `json:"latest_count"` // counted value at event time
	SharingDate time.Time `json:"sharing_date"`
}

// AggregateBucket is one row of an analytics rollup. Buckets are derived on
// demand and never persisted.
type AggregateBucket struct {
	DateLabel   string    `json:"date_label"`
	Date        time.Time `json:"date"` // truncated bucket date
	NetworkName string    `json:"network_name"`
	Location    string    `json:"location"`
	PostID      int64     `json:"post_id"`
	Total       int       `json:"total"`
}

// Granularity selects the date truncation and label format for a rollup
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityMonthly Granularity = "monthly"
	GranularityYearly  Granularity = "yearly"
)

// Valid reports whether the granularity is one of daily, monthly, yearly
func (g Granularity) Valid() bool {
	switch g {
	case GranularityDaily, GranularityMonthly, GranularityYearly:
		return true
	}
	return false
}

// Truncate collapses t to the start of its bucket, in UTC
func (g Granularity) Truncate(t time.Time) time.Time {
	t = t.UTC()
	switch g {
	case GranularityMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	case GranularityYearly:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
}

// Next returns the start of the bucket after the one containing t
func (g Granularity) Next(t time.Time) time.Time {
	b := g.Truncate(t)
	switch g {
	case GranularityMonthly:
		return b.AddDate(0, 1, 0)
	case GranularityYearly:
		return b.AddDate(1, 0, 0)
	default:
		return b.AddDate(0, 0, 1)
	}
}

// Label formats the bucket date for display
func (g Granularity) Label(t time.Time) string {
	switch g {
	case GranularityMonthly:
		return t.UTC().Format("Jan - 2006")
	case GranularityYearly:
		return t.UTC().Format("2006")
	default:
		return t.UTC().Format("Jan - 02, 2006")
	}
}
