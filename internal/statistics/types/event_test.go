package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGranularityValid(t *testing.T) {
	assert.True(t, GranularityDaily.Valid())
	assert.True(t, GranularityMonthly.Valid())
	assert.True(t, GranularityYearly.Valid())
	assert.False(t, Granularity("weekly").Valid())
	assert.False(t, Granularity("").Valid())
}

func TestGranularityTruncate(t *testing.T) {
	ts := time.Date(2025, 6, 15, 23, 59, 59, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), GranularityDaily.Truncate(ts))
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), GranularityMonthly.Truncate(ts))
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), GranularityYearly.Truncate(ts))
}

func TestGranularityTruncateNormalizesZone(t *testing.T) {
	zone := time.FixedZone("UTC+5", 5*3600)
	// 02:30 on June 16 in UTC+5 is still June 15 in UTC
	ts := time.Date(2025, 6, 16, 2, 30, 0, 0, zone)

	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), GranularityDaily.Truncate(ts))
}

func TestGranularityNext(t *testing.T) {
	ts := time.Date(2025, 12, 31, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), GranularityDaily.Next(ts))
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), GranularityMonthly.Next(ts))
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), GranularityYearly.Next(ts))

	mid := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), GranularityDaily.Next(mid))
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), GranularityMonthly.Next(mid))
}

func TestGranularityLabel(t *testing.T) {
	ts := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "Jun - 05, 2025", GranularityDaily.Label(ts))
	assert.Equal(t, "Jun - 2025", GranularityMonthly.Label(ts))
	assert.Equal(t, "2025", GranularityYearly.Label(ts))
}
