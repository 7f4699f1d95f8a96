package biz

import (
	"context"
	"sort"
	"strings"
	"time"

	apperrors "github.com/gubbigubbi/easy-social-sharing/internal/pkg/errors"
	"github.com/gubbigubbi/easy-social-sharing/internal/pkg/validator"
	"github.com/gubbigubbi/easy-social-sharing/internal/statistics/types"
)

// StatisticsRepo defines the repository interface for share event storage
type StatisticsRepo interface {
	// Insert appends one event and returns the number of affected rows
	Insert(ctx context.Context, event *types.ShareEvent) (int64, error)

	// CountPriorEvents counts events matching network, URL and origin exactly
	CountPriorEvents(ctx context.Context, networkName, shareURL, ipAddress string) (int64, error)

	// ListEventsBetween returns events with start <= sharing_date < end,
	// optionally restricted to one location ("" means all), ascending by date
	ListEventsBetween(ctx context.Context, start, end time.Time, location string) ([]*types.ShareEvent, error)
}

// StatisticsUseCase contains the event recording and rollup logic
type StatisticsUseCase struct {
	repo StatisticsRepo
}

// NewStatisticsUseCase creates a new statistics use case
func NewStatisticsUseCase(repo StatisticsRepo) *StatisticsUseCase {
	return &StatisticsUseCase{repo: repo}
}

// RecordEvent appends a share event. The write side never deduplicates;
// repeat-click suppression is a read-side decision made by the count cache
// via CountPriorEvents. A failed insert is reported to the caller and not
// retried.
func (uc *StatisticsUseCase) RecordEvent(ctx context.Context, event *types.ShareEvent) (int64, error) {
	event.NetworkName = validator.CleanLower(event.NetworkName)
	event.ShareURL = strings.TrimSpace(event.ShareURL)
	event.Location = validator.CleanText(event.Location)
	event.IPAddress = validator.NormalizeIP(event.IPAddress)

	if event.NetworkName == "" || event.PostID <= 0 || event.ShareURL == "" {
		return 0, apperrors.New(apperrors.ErrStatsInvalidInput, "network, post id and share url are required")
	}
	if event.LatestCount < 0 {
		event.LatestCount = 0
	}
	if event.SharingDate.IsZero() {
		event.SharingDate = time.Now().UTC()
	}

	affected, err := uc.repo.Insert(ctx, event)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrStatsRecordFailed)
	}

	return affected, nil
}

// CountPriorEvents returns how many events the same origin has already
// recorded for a network and URL. Used as the repeat-click signal that keeps
// manual increments bounded for networks without a counting API.
func (uc *StatisticsUseCase) CountPriorEvents(ctx context.Context, networkName, shareURL, ipAddress string) (int64, error) {
	networkName = validator.CleanLower(networkName)
	if networkName == "" || shareURL == "" {
		return 0, apperrors.New(apperrors.ErrStatsInvalidInput, "network and share url are required")
	}

	n, err := uc.repo.CountPriorEvents(ctx, networkName, shareURL, validator.NormalizeIP(ipAddress))
	if err != nil {
		return 0, apperrors.NewStoreUnavailableError(err, "count prior events")
	}

	return n, nil
}

// AggregateRequest describes one analytics rollup query
type AggregateRequest struct {
	Start       time.Time
	End         time.Time
	Granularity types.Granularity
	Location    string // "all" or empty means no restriction
}

// locationFilter normalizes the location parameter; empty means unrestricted
func (r *AggregateRequest) locationFilter() string {
	loc := validator.CleanText(r.Location)
	if strings.EqualFold(loc, "all") {
		return ""
	}
	return loc
}

// Aggregate rolls share events up into per-bucket counts. Events from the
// same (network, origin, URL, location) within one bucket collapse to a
// single unit before counting; counts are then grouped by bucket, network,
// location and post. The date range is inclusive on both calendar days.
// No matches yields an empty slice, not an error.
func (uc *StatisticsUseCase) Aggregate(ctx context.Context, req *AggregateRequest) ([]*types.AggregateBucket, error) {
	if !req.Granularity.Valid() {
		return nil, apperrors.New(apperrors.ErrStatsInvalidPeriod, string(req.Granularity))
	}
	if req.Start.IsZero() || req.End.IsZero() || req.Start.After(req.End) {
		return nil, apperrors.New(apperrors.ErrStatsInvalidRange)
	}

	g := req.Granularity
	start := types.GranularityDaily.Truncate(req.Start)
	end := types.GranularityDaily.Truncate(req.End)

	// The range is inclusive on both calendar days, so the raw fetch runs
	// to the start of the day after end.
	rawEnd := types.GranularityDaily.Next(end)

	events, err := uc.repo.ListEventsBetween(ctx, start, rawEnd, req.locationFilter())
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError(err, "list share events")
	}

	type dedupKey struct {
		network  string
		ip       string
		bucket   int64
		shareURL string
		location string
	}
	type bucketKey struct {
		bucket   int64
		network  string
		location string
		postID   int64
	}

	seen := make(map[dedupKey]bool)
	buckets := make(map[bucketKey]*types.AggregateBucket)

	for _, ev := range events {
		eventDay := types.GranularityDaily.Truncate(ev.SharingDate)
		if eventDay.Before(start) || eventDay.After(end) {
			continue
		}
		bucket := g.Truncate(ev.SharingDate)

		dk := dedupKey{ev.NetworkName, ev.IPAddress, bucket.Unix(), ev.ShareURL, ev.Location}
		if seen[dk] {
			continue
		}
		seen[dk] = true

		bk := bucketKey{bucket.Unix(), ev.NetworkName, ev.Location, ev.PostID}
		if b, ok := buckets[bk]; ok {
			b.Total++
			continue
		}
		buckets[bk] = &types.AggregateBucket{
			DateLabel:   g.Label(bucket),
			Date:        bucket,
			NetworkName: ev.NetworkName,
			Location:    ev.Location,
			PostID:      ev.PostID,
			Total:       1,
		}
	}

	result := make([]*types.AggregateBucket, 0, len(buckets))
	for _, b := range buckets {
		result = append(result, b)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		if result[i].NetworkName != result[j].NetworkName {
			return result[i].NetworkName < result[j].NetworkName
		}
		if result[i].Location != result[j].Location {
			return result[i].Location < result[j].Location
		}
		return result[i].PostID < result[j].PostID
	})

	return result, nil
}
