package biz

import (
	"context"
	"time"

	networkbiz "github.com/gubbigubbi/easy-social-sharing/internal/network/biz"
	apperrors "github.com/gubbigubbi/easy-social-sharing/internal/pkg/errors"
	"github.com/gubbigubbi/easy-social-sharing/internal/pkg/logger"
	"github.com/gubbigubbi/easy-social-sharing/internal/pkg/validator"
	"github.com/gubbigubbi/easy-social-sharing/internal/pkg/workerpool"
	"go.uber.org/zap"
)

// CachedCount is the stored count state for one (post, network) pair.
// It is always written as a whole, so concurrent refreshes degrade to
// last-writer-wins rather than corruption.
type CachedCount struct {
	Counts      int       `json:"counts"`
	LastUpdated time.Time `json:"last_updated"`
	ForceUpdate bool      `json:"force_update"`
}

// CacheRepo defines the persistent count cache keyed by (post, network)
type CacheRepo interface {
	// Get returns the cached entry and whether one exists
	Get(ctx context.Context, postID int64, networkName string) (*CachedCount, bool, error)

	// Set overwrites the cached entry
	Set(ctx context.Context, postID int64, networkName string, entry *CachedCount) error
}

// CountFetcher fetches the authoritative share count from a network's
// public API. A zero result means the network could not provide a count.
type CountFetcher interface {
	Fetch(ctx context.Context, networkName, pageURL string, postID int64) (int, error)
}

// PriorEventCounter is the read-side dedup signal from the statistics store
type PriorEventCounter interface {
	CountPriorEvents(ctx context.Context, networkName, shareURL, ipAddress string) (int64, error)
}

// Config carries the count cache policy knobs
type Config struct {
	// Age after which a cached count is stale
	CacheInterval time.Duration

	// Upper bound for one external fetch; failures degrade to the
	// fallback branch instead of blocking the caller
	FetchTimeout time.Duration
}

// CountRequest describes one display-count lookup
type CountRequest struct {
	NetworkName string
	PostID      int64
	PageURL     string
	MinCount    int
	IsClick     bool
	OriginIP    string // only consulted for click events
}

// CountResult carries both the raw count and its display form
type CountResult struct {
	Counts int    `json:"counts"`
	Output string `json:"output"` // empty when below the minimum threshold
}

// CountUseCase decides whether to serve a cached share count or refresh it
// from the network, and applies the fallback/increment policy when the
// network cannot be queried.
type CountUseCase struct {
	cache    CacheRepo
	fetcher  CountFetcher
	networks *networkbiz.NetworkUseCase
	stats    PriorEventCounter
	pool     *workerpool.Pool
	config   Config
	logger   *logger.Logger

	now func() time.Time
}

// NewCountUseCase creates a new count cache use case. The pool is optional;
// without one, total-count lookups resolve networks sequentially.
func NewCountUseCase(
	cache CacheRepo,
	fetcher CountFetcher,
	networks *networkbiz.NetworkUseCase,
	stats PriorEventCounter,
	pool *workerpool.Pool,
	config Config,
	log *logger.Logger,
) *CountUseCase {
	if config.CacheInterval <= 0 {
		config.CacheInterval = 6 * time.Hour
	}
	if config.FetchTimeout <= 0 {
		config.FetchTimeout = 10 * time.Second
	}
	return &CountUseCase{
		cache:    cache,
		fetcher:  fetcher,
		networks: networks,
		stats:    stats,
		pool:     pool,
		config:   config,
		logger:   log,
		now:      time.Now,
	}
}

// GetDisplayCount resolves the share count for one (post, network) pair and
// formats it for display. The empty output below MinCount is deliberate: the
// widget hides counts until they reach the configured threshold.
func (uc *CountUseCase) GetDisplayCount(ctx context.Context, req *CountRequest) (*CountResult, error) {
	counts, err := uc.shareCount(ctx, req)
	if err != nil {
		return nil, err
	}

	res := &CountResult{Counts: counts}
	if counts >= req.MinCount {
		res.Output = FormatCompact(counts)
	}
	return res, nil
}

// GetTotalCount sums the per-network counts for every allowed network and
// formats the sum. There is no separately cached total; each call walks the
// per-network cache path. With a pool present the networks resolve
// concurrently, since each count may involve its own external fetch.
func (uc *CountUseCase) GetTotalCount(ctx context.Context, postID int64, pageURL string) (*CountResult, error) {
	allowed, err := uc.networks.AllowedNetworkNames(ctx)
	if err != nil {
		return nil, err
	}

	counts := make([]int, len(allowed))
	errs := make([]error, len(allowed))

	resolve := func(i int, name string) func() {
		return func() {
			counts[i], errs[i] = uc.shareCount(ctx, &CountRequest{
				NetworkName: name,
				PostID:      postID,
				PageURL:     pageURL,
			})
		}
	}

	if uc.pool != nil && len(allowed) > 1 {
		tasks := make([]func(), len(allowed))
		for i, name := range allowed {
			tasks[i] = resolve(i, name)
		}
		uc.pool.Run(tasks)
	} else {
		for i, name := range allowed {
			resolve(i, name)()
		}
	}

	total := 0
	for i := range allowed {
		if errs[i] != nil {
			return nil, errs[i]
		}
		total += counts[i]
	}

	return &CountResult{Counts: total, Output: FormatCompact(total)}, nil
}

// shareCount runs the freshness decision and returns the resulting count.
//
// Fresh path: serve the stored value without touching storage again.
// Refresh path: ask the network, fall back to the previous value on
// zero/failure, and persist the outcome with a new timestamp.
func (uc *CountUseCase) shareCount(ctx context.Context, req *CountRequest) (int, error) {
	networkName := validator.CleanLower(req.NetworkName)
	if networkName == "" || req.PostID <= 0 {
		return 0, apperrors.New(apperrors.ErrShareInvalidInput, "network and post id are required")
	}

	entry, found, err := uc.cache.Get(ctx, req.PostID, networkName)
	if err != nil {
		return 0, apperrors.NewStoreUnavailableError(err, "read count cache")
	}
	if !found {
		// Absent entries read as zero with an implicit forced refresh
		entry = &CachedCount{ForceUpdate: true}
	}

	// For click events the dedup signal is resolved once and reused by both
	// the freshness gate and the manual-increment branch
	repeatClick := false
	if req.IsClick {
		repeatClick = uc.hasPriorEvents(ctx, networkName, req)
	}

	if uc.isFresh(entry, req.IsClick, repeatClick) {
		return entry.Counts, nil
	}

	apiSupport := uc.networks.HasAPISupport(networkName)

	fetched := uc.fetchCount(ctx, networkName, req.PageURL, req.PostID)

	next := &CachedCount{LastUpdated: uc.now().UTC()}
	if fetched > 0 {
		next.Counts = fetched
		next.ForceUpdate = false
	} else {
		next.Counts = entry.Counts
		next.ForceUpdate = true
		if req.IsClick && !apiSupport && !repeatClick {
			// Manual tally for networks the system cannot query. Only the
			// first event from an origin counts; repeat clicks must not
			// inflate the tally.
			next.Counts++
		}
	}

	if req.IsClick && apiSupport {
		// The click itself is not trusted as a count; force the next
		// read to retry the network instead
		next.ForceUpdate = true
	}

	if err := uc.cache.Set(ctx, req.PostID, networkName, next); err != nil {
		return 0, apperrors.NewStoreUnavailableError(err, "write count cache")
	}

	return next.Counts, nil
}

// isFresh decides whether the stored entry may be served as-is. For click
// events the entry only counts as fresh when the same origin has already
// recorded an event for this network and URL; a first click must take the
// refresh path so the manual tally can happen at most once per origin.
func (uc *CountUseCase) isFresh(entry *CachedCount, isClick, repeatClick bool) bool {
	if entry.ForceUpdate {
		return false
	}
	if entry.LastUpdated.IsZero() || uc.now().Sub(entry.LastUpdated) >= uc.config.CacheInterval {
		return false
	}
	if !isClick {
		return true
	}
	return repeatClick
}

// hasPriorEvents asks the statistics store whether this origin already
// recorded an event for the network and URL.
func (uc *CountUseCase) hasPriorEvents(ctx context.Context, networkName string, req *CountRequest) bool {
	prior, err := uc.stats.CountPriorEvents(ctx, networkName, req.PageURL, req.OriginIP)
	if err != nil {
		// Without the dedup signal the safe choice is to treat the click
		// as a repeat, keeping manual increments bounded
		uc.logger.Warn("prior event lookup failed, treating click as repeat",
			zap.String("network", networkName),
			zap.Error(err),
		)
		return true
	}
	return prior > 0
}

// fetchCount queries the external network under the configured timeout.
// Any failure is swallowed and reported as zero so the caller degrades to
// the fallback branch.
func (uc *CountUseCase) fetchCount(ctx context.Context, networkName, pageURL string, postID int64) int {
	fetchCtx, cancel := context.WithTimeout(ctx, uc.config.FetchTimeout)
	defer cancel()

	counts, err := uc.fetcher.Fetch(fetchCtx, networkName, pageURL, postID)
	if err != nil {
		uc.logger.Warn("share count fetch failed",
			zap.String("network", networkName),
			zap.String("url", pageURL),
			zap.Error(err),
		)
		return 0
	}
	if counts < 0 {
		return 0
	}
	return counts
}
