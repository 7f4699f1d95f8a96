package biz

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	networkbiz "github.com/gubbigubbi/easy-social-sharing/internal/network/biz"
	networktypes "github.com/gubbigubbi/easy-social-sharing/internal/network/types"
	apperrors "github.com/gubbigubbi/easy-social-sharing/internal/pkg/errors"
	"github.com/gubbigubbi/easy-social-sharing/internal/pkg/logger"
	"github.com/gubbigubbi/easy-social-sharing/internal/pkg/workerpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCacheRepo struct {
	mu      sync.Mutex
	entries map[string]*CachedCount
	gets    int
	sets    int
	getErr  error
	setErr  error
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{entries: make(map[string]*CachedCount)}
}

func (f *fakeCacheRepo) key(postID int64, network string) string {
	return strconv.FormatInt(postID, 10) + "/" + network
}

func (f *fakeCacheRepo) Get(ctx context.Context, postID int64, network string) (*CachedCount, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	entry, ok := f.entries[f.key(postID, network)]
	if !ok {
		return nil, false, nil
	}
	cp := *entry
	return &cp, true, nil
}

func (f *fakeCacheRepo) Set(ctx context.Context, postID int64, network string, entry *CachedCount) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	cp := *entry
	f.entries[f.key(postID, network)] = &cp
	return nil
}

func (f *fakeCacheRepo) stored(postID int64, network string) *CachedCount {
	return f.entries[f.key(postID, network)]
}

type fakeFetcher struct {
	counts map[string]int
	err    error
	calls  int
}

func (f *fakeFetcher) Fetch(ctx context.Context, network, pageURL string, postID int64) (int, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.counts[network], nil
}

type fakeStats struct {
	prior map[string]int64
	err   error
}

func (f *fakeStats) CountPriorEvents(ctx context.Context, network, shareURL, ipAddress string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.prior[network+"|"+shareURL+"|"+ipAddress], nil
}

type fakeNetworkRepo struct {
	networks []*networktypes.Network
	err      error
}

func (f *fakeNetworkRepo) List(ctx context.Context) ([]*networktypes.Network, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.networks, nil
}

func (f *fakeNetworkRepo) GetByID(ctx context.Context, id int64) (*networktypes.Network, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeNetworkRepo) Create(ctx context.Context, n *networktypes.Network) error { return nil }
func (f *fakeNetworkRepo) Update(ctx context.Context, n *networktypes.Network) error { return nil }
func (f *fakeNetworkRepo) Delete(ctx context.Context, id int64) error                { return nil }

type testEnv struct {
	uc      *CountUseCase
	cache   *fakeCacheRepo
	fetcher *fakeFetcher
	stats   *fakeStats
	now     time.Time
}

func newTestEnv(t *testing.T, networks []*networktypes.Network, apiSupported []string) *testEnv {
	t.Helper()

	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "console"})
	require.NoError(t, err)

	networkUC := networkbiz.NewNetworkUseCase(&fakeNetworkRepo{networks: networks}, networkbiz.Config{
		APISupportedNames: apiSupported,
		DefaultLabel:      "Facebook",
	})

	env := &testEnv{
		cache:   newFakeCacheRepo(),
		fetcher: &fakeFetcher{counts: make(map[string]int)},
		stats:   &fakeStats{prior: make(map[string]int64)},
		now:     time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
	}

	env.uc = NewCountUseCase(env.cache, env.fetcher, networkUC, env.stats, nil, Config{
		CacheInterval: time.Hour,
		FetchTimeout:  time.Second,
	}, log)
	env.uc.now = func() time.Time { return env.now }

	return env
}

func network(name string, order int) *networktypes.Network {
	return &networktypes.Network{Name: name, Order: order}
}

func TestGetDisplayCount_InvalidInput(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	_, err := env.uc.GetDisplayCount(context.Background(), &CountRequest{NetworkName: "", PostID: 1})
	assert.True(t, apperrors.Is(err, apperrors.ErrShareInvalidInput))

	_, err = env.uc.GetDisplayCount(context.Background(), &CountRequest{NetworkName: "twitter", PostID: 0})
	assert.True(t, apperrors.Is(err, apperrors.ErrShareInvalidInput))

	// No cache entry must be written for rejected input
	assert.Equal(t, 0, env.cache.sets)
}

func TestGetDisplayCount_FreshCacheIsServedWithoutFetchOrRewrite(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	env.cache.entries[env.cache.key(7, "twitter")] = &CachedCount{
		Counts:      120,
		LastUpdated: env.now.Add(-10 * time.Minute),
	}

	req := &CountRequest{NetworkName: "twitter", PostID: 7, PageURL: "https://example.com/p"}

	first, err := env.uc.GetDisplayCount(context.Background(), req)
	require.NoError(t, err)
	second, err := env.uc.GetDisplayCount(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "120", first.Output)
	assert.Equal(t, first.Output, second.Output)
	assert.Equal(t, 0, env.fetcher.calls)
	assert.Equal(t, 0, env.cache.sets)
	assert.Equal(t, 2, env.cache.gets)
}

func TestGetDisplayCount_SuccessfulFetchOverwritesAndClearsForce(t *testing.T) {
	env := newTestEnv(t, nil, []string{"twitter"})
	env.cache.entries[env.cache.key(7, "twitter")] = &CachedCount{
		Counts:      500,
		LastUpdated: env.now.Add(-10 * time.Minute),
		ForceUpdate: true,
	}
	env.fetcher.counts["twitter"] = 42

	res, err := env.uc.GetDisplayCount(context.Background(), &CountRequest{
		NetworkName: "twitter", PostID: 7, PageURL: "https://example.com/p",
	})
	require.NoError(t, err)

	// An authoritative fetch may lower the count
	assert.Equal(t, 42, res.Counts)

	stored := env.cache.stored(7, "twitter")
	require.NotNil(t, stored)
	assert.Equal(t, 42, stored.Counts)
	assert.False(t, stored.ForceUpdate)
	assert.Equal(t, env.now, stored.LastUpdated)
}

func TestGetDisplayCount_StaleFallbackKeepsPreviousCount(t *testing.T) {
	env := newTestEnv(t, nil, []string{"twitter"})
	env.cache.entries[env.cache.key(7, "twitter")] = &CachedCount{
		Counts:      88,
		LastUpdated: env.now.Add(-2 * time.Hour),
	}

	res, err := env.uc.GetDisplayCount(context.Background(), &CountRequest{
		NetworkName: "twitter", PostID: 7, PageURL: "https://example.com/p",
	})
	require.NoError(t, err)

	assert.Equal(t, 88, res.Counts)

	stored := env.cache.stored(7, "twitter")
	require.NotNil(t, stored)
	assert.Equal(t, 88, stored.Counts)
	assert.True(t, stored.ForceUpdate)
}

func TestGetDisplayCount_FetchErrorDegradesToFallback(t *testing.T) {
	env := newTestEnv(t, nil, []string{"twitter"})
	env.fetcher.err = errors.New("connection refused")
	env.cache.entries[env.cache.key(7, "twitter")] = &CachedCount{
		Counts:      15,
		LastUpdated: env.now.Add(-2 * time.Hour),
	}

	res, err := env.uc.GetDisplayCount(context.Background(), &CountRequest{
		NetworkName: "twitter", PostID: 7, PageURL: "https://example.com/p",
	})
	require.NoError(t, err)
	assert.Equal(t, 15, res.Counts)
	assert.True(t, env.cache.stored(7, "twitter").ForceUpdate)
}

func TestGetDisplayCount_ClickWithoutAPISupportIncrementsOncePerOrigin(t *testing.T) {
	env := newTestEnv(t, nil, []string{"twitter"})

	req := func(ip string) *CountRequest {
		return &CountRequest{
			NetworkName: "whatsapp", PostID: 7, PageURL: "https://example.com/p",
			IsClick: true, OriginIP: ip,
		}
	}

	res, err := env.uc.GetDisplayCount(context.Background(), req("10.0.0.1"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Counts)

	// Second click from a different origin increments again
	res, err = env.uc.GetDisplayCount(context.Background(), req("10.0.0.2"))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Counts)

	// A repeat click from a known origin must not inflate the tally
	env.stats.prior["whatsapp|https://example.com/p|10.0.0.1"] = 1
	res, err = env.uc.GetDisplayCount(context.Background(), req("10.0.0.1"))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Counts)
}

func TestGetDisplayCount_ClickWithAPISupportForcesRetryWithoutIncrement(t *testing.T) {
	env := newTestEnv(t, nil, []string{"twitter"})
	env.cache.entries[env.cache.key(7, "twitter")] = &CachedCount{
		Counts:      30,
		LastUpdated: env.now.Add(-2 * time.Hour),
	}

	res, err := env.uc.GetDisplayCount(context.Background(), &CountRequest{
		NetworkName: "twitter", PostID: 7, PageURL: "https://example.com/p",
		IsClick: true, OriginIP: "10.0.0.1",
	})
	require.NoError(t, err)

	assert.Equal(t, 30, res.Counts)

	stored := env.cache.stored(7, "twitter")
	require.NotNil(t, stored)
	assert.True(t, stored.ForceUpdate, "next read must retry the fetch")

	// The next display read takes the refresh path and picks up the fetch
	env.fetcher.counts["twitter"] = 31
	res, err = env.uc.GetDisplayCount(context.Background(), &CountRequest{
		NetworkName: "twitter", PostID: 7, PageURL: "https://example.com/p",
	})
	require.NoError(t, err)
	assert.Equal(t, 31, res.Counts)
	assert.False(t, env.cache.stored(7, "twitter").ForceUpdate)
}

func TestGetDisplayCount_SuccessfulFetchOnClickWithAPISupportStillForcesUpdate(t *testing.T) {
	env := newTestEnv(t, nil, []string{"twitter"})
	env.fetcher.counts["twitter"] = 50

	res, err := env.uc.GetDisplayCount(context.Background(), &CountRequest{
		NetworkName: "twitter", PostID: 7, PageURL: "https://example.com/p",
		IsClick: true, OriginIP: "10.0.0.1",
	})
	require.NoError(t, err)

	assert.Equal(t, 50, res.Counts)
	assert.True(t, env.cache.stored(7, "twitter").ForceUpdate)
}

func TestGetDisplayCount_ThresholdGating(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	env.cache.entries[env.cache.key(7, "twitter")] = &CachedCount{
		Counts:      10,
		LastUpdated: env.now.Add(-time.Minute),
	}

	below, err := env.uc.GetDisplayCount(context.Background(), &CountRequest{
		NetworkName: "twitter", PostID: 7, PageURL: "https://example.com/p", MinCount: 11,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, below.Counts)
	assert.Empty(t, below.Output)

	at, err := env.uc.GetDisplayCount(context.Background(), &CountRequest{
		NetworkName: "twitter", PostID: 7, PageURL: "https://example.com/p", MinCount: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, "10", at.Output)
}

func TestGetDisplayCount_CacheErrorsPropagate(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	env.cache.getErr = errors.New("redis down")

	_, err := env.uc.GetDisplayCount(context.Background(), &CountRequest{
		NetworkName: "twitter", PostID: 7, PageURL: "https://example.com/p",
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrStoreUnavailable))
}

func TestGetTotalCount_SumsAllowedNetworksInRegistryOrder(t *testing.T) {
	networks := []*networktypes.Network{
		network("facebook", 1),
		network("twitter", 2),
		network("pinterest", 3),
	}
	env := newTestEnv(t, networks, []string{"facebook", "twitter", "pinterest"})

	for name, counts := range map[string]int{"facebook": 5, "twitter": 12, "pinterest": 0} {
		env.cache.entries[env.cache.key(7, name)] = &CachedCount{
			Counts:      counts,
			LastUpdated: env.now.Add(-time.Minute),
		}
	}

	res, err := env.uc.GetTotalCount(context.Background(), 7, "https://example.com/p")
	require.NoError(t, err)

	assert.Equal(t, 17, res.Counts)
	assert.Equal(t, "17", res.Output)
	assert.Equal(t, 0, env.fetcher.calls)
}

func TestGetTotalCount_PooledResolutionMatchesSerial(t *testing.T) {
	networks := []*networktypes.Network{
		network("facebook", 1),
		network("twitter", 2),
		network("pinterest", 3),
	}
	env := newTestEnv(t, networks, nil)

	pool, err := workerpool.New(2)
	require.NoError(t, err)
	defer pool.Release()
	env.uc.pool = pool

	for name, counts := range map[string]int{"facebook": 5, "twitter": 12, "pinterest": 3} {
		env.cache.entries[env.cache.key(7, name)] = &CachedCount{
			Counts:      counts,
			LastUpdated: env.now.Add(-time.Minute),
		}
	}

	res, err := env.uc.GetTotalCount(context.Background(), 7, "https://example.com/p")
	require.NoError(t, err)
	assert.Equal(t, 20, res.Counts)
	assert.Equal(t, "20", res.Output)
}

func TestGetTotalCount_RegistryErrorPropagates(t *testing.T) {
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "console"})
	require.NoError(t, err)

	networkUC := networkbiz.NewNetworkUseCase(&fakeNetworkRepo{err: errors.New("db down")}, networkbiz.Config{})
	uc := NewCountUseCase(newFakeCacheRepo(), &fakeFetcher{}, networkUC, &fakeStats{}, nil, Config{}, log)

	_, err = uc.GetTotalCount(context.Background(), 7, "https://example.com/p")
	assert.True(t, apperrors.Is(err, apperrors.ErrStoreUnavailable))
}

func TestGetDisplayCount_StatsErrorTreatsClickAsRepeat(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	env.stats.err = errors.New("statistics store down")
	env.cache.entries[env.cache.key(7, "whatsapp")] = &CachedCount{
		Counts:      9,
		LastUpdated: env.now.Add(-time.Minute),
	}

	res, err := env.uc.GetDisplayCount(context.Background(), &CountRequest{
		NetworkName: "whatsapp", PostID: 7, PageURL: "https://example.com/p",
		IsClick: true, OriginIP: "10.0.0.1",
	})
	require.NoError(t, err)

	// Served from cache, no increment without the dedup signal
	assert.Equal(t, 9, res.Counts)
	assert.Equal(t, 0, env.cache.sets)
}
