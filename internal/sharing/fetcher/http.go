package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gubbigubbi/easy-social-sharing/internal/conf"
	"github.com/gubbigubbi/easy-social-sharing/internal/pkg/logger"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// maxResponseBytes caps how much of a count API response is read
const maxResponseBytes = 1 << 20

// HTTPFetcher resolves share counts through the public count endpoints
// configured per network. It is entirely configuration driven: a network is
// queryable when it has an endpoint template and a gjson path to the count
// field, so no per-network client code exists.
type HTTPFetcher struct {
	client   *http.Client
	networks map[string]conf.APINetworkConfig
	logger   *logger.Logger
}

// NewHTTPFetcher creates a fetcher from the sharing configuration
func NewHTTPFetcher(cfg *conf.SharingConfig, log *logger.Logger) *HTTPFetcher {
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	networks := make(map[string]conf.APINetworkConfig, len(cfg.APINetworks))
	for _, n := range cfg.APINetworks {
		networks[n.Name] = n
	}

	return &HTTPFetcher{
		client:   NewHTTPClient(timeout),
		networks: networks,
		logger:   log,
	}
}

// Fetch queries the configured count endpoint for one network. Networks
// without an endpoint report zero, which the cache manager treats as
// unavailable.
func (f *HTTPFetcher) Fetch(ctx context.Context, networkName, pageURL string, postID int64) (int, error) {
	nc, ok := f.networks[networkName]
	if !ok || nc.Endpoint == "" {
		return 0, nil
	}

	endpoint := strings.ReplaceAll(nc.Endpoint, "{url}", url.QueryEscape(pageURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build count request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("count request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("count endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, fmt.Errorf("failed to read count response: %w", err)
	}

	result := gjson.GetBytes(body, nc.CountPath)
	if !result.Exists() {
		f.logger.Debug("count field missing from response",
			zap.String("network", networkName),
			zap.String("path", nc.CountPath),
		)
		return 0, nil
	}

	counts := int(result.Int())
	if counts < 0 {
		return 0, nil
	}

	return counts, nil
}
