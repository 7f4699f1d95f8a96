package biz

import (
	"context"

	"github.com/gubbigubbi/easy-social-sharing/internal/network/types"
	apperrors "github.com/gubbigubbi/easy-social-sharing/internal/pkg/errors"
	"github.com/gubbigubbi/easy-social-sharing/internal/pkg/validator"
)

// NetworkRepo defines the repository interface for network registry storage
type NetworkRepo interface {
	List(ctx context.Context) ([]*types.Network, error)
	GetByID(ctx context.Context, id int64) (*types.Network, error)
	Create(ctx context.Context, network *types.Network) error
	Update(ctx context.Context, network *types.Network) error
	Delete(ctx context.Context, id int64) error
}

// Config carries the registry policy inputs. They are injected explicitly so
// tests can pin them instead of reading process-wide state.
type Config struct {
	// Restrict AllowedNetworkNames to networks with a counting API
	APISupportOnly bool

	// Names of networks recognized as having a supported counting API
	APISupportedNames []string

	// Label returned for unknown or empty network names
	DefaultLabel string
}

// fieldNormalizer pairs a persisted field name with its pure normalization
// function. The table replaces the upstream idea of dispatching to a
// "format_<field>" method by name at write time.
type fieldNormalizer struct {
	field string
	apply func(n *types.Network)
}

// NetworkUseCase contains business logic for the network registry
type NetworkUseCase struct {
	repo         NetworkRepo
	config       Config
	apiSupported map[string]bool
	normalizers  []fieldNormalizer
}

// NewNetworkUseCase creates a new network registry use case
func NewNetworkUseCase(repo NetworkRepo, config Config) *NetworkUseCase {
	supported := make(map[string]bool, len(config.APISupportedNames))
	for _, name := range config.APISupportedNames {
		supported[name] = true
	}

	uc := &NetworkUseCase{
		repo:         repo,
		config:       config,
		apiSupported: supported,
	}
	uc.normalizers = []fieldNormalizer{
		{"network_name", func(n *types.Network) { n.Name = validator.CleanLower(n.Name) }},
		{"network_desc", func(n *types.Network) { n.Description = validator.CleanText(n.Description) }},
		{"network_count", func(n *types.Network) {
			if n.Count < 0 {
				n.Count = 0
			}
		}},
		{"network_order", func(n *types.Network) {
			if n.Order < 0 {
				n.Order = 0
			}
		}},
		{"is_api_support", func(n *types.Network) { n.APISupport = uc.apiSupported[n.Name] }},
	}
	return uc
}

// ListNetworks returns all networks ordered by display order, with the
// formatted label resolved for each.
func (uc *NetworkUseCase) ListNetworks(ctx context.Context) ([]*types.Network, error) {
	networks, err := uc.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError(err, "list networks")
	}

	for _, n := range networks {
		n.FormattedName = uc.FormattedName(n.Name)
	}

	return networks, nil
}

// NetworkNames returns all network names in display order
func (uc *NetworkUseCase) NetworkNames(ctx context.Context) ([]string, error) {
	networks, err := uc.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError(err, "list networks")
	}

	names := make([]string, 0, len(networks))
	for _, n := range networks {
		names = append(names, n.Name)
	}

	return names, nil
}

// AllowedNetworkNames returns the network names eligible for display and
// counting. When the registry is configured as API-support-only, the list is
// the registry order intersected with the supported-API set; otherwise it is
// every registered name. Order is always registry order.
func (uc *NetworkUseCase) AllowedNetworkNames(ctx context.Context) ([]string, error) {
	names, err := uc.NetworkNames(ctx)
	if err != nil {
		return nil, err
	}

	if !uc.config.APISupportOnly {
		return names, nil
	}

	allowed := make([]string, 0, len(names))
	for _, name := range names {
		if uc.apiSupported[name] {
			allowed = append(allowed, name)
		}
	}

	return allowed, nil
}

// HasAPISupport reports whether a network has a supported counting API
func (uc *NetworkUseCase) HasAPISupport(name string) bool {
	return uc.apiSupported[name]
}

// FormattedName returns the display label for a network name. Unknown or
// empty names resolve to the configured default label rather than an error,
// so a widget never renders a blank button.
func (uc *NetworkUseCase) FormattedName(name string) string {
	if label, ok := types.CoreNetworkLabels[name]; ok {
		return label
	}
	return uc.config.DefaultLabel
}

// normalize runs every field normalizer over the network before persistence
func (uc *NetworkUseCase) normalize(n *types.Network) {
	for _, f := range uc.normalizers {
		f.apply(n)
	}
}

// CreateNetwork registers a new network after field normalization
func (uc *NetworkUseCase) CreateNetwork(ctx context.Context, network *types.Network) (*types.Network, error) {
	uc.normalize(network)

	if network.Name == "" {
		return nil, apperrors.New(apperrors.ErrNetworkInvalidInput, "network name is required")
	}

	if err := uc.repo.Create(ctx, network); err != nil {
		return nil, apperrors.NewStoreUnavailableError(err, "create network")
	}

	network.FormattedName = uc.FormattedName(network.Name)
	return network, nil
}

// UpdateNetwork updates an existing network after field normalization
func (uc *NetworkUseCase) UpdateNetwork(ctx context.Context, id int64, network *types.Network) (*types.Network, error) {
	existing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	network.ID = existing.ID
	if network.Name == "" {
		network.Name = existing.Name
	}
	uc.normalize(network)

	if err := uc.repo.Update(ctx, network); err != nil {
		return nil, apperrors.NewStoreUnavailableError(err, "update network")
	}

	network.FormattedName = uc.FormattedName(network.Name)
	return network, nil
}

// DeleteNetwork removes a network from the registry
func (uc *NetworkUseCase) DeleteNetwork(ctx context.Context, id int64) error {
	if _, err := uc.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return apperrors.NewStoreUnavailableError(err, "delete network")
	}

	return nil
}
