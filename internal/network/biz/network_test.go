package biz

import (
	"context"
	"errors"
	"testing"

	"github.com/gubbigubbi/easy-social-sharing/internal/network/types"
	apperrors "github.com/gubbigubbi/easy-social-sharing/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNetworkRepo struct {
	networks []*types.Network
	listErr  error
	created  *types.Network
	updated  *types.Network
	deleted  int64
}

func (f *fakeNetworkRepo) List(ctx context.Context) ([]*types.Network, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.networks, nil
}

func (f *fakeNetworkRepo) GetByID(ctx context.Context, id int64) (*types.Network, error) {
	for _, n := range f.networks {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, apperrors.New(apperrors.ErrNetworkNotFound)
}

func (f *fakeNetworkRepo) Create(ctx context.Context, n *types.Network) error {
	f.created = n
	return nil
}

func (f *fakeNetworkRepo) Update(ctx context.Context, n *types.Network) error {
	f.updated = n
	return nil
}

func (f *fakeNetworkRepo) Delete(ctx context.Context, id int64) error {
	f.deleted = id
	return nil
}

func registry() []*types.Network {
	return []*types.Network{
		{ID: 1, Name: "facebook", Order: 1},
		{ID: 2, Name: "myspace", Order: 2},
		{ID: 3, Name: "twitter", Order: 3},
		{ID: 4, Name: "whatsapp", Order: 4},
	}
}

func TestListNetworks_ResolvesFormattedNames(t *testing.T) {
	repo := &fakeNetworkRepo{networks: registry()}
	uc := NewNetworkUseCase(repo, Config{DefaultLabel: "Facebook"})

	networks, err := uc.ListNetworks(context.Background())
	require.NoError(t, err)
	require.Len(t, networks, 4)

	assert.Equal(t, "Facebook", networks[0].FormattedName)
	// Unknown names fall back to the default label instead of blank
	assert.Equal(t, "Facebook", networks[1].FormattedName)
	assert.Equal(t, "Twitter", networks[2].FormattedName)
}

func TestListNetworks_StoreErrorIsWrapped(t *testing.T) {
	repo := &fakeNetworkRepo{listErr: errors.New("db down")}
	uc := NewNetworkUseCase(repo, Config{})

	_, err := uc.ListNetworks(context.Background())
	assert.True(t, apperrors.Is(err, apperrors.ErrStoreUnavailable))
}

func TestAllowedNetworkNames(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   []string
	}{
		{
			name:   "all names when not restricted",
			config: Config{APISupportedNames: []string{"facebook", "twitter"}},
			want:   []string{"facebook", "myspace", "twitter", "whatsapp"},
		},
		{
			name: "registry order intersected with supported set",
			config: Config{
				APISupportOnly:    true,
				APISupportedNames: []string{"twitter", "facebook"},
			},
			want: []string{"facebook", "twitter"},
		},
		{
			name:   "restricted with empty supported set",
			config: Config{APISupportOnly: true},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewNetworkUseCase(&fakeNetworkRepo{networks: registry()}, tt.config)
			got, err := uc.AllowedNetworkNames(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHasAPISupport(t *testing.T) {
	uc := NewNetworkUseCase(&fakeNetworkRepo{}, Config{APISupportedNames: []string{"facebook"}})

	assert.True(t, uc.HasAPISupport("facebook"))
	assert.False(t, uc.HasAPISupport("whatsapp"))
	assert.False(t, uc.HasAPISupport(""))
}

func TestFormattedName(t *testing.T) {
	uc := NewNetworkUseCase(&fakeNetworkRepo{}, Config{DefaultLabel: "Facebook"})

	assert.Equal(t, "VKontakte", uc.FormattedName("vkontakte"))
	assert.Equal(t, "Facebook", uc.FormattedName("not-a-network"))
	assert.Equal(t, "Facebook", uc.FormattedName(""))
}

func TestCreateNetwork_NormalizesFields(t *testing.T) {
	repo := &fakeNetworkRepo{}
	uc := NewNetworkUseCase(repo, Config{
		APISupportedNames: []string{"twitter"},
		DefaultLabel:      "Facebook",
	})

	created, err := uc.CreateNetwork(context.Background(), &types.Network{
		Name:        "  Twitter ",
		Description: "<b>Share</b> on Twitter",
		Count:       -3,
		Order:       -1,
		APISupport:  false,
	})
	require.NoError(t, err)
	require.NotNil(t, repo.created)

	assert.Equal(t, "twitter", created.Name)
	assert.Equal(t, "Share on Twitter", created.Description)
	assert.Equal(t, 0, created.Count)
	assert.Equal(t, 0, created.Order)
	// API support is derived from configuration, never trusted from input
	assert.True(t, created.APISupport)
	assert.Equal(t, "Twitter", created.FormattedName)
}

func TestCreateNetwork_RejectsEmptyName(t *testing.T) {
	uc := NewNetworkUseCase(&fakeNetworkRepo{}, Config{})

	_, err := uc.CreateNetwork(context.Background(), &types.Network{Name: " <i></i> "})
	assert.True(t, apperrors.Is(err, apperrors.ErrNetworkInvalidInput))
}

func TestUpdateNetwork_KeepsExistingNameWhenOmitted(t *testing.T) {
	repo := &fakeNetworkRepo{networks: registry()}
	uc := NewNetworkUseCase(repo, Config{DefaultLabel: "Facebook"})

	updated, err := uc.UpdateNetwork(context.Background(), 3, &types.Network{Order: 9})
	require.NoError(t, err)

	assert.Equal(t, int64(3), updated.ID)
	assert.Equal(t, "twitter", updated.Name)
	assert.Equal(t, 9, updated.Order)
}

func TestUpdateNetwork_UnknownID(t *testing.T) {
	uc := NewNetworkUseCase(&fakeNetworkRepo{networks: registry()}, Config{})

	_, err := uc.UpdateNetwork(context.Background(), 99, &types.Network{Name: "twitter"})
	assert.True(t, apperrors.Is(err, apperrors.ErrNetworkNotFound))
}

func TestDeleteNetwork(t *testing.T) {
	repo := &fakeNetworkRepo{networks: registry()}
	uc := NewNetworkUseCase(repo, Config{})

	require.NoError(t, uc.DeleteNetwork(context.Background(), 2))
	assert.Equal(t, int64(2), repo.deleted)

	err := uc.DeleteNetwork(context.Background(), 99)
	assert.True(t, apperrors.Is(err, apperrors.ErrNetworkNotFound))
}
