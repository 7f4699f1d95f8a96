package data

import (
	"context"

	"github.com/gubbigubbi/easy-social-sharing/internal/network/biz"
	"github.com/gubbigubbi/easy-social-sharing/internal/network/types"
	"github.com/gubbigubbi/easy-social-sharing/internal/pkg/database"
	apperrors "github.com/gubbigubbi/easy-social-sharing/internal/pkg/errors"
)

// NetworkPO is the database model for registered social networks
type NetworkPO struct {
	ID          int64  `gorm:"column:network_id;primaryKey;autoIncrement"`
	Name        string `gorm:"column:network_name;size:100;not null;uniqueIndex"`
	Description string `gorm:"column:network_desc;type:text"`
	Count       int    `gorm:"column:network_count;not null;default:0"`
	APISupport  bool   `gorm:"column:is_api_support;not null;default:false"`
	Order       int    `gorm:"column:network_order;not null;default:0"`
}

func (NetworkPO) TableName() string {
	return "ess_social_networks"
}

// NetworkRepo implements biz.NetworkRepo on Postgres
type NetworkRepo struct {
	db *database.DB
}

// NewNetworkRepo creates a new network repository
func NewNetworkRepo(db *database.DB) biz.NetworkRepo {
	return &NetworkRepo{db: db}
}

// List returns every network ordered ascending by display order
func (r *NetworkRepo) List(ctx context.Context) ([]*types.Network, error) {
	var pos []NetworkPO
	err := r.db.WithContext(ctx).GetDB().
		Order("network_order ASC").
		Find(&pos).Error
	if err != nil {
		return nil, err
	}

	networks := make([]*types.Network, 0, len(pos))
	for i := range pos {
		networks = append(networks, toNetwork(&pos[i]))
	}

	return networks, nil
}

// GetByID returns a single network by its id
func (r *NetworkRepo) GetByID(ctx context.Context, id int64) (*types.Network, error) {
	var po NetworkPO
	err := r.db.WithContext(ctx).GetDB().
		Where("network_id = ?", id).
		First(&po).Error
	if err != nil {
		if database.IsRecordNotFoundError(err) {
			return nil, apperrors.New(apperrors.ErrNetworkNotFound)
		}
		return nil, apperrors.NewStoreUnavailableError(err, "get network")
	}

	return toNetwork(&po), nil
}

// Create inserts a new network row
func (r *NetworkRepo) Create(ctx context.Context, network *types.Network) error {
	po := toPO(network)
	if err := r.db.WithContext(ctx).GetDB().Create(po).Error; err != nil {
		return err
	}

	network.ID = po.ID
	return nil
}

// Update overwrites a network row
func (r *NetworkRepo) Update(ctx context.Context, network *types.Network) error {
	return r.db.WithContext(ctx).GetDB().
		Model(&NetworkPO{}).
		Where("network_id = ?", network.ID).
		Updates(map[string]interface{}{
			"network_name":   network.Name,
			"network_desc":   network.Description,
			"network_count":  network.Count,
			"is_api_support": network.APISupport,
			"network_order":  network.Order,
		}).Error
}

// Delete removes a network row
func (r *NetworkRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).GetDB().
		Where("network_id = ?", id).
		Delete(&NetworkPO{}).Error
}

func toNetwork(po *NetworkPO) *types.Network {
	return &types.Network{
		ID:          po.ID,
		Name:        po.Name,
		Description: po.Description,
		Count:       po.Count,
		APISupport:  po.APISupport,
		Order:       po.Order,
	}
}

func toPO(n *types.Network) *NetworkPO {
	return &NetworkPO{
		ID:          n.ID,
		Name:        n.Name,
		Description: n.Description,
		Count:       n.Count,
		APISupport:  n.APISupport,
		Order:       n.Order,
	}
}
