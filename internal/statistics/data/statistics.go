package data

import (
	"context"
	"time"

	"github.com/gubbigubbi/easy-social-sharing/internal/pkg/database"
	"github.com/gubbigubbi/easy-social-sharing/internal/statistics/biz"
	"github.com/gubbigubbi/easy-social-sharing/internal/statistics/types"
)

// ShareEventPO is the database model for recorded share events
type ShareEventPO struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	NetworkName string    `gorm:"column:network_name;size:100;not null;index:idx_ess_statistics_origin,priority:1"`
	SharingDate time.Time `gorm:"column:sharing_date;not null;index"`
	PostID      int64     `gorm:"column:post_id;not null;index"`
	IPInfo      string    `gorm:"column:ip_info;type:text"`
	IPAddress   string    `gorm:"column:ip_address;size:64;not null;index:idx_ess_statistics_origin,priority:3"`
	Location    string    `gorm:"column:share_location;size:191"`
	ShareURL    string    `gorm:"column:share_url;size:191;not null;index:idx_ess_statistics_origin,priority:2"`
	LatestCount int       `gorm:"column:latest_count;not null;default:0"`
}

func (ShareEventPO) TableName() string {
	return "ess_social_statistics"
}

// StatisticsRepo implements biz.StatisticsRepo on Postgres
type StatisticsRepo struct {
	db *database.DB
}

// NewStatisticsRepo creates a new statistics repository
func NewStatisticsRepo(db *database.DB) biz.StatisticsRepo {
	return &StatisticsRepo{db: db}
}

// Insert appends one share event row
func (r *StatisticsRepo) Insert(ctx context.Context, event *types.ShareEvent) (int64, error) {
	po := &ShareEventPO{
		NetworkName: event.NetworkName,
		SharingDate: event.SharingDate,
		PostID:      event.PostID,
		IPInfo:      event.IPInfo,
		IPAddress:   event.IPAddress,
		Location:    event.Location,
		ShareURL:    event.ShareURL,
		LatestCount: event.LatestCount,
	}

	res := r.db.WithContext(ctx).GetDB().Create(po)
	if res.Error != nil {
		return 0, res.Error
	}

	event.ID = po.ID
	return res.RowsAffected, nil
}

// CountPriorEvents counts events matching network, share URL and origin IP
func (r *StatisticsRepo) CountPriorEvents(ctx context.Context, networkName, shareURL, ipAddress string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).GetDB().
		Model(&ShareEventPO{}).
		Where("network_name = ? AND share_url = ? AND ip_address = ?", networkName, shareURL, ipAddress).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// ListEventsBetween returns events with start <= sharing_date < end,
// optionally restricted to a location, ascending by date
func (r *StatisticsRepo) ListEventsBetween(ctx context.Context, start, end time.Time, location string) ([]*types.ShareEvent, error) {
	query := r.db.WithContext(ctx).GetDB().
		Model(&ShareEventPO{}).
		Where("sharing_date >= ? AND sharing_date < ?", start, end)

	if location != "" {
		query = query.Where("share_location = ?", location)
	}

	var pos []ShareEventPO
	if err := query.Order("sharing_date ASC").Find(&pos).Error; err != nil {
		return nil, err
	}

	events := make([]*types.ShareEvent, 0, len(pos))
	for i := range pos {
		po := &pos[i]
		events = append(events, &types.ShareEvent{
			ID:          po.ID,
			NetworkName: po.NetworkName,
			PostID:      po.PostID,
			IPInfo:      po.IPInfo,
			IPAddress:   po.IPAddress,
			Location:    po.Location,
			ShareURL:    po.ShareURL,
			LatestCount: po.LatestCount,
			SharingDate: po.SharingDate,
		})
	}

	return events, nil
}
