package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hearthgrid/smarthouse/internal/domain"
)

type deviceRepository struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) *deviceRepository {
	return &deviceRepository{db: db}
}

func (r *deviceRepository) Create(ctx context.Context, input domain.NewDevice, externalID *int64) (domain.Device, error) {
	now := time.Now().UTC()
	rec := deviceModel{
		ExternalID:     externalID,
		Name:           strings.TrimSpace(input.Name),
		Type:           strings.TrimSpace(input.Type),
		Description:    nullable(input.Description),
		Location:       nullable(input.Location),
		ConnectionInfo: jsonObject(input.ConnectionInfo),
		Tags:           stringList(input.Tags),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.Device{}, domain.ErrConflict
		}
		return domain.Device{}, err
	}
	return toDomainDevice(rec), nil
}

func (r *deviceRepository) GetByID(ctx context.Context, id int64) (domain.Device, error) {
	var rec deviceModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Device{}, domain.ErrNotFound
		}
		return domain.Device{}, err
	}
	return toDomainDevice(rec), nil
}

func (r *deviceRepository) List(ctx context.Context, filter domain.DeviceFilter) ([]domain.Device, error) {
	query := r.db.WithContext(ctx).Model(&deviceModel{})
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Location != "" {
		query = query.Where("location = ?", filter.Location)
	}
	var recs []deviceModel
	if err := query.Order("id").Find(&recs).Error; err != nil {
		return nil, err
	}
	devices := make([]domain.Device, 0, len(recs))
	for _, rec := range recs {
		devices = append(devices, toDomainDevice(rec))
	}
	return devices, nil
}

func (r *deviceRepository) Update(ctx context.Context, id int64, changes domain.DeviceChanges) (domain.Device, error) {
	updates := map[string]any{
		"updated_at": time.Now().UTC(),
	}
	if changes.Name != nil {
		updates["name"] = strings.TrimSpace(*changes.Name)
	}
	if changes.Description != nil {
		updates["description"] = nullable(*changes.Description)
	}
	if changes.Location != nil {
		updates["location"] = nullable(*changes.Location)
	}
	if changes.ConnectionInfo != nil {
		updates["connection_info"] = jsonObject(changes.ConnectionInfo)
	}
	if changes.Tags != nil {
		updates["tags"] = stringList(changes.Tags)
	}

	result := r.db.WithContext(ctx).Model(&deviceModel{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return domain.Device{}, result.Error
	}
	if result.RowsAffected == 0 {
		return domain.Device{}, domain.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *deviceRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&deviceModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
