package ports

import (
	"context"

	"github.com/hearthgrid/smarthouse/internal/domain"
)

// DeviceRepository is the authoritative device store, owned exclusively by
// the device-management write path.
type DeviceRepository interface {
	Create(ctx context.Context, input domain.NewDevice, externalID *int64) (domain.Device, error)
	GetByID(ctx context.Context, id int64) (domain.Device, error)
	List(ctx context.Context, filter domain.DeviceFilter) ([]domain.Device, error)
	Update(ctx context.Context, id int64, changes domain.DeviceChanges) (domain.Device, error)
	Delete(ctx context.Context, id int64) error
}

// DeviceReplica is the derived store maintained solely by replaying device
// events. Upsert and Delete must be idempotent: repeated application of the
// same input converges to the same final state.
type DeviceReplica interface {
	Upsert(ctx context.Context, snapshot domain.DeviceSnapshot) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}
