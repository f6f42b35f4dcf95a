package ports

import (
	"context"
	"time"

	"github.com/hearthgrid/smarthouse/internal/domain"
)

// DeviceCache is a read-through cache over GetByID lookups. A miss or a
// cache failure falls back to the repository.
type DeviceCache interface {
	Get(ctx context.Context, id int64) (domain.Device, bool)
	Set(ctx context.Context, device domain.Device, ttl time.Duration)
	Invalidate(ctx context.Context, id int64)
}
