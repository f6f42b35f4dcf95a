package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hearthgrid/smarthouse/internal/domain"
	"github.com/hearthgrid/smarthouse/internal/ports"
)

// DeviceService orchestrates the device-management write path: validate,
// provision the external sensor when needed, persist to the authoritative
// store, then publish the post-commit snapshot.
//
// Publishing happens after the commit with no outbox or two-phase protocol.
// When a publish fails the request reports an error even though the
// authoritative write succeeded, and the derived store falls behind until the
// next successful event for that device. This is a known, accepted
// consistency gap.
type DeviceService struct {
	logger      *slog.Logger
	devices     ports.DeviceRepository
	publisher   ports.EventPublisher
	provisioner ports.SensorProvisioner
	cache       ports.DeviceCache
	cacheTTL    time.Duration
	now         func() time.Time
}

type DeviceServiceDeps struct {
	Logger      *slog.Logger
	Devices     ports.DeviceRepository
	Publisher   ports.EventPublisher
	Provisioner ports.SensorProvisioner
	Cache       ports.DeviceCache
	CacheTTL    time.Duration
	Now         func() time.Time
}

func NewDeviceService(deps DeviceServiceDeps) *DeviceService {
	if deps.Now == nil {
		deps.Now = func() time.Time { return time.Now().UTC() }
	}
	if deps.Cache == nil {
		deps.Cache = noopCache{}
	}
	return &DeviceService{
		logger:      deps.Logger,
		devices:     deps.Devices,
		publisher:   deps.Publisher,
		provisioner: deps.Provisioner,
		cache:       deps.Cache,
		cacheTTL:    deps.CacheTTL,
		now:         deps.Now,
	}
}

func (s *DeviceService) Create(ctx context.Context, input domain.NewDevice) (domain.Device, error) {
	if err := domain.ValidateNewDevice(input); err != nil {
		return domain.Device{}, err
	}

	var externalID *int64
	if input.Type == domain.DeviceTypeTemperatureSensor {
		id, err := s.provisioner.CreateSensor(ctx, ports.ProvisionSensorParams{
			Name:     input.Name,
			Type:     domain.DeviceTypeTemperatureSensor,
			Location: input.Location,
			Unit:     "C",
		})
		if err != nil {
			return domain.Device{}, fmt.Errorf("provision sensor: %w", err)
		}
		externalID = &id
	}

	device, err := s.devices.Create(ctx, input, externalID)
	if err != nil {
		return domain.Device{}, err
	}
	if err := s.publishSnapshot(ctx, domain.RoutingKeyDeviceCreated, device); err != nil {
		return domain.Device{}, err
	}
	return device, nil
}

func (s *DeviceService) Get(ctx context.Context, id int64) (domain.Device, error) {
	if device, ok := s.cache.Get(ctx, id); ok {
		return device, nil
	}
	device, err := s.devices.GetByID(ctx, id)
	if err != nil {
		return domain.Device{}, err
	}
	s.cache.Set(ctx, device, s.cacheTTL)
	return device, nil
}

func (s *DeviceService) List(ctx context.Context, filter domain.DeviceFilter) ([]domain.Device, error) {
	return s.devices.List(ctx, filter)
}

func (s *DeviceService) Update(ctx context.Context, id int64, changes domain.DeviceChanges) (domain.Device, error) {
	if err := domain.ValidateDeviceChanges(changes); err != nil {
		return domain.Device{}, err
	}
	current, err := s.devices.GetByID(ctx, id)
	if err != nil {
		return domain.Device{}, err
	}
	if current.Type == domain.DeviceTypeTemperatureSensor && current.ExternalID != nil {
		err := s.provisioner.UpdateSensor(ctx, *current.ExternalID, ports.UpdateSensorParams{
			Name:     current.Name,
			Location: current.Location,
		})
		if err != nil {
			return domain.Device{}, fmt.Errorf("update sensor %d: %w", *current.ExternalID, err)
		}
	}

	device, err := s.devices.Update(ctx, id, changes)
	if err != nil {
		return domain.Device{}, err
	}
	s.cache.Invalidate(ctx, id)
	if err := s.publishSnapshot(ctx, domain.RoutingKeyDeviceUpdated, device); err != nil {
		return domain.Device{}, err
	}
	return device, nil
}

func (s *DeviceService) Delete(ctx context.Context, id int64) error {
	current, err := s.devices.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.Type == domain.DeviceTypeTemperatureSensor && current.ExternalID != nil {
		if err := s.provisioner.DeleteSensor(ctx, *current.ExternalID); err != nil {
			return fmt.Errorf("deprovision sensor %d: %w", *current.ExternalID, err)
		}
	}
	if err := s.devices.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, id)

	payload, err := json.Marshal(domain.DeletionOf(id, s.now()))
	if err != nil {
		return fmt.Errorf("encode deletion event: %w", err)
	}
	if err := s.publisher.Publish(ctx, domain.RoutingKeyDeviceDeleted, payload); err != nil {
		return fmt.Errorf("publish device deleted: %w", err)
	}
	return nil
}

func (s *DeviceService) publishSnapshot(ctx context.Context, routingKey string, device domain.Device) error {
	payload, err := json.Marshal(domain.SnapshotOf(device))
	if err != nil {
		return fmt.Errorf("encode device event: %w", err)
	}
	if err := s.publisher.Publish(ctx, routingKey, payload); err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

type noopCache struct{}

func (noopCache) Get(context.Context, int64) (domain.Device, bool) { return domain.Device{}, false }
func (noopCache) Set(context.Context, domain.Device, time.Duration) {}
func (noopCache) Invalidate(context.Context, int64)                 {}
