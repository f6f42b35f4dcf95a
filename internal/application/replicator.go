package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hearthgrid/smarthouse/internal/domain"
	"github.com/hearthgrid/smarthouse/internal/ports"
)

// Replicator applies delivered device events to the derived store. It is the
// only writer of that store. A nil return means the message can be
// acknowledged; an error means it is dropped without requeue.
type Replicator struct {
	logger  *slog.Logger
	replica ports.DeviceReplica
}

func NewReplicator(logger *slog.Logger, replica ports.DeviceReplica) *Replicator {
	return &Replicator{logger: logger, replica: replica}
}

func (r *Replicator) Apply(ctx context.Context, routingKey string, body []byte) error {
	kind, ok := domain.KindForRoutingKey(routingKey)
	if !ok {
		// Unrecognized keys are acknowledged as no-ops: the queue binding
		// already scopes deliveries to devices.*, so anything else is a
		// topology change we do not yet understand, not a poison message.
		r.logger.WarnContext(ctx, "ignoring unrecognized routing key",
			"module", "application.replicator",
			"layer", "application",
			"operation", "apply",
			"outcome", "skipped",
			"routing_key", routingKey,
		)
		return nil
	}

	switch kind {
	case domain.EventDeviceCreated, domain.EventDeviceUpdated:
		snapshot, err := domain.DecodeDeviceSnapshot(body)
		if err != nil {
			return err
		}
		if err := r.replica.Upsert(ctx, snapshot); err != nil {
			return fmt.Errorf("apply %s for device %d: %w", kind, snapshot.ID, err)
		}
		r.logApplied(ctx, kind, snapshot.ID)
	case domain.EventDeviceDeleted:
		deletion, err := domain.DecodeDeviceDeletion(body)
		if err != nil {
			return err
		}
		if err := r.replica.Delete(ctx, deletion.ID); err != nil {
			return fmt.Errorf("apply %s for device %d: %w", kind, deletion.ID, err)
		}
		r.logApplied(ctx, kind, deletion.ID)
	}
	return nil
}

func (r *Replicator) logApplied(ctx context.Context, kind domain.EventKind, deviceID int64) {
	r.logger.InfoContext(ctx, "event applied",
		"module", "application.replicator",
		"layer", "application",
		"operation", "apply",
		"outcome", "success",
		"event_kind", string(kind),
		"device_id", deviceID,
	)
}
