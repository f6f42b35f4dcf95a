package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// EventKind identifies the variant of a device lifecycle event.
type EventKind string

const (
	EventDeviceCreated EventKind = "deviceCreated"
	EventDeviceUpdated EventKind = "deviceUpdated"
	EventDeviceDeleted EventKind = "deviceDeleted"
)

// Routing keys published to the device exchange. The consumer queue is
// bound with the wildcard pattern devices.*.
const (
	RoutingKeyDeviceCreated = "devices.created"
	RoutingKeyDeviceUpdated = "devices.updated"
	RoutingKeyDeviceDeleted = "devices.deleted"
)

var kindByRoutingKey = map[string]EventKind{
	RoutingKeyDeviceCreated: EventDeviceCreated,
	RoutingKeyDeviceUpdated: EventDeviceUpdated,
	RoutingKeyDeviceDeleted: EventDeviceDeleted,
}

// KindForRoutingKey maps a full routing key to its event kind. Keys outside
// the fixed set report ok=false and are handled by the consumer as no-ops.
func KindForRoutingKey(key string) (EventKind, bool) {
	kind, ok := kindByRoutingKey[key]
	return kind, ok
}

// DeviceSnapshot is the wire body of devices.created and devices.updated.
// An event is a full snapshot, never a diff: applying it requires no prior
// state on the consumer side.
type DeviceSnapshot struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	Type           string         `json:"type"`
	Description    string         `json:"description"`
	Location       string         `json:"location"`
	ConnectionInfo map[string]any `json:"connection_info"`
	Tags           []string       `json:"tags"`
	CreatedAt      string         `json:"created_at"`
}

// DeviceDeletion is the wire body of devices.deleted.
type DeviceDeletion struct {
	ID        int64  `json:"id"`
	DeletedAt string `json:"deletedAt"`
}

// SnapshotOf builds the wire snapshot for a device as it stands after a
// committed write.
func SnapshotOf(d Device) DeviceSnapshot {
	createdAt := ""
	if !d.CreatedAt.IsZero() {
		createdAt = d.CreatedAt.UTC().Format(time.RFC3339)
	}
	return DeviceSnapshot{
		ID:             d.ID,
		Name:           d.Name,
		Type:           d.Type,
		Description:    d.Description,
		Location:       d.Location,
		ConnectionInfo: d.ConnectionInfo,
		Tags:           d.Tags,
		CreatedAt:      createdAt,
	}
}

// DeletionOf builds the wire body for a device deletion.
func DeletionOf(id int64, deletedAt time.Time) DeviceDeletion {
	return DeviceDeletion{ID: id, DeletedAt: deletedAt.UTC().Format(time.RFC3339)}
}

// DecodeDeviceSnapshot validates a snapshot body at the boundary. Absent
// optional fields default to empty values so that applying the snapshot
// overwrites rather than merges.
func DecodeDeviceSnapshot(body []byte) (DeviceSnapshot, error) {
	var snap DeviceSnapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return DeviceSnapshot{}, fmt.Errorf("%w: decode snapshot: %v", ErrMalformedEvent, err)
	}
	if snap.ID <= 0 {
		return DeviceSnapshot{}, fmt.Errorf("%w: snapshot missing device id", ErrMalformedEvent)
	}
	if strings.TrimSpace(snap.Name) == "" {
		return DeviceSnapshot{}, fmt.Errorf("%w: snapshot missing name", ErrMalformedEvent)
	}
	if strings.TrimSpace(snap.Type) == "" {
		return DeviceSnapshot{}, fmt.Errorf("%w: snapshot missing type", ErrMalformedEvent)
	}
	if snap.ConnectionInfo == nil {
		snap.ConnectionInfo = map[string]any{}
	}
	if snap.Tags == nil {
		snap.Tags = []string{}
	}
	return snap, nil
}

// DecodeDeviceDeletion validates a deletion body at the boundary.
func DecodeDeviceDeletion(body []byte) (DeviceDeletion, error) {
	var del DeviceDeletion
	if err := json.Unmarshal(body, &del); err != nil {
		return DeviceDeletion{}, fmt.Errorf("%w: decode deletion: %v", ErrMalformedEvent, err)
	}
	if del.ID <= 0 {
		return DeviceDeletion{}, fmt.Errorf("%w: deletion missing device id", ErrMalformedEvent)
	}
	return del, nil
}
