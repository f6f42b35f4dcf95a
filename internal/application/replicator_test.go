package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/hearthgrid/smarthouse/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeReplica keeps replica rows in memory, mirroring the upsert/delete
// contract of the real store.
type fakeReplica struct {
	rows      map[int64]domain.DeviceSnapshot
	upsertErr error
	deleteErr error
	existsErr error
	upsertCnt int
	deleteCnt int
}

func newFakeReplica() *fakeReplica {
	return &fakeReplica{rows: map[int64]domain.DeviceSnapshot{}}
}

func (f *fakeReplica) Upsert(_ context.Context, snapshot domain.DeviceSnapshot) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upsertCnt++
	f.rows[snapshot.ID] = snapshot
	return nil
}

func (f *fakeReplica) Delete(_ context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleteCnt++
	delete(f.rows, id)
	return nil
}

func (f *fakeReplica) Exists(_ context.Context, id int64) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.rows[id]
	return ok, nil
}

func TestReplicatorAppliesSnapshotEvents(t *testing.T) {
	t.Parallel()

	replica := newFakeReplica()
	rep := NewReplicator(testLogger(), replica)
	body := []byte(`{"id":42,"name":"Thermo","type":"temperature_sensor","tags":["kitchen"]}`)

	if err := rep.Apply(context.Background(), domain.RoutingKeyDeviceCreated, body); err != nil {
		t.Fatalf("expected created event to apply, got %v", err)
	}
	row, ok := replica.rows[42]
	if !ok {
		t.Fatalf("expected device 42 in replica")
	}
	if row.Name != "Thermo" || len(row.Tags) != 1 || row.Tags[0] != "kitchen" {
		t.Fatalf("unexpected replica row: %+v", row)
	}

	updated := []byte(`{"id":42,"name":"Thermo v2","type":"temperature_sensor"}`)
	if err := rep.Apply(context.Background(), domain.RoutingKeyDeviceUpdated, updated); err != nil {
		t.Fatalf("expected updated event to apply, got %v", err)
	}
	row = replica.rows[42]
	if row.Name != "Thermo v2" {
		t.Fatalf("expected updated name, got %q", row.Name)
	}
	if len(row.Tags) != 0 {
		t.Fatalf("expected partial snapshot to blank out tags, got %#v", row.Tags)
	}
}

func TestReplicatorIsIdempotent(t *testing.T) {
	t.Parallel()

	replica := newFakeReplica()
	rep := NewReplicator(testLogger(), replica)
	body := []byte(`{"id":9,"name":"Porch cam","type":"camera"}`)

	for i := 0; i < 3; i++ {
		if err := rep.Apply(context.Background(), domain.RoutingKeyDeviceCreated, body); err != nil {
			t.Fatalf("apply %d failed: %v", i, err)
		}
	}
	if len(replica.rows) != 1 {
		t.Fatalf("expected a single replica row, got %d", len(replica.rows))
	}
	if replica.rows[9].Name != "Porch cam" {
		t.Fatalf("unexpected final state: %+v", replica.rows[9])
	}
}

func TestReplicatorDeleteOfMissingDeviceIsNoOp(t *testing.T) {
	t.Parallel()

	replica := newFakeReplica()
	rep := NewReplicator(testLogger(), replica)
	body := []byte(`{"id":404,"deletedAt":"2024-01-01T00:00:00Z"}`)

	if err := rep.Apply(context.Background(), domain.RoutingKeyDeviceDeleted, body); err != nil {
		t.Fatalf("expected delete of missing id to succeed, got %v", err)
	}
	if err := rep.Apply(context.Background(), domain.RoutingKeyDeviceDeleted, body); err != nil {
		t.Fatalf("expected redelivered delete to succeed, got %v", err)
	}
}

func TestReplicatorRejectsMalformedPayload(t *testing.T) {
	t.Parallel()

	replica := newFakeReplica()
	rep := NewReplicator(testLogger(), replica)

	err := rep.Apply(context.Background(), domain.RoutingKeyDeviceCreated, []byte(`{"id":1,"type":"camera"}`))
	if !errors.Is(err, domain.ErrMalformedEvent) {
		t.Fatalf("expected malformed event error, got %v", err)
	}
	if len(replica.rows) != 0 {
		t.Fatalf("expected replica untouched, got %d rows", len(replica.rows))
	}
}

func TestReplicatorIgnoresUnrecognizedRoutingKey(t *testing.T) {
	t.Parallel()

	replica := newFakeReplica()
	rep := NewReplicator(testLogger(), replica)

	if err := rep.Apply(context.Background(), "devices.rebooted", []byte(`{}`)); err != nil {
		t.Fatalf("expected unrecognized key to be acknowledged as no-op, got %v", err)
	}
	if replica.upsertCnt != 0 || replica.deleteCnt != 0 {
		t.Fatalf("expected no store calls for unrecognized key")
	}
}

func TestReplicatorPropagatesStoreFailure(t *testing.T) {
	t.Parallel()

	replica := newFakeReplica()
	replica.upsertErr = errors.New("connection reset")
	rep := NewReplicator(testLogger(), replica)

	err := rep.Apply(context.Background(), domain.RoutingKeyDeviceCreated, []byte(`{"id":1,"name":"a","type":"b"}`))
	if err == nil {
		t.Fatalf("expected store failure to propagate")
	}
}

func TestReplicatorEndToEndCreateThenDelete(t *testing.T) {
	t.Parallel()

	replica := newFakeReplica()
	rep := NewReplicator(testLogger(), replica)

	created, _ := json.Marshal(map[string]any{
		"id": 42, "name": "Thermo", "type": "temperature_sensor", "tags": []string{"kitchen"},
	})
	if err := rep.Apply(context.Background(), domain.RoutingKeyDeviceCreated, created); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if row := replica.rows[42]; row.Name != "Thermo" || row.Tags[0] != "kitchen" {
		t.Fatalf("unexpected row after create: %+v", row)
	}

	deleted := []byte(`{"id":42,"deletedAt":"2024-01-01T00:00:00Z"}`)
	if err := rep.Apply(context.Background(), domain.RoutingKeyDeviceDeleted, deleted); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok := replica.rows[42]; ok {
		t.Fatalf("expected device 42 removed from replica")
	}
}
