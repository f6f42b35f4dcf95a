package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hearthgrid/smarthouse/internal/domain"
)

func TestTelemetryReadingsForKnownDevice(t *testing.T) {
	t.Parallel()

	replica := newFakeReplica()
	replica.rows[42] = domain.DeviceSnapshot{ID: 42, Name: "Thermo", Type: "temperature_sensor"}
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := NewTelemetryService(replica, func() time.Time { return base })

	readings, err := svc.Readings(context.Background(), 42, 7)
	if err != nil {
		t.Fatalf("readings failed: %v", err)
	}
	if len(readings) != 7 {
		t.Fatalf("expected 7 readings, got %d", len(readings))
	}
	if readings[0].Timestamp != base {
		t.Fatalf("expected first reading at base time, got %v", readings[0].Timestamp)
	}
	if readings[1].Timestamp != base.Add(-5*time.Minute) {
		t.Fatalf("expected five-minute spacing, got %v", readings[1].Timestamp)
	}
	if readings[0].MetricName != "temperature" || readings[5].MetricName != "temperature" {
		t.Fatalf("expected metric rotation, got %s and %s", readings[0].MetricName, readings[5].MetricName)
	}
	if readings[0].ID == readings[1].ID {
		t.Fatalf("expected unique reading ids")
	}
}

func TestTelemetryReadingsUnknownDevice(t *testing.T) {
	t.Parallel()

	svc := NewTelemetryService(newFakeReplica(), nil)
	if _, err := svc.Readings(context.Background(), 404, 10); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTelemetryLatestReadings(t *testing.T) {
	t.Parallel()

	replica := newFakeReplica()
	replica.rows[1] = domain.DeviceSnapshot{ID: 1, Name: "Cam", Type: "camera"}
	svc := NewTelemetryService(replica, nil)

	readings, err := svc.LatestReadings(context.Background(), 1)
	if err != nil {
		t.Fatalf("latest readings failed: %v", err)
	}
	if len(readings) != 5 {
		t.Fatalf("expected one reading per metric, got %d", len(readings))
	}
}

func TestTelemetryStorageFailure(t *testing.T) {
	t.Parallel()

	replica := newFakeReplica()
	replica.existsErr = errors.New("connection refused")
	svc := NewTelemetryService(replica, nil)

	if _, err := svc.Readings(context.Background(), 1, 10); !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected storage unavailable, got %v", err)
	}
}
