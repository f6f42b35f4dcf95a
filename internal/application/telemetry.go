package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hearthgrid/smarthouse/internal/domain"
	"github.com/hearthgrid/smarthouse/internal/ports"
)

var readingMetrics = []string{"temperature", "humidity", "pressure", "motion", "light"}

type Reading struct {
	ID          string
	Timestamp   time.Time
	MetricName  string
	MetricValue float64
}

// TelemetryService serves device readings. Device existence is checked
// against the derived store, the only store this service reads.
type TelemetryService struct {
	replica ports.DeviceReplica
	now     func() time.Time
}

func NewTelemetryService(replica ports.DeviceReplica, now func() time.Time) *TelemetryService {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &TelemetryService{replica: replica, now: now}
}

func (s *TelemetryService) Readings(ctx context.Context, deviceID int64, count int) ([]Reading, error) {
	if err := s.requireDevice(ctx, deviceID); err != nil {
		return nil, err
	}
	return s.sampleReadings(count), nil
}

func (s *TelemetryService) LatestReadings(ctx context.Context, deviceID int64) ([]Reading, error) {
	if err := s.requireDevice(ctx, deviceID); err != nil {
		return nil, err
	}
	return s.sampleReadings(len(readingMetrics)), nil
}

func (s *TelemetryService) requireDevice(ctx context.Context, deviceID int64) error {
	exists, err := s.replica.Exists(ctx, deviceID)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return nil
}

// sampleReadings generates synthetic readings at five-minute spacing with a
// rotating metric set, matching the shape real ingestion will produce.
func (s *TelemetryService) sampleReadings(count int) []Reading {
	base := s.now()
	readings := make([]Reading, 0, count)
	for i := 0; i < count; i++ {
		readings = append(readings, Reading{
			ID:          uuid.NewString(),
			Timestamp:   base.Add(-time.Duration(i*5) * time.Minute),
			MetricName:  readingMetrics[i%len(readingMetrics)],
			MetricValue: 20.0 + float64(i%10),
		})
	}
	return readings
}
