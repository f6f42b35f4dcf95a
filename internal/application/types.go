package application

import (
	"time"

	"github.com/hearthgrid/smarthouse/internal/domain"
)

type CreateDeviceRequest struct {
	Name           string         `json:"name"`
	Type           string         `json:"type"`
	ConnectionInfo map[string]any `json:"connection_info"`
	Description    string         `json:"description"`
	Location       string         `json:"location"`
	Tags           []string       `json:"tags"`
}

func (r CreateDeviceRequest) ToNewDevice() domain.NewDevice {
	return domain.NewDevice{
		Name:           r.Name,
		Type:           r.Type,
		Description:    r.Description,
		Location:       r.Location,
		ConnectionInfo: r.ConnectionInfo,
		Tags:           r.Tags,
	}
}

type UpdateDeviceRequest struct {
	Name           *string        `json:"name"`
	Description    *string        `json:"description"`
	Location       *string        `json:"location"`
	ConnectionInfo map[string]any `json:"connection_info"`
	Tags           []string       `json:"tags"`
}

func (r UpdateDeviceRequest) ToChanges() domain.DeviceChanges {
	return domain.DeviceChanges{
		Name:           r.Name,
		Description:    r.Description,
		Location:       r.Location,
		ConnectionInfo: r.ConnectionInfo,
		Tags:           r.Tags,
	}
}

type DeviceResponse struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	Type           string         `json:"type"`
	Description    string         `json:"description"`
	Location       string         `json:"location"`
	ConnectionInfo map[string]any `json:"connection_info"`
	Tags           []string       `json:"tags"`
	CreatedAt      time.Time      `json:"created_at"`
}

func ToDeviceResponse(d domain.Device) DeviceResponse {
	return DeviceResponse{
		ID:             d.ID,
		Name:           d.Name,
		Type:           d.Type,
		Description:    d.Description,
		Location:       d.Location,
		ConnectionInfo: d.ConnectionInfo,
		Tags:           d.Tags,
		CreatedAt:      d.CreatedAt,
	}
}

type ReadingResponse struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	MetricName  string    `json:"metric_name"`
	MetricValue float64   `json:"metric_value"`
}

func ToReadingResponses(readings []Reading) []ReadingResponse {
	out := make([]ReadingResponse, 0, len(readings))
	for _, r := range readings {
		out = append(out, ReadingResponse{
			ID:          r.ID,
			Timestamp:   r.Timestamp,
			MetricName:  r.MetricName,
			MetricValue: r.MetricValue,
		})
	}
	return out
}

type ReadingsPage struct {
	DeviceID int64             `json:"device_id"`
	Readings []ReadingResponse `json:"readings"`
	Total    int               `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

type LatestReadings struct {
	DeviceID int64             `json:"device_id"`
	Readings []ReadingResponse `json:"readings"`
}

type TemperatureResponse struct {
	Value       float64   `json:"value"`
	Unit        string    `json:"unit"`
	Timestamp   time.Time `json:"timestamp"`
	Location    string    `json:"location"`
	Status      string    `json:"status"`
	SensorID    string    `json:"sensor_id"`
	SensorType  string    `json:"sensor_type"`
	Description string    `json:"description"`
}

func ToTemperatureResponse(r TemperatureReading) TemperatureResponse {
	return TemperatureResponse{
		Value:       r.Value,
		Unit:        r.Unit,
		Timestamp:   r.Timestamp,
		Location:    r.Location,
		Status:      r.Status,
		SensorID:    r.SensorID,
		SensorType:  r.SensorType,
		Description: r.Description,
	}
}
