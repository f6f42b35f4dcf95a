package application

import (
	"math"
	"math/rand"
	"time"
)

type TemperatureReading struct {
	Value       float64
	Unit        string
	Timestamp   time.Time
	Location    string
	Status      string
	SensorID    string
	SensorType  string
	Description string
}

var sensorIDByLocation = map[string]string{
	"Living Room": "1",
	"Bedroom":     "2",
	"Kitchen":     "3",
}

var locationBySensorID = map[string]string{
	"1": "Living Room",
	"2": "Bedroom",
	"3": "Kitchen",
}

// TemperatureService is the stateless sampling endpoint backing service; it
// holds no store and fabricates readings on demand.
type TemperatureService struct {
	now  func() time.Time
	rand func() float64
}

func NewTemperatureService(now func() time.Time, random func() float64) *TemperatureService {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	if random == nil {
		random = rand.Float64
	}
	return &TemperatureService{now: now, rand: random}
}

func (s *TemperatureService) ByLocation(location string) TemperatureReading {
	sensorID, ok := sensorIDByLocation[location]
	if !ok {
		sensorID = "0"
	}
	return s.reading(location, sensorID)
}

func (s *TemperatureService) BySensor(sensorID string) TemperatureReading {
	location, ok := locationBySensorID[sensorID]
	if !ok {
		location = "Unknown"
	}
	return s.reading(location, sensorID)
}

func (s *TemperatureService) reading(location, sensorID string) TemperatureReading {
	value := math.Round((5.0+s.rand()*35.0)*100) / 100
	return TemperatureReading{
		Value:       value,
		Unit:        "°C",
		Timestamp:   s.now(),
		Location:    location,
		Status:      "active",
		SensorID:    sensorID,
		SensorType:  "thermometer",
		Description: "Indoor temperature sensor",
	}
}
