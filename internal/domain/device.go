package domain

import "time"

const DeviceTypeTemperatureSensor = "temperature_sensor"

// Device is the canonical record held by the authoritative store. ID is
// assigned by the store and is the idempotency key for replication.
type Device struct {
	ID             int64
	ExternalID     *int64
	Name           string
	Type           string
	Description    string
	Location       string
	ConnectionInfo map[string]any
	Tags           []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type NewDevice struct {
	Name           string
	Type           string
	Description    string
	Location       string
	ConnectionInfo map[string]any
	Tags           []string
}

// DeviceChanges carries the mutable fields of an update request; nil means
// "leave unchanged".
type DeviceChanges struct {
	Name           *string
	Description    *string
	Location       *string
	ConnectionInfo map[string]any
	Tags           []string
}

type DeviceFilter struct {
	Type     string
	Location string
}
