package ports

import "context"

// ProvisionSensorParams is the payload sent to the external smart-home
// service when a temperature sensor is registered.
type ProvisionSensorParams struct {
	Name     string
	Type     string
	Location string
	Unit     string
}

type UpdateSensorParams struct {
	Name     string
	Location string
}

// SensorProvisioner is the external sensor-provisioning collaborator. Calls
// are fallible and not compensated; a failure before the local commit aborts
// the write.
type SensorProvisioner interface {
	CreateSensor(ctx context.Context, params ProvisionSensorParams) (int64, error)
	UpdateSensor(ctx context.Context, externalID int64, params UpdateSensorParams) error
	DeleteSensor(ctx context.Context, externalID int64) error
}
