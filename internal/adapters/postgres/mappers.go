package postgres

import "github.com/hearthgrid/smarthouse/internal/domain"

func toDomainDevice(m deviceModel) domain.Device {
	device := domain.Device{
		ID: m.ID, ExternalID: m.ExternalID, Name: m.Name, Type: m.Type,
		ConnectionInfo: m.ConnectionInfo, Tags: m.Tags,
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
	if m.Description != nil {
		device.Description = *m.Description
	}
	if m.Location != nil {
		device.Location = *m.Location
	}
	if device.ConnectionInfo == nil {
		device.ConnectionInfo = map[string]any{}
	}
	if device.Tags == nil {
		device.Tags = []string{}
	}
	return device
}
