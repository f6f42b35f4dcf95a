package domain

import (
	"fmt"
	"strings"
)

const (
	maxNameLength     = 255
	maxTypeLength     = 100
	maxLocationLength = 255
)

func ValidateNewDevice(input NewDevice) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(input.Name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidInput, maxNameLength)
	}
	if strings.TrimSpace(input.Type) == "" {
		return fmt.Errorf("%w: type is required", ErrInvalidInput)
	}
	if len(input.Type) > maxTypeLength {
		return fmt.Errorf("%w: type exceeds %d characters", ErrInvalidInput, maxTypeLength)
	}
	if len(input.Location) > maxLocationLength {
		return fmt.Errorf("%w: location exceeds %d characters", ErrInvalidInput, maxLocationLength)
	}
	return nil
}

func ValidateDeviceChanges(changes DeviceChanges) error {
	if changes.Name != nil {
		if strings.TrimSpace(*changes.Name) == "" {
			return fmt.Errorf("%w: name cannot be blank", ErrInvalidInput)
		}
		if len(*changes.Name) > maxNameLength {
			return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidInput, maxNameLength)
		}
	}
	if changes.Location != nil && len(*changes.Location) > maxLocationLength {
		return fmt.Errorf("%w: location exceeds %d characters", ErrInvalidInput, maxLocationLength)
	}
	return nil
}
