package postgres

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type deviceModel struct {
	ID             int64      `gorm:"column:id;primaryKey;autoIncrement"`
	ExternalID     *int64     `gorm:"column:external_id"`
	Name           string     `gorm:"column:name"`
	Type           string     `gorm:"column:type"`
	Description    *string    `gorm:"column:description"`
	Location       *string    `gorm:"column:location"`
	ConnectionInfo jsonObject `gorm:"column:connection_info;type:jsonb"`
	Tags           stringList `gorm:"column:tags;type:jsonb"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (deviceModel) TableName() string { return "devices" }

// jsonObject stores an arbitrary key/value mapping as jsonb; the mapping is
// opaque to everything but the clients that wrote it.
type jsonObject map[string]any

func (o jsonObject) Value() (driver.Value, error) {
	if o == nil {
		o = map[string]any{}
	}
	return json.Marshal(o)
}

func (o *jsonObject) Scan(value any) error {
	if value == nil {
		*o = map[string]any{}
		return nil
	}
	raw, err := rawJSON(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, o)
}

type stringList []string

func (l stringList) Value() (driver.Value, error) {
	if l == nil {
		l = []string{}
	}
	return json.Marshal(l)
}

func (l *stringList) Scan(value any) error {
	if value == nil {
		*l = []string{}
		return nil
	}
	raw, err := rawJSON(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, l)
}

func rawJSON(value any) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unexpected jsonb source type %T", value)
	}
}
