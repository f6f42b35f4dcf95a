package provisioning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hearthgrid/smarthouse/internal/domain"
	"github.com/hearthgrid/smarthouse/internal/ports"
)

// Client calls the external smart-home sensor-provisioning service. Calls
// are fire-and-forget from the platform's point of view: no retries and no
// compensation when a later local write fails.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/api/v1",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type sensorPayload struct {
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
	Location string `json:"location"`
	Unit     string `json:"unit,omitempty"`
}

type sensorResponse struct {
	ID int64 `json:"id"`
}

func (c *Client) CreateSensor(ctx context.Context, params ports.ProvisionSensorParams) (int64, error) {
	payload := sensorPayload{Name: params.Name, Type: params.Type, Location: params.Location, Unit: params.Unit}
	var resp sensorResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/sensors", payload, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

func (c *Client) UpdateSensor(ctx context.Context, externalID int64, params ports.UpdateSensorParams) error {
	payload := sensorPayload{Name: params.Name, Location: params.Location}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("%s/sensors/%d", c.baseURL, externalID), payload, nil)
}

func (c *Client) DeleteSensor(ctx context.Context, externalID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/sensors/%d", c.baseURL, externalID), nil, nil)
}

func (c *Client) do(ctx context.Context, method, url string, payload, out any) error {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode sensor payload: %w", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("build sensor request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: smart-home service: %v", domain.ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: smart-home service returned %d", domain.ErrDependencyUnavailable, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode sensor response: %w", err)
		}
	}
	return nil
}
