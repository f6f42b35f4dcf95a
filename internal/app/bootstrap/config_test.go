package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.APIHTTPPort != 8000 || cfg.TelemetryHTTPPort != 8001 || cfg.TemperatureHTTPPort != 8002 {
		t.Fatalf("unexpected ports: %+v", cfg)
	}
	if cfg.BrokerExchange != "device-exchange" || cfg.BrokerQueue != "device-events-queue" {
		t.Fatalf("unexpected broker topology: %+v", cfg)
	}
	if cfg.BrokerBinding != "devices.*" {
		t.Fatalf("unexpected binding: %s", cfg.BrokerBinding)
	}
	if cfg.BrokerPrefetch != 1 {
		t.Fatalf("unexpected prefetch: %d", cfg.BrokerPrefetch)
	}
	if cfg.DeviceCacheTTL != 5*time.Minute {
		t.Fatalf("unexpected cache ttl: %v", cfg.DeviceCacheTTL)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
service:
  id: smarthouse-test
  api_port: 9000
dependencies:
  rabbitmq_url: amqp://broker:5672/
  rabbitmq_prefetch: 8
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.ServiceID != "smarthouse-test" {
		t.Fatalf("expected file to override service id, got %s", cfg.ServiceID)
	}
	if cfg.APIHTTPPort != 9000 {
		t.Fatalf("expected file to override api port, got %d", cfg.APIHTTPPort)
	}
	if cfg.BrokerURL != "amqp://broker:5672/" || cfg.BrokerPrefetch != 8 {
		t.Fatalf("expected file to override broker settings, got %+v", cfg)
	}
	if cfg.TelemetryHTTPPort != 8001 {
		t.Fatalf("expected unset file fields to keep defaults, got %d", cfg.TelemetryHTTPPort)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("RABBITMQ_URL", "amqp://env-broker:5672/")
	t.Setenv("RABBITMQ_PREFETCH", "16")
	t.Setenv("DEVICES_DB_URL", "postgres://env/devices")
	t.Setenv("API_HTTP_PORT", "9100")
	t.Setenv("DEVICE_CACHE_SECONDS", "30")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.BrokerURL != "amqp://env-broker:5672/" || cfg.BrokerPrefetch != 16 {
		t.Fatalf("expected env to override broker settings, got %+v", cfg)
	}
	if cfg.DevicesDatabaseURL != "postgres://env/devices" {
		t.Fatalf("expected env to override database url, got %s", cfg.DevicesDatabaseURL)
	}
	if cfg.APIHTTPPort != 9100 {
		t.Fatalf("expected env to override api port, got %d", cfg.APIHTTPPort)
	}
	if cfg.DeviceCacheTTL != 30*time.Second {
		t.Fatalf("expected env to override cache ttl, got %v", cfg.DeviceCacheTTL)
	}
}

func TestLoadConfigRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("service: [broken"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected parse error")
	}
}
