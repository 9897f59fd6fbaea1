package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/nerrad567/ecobuild-core/internal/infrastructure/config"
)

// testConfig returns a valid MQTT configuration for testing.
func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Enabled: true,
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "ecobuild-test",
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

func TestTopicBuilders(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"SystemStatus", topics.SystemStatus(), "ecobuild/core/system/status"},
		{"BuildingEvent", topics.BuildingEvent("bld-1", "saved"), "ecobuild/core/building/bld-1/saved"},
		{"AllBuildingEvents", topics.AllBuildingEvents(), "ecobuild/core/building/+/+"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestBrokerURL(t *testing.T) {
	cfg := testConfig()
	if got := brokerURL(cfg); got != "tcp://127.0.0.1:1883" {
		t.Errorf("brokerURL() = %q", got)
	}

	cfg.Broker.TLS = true
	cfg.Broker.Port = 8883
	if got := brokerURL(cfg); got != "ssl://127.0.0.1:8883" {
		t.Errorf("brokerURL(TLS) = %q", got)
	}
}

func TestBuildClientOptions(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Username = "svc"
	cfg.Auth.Password = "pw"
	cfg.Broker.TLS = true

	opts := buildClientOptions(cfg)

	if opts.ClientID != "ecobuild-test" {
		t.Errorf("ClientID = %q", opts.ClientID)
	}
	if opts.Username != "svc" || opts.Password != "pw" {
		t.Errorf("credentials = %q/%q", opts.Username, opts.Password)
	}
	if !opts.AutoReconnect || !opts.CleanSession {
		t.Error("AutoReconnect and CleanSession should be enabled")
	}
	if opts.TLSConfig == nil || opts.TLSConfig.MinVersion != tlsMinVersion {
		t.Error("TLS config should require TLS 1.2")
	}
	if len(opts.Servers) != 1 || opts.Servers[0].Scheme != "ssl" {
		t.Errorf("Servers = %v", opts.Servers)
	}
}

func TestConfigureLWT(t *testing.T) {
	opts := buildClientOptions(testConfig())
	configureLWT(opts, "ecobuild-test")

	if !opts.WillEnabled || opts.WillTopic != "ecobuild/core/system/status" || !opts.WillRetained {
		t.Fatalf("will = enabled:%v topic:%q retained:%v", opts.WillEnabled, opts.WillTopic, opts.WillRetained)
	}

	var p statusPayload
	if err := json.Unmarshal(opts.WillPayload, &p); err != nil {
		t.Fatalf("will payload is not JSON: %v", err)
	}
	if p.Status != "offline" || p.Reason != "unexpected_disconnect" || p.ClientID != "ecobuild-test" {
		t.Errorf("will payload = %+v", p)
	}
}

func TestStatusPayloads(t *testing.T) {
	var online, offline statusPayload
	if err := json.Unmarshal([]byte(buildOnlinePayload("c1")), &online); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(buildOfflinePayload("c1")), &offline); err != nil {
		t.Fatal(err)
	}
	if online.Status != "online" || online.Reason != "" {
		t.Errorf("online = %+v", online)
	}
	if offline.Status != "offline" || offline.Reason != "graceful_shutdown" {
		t.Errorf("offline = %+v", offline)
	}
	if strings.Contains(buildOnlinePayload("c1"), "reason") {
		t.Error("online payload should omit reason")
	}
}

func TestValidatePublish(t *testing.T) {
	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		wantErr error
	}{
		{"valid", "ecobuild/core/building/b/saved", []byte("{}"), 1, nil},
		{"empty topic", "", nil, 1, ErrInvalidTopic},
		{"wildcard plus", "ecobuild/+/x", nil, 1, ErrInvalidTopic},
		{"wildcard hash", "ecobuild/#", nil, 1, ErrInvalidTopic},
		{"bad qos", "t", nil, 3, ErrInvalidQoS},
		{"too large", "t", make([]byte, maxPayloadSize+1), 0, ErrPublishFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePublish(tt.topic, tt.payload, tt.qos)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validatePublish() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUnconnectedClient(t *testing.T) {
	c := &Client{cfg: testConfig()}

	if c.IsConnected() {
		t.Error("IsConnected() = true for zero client")
	}
	if err := c.Publish("ecobuild/core/x", []byte("{}"), 1, false); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Publish() error = %v, want ErrNotConnected", err)
	}
	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	var nilClient *Client
	if err := nilClient.Close(); err != nil {
		t.Errorf("nil Close() error = %v", err)
	}
}

func TestHealthCheckCancelled(t *testing.T) {
	c := &Client{cfg: testConfig()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.HealthCheck(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("HealthCheck() error = %v, want context.Canceled", err)
	}
}

func TestConnectInvalidBroker(t *testing.T) {
	if testing.Short() {
		t.Skip("dials a closed port")
	}
	cfg := testConfig()
	cfg.Broker.Port = 1 // nothing listens here
	cfg.Reconnect.InitialDelay = 0

	_, err := Connect(cfg)
	if err == nil {
		t.Fatal("Connect() expected error for unreachable broker")
	}
	if !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}
