package transport

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()

	if c.Address == "" {
		t.Error("Address should not be empty")
	}
	if c.ReadBufferSize <= 0 {
		t.Error("ReadBufferSize should be positive")
	}
	if c.WriteBufferSize <= 0 {
		t.Error("WriteBufferSize should be positive")
	}
	if c.MaxMessageSize <= 0 {
		t.Error("MaxMessageSize should be positive")
	}
	if c.HandshakeTimeout <= 0 {
		t.Error("HandshakeTimeout should be positive")
	}
	if c.ShutdownTimeout <= 0 {
		t.Error("ShutdownTimeout should be positive")
	}
	if c.ReconnectMaxRetries <= 0 {
		t.Error("ReconnectMaxRetries should be positive")
	}
	if c.CheckOrigin == nil {
		t.Error("CheckOrigin should not be nil")
	}
	if !c.ServeStaticFiles {
		t.Error("ServeStaticFiles should default true")
	}
}

func TestConfigApplyDefaults_FillsZeroFields(t *testing.T) {
	c := &Config{Address: "localhost:9000"}
	c = c.applyDefaults()

	if c.Address != "localhost:9000" {
		t.Errorf("Address = %q, want preserved value", c.Address)
	}
	if c.ReconnectMaxRetries != DefaultConfig().ReconnectMaxRetries {
		t.Errorf("ReconnectMaxRetries not defaulted: %d", c.ReconnectMaxRetries)
	}
	if c.HistoryCapacity != DefaultConfig().HistoryCapacity {
		t.Errorf("HistoryCapacity not defaulted: %d", c.HistoryCapacity)
	}
}

func TestConfigApplyDefaults_Nil(t *testing.T) {
	var c *Config
	c = c.applyDefaults()
	if c == nil {
		t.Fatal("applyDefaults on nil should return a default Config")
	}
	if c.Address != DefaultConfig().Address {
		t.Errorf("Address = %q, want default", c.Address)
	}
}

func TestSameOriginCheck(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://example.com/ws", nil)
	req.Host = "example.com"

	if !SameOriginCheck(req) {
		t.Error("request with no Origin header should be allowed")
	}

	req.Header.Set("Origin", "http://example.com")
	if !SameOriginCheck(req) {
		t.Error("same-origin request should be allowed")
	}

	req.Header.Set("Origin", "http://evil.example")
	if SameOriginCheck(req) {
		t.Error("cross-origin request should be rejected")
	}
}
