package transport

import (
	"encoding/json"
	"fmt"
)

// clientBootConfig is the subset of Config the client needs at boot time:
// where to open its WebSocket connection and how to back off on
// reconnect (SPEC_FULL.md §B, teacher's ReconnectConfig).
type clientBootConfig struct {
	WSPath               string  `json:"wsPath"`
	ReconnectMaxInterval int     `json:"reconnectMaxIntervalMs"`
	ReconnectMaxRetries  int     `json:"reconnectMaxRetries"`
	ReconnectBackoffRate float64 `json:"reconnectBackoffRate"`
	ReconnectJitter      float64 `json:"reconnectJitter"`
}

// indexHTML renders the minimal document that boots the thin client and
// points it at this server's WebSocket endpoint. Grounded on the
// teacher's thin_client.go serving path, trimmed: this module carries no
// bundled JS asset pipeline (internal/build, internal/templates, and
// internal/tailwind are out of scope — see DESIGN.md), so the document
// only wires boot configuration; the client script itself is expected to
// be served separately or inlined by the embedding application.
func indexHTML(c *Config) string {
	boot := clientBootConfig{
		WSPath:               c.URLPrefix + "/ws",
		ReconnectMaxInterval: c.ReconnectMaxIntervalMS,
		ReconnectMaxRetries:  c.ReconnectMaxRetries,
		ReconnectBackoffRate: c.ReconnectBackoffRate,
		ReconnectJitter:      c.ReconnectJitter,
	}
	data, err := json.Marshal(boot)
	if err != nil {
		data = []byte("{}")
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>loom</title>
</head>
<body>
<div id="root"></div>
<script>window.__LOOM_CONFIG__ = %s;</script>
</body>
</html>
`, data)
}
