package shim

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// Config parameterizes the shim for one delivered document.
type Config struct {
	OriginalURL string `json:"originalUrl"`
	BaseOrigin  string `json:"baseOrigin"`
	Hostname    string `json:"hostname"`
	Protocol    string `json:"protocol"`
}

// ConfigFor derives a shim configuration from the target page URL.
func ConfigFor(target *url.URL) Config {
	return Config{
		OriginalURL: target.String(),
		BaseOrigin:  target.Scheme + "://" + target.Host,
		Hostname:    target.Hostname(),
		Protocol:    target.Scheme + ":",
	}
}

// Generate returns the shim script body for cfg. The config is embedded as
// a single JSON object; json.Marshal escapes <, > and &, which keeps the
// output safe inside a script element regardless of the target URL.
func Generate(cfg Config) (string, error) {
	blob, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode shim config: %w", err)
	}
	return "(function(){\n'use strict';\nvar CFG = " + string(blob) + ";\n" + runtimeScript + "\n})();", nil
}

// ScriptTag returns the generated script wrapped in a script element,
// ready for injection into a document head.
func ScriptTag(cfg Config) (string, error) {
	script, err := Generate(cfg)
	if err != nil {
		return "", err
	}
	return "<script>" + script + "</script>", nil
}
