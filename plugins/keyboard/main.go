// Package main provides a cross-platform keyboard plugin.
// It taps keys with optional modifiers when a bound gesture fires.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-vgo/robotgo"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action  string          `json:"action"`
	Trigger string          `json:"trigger"`
	Config  json.RawMessage `json:"config"`
	Params  json.RawMessage `json:"params"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// KeystrokeConfig is read from the binding config.
type KeystrokeConfig struct {
	Key       string   `json:"key"`
	Modifiers []string `json:"modifiers"` // cmd, alt, ctrl, shift
}

var modifierMap = map[string]string{
	"command": "cmd",
	"cmd":     "cmd",
	"option":  "alt",
	"alt":     "alt",
	"control": "ctrl",
	"ctrl":    "ctrl",
	"shift":   "shift",
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(Response{Error: fmt.Sprintf("failed to decode request: %v", err)})
		return
	}

	switch req.Action {
	case "keystroke", "shortcut":
		key, mods, err := parseKeystroke(req.Config)
		if err != nil {
			writeResponse(Response{Error: fmt.Sprintf("action %s failed: %v", req.Action, err)})
			return
		}
		if err := tap(key, mods); err != nil {
			writeResponse(Response{Error: fmt.Sprintf("action %s failed: %v", req.Action, err)})
			return
		}
		data, _ := json.Marshal(map[string]any{"trigger": req.Trigger, "key": key, "modifiers": mods})
		writeResponse(Response{Success: true, Data: data})
	default:
		writeResponse(Response{Error: fmt.Sprintf("unknown action: %s", req.Action)})
	}
}

// parseKeystroke validates the binding config and normalizes modifier names.
// Unknown modifiers are an error rather than silently dropped.
func parseKeystroke(config json.RawMessage) (string, []string, error) {
	if len(config) == 0 {
		return "", nil, errors.New("config is required")
	}

	var c KeystrokeConfig
	if err := json.Unmarshal(config, &c); err != nil {
		return "", nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if c.Key == "" {
		return "", nil, errors.New("key is required")
	}

	mods := make([]string, 0, len(c.Modifiers))
	for _, m := range c.Modifiers {
		mapped, ok := modifierMap[strings.ToLower(m)]
		if !ok {
			return "", nil, fmt.Errorf("unknown modifier %q", m)
		}
		mods = append(mods, mapped)
	}
	return strings.ToLower(c.Key), mods, nil
}

func tap(key string, mods []string) error {
	args := make([]interface{}, len(mods))
	for i, m := range mods {
		args[i] = m
	}
	return robotgo.KeyTap(key, args...)
}

func writeResponse(resp Response) {
	json.NewEncoder(os.Stdout).Encode(resp)
}
