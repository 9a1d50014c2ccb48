// Package config resolves the bridge's environment-driven configuration:
// the app port (and derived WS port), the project root, and the three
// environment variables spec.md §6 names. Ground: the teacher's
// cmd/gasoline-cmd/config/loader.go priority-cascade loader, generalized
// from a CLI's config file + flags cascade down to Sweetlink's smaller
// env-only surface.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// PortOffset is the fixed offset between an app's HTTP port and the
// bridge's WebSocket port (app:3000 -> ws:9223).
const PortOffset = 6223

// DefaultRetryBudget is how many consecutive ports the server tries beyond
// the requested one before giving up (spec.md §4.D).
const DefaultRetryBudget = 10

// Config holds the bridge's resolved runtime configuration.
type Config struct {
	AppPort     int
	WSPort      int
	ProjectRoot string
	RetryBudget int
}

// Load resolves configuration from explicit values plus the environment.
// appPort <= 0 means "use the default" (3000); projectRoot == "" means "use
// the process's current working directory, captured now" (spec.md's
// "project root... the working directory at that moment").
func Load(appPort int, projectRoot string) (Config, error) {
	if appPort <= 0 {
		appPort = 3000
	}
	if projectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("resolve project root: %w", err)
		}
		projectRoot = wd
	}
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		return Config{}, fmt.Errorf("resolve project root: %w", err)
	}
	return Config{
		AppPort:     appPort,
		WSPort:      appPort + PortOffset,
		ProjectRoot: abs,
		RetryBudget: DefaultRetryBudget,
	}, nil
}

// AnthropicAPIKey returns the configured Anthropic API key, if any. The
// check-api-key handler reports only whether it is configured; the value
// itself is never put on the wire.
func AnthropicAPIKey() string {
	return os.Getenv("ANTHROPIC_API_KEY")
}

// DefaultAnthropicModel is reported by check-api-key when ANTHROPIC_MODEL
// is unset.
const DefaultAnthropicModel = "claude-sonnet-4-5"

// AnthropicModel returns the model id the design-review collaborator and
// check-api-key report, honoring an ANTHROPIC_MODEL override so the
// reported name can't drift from whatever model is actually configured.
func AnthropicModel() string {
	if m := os.Getenv("ANTHROPIC_MODEL"); m != "" {
		return m
	}
	return DefaultAnthropicModel
}

// IsProduction reports whether NODE_ENV is "production", which gates
// exec-js and the optional headless-driver fallback.
func IsProduction() bool {
	return os.Getenv("NODE_ENV") == "production"
}

// DebugEnabled reports whether SWEETLINK_DEBUG requests verbose logging and
// the optional gops diagnostics agent.
func DebugEnabled() bool {
	v := os.Getenv("SWEETLINK_DEBUG")
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// CandidatePorts returns the WS ports a CLI peer should scan, per spec.md
// §6's port convention: the derived port plus the next 10, then a small
// list of common app-port offsets each +PortOffset, +/-10.
func CandidatePorts(appPort int) []int {
	base := appPort + PortOffset
	ports := make([]int, 0, 11+7*2)
	for i := 0; i <= 10; i++ {
		ports = append(ports, base+i)
	}
	for _, common := range []int{3000, 3001, 4000, 5173, 5174, 8000, 8080} {
		p := common + PortOffset
		ports = append(ports, p-10, p+10)
	}
	return ports
}
