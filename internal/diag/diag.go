// Package diag wires the optional runtime diagnostics agent: when
// SWEETLINK_DEBUG is set, sweetlinkd exposes goroutine dumps, heap
// profiles, and GC stats to the `gops` CLI for attaching to a running
// daemon without restarting it. Ground: github.com/google/gops is a
// dependency of _examples/inovacc-scout (go.mod), whose own processes are
// long-lived and benefit from the same live-inspection hook; wired here
// behind Sweetlink's own debug gate (internal/config.DebugEnabled).
package diag

import (
	"fmt"

	"github.com/google/gops/agent"

	"github.com/sweetlink/sweetlink/internal/applog"
)

var log = applog.For("diag")

// Start enables the gops agent if debug mode is on, returning a stop func
// that is always safe to call (a no-op when diagnostics were never
// started). Errors starting the agent are logged, not fatal: diagnostics
// are a convenience, never load-bearing for the bridge itself.
func Start(enabled bool) func() {
	if !enabled {
		return func() {}
	}
	if err := agent.Listen(agent.Options{}); err != nil {
		log.Warnf("diagnostics agent: %v", err)
		return func() {}
	}
	log.Infof("diagnostics agent listening (attach with: gops stack <pid>)")
	return agent.Close
}

// Report is a tiny human-readable process summary logged at startup when
// debug mode is on, independent of the gops agent itself.
func Report(pid int) string {
	return fmt.Sprintf("pid=%d debug diagnostics enabled, gops agent active", pid)
}
