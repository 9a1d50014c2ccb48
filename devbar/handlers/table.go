// Package handlers implements the Command Handlers (browser side, spec.md
// §4.F): the async functions dispatched by devbar.Client against a
// devbar.PageHost. Ground: _examples/inovacc-scout's Page wrapper (page.go)
// for the "thin Go method per browser capability, wrapped error" shape,
// generalized here from a direct rod.Page receiver to the PageHost
// interface so the same handlers run against either a real browser
// (RodHost) or the synthetic test double (MemHost).
package handlers

import (
	"github.com/sweetlink/sweetlink/internal/wire"
	"github.com/sweetlink/sweetlink/devbar"
)

// BuildTable returns the full command dispatch table, keyed by the wire
// message types spec.md §4.F lists.
func BuildTable() map[wire.MessageType]devbar.HandlerFunc {
	return map[wire.MessageType]devbar.HandlerFunc{
		wire.TypeScreenshot:        Screenshot,
		wire.TypeRequestScreenshot: RequestScreenshot,
		wire.TypeQueryDOM:          QueryDOM,
		wire.TypeExecJS:            ExecJS,
		wire.TypeGetSchema:         GetSchema,
		wire.TypeGetOutline:        GetOutline,
		wire.TypeGetA11y:           GetA11y,
		wire.TypeGetVitals:         GetVitals,
	}
}
