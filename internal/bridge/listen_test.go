package bridge

import (
	"context"
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sweetlink/sweetlink/internal/config"
)

// TestPortHuntConvergence exercises Testable Property 1: with some
// consecutive ports already occupied starting at the requested port, the
// bridge binds the first free port within the retry budget.
func TestPortHuntConvergence(t *testing.T) {
	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer occupied.Close()

	_, portStr, err := net.SplitHostPort(occupied.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	cfg := config.Config{AppPort: 3000, WSPort: port, ProjectRoot: t.TempDir(), RetryBudget: 10}
	b, err := Listen(cfg, nil)
	require.NoError(t, err)
	defer b.Shutdown(context.Background())

	require.NotEqual(t, port, b.Config.WSPort)
	require.LessOrEqual(t, b.Config.WSPort, port+cfg.RetryBudget)
}

// TestPortHuntExhaustion: when every port in the budget is occupied, Listen
// fails deterministically.
func TestPortHuntExhaustion(t *testing.T) {
	base, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer base.Close()
	_, portStr, err := net.SplitHostPort(base.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	var blockers []net.Listener
	for p := port; p <= port+2; p++ {
		ln, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(p)))
		if err == nil {
			blockers = append(blockers, ln)
		}
	}
	defer func() {
		for _, ln := range blockers {
			ln.Close()
		}
	}()

	cfg := config.Config{AppPort: 3000, WSPort: port, ProjectRoot: t.TempDir(), RetryBudget: 2}
	_, err = Listen(cfg, nil)
	require.ErrorIs(t, err, ErrPortExhausted)
}
