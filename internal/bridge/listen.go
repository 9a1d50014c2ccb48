package bridge

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"syscall"
	"time"

	"github.com/sweetlink/sweetlink/internal/config"
	"github.com/sweetlink/sweetlink/internal/review"
)

// ErrPortExhausted is returned when no port in [P, P+R] could be bound.
var ErrPortExhausted = errors.New("bridge: no free port in the retry budget")

// Listen port-hunts starting at cfg.WSPort: binds 127.0.0.1:P, and on
// EADDRINUSE tries P+1 up to P+cfg.RetryBudget (spec.md §4.D, Testable
// Property 1). On success it starts serving HTTP (the discovery document
// on GET /) and WebSocket upgrades on the same listener.
func Listen(cfg config.Config, rv review.Provider) (*Bridge, error) {
	b, err := New(cfg, rv)
	if err != nil {
		return nil, err
	}

	ln, boundPort, err := huntPort(cfg.WSPort, cfg.RetryBudget)
	if err != nil {
		return nil, err
	}
	b.Config.WSPort = boundPort

	mux := http.NewServeMux()
	mux.HandleFunc("/", b.handleRoot)
	b.httpServer = &http.Server{Handler: mux}
	b.startedAt = time.Now()
	b.startSettingsWatch()

	go func() {
		if err := b.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("http server exited: %v", err)
		}
	}()

	return b, nil
}

func huntPort(requested, retryBudget int) (net.Listener, int, error) {
	for p := requested; p <= requested+retryBudget; p++ {
		ln, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(p)))
		if err == nil {
			return ln, p, nil
		}
		if !isAddrInUse(err) {
			return nil, 0, fmt.Errorf("bridge: listen on port %d: %w", p, err)
		}
	}
	return nil, 0, ErrPortExhausted
}

func isAddrInUse(err error) bool {
	var sysErr *net.OpError
	if errors.As(err, &sysErr) {
		return errors.Is(sysErr.Err, syscall.EADDRINUSE)
	}
	return false
}
