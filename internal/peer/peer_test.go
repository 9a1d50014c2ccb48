package peer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPromoteToBrowserIsIdempotent(t *testing.T) {
	p := New("p1", "", nil)
	require.Equal(t, KindCLI, p.Kind())

	first := p.PromoteToBrowser()
	require.True(t, first)
	require.Equal(t, KindBrowser, p.Kind())

	second := p.PromoteToBrowser()
	require.False(t, second, "a duplicate browser-client-ready must not report a fresh promotion")
	require.Equal(t, KindBrowser, p.Kind())
}

func TestKindString(t *testing.T) {
	require.Equal(t, "cli", KindCLI.String())
	require.Equal(t, "browser", KindBrowser.String())
}

func TestIsOpenAndMarkClosed(t *testing.T) {
	p := New("p1", "", nil)
	require.True(t, p.IsOpen())
	p.MarkClosed()
	require.False(t, p.IsOpen())
	// idempotent
	p.MarkClosed()
	require.False(t, p.IsOpen())
}

func TestSendAfterCloseFails(t *testing.T) {
	p := New("p1", "", nil)
	p.MarkClosed()
	err := p.Send(map[string]string{"x": "y"})
	require.ErrorIs(t, err, ErrClosed)
}

func TestAllowThrottlesBurstsBeyondCapacity(t *testing.T) {
	p := New("p1", "", nil)
	allowed := 0
	for i := 0; i < inboundBurst+10; i++ {
		if p.Allow() {
			allowed++
		}
	}
	require.LessOrEqual(t, allowed, inboundBurst)
	require.Greater(t, allowed, 0)
}
