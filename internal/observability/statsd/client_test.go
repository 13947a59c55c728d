package statsd

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMetricName(t *testing.T) {
	tests := map[string]string{
		" login/outcome ": "login_outcome",
		"backend..call":   "backend.call",
		".http.request.":  "http.request",
		"":                "",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizeMetricName(in), in)
	}
}

func TestFormatTags(t *testing.T) {
	assert.Empty(t, formatTags(nil, nil))
	assert.Equal(t, "|#env:prod,result:denied",
		formatTags(map[string]string{"env": "prod", "result": "ok"}, map[string]string{"result": "denied", " ": "x"}))
}

func listenUDP(t *testing.T) *net.UDPConn {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readLine(t *testing.T, conn *net.UDPConn) string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 512)
	n, _, err := conn.ReadFromUDP(buf)
	require.NoError(t, err)
	return string(buf[:n])
}

func TestClientEmitsLines(t *testing.T) {
	server := listenUDP(t)
	c, err := NewClient(Config{
		Enabled:    true,
		Address:    server.LocalAddr().String(),
		Prefix:     ".wiqayah.console.",
		GlobalTags: map[string]string{"env": "test"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	require.True(t, c.Enabled())

	c.Count("login.outcome", 1, map[string]string{"result": "access_denied"})
	assert.Equal(t, "wiqayah.console.login.outcome:1|c|#env:test,result:access_denied", readLine(t, server))

	c.Timing("backend.call", 1500*time.Microsecond, nil)
	assert.Equal(t, "wiqayah.console.backend.call:1.5|ms|#env:test", readLine(t, server))
}

func TestClientDisabled(t *testing.T) {
	c, err := NewClient(Config{Enabled: true, Address: "  "})
	require.NoError(t, err)
	assert.False(t, c.Enabled())
	c.Count("anything", 1, nil)
	assert.NoError(t, c.Close())

	var nilClient *Client
	assert.False(t, nilClient.Enabled())
	nilClient.Timing("x", time.Second, nil)
	assert.NoError(t, nilClient.Close())
}

func TestClientCloseStopsWrites(t *testing.T) {
	server := listenUDP(t)
	c, err := NewClient(Config{Enabled: true, Address: server.LocalAddr().String()})
	require.NoError(t, err)
	require.NoError(t, c.Close())
	assert.False(t, c.Enabled())
	c.Count("after.close", 1, nil)
}

func TestNewClientDialError(t *testing.T) {
	_, err := NewClient(Config{Enabled: true, Address: "not a host:99999"})
	assert.Error(t, err)
}
