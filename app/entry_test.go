package app

import (
	"context"
	"fmt"
	stdnet "net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	t.Helper()
	lis, err := stdnet.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer lis.Close()
	return lis.Addr().(*stdnet.TCPAddr).Port
}

func writeConfig(t *testing.T, handler string, port int) string {
	t.Helper()
	content := fmt.Sprintf(`
[log]
format = "text"
level = "info"

[server]
bind = "127.0.0.1"
port = %d
handler = %q
verbose = false

[server.accept]
backlog = 16
reuse_address = true
max_retry_delay_ms = 1000
retry_budget = 10
max_conns_per_source = 0

[server.tcp]
no_delay = true
keep_alive_sec = 10
read_buffer = 1024
write_buffer = 1024
`, port, handler)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunServerVerifyConfig(t *testing.T) {
	path := writeConfig(t, "sink", freePort(t))
	require.NoError(t, RunServer(context.Background(), []string{path}, true))
}

func TestRunServerRejectsMalformedAcceptSection(t *testing.T) {
	content := fmt.Sprintf(`
[server]
bind = "127.0.0.1"
port = %d
handler = "sink"

[server.accept]
backlog = "definitely-not-a-number"
`, freePort(t))
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	err := RunServer(context.Background(), []string{path}, true)
	require.Error(t, err)
	require.Contains(t, err.Error(), "server.accept")
}

func TestRunServerRejectsUnknownHandler(t *testing.T) {
	path := writeConfig(t, "bogus", freePort(t))
	require.Error(t, RunServer(context.Background(), []string{path}, true))
}

func TestRunServerMissingConfigFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")
	require.Error(t, RunServer(context.Background(), []string{missing}, true))
}
