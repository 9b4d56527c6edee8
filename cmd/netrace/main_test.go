// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/netrace/netrace/internal/pkg/test"
	"github.com/netrace/netrace/pkg/network"
	"github.com/netrace/netrace/pkg/ptr"
	"github.com/netrace/netrace/pkg/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = "../../pkg/service/testdata/config.yaml"

func sewer(s string) network.ID { return network.NewID("sewer", s) }

func TestMain_trace(t *testing.T) {
	for _, x := range []struct {
		args  []string
		edges []network.ID
	}{
		{
			args:  []string{"--start", "sewer:1"},
			edges: []network.ID{sewer("a"), sewer("b"), sewer("d"), sewer("c")},
		},
		{
			args:  []string{"--start", "sewer:1", "--edge-filter", `sewer=status != "closed"`},
			edges: []network.ID{sewer("a"), sewer("b"), sewer("d")},
		},
		{
			args:  []string{"-s", "sewer:3", "-u"},
			edges: []network.ID{sewer("b"), sewer("a")},
		},
	} {
		t.Run(strings.Join(x.args, " "), func(t *testing.T) {
			out, err := command(t, append([]string{"trace", "-o", "json"}, x.args...)...).Output()
			require.NoError(t, test.ExecError(err))
			var resp service.TraceResponse
			require.NoError(t, json.Unmarshal(out, &resp), string(out))
			assert.Equal(t, x.edges, resp.OrderedEdges)
		})
	}
}

func TestMain_validate(t *testing.T) {
	out, err := command(t, "validate", "-o", "json").Output()
	require.NoError(t, test.ExecError(err))
	assert.JSONEq(t, test.JSONString([]service.NetworkInfo{
		{Name: "sewer", EdgeType: "pipe", VertexType: "manhole", Aggregates: []string{"totalFlow", "split"}, Vertices: 5, Edges: 4},
		{Name: "river", EdgeType: "river", VertexType: "river-vertex", MaxDistance: ptr.To(100.0), Vertices: 2, Edges: 2},
	}), string(out))
}

func TestMain_errors(t *testing.T) {
	for _, x := range []struct {
		name string
		args []string
		want string
	}{
		{"no start", []string{"trace"}, `required flag(s) "start" not set`},
		{"not found", []string{"trace", "--start", "sewer:nonesuch"}, "start not found: sewer:nonesuch"},
		{"bad network", []string{"trace", "--start", "sewer:1", "--network", "sewer:x"}, `invalid max distance: "sewer:x"`},
		{"bad output", []string{"validate", "-o", "xml"}, `invalid value "xml"`},
		{"missing config", []string{"validate", "-c", "nonesuch.yaml"}, "nonesuch.yaml"},
	} {
		t.Run(x.name, func(t *testing.T) {
			cmd := command(t, x.args...)
			cmd.Stderr = nil
			_, err := cmd.Output()
			var exit *exec.ExitError
			require.True(t, errors.As(err, &exit), "%v", err)
			assert.Equal(t, 1, exit.ExitCode())
			assert.Contains(t, string(exit.Stderr), x.want)
		})
	}
}

func TestMain_version(t *testing.T) {
	out, err := command(t, "version").Output()
	require.NoError(t, test.ExecError(err))
	assert.NotEmpty(t, strings.TrimSpace(string(out)))
}

func TestMain_web(t *testing.T) {
	addr, err := test.ListenAddr()
	require.NoError(t, err)
	cmd := command(t, "web", "--http", addr)
	require.NoError(t, cmd.Start())
	t.Cleanup(func() { _ = cmd.Process.Kill(); _ = cmd.Wait() })
	base := "http://" + addr + "/api/v1"
	// Wait till the server is up and the graph is loaded.
	require.Eventually(t, func() bool {
		res, err := http.Get(base + "/status")
		if err != nil {
			return false
		}
		_ = res.Body.Close()
		return res.StatusCode == http.StatusOK
	}, 10*time.Second, time.Second/10)

	res, err := http.Post(base+"/trace", "application/json", strings.NewReader(`{"start":["sewer:3"]}`))
	require.NoError(t, err)
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode, string(b))
	var resp service.TraceResponse
	require.NoError(t, json.Unmarshal(b, &resp))
	assert.Equal(t, []network.ID{sewer("d")}, resp.OrderedEdges)
}

func TestMain(m *testing.M) {
	// Build netrace once to run in tests, much faster than using 'go run' for each test.
	tmpDir = test.Must(os.MkdirTemp("", "netrace_test"))
	cmd := exec.Command("go", "build", "-o", tmpDir)
	cmd.Stderr = os.Stderr
	test.PanicErr(cmd.Run())
	code := m.Run()
	_ = os.RemoveAll(tmpDir)
	os.Exit(code)
}

var tmpDir string

func command(t *testing.T, args ...string) *exec.Cmd {
	t.Helper()
	commonArgs := []string{"-v2", "-c", testConfig}
	cmd := exec.Command(filepath.Join(tmpDir, "netrace"), append(commonArgs, args...)...)
	cmd.Stderr = os.Stderr
	return cmd
}
