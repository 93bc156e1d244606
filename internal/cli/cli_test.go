package cli

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/apibench/internal/model"
	"github.com/wesleyorama2/apibench/internal/output"
	"github.com/wesleyorama2/apibench/internal/server"
	"github.com/wesleyorama2/apibench/internal/strategy"
)

func newValuesServer(t *testing.T) string {
	t.Helper()
	ts := httptest.NewServer(server.New(model.Fixture(), zerolog.Nop()).Handler())
	t.Cleanup(ts.Close)
	return ts.URL + server.ValuesPath
}

// execute runs the command tree with args and returns what it wrote to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRun_ReportsEveryStrategyInOrder(t *testing.T) {
	url := newValuesServer(t)

	out, err := execute(t, "run", "--url", url, "--iterations", "3", "--no-color", "--log-level", "error")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(strategy.Labels()))

	line := regexp.MustCompile(`^(\S+) : Average \d+(\.\d+)? ms$`)
	for i, label := range strategy.Labels() {
		m := line.FindStringSubmatch(lines[i])
		require.NotNil(t, m, "unexpected line %q", lines[i])
		assert.Equal(t, label, m[1])
	}
}

func TestRun_JSONSummaryForSelectedStrategies(t *testing.T) {
	url := newValuesServer(t)

	out, err := execute(t, "run", "--url", url, "-n", "2", "--format", "json",
		"--strategy", "stream-post", "--strategy", "stream-get", "--log-level", "error")
	require.NoError(t, err)

	var summary output.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	require.Len(t, summary.Strategies, 2)
	assert.Equal(t, "stream-get", summary.Strategies[0].Label)
	assert.Equal(t, "stream-post", summary.Strategies[1].Label)
	for _, s := range summary.Strategies {
		assert.Equal(t, 2, s.Iterations)
	}
}

func TestRun_UnsuccessfulStatusFailsWithoutReport(t *testing.T) {
	url := newValuesServer(t) + "?status=500"

	out, err := execute(t, "run", "--url", url, "-n", "2", "-s", "status-checked-get", "--log-level", "error")
	require.Error(t, err)
	assert.ErrorIs(t, err, strategy.ErrUnsuccessfulStatus)
	assert.Contains(t, err.Error(), "500")
	assert.Empty(t, out)
}

func TestRun_UnknownStrategy(t *testing.T) {
	_, err := execute(t, "run", "-s", "carrier-pigeon", "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}

func TestRun_PayloadFileMustMatchSchema(t *testing.T) {
	url := newValuesServer(t)
	path := filepath.Join(t.TempDir(), "payload.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"_id":"not an array"}`), 0o644))

	_, err := execute(t, "run", "--url", url, "-s", "basic-post", "--payload-file", path, "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payload does not match schema")
}

func TestRun_PostOnlyWithPayloadFile(t *testing.T) {
	url := newValuesServer(t)
	path := filepath.Join(t.TempDir(), "payload.json")
	require.NoError(t, os.WriteFile(path, model.Fixture(), 0o644))

	out, err := execute(t, "run", "--url", url, "-n", "2", "-s", "basic-post", "--payload-file", path, "--log-level", "error")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "basic-post : Average "), out)
}

func TestLoadRunConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
url: http://bench.local/api/values
iterations: 50
warmup: ignore
headers:
  Accept: application/json
output:
  format: yaml
`), 0o644))

	cmd := newRunCmd()
	require.NoError(t, cmd.ParseFlags([]string{
		"--config", path,
		"--iterations", "7",
		"-H", "X-Trace: on",
		"--fresh-post-client=false",
	}))

	cfg, err := loadRunConfig(cmd)
	require.NoError(t, err)

	assert.Equal(t, "http://bench.local/api/values", cfg.URL)
	assert.Equal(t, 7, cfg.Iterations)
	assert.Equal(t, "ignore", cfg.Warmup)
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.Equal(t, map[string]string{"Accept": "application/json", "X-Trace": "on"}, cfg.Headers)
	assert.False(t, cfg.UseFreshPostClient())
}

func TestLoadRunConfig_DefaultsWithoutFile(t *testing.T) {
	cmd := newRunCmd()
	require.NoError(t, cmd.ParseFlags(nil))

	cfg, err := loadRunConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000/api/values", cfg.URL)
	assert.Equal(t, 100, cfg.Iterations)
	assert.Equal(t, "abort", cfg.Warmup)
	assert.True(t, cfg.UseFreshPostClient())
}

func TestLoadRunConfig_InvalidOverride(t *testing.T) {
	cmd := newRunCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--iterations", "0", "--format", "xml"}))

	_, err := loadRunConfig(cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "iterations")
	assert.Contains(t, err.Error(), "format")
}

func TestParseHeaders(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    map[string]string
		wantErr bool
	}{
		{
			name:    "trims whitespace",
			headers: []string{"Accept:  application/json ", "X-Id:1"},
			want:    map[string]string{"Accept": "application/json", "X-Id": "1"},
		},
		{
			name:    "value containing colon",
			headers: []string{"Referer: http://example.com"},
			want:    map[string]string{"Referer": "http://example.com"},
		},
		{
			name:    "missing colon",
			headers: []string{"Accept"},
			wantErr: true,
		},
		{
			name:    "empty key",
			headers: []string{": value"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseHeaders(tt.headers)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGet_PrintsRequestAndResponse(t *testing.T) {
	url := newValuesServer(t)

	out, err := execute(t, "get", url, "--no-color", "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "▶ REQUEST: GET "+url)
	assert.Contains(t, out, "◀ RESPONSE: 200 OK")
	assert.Contains(t, out, "Time to First Byte")
	assert.Contains(t, out, "  Records: 3\n")
	assert.Contains(t, out, "Marsha")
}

func TestPost_SendsData(t *testing.T) {
	url := newValuesServer(t)

	out, err := execute(t, "post", url, "--no-color", "-d", `[]`)
	require.NoError(t, err)
	assert.Contains(t, out, "▶ REQUEST: POST "+url)
	assert.Contains(t, out, "◀ RESPONSE: 200 OK")
}

func TestPost_DataAndFileAreExclusive(t *testing.T) {
	_, err := execute(t, "post", "--data", "[]", "--file", "body.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestServe_RejectsInvalidFile(t *testing.T) {
	_, err := execute(t, "serve", "--file", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading payload file")
}

func TestRoot_InvalidLogLevel(t *testing.T) {
	_, err := execute(t, "run", "--log-level", "chatty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestList_PrintsStrategiesInOrder(t *testing.T) {
	out, err := execute(t, "list")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(strategy.Labels()))
	for i, label := range strategy.Labels() {
		fields := strings.Fields(lines[i])
		assert.Equal(t, label, fields[0])
	}
	assert.Contains(t, lines[6], "POST")
	assert.Contains(t, lines[0], "GET")
}
