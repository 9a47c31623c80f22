package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func newFlagSet() *flag.FlagSet {
	return flag.NewFlagSet("test", flag.ContinueOnError)
}

func TestParse_Defaults(t *testing.T) {
	opts, err := parse(newFlagSet(), []string{"-c", ""}, envFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", opts.Address)
	assert.Equal(t, "", opts.WebhookURL)
	assert.Equal(t, DefaultRelayTimeout, opts.RelayTimeout)
	assert.Equal(t, "info", opts.LogLevel)
}

func TestParse_WebhookURLPrecedence(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"preferred only", map[string]string{EnvWebhookURL: "http://n8n/a"}, "http://n8n/a"},
		{"fallback only", map[string]string{EnvPublicAPIURL: "http://n8n/b"}, "http://n8n/b"},
		{"both set", map[string]string{EnvWebhookURL: "http://n8n/a", EnvPublicAPIURL: "http://n8n/b"}, "http://n8n/a"},
		{"neither", map[string]string{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parse(newFlagSet(), []string{"-c", ""}, envFrom(tt.env))
			require.NoError(t, err)
			assert.Equal(t, tt.want, opts.WebhookURL)
		})
	}
}

func TestParse_EnvOverridesFlags(t *testing.T) {
	env := map[string]string{
		"SERVER_ADDRESS": ":9090",
		EnvWebhookURL:    "http://env/hook",
		EnvWebhookSecret: "s3cret",
		"RELAY_TIMEOUT":  "3s",
		"LOG_LEVEL":      "debug",
	}
	opts, err := parse(newFlagSet(), []string{"-a", ":7070", "-u", "http://flag/hook", "-c", ""}, envFrom(env))
	require.NoError(t, err)

	assert.Equal(t, ":9090", opts.Address)
	assert.Equal(t, "http://env/hook", opts.WebhookURL)
	assert.Equal(t, "s3cret", opts.WebhookSecret)
	assert.Equal(t, 3*time.Second, opts.RelayTimeout)
	assert.Equal(t, "debug", opts.LogLevel)
}

func TestParse_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"address":":8181","webhook_url":"http://file/hook","relay_timeout":"20s","log_level":"warn"}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	opts, err := parse(newFlagSet(), nil, envFrom(map[string]string{"CONFIG": path}))
	require.NoError(t, err)

	assert.Equal(t, ":8181", opts.Address)
	assert.Equal(t, "http://file/hook", opts.WebhookURL)
	assert.Equal(t, 20*time.Second, opts.RelayTimeout)
	assert.Equal(t, "warn", opts.LogLevel)
}

func TestParse_Errors(t *testing.T) {
	badFile := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(badFile, []byte(`{not json`), 0o600))

	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"bad env timeout", []string{"-c", ""}, map[string]string{"RELAY_TIMEOUT": "soon"}},
		{"zero timeout", []string{"-c", "", "-t", "0s"}, nil},
		{"bad config file", []string{"-c", badFile}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(newFlagSet(), tt.args, envFrom(tt.env))
			assert.Error(t, err)
		})
	}
}
