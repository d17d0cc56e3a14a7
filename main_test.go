package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    invocation
		wantErr string
	}{
		{name: "bot", args: []string{"bot"}, want: invocation{command: "bot"}},
		{name: "config flag", args: []string{"-config", "prod.yaml", "serve"}, want: invocation{configPath: "prod.yaml", command: "serve"}},
		{name: "migrate", args: []string{"migrate"}, want: invocation{command: "migrate"}},
		{name: "missing command", args: nil, wantErr: "exactly one command required"},
		{name: "extra args", args: []string{"bot", "serve"}, wantErr: "exactly one command required"},
		{name: "unknown command", args: []string{"sync"}, wantErr: `unknown command "sync"`},
		{name: "unknown flag", args: []string{"-port", "1", "bot"}, wantErr: "flag provided but not defined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArgs(tt.args, io.Discard)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseArgsHelp(t *testing.T) {
	_, err := parseArgs([]string{"-h"}, io.Discard)
	assert.True(t, errors.Is(err, flag.ErrHelp))
}

func TestRunBotRejectsMissingSettings(t *testing.T) {
	testChdir(t, t.TempDir())
	t.Setenv("API_TOKEN", "")
	t.Setenv("API_BASE_URL", "")

	err := run(context.Background(), []string{"bot"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_TOKEN is not set")
	assert.Contains(t, err.Error(), "API_BASE_URL is not set")
}

func TestRunMigrateNeedsDSN(t *testing.T) {
	testChdir(t, t.TempDir())
	t.Setenv("NOTESBOT_POSTGRES_DSN", "")

	err := run(context.Background(), []string{"migrate"})
	assert.EqualError(t, err, "migrate needs NOTESBOT_POSTGRES_DSN")
}

// testChdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func testChdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
