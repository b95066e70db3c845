package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/jeanpaul/notewise/internal/config"
	"github.com/jeanpaul/notewise/internal/llm"
)

func TestNoteText(t *testing.T) {
	got, err := noteText([]string{"buy", "oat", "milk"}, strings.NewReader("ignored"), true)
	require.NoError(t, err)
	assert.Equal(t, "buy oat milk", got)

	got, err = noteText(nil, strings.NewReader("from a pipe\n"), false)
	require.NoError(t, err)
	assert.Equal(t, "from a pipe\n", got)

	_, err = noteText(nil, strings.NewReader(""), true)
	assert.Error(t, err)
}

func TestLocalBaseURL(t *testing.T) {
	old := cfg
	t.Cleanup(func() { cfg = old })

	cfg = config.DefaultConfig()
	cfg.BaseURL = "http://gpu-box:11434/api"
	assert.Equal(t, "http://gpu-box:11434/api", localBaseURL())

	cfg.Service = "remote"
	cfg.BaseURL = "https://api.example.test/v1"
	assert.Equal(t, llm.DefaultLocalBaseURL, localBaseURL())
}

func TestConfigPathPrecedence(t *testing.T) {
	oldFile, oldUsed := cfgFile, cfgUsed
	t.Cleanup(func() { cfgFile, cfgUsed = oldFile, oldUsed })

	cfgFile, cfgUsed = "", ""
	assert.Equal(t, config.DefaultPath(), configPath())

	cfgUsed = "/etc/notewise/config.yaml"
	assert.Equal(t, "/etc/notewise/config.yaml", configPath())

	cfgFile = "/tmp/explicit.yaml"
	assert.Equal(t, "/tmp/explicit.yaml", configPath())
}

func TestNewLoggerLevels(t *testing.T) {
	quiet, err := newLogger(false)
	require.NoError(t, err)
	assert.False(t, quiet.Core().Enabled(zapcore.DebugLevel), "debug is off by default")
	assert.True(t, quiet.Core().Enabled(zapcore.WarnLevel), "warnings are on")

	loud, err := newLogger(true)
	require.NoError(t, err)
	assert.True(t, loud.Core().Enabled(zapcore.DebugLevel))
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"add", "search", "insights", "list", "show", "clip", "shell", "doctor", "models", "pull", "remove", "config", "version"}
	have := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		assert.True(t, have[name], "missing command %q", name)
	}
}
