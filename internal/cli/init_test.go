package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okineadev/gitpaper/internal/config"
	clierrors "github.com/okineadev/gitpaper/internal/errors"
)

func TestWriteConfigTemplate(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "gitpaper.config.yml")

	cmd := newInitCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, writeConfigTemplate(cmd, path, false))
	assert.Equal(t, "✓ Config: created "+path+"\n", out.String())

	// The template must load cleanly and reproduce the defaults.
	cfg, err := config.Load(config.LoadOptions{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Source)
	assert.Equal(t, "markdown", cfg.Format)
	assert.Equal(t, []string{"feat", "perf", "fix", "types"}, typeNames(cfg))

	err = writeConfigTemplate(cmd, path, false)
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArguments, clierrors.ExitCode(err))

	require.NoError(t, os.WriteFile(path, []byte("emoji: false\n"), 0o644))
	require.NoError(t, writeConfigTemplate(cmd, path, true))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.GetDefaultConfigTemplate(), string(data))
}

func TestInitCmd_Global(t *testing.T) {
	isolate(t)
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"init", "--global"})
	require.NoError(t, cmd.Execute())

	assert.FileExists(t, filepath.Join(configHome, "gitpaper", "config.yml"))
}

func typeNames(cfg *config.Configuration) []string {
	names := make([]string, 0, len(cfg.Types))
	for _, e := range cfg.Types {
		names = append(names, e.Type)
	}
	return names
}
