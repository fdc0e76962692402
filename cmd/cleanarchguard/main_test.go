package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/roblaszczak/go-cleanarch/cleanarch"
	"github.com/stretchr/testify/require"
)

func TestViolationFilter(t *testing.T) {
	f := newViolationFilter(&config{
		SharedModules:     []string{" core ", ""},
		AllowedViolations: []string{"assets/handlers"},
	})

	require.True(t, f.tolerated("cannot import between todo and core modules"))
	require.True(t, f.tolerated("modules/assets/handlers imports modules/assets/infrastructure"))
	require.False(t, f.tolerated("cannot import between todo and assets modules"))
	require.False(t, f.tolerated("domain imports services"))
}

func TestConfigLayers(t *testing.T) {
	cfg := &config{}
	cfg.Aliases.Interfaces = []string{"controllers"}
	layers := cfg.layers()

	require.Equal(t, cleanarch.LayerDomain, layers["domain"])
	require.Equal(t, cleanarch.LayerApplication, layers["services"])
	require.Equal(t, cleanarch.LayerInterfaces, layers["controllers"])
	require.NotContains(t, layers, "presentation")
	require.Equal(t, cleanarch.LayerInfrastructure, layers["infrastructure"])
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arch.yml")
	require.NoError(t, os.WriteFile(path, []byte("root: modules\nshared_modules: [core]\n"), 0o600))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "modules", cfg.Root)
	require.Equal(t, []string{"core"}, cfg.SharedModules)

	require.NoError(t, os.WriteFile(path, []byte("version: 1\n"), 0o600))
	_, err = loadConfig(path)
	require.Error(t, err)
}
