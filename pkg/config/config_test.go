package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/scaff/pkg/errors"
	"github.com/arthur-debert/scaff/pkg/template"
)

// isolated returns options that only see the embedded defaults
func isolated(t *testing.T) LoadOptions {
	t.Helper()
	return LoadOptions{
		UserConfigDir: t.TempDir(),
		ProjectDir:    t.TempDir(),
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(isolated(t))
	require.NoError(t, err)

	assert.Equal(t, "default", cfg.Syntax.Preset)
	assert.Equal(t, "upper", cfg.Generators.UUIDCase)
	assert.Equal(t, "uuid", cfg.Generated["uuid"])
	assert.Equal(t, "year", cfg.Generated["year"])
	assert.False(t, cfg.Output.Overwrite)
	assert.Equal(t, []string{".DS_Store"}, cfg.Output.Skip)

	syntax, err := cfg.TemplateSyntax()
	require.NoError(t, err)
	assert.Equal(t, template.DefaultSyntax, syntax)
}

func TestLoadLayers(t *testing.T) {
	t.Run("user_config_toml", func(t *testing.T) {
		opts := isolated(t)
		writeFile(t, filepath.Join(opts.UserConfigDir, "config.toml"), `
[syntax]
preset = "xcode"

[variables]
ORGANIZATIONNAME = "Acme"
`)
		cfg, err := Load(opts)
		require.NoError(t, err)

		syntax, err := cfg.TemplateSyntax()
		require.NoError(t, err)
		assert.Equal(t, template.XcodeSyntax, syntax)
		assert.Equal(t, "Acme", cfg.Variables["ORGANIZATIONNAME"])
	})

	t.Run("project_yaml_overrides_user", func(t *testing.T) {
		opts := isolated(t)
		writeFile(t, filepath.Join(opts.UserConfigDir, "config.toml"), `
[variables]
AUTHOR = "user"
`)
		writeFile(t, filepath.Join(opts.ProjectDir, ".scaff.yaml"), `
variables:
  AUTHOR: project
syntax:
  open: "{{"
  close: "}}"
`)
		cfg, err := Load(opts)
		require.NoError(t, err)
		assert.Equal(t, "project", cfg.Variables["AUTHOR"])

		syntax, err := cfg.TemplateSyntax()
		require.NoError(t, err)
		assert.Equal(t, "{{", syntax.Open)
		assert.Equal(t, "}}", syntax.Close)
		assert.Equal(t, ":", syntax.ModifierSeparator)
	})

	t.Run("explicit_file", func(t *testing.T) {
		opts := isolated(t)
		opts.ConfigFile = filepath.Join(t.TempDir(), "extra.toml")
		writeFile(t, opts.ConfigFile, `
[output]
overwrite = true
`)
		cfg, err := Load(opts)
		require.NoError(t, err)
		assert.True(t, cfg.Output.Overwrite)
	})

	t.Run("environment", func(t *testing.T) {
		opts := isolated(t)
		t.Setenv("SCAFF_GENERATORS_UUID_CASE", "lower")
		t.Setenv("SCAFF_OUTPUT_OVERWRITE", "true")
		t.Setenv("SCAFF_OUTPUT_SKIP", "*.orig,*.rej")

		cfg, err := Load(opts)
		require.NoError(t, err)
		assert.Equal(t, "lower", cfg.Generators.UUIDCase)
		assert.True(t, cfg.Output.Overwrite)
		assert.Equal(t, []string{"*.orig", "*.rej"}, cfg.Output.Skip)
		assert.True(t, cfg.Generator().LowercaseUUID)
	})

	t.Run("overrides_win", func(t *testing.T) {
		opts := isolated(t)
		t.Setenv("SCAFF_SYNTAX_PRESET", "default")
		opts.Overrides = map[string]interface{}{"syntax.preset": "xcode"}

		cfg, err := Load(opts)
		require.NoError(t, err)
		assert.Equal(t, "xcode", cfg.Syntax.Preset)
	})
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		config   string
		wantCode errors.ErrorCode
	}{
		{"malformed_toml", "[syntax\npreset = ", errors.ErrConfigParse},
		{"bad_uuid_case", "[generators]\nuuid_case = \"mixed\"\n", errors.ErrConfigValid},
		{"unknown_preset", "[syntax]\npreset = \"jinja\"\n", errors.ErrConfigValid},
		{"unknown_generator", "[generated]\nbuild = \"sha\"\n", errors.ErrConfigValid},
		{"ambiguous_markers", "[syntax]\nmodifier_delimiter = \":\"\n", errors.ErrConfigValid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := isolated(t)
			writeFile(t, filepath.Join(opts.ProjectDir, ".scaff.toml"), tt.config)

			cfg, err := Load(opts)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Equal(t, tt.wantCode, errors.GetErrorCode(err))
		})
	}

	t.Run("missing_explicit_file", func(t *testing.T) {
		opts := isolated(t)
		opts.ConfigFile = filepath.Join(t.TempDir(), "nope.toml")
		_, err := Load(opts)
		assert.Equal(t, errors.ErrConfigLoad, errors.GetErrorCode(err))
	})
}

func TestBindings(t *testing.T) {
	cfg := &Config{
		Generated: map[string]string{"uuid": "uuid", "AUTHOR": "date"},
		Variables: map[string]string{"AUTHOR": "ada"},
	}
	b := cfg.Bindings()

	assert.True(t, b["uuid"].IsGenerated())
	assert.False(t, b["AUTHOR"].IsGenerated(), "literals win over generators")
	assert.Equal(t, "ada", b["AUTHOR"].Value())
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "syntax.modifier_separator", envKey("SCAFF_SYNTAX_MODIFIER_SEPARATOR"))
	assert.Equal(t, "output.overwrite", envKey("SCAFF_OUTPUT_OVERWRITE"))
}

func TestDefaultConfigContent(t *testing.T) {
	assert.Contains(t, DefaultConfigContent(), "[syntax]")
}
