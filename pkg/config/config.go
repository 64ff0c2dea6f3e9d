package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/scaff/pkg/errors"
	"github.com/arthur-debert/scaff/pkg/logging"
	"github.com/arthur-debert/scaff/pkg/template"
)

const (
	// AppName is the directory name used under the XDG config home
	AppName = "scaff"
	// EnvPrefix prefixes environment overrides
	EnvPrefix = "SCAFF_"
)

// Config is the fully merged scaff configuration
type Config struct {
	Syntax     Syntax            `koanf:"syntax"`
	Generators Generators        `koanf:"generators"`
	Generated  map[string]string `koanf:"generated"`
	Variables  map[string]string `koanf:"variables"`
	Output     Output            `koanf:"output"`
}

// Syntax selects the directive markers. Non-empty marker fields override the
// preset.
type Syntax struct {
	Preset            string `koanf:"preset"`
	Open              string `koanf:"open"`
	Close             string `koanf:"close"`
	ModifierSeparator string `koanf:"modifier_separator"`
	ModifierDelimiter string `koanf:"modifier_delimiter"`
}

// Generators tunes the standard value generator
type Generators struct {
	UUIDCase string `koanf:"uuid_case"`
}

// Output controls how rendered bundles are written
type Output struct {
	Overwrite bool     `koanf:"overwrite"`
	Skip      []string `koanf:"skip"`
}

// LoadOptions locates the configuration layers. Empty fields fall back to
// the defaults described in the package documentation.
type LoadOptions struct {
	// UserConfigDir holds config.toml or config.yaml
	UserConfigDir string
	// ProjectDir holds .scaff.toml or .scaff.yaml
	ProjectDir string
	// ConfigFile is an explicit extra layer
	ConfigFile string
	// Overrides are applied last, keyed by dotted path ("syntax.preset")
	Overrides map[string]interface{}
}

// DefaultUserConfigDir returns $XDG_CONFIG_HOME/scaff
func DefaultUserConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Load merges every configuration layer and decodes the result
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults").
			WithDetail("path", "embedded/defaults.toml")
	}

	// 2. User config
	userDir := opts.UserConfigDir
	if userDir == "" {
		userDir = DefaultUserConfigDir()
	}
	if err := loadFirst(k, userDir, "config"); err != nil {
		return nil, err
	}

	// 3. Project config
	projectDir := opts.ProjectDir
	if projectDir == "" {
		projectDir = "."
	}
	if err := loadFirst(k, projectDir, ".scaff"); err != nil {
		return nil, err
	}

	// 4. Explicit file
	if opts.ConfigFile != "" {
		if _, err := os.Stat(opts.ConfigFile); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not found", opts.ConfigFile).
				WithDetail("path", opts.ConfigFile)
		}
		if err := loadFile(k, opts.ConfigFile); err != nil {
			return nil, err
		}
	}

	// 5. Environment
	err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	// 6. Explicit overrides (CLI flags)
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("preset", cfg.Syntax.Preset).
		Str("uuid_case", cfg.Generators.UUIDCase).
		Int("variables", len(cfg.Variables)).
		Msg("configuration loaded")

	return &cfg, nil
}

// envKey maps SCAFF_SYNTAX_MODIFIER_SEPARATOR to syntax.modifier_separator:
// the first underscore separates the section from the key.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

// loadFirst loads the first of base.toml, base.yaml, base.yml found in dir
func loadFirst(k *koanf.Koanf, dir, base string) error {
	for _, ext := range []string{".toml", ".yaml", ".yml"} {
		path := filepath.Join(dir, base+ext)
		if _, err := os.Stat(path); err == nil {
			return loadFile(k, path)
		}
	}
	return nil
}

func loadFile(k *koanf.Koanf, path string) error {
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	default:
		parser = toml.Parser()
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path).
			WithDetail("path", path)
	}
	logger := logging.GetLogger("config")
	logger.Debug().Str("path", path).Msg("config layer loaded")
	return nil
}

// Validate checks values that decoding cannot
func (c *Config) Validate() error {
	switch c.Generators.UUIDCase {
	case "", "upper", "lower":
	default:
		return errors.Newf(errors.ErrConfigValid, "generators.uuid_case must be upper or lower, got %q", c.Generators.UUIDCase).
			WithDetail("field", "generators.uuid_case")
	}
	for name, tag := range c.Generated {
		if !isKnownTag(tag) {
			return errors.Newf(errors.ErrConfigValid, "generated.%s uses unknown generator %q", name, tag).
				WithDetail("field", "generated."+name)
		}
	}
	if _, err := c.TemplateSyntax(); err != nil {
		return err
	}
	return nil
}

// TemplateSyntax resolves the preset and marker overrides into a validated
// template.Syntax
func (c *Config) TemplateSyntax() (template.Syntax, error) {
	preset := c.Syntax.Preset
	if preset == "" {
		preset = "default"
	}
	syntax, ok := template.SyntaxPresets[preset]
	if !ok {
		return template.Syntax{}, errors.Newf(errors.ErrConfigValid, "unknown syntax preset %q", preset).
			WithDetail("field", "syntax.preset")
	}
	if c.Syntax.Open != "" {
		syntax.Open = c.Syntax.Open
	}
	if c.Syntax.Close != "" {
		syntax.Close = c.Syntax.Close
	}
	if c.Syntax.ModifierSeparator != "" {
		syntax.ModifierSeparator = c.Syntax.ModifierSeparator
	}
	if c.Syntax.ModifierDelimiter != "" {
		syntax.ModifierDelimiter = c.Syntax.ModifierDelimiter
	}
	if err := syntax.Validate(); err != nil {
		return template.Syntax{}, errors.Wrap(err, errors.ErrConfigValid, "invalid syntax configuration")
	}
	return syntax, nil
}

// Generator returns the standard generator configured by Generators
func (c *Config) Generator() *template.StandardGenerator {
	gen := template.NewStandardGenerator()
	gen.LowercaseUUID = c.Generators.UUIDCase == "lower"
	return gen
}

// Bindings returns the bindings every render starts from: configured
// literals plus configured generator symbols
func (c *Config) Bindings() template.Bindings {
	b := make(template.Bindings, len(c.Variables)+len(c.Generated))
	for name, tag := range c.Generated {
		b[name] = template.Generated(tag)
	}
	for name, value := range c.Variables {
		b[name] = template.Literal(value)
	}
	return b
}

func isKnownTag(tag string) bool {
	for _, t := range template.GeneratorTags {
		if t == tag {
			return true
		}
	}
	return false
}
