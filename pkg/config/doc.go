// Package config handles configuration management for scaff.
//
// Configuration is layered with koanf, later layers overriding earlier ones:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. user config: $XDG_CONFIG_HOME/scaff/config.toml or config.yaml
//  3. project config: .scaff.toml or .scaff.yaml in the working directory
//  4. an explicit file passed with --config
//  5. SCAFF_* environment variables (SCAFF_SYNTAX_PRESET -> syntax.preset)
//
// The result is decoded into Config, which hands the template engine its
// Syntax, its generator and the bindings shared by every render.
package config
