// Package hostconfig loads the host-side settings that govern how a
// crucible round runs: which Anthropic model the proposer uses, the
// similarity threshold, the round limit, storage location, and telemetry
// toggles. Settings layer the
// same way the rest of the module's configuration does: environment
// variables override a project config file, which overrides built-in
// defaults.
package hostconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the resolved set of host settings for one crucible invocation.
type Config struct {
	DBPath              string  `mapstructure:"db-path" yaml:"db-path" toml:"db_path"`
	AnthropicModel      string  `mapstructure:"anthropic-model" yaml:"anthropic-model" toml:"anthropic_model"`
	SimilarityThreshold float64 `mapstructure:"similarity-threshold" yaml:"similarity-threshold" toml:"similarity_threshold"`
	MaxRounds           int     `mapstructure:"max-rounds" yaml:"max-rounds" toml:"max_rounds"`
	TelemetryDisabled   bool    `mapstructure:"telemetry-disabled" yaml:"telemetry-disabled" toml:"telemetry_disabled"`
}

// Defaults mirrors the built-in values used when neither a config file nor
// an environment variable sets a field.
func Defaults() Config {
	return Config{
		DBPath:              ".crucible/round.db",
		AnthropicModel:      "claude-3-5-haiku-latest",
		SimilarityThreshold: 0.7,
		MaxRounds:           8,
		TelemetryDisabled:   false,
	}
}

// Load resolves Config from (in ascending precedence) built-in defaults, a
// project config file at configPath (.toml or .yaml, chosen by extension),
// and CRUCIBLE_*-prefixed environment variables.
func Load(configPath string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CRUCIBLE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	def := Defaults()
	v.SetDefault("db-path", def.DBPath)
	v.SetDefault("anthropic-model", def.AnthropicModel)
	v.SetDefault("similarity-threshold", def.SimilarityThreshold)
	v.SetDefault("max-rounds", def.MaxRounds)
	v.SetDefault("telemetry-disabled", def.TelemetryDisabled)

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := mergeConfigFile(v, configPath); err != nil {
				return Config{}, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("hostconfig: unmarshal: %w", err)
	}
	return cfg, nil
}

// mergeConfigFile reads configPath and merges its keys into v. TOML files
// are parsed with BurntSushi/toml and re-presented to viper as a map, since
// viper's own toml support doesn't round-trip nested keys the way this
// module's config layout expects; YAML files are parsed with yaml.v3 and
// merged the same way, as a map.
func mergeConfigFile(v *viper.Viper, configPath string) error {
	switch filepath.Ext(configPath) {
	case ".toml":
		var raw map[string]interface{}
		if _, err := toml.DecodeFile(configPath, &raw); err != nil {
			return fmt.Errorf("hostconfig: decode toml: %w", err)
		}
		return v.MergeConfigMap(tomlToViperKeys(raw))
	case ".yaml", ".yml":
		data, err := os.ReadFile(configPath) // #nosec G304 - configPath is operator-supplied
		if err != nil {
			return fmt.Errorf("hostconfig: read yaml: %w", err)
		}
		var raw map[string]interface{}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("hostconfig: parse yaml: %w", err)
		}
		return v.MergeConfigMap(raw)
	default:
		return fmt.Errorf("hostconfig: unsupported config extension %q", filepath.Ext(configPath))
	}
}

// tomlToViperKeys rewrites the snake_case keys BurntSushi/toml decodes into
// the kebab-case keys the rest of Config expects.
func tomlToViperKeys(raw map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		out[kebab(k)] = v
	}
	return out
}

func kebab(s string) string {
	b := make([]byte, 0, len(s))
	for _, r := range s {
		if r == '_' {
			b = append(b, '-')
			continue
		}
		b = append(b, byte(r))
	}
	return string(b)
}
