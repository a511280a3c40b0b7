package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/andparsons/composer-project-files-installer/pkg/errors"
	"github.com/andparsons/composer-project-files-installer/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Delimiter separates nested keys. Package names and path prefixes may
// contain dots, so the koanf default is not usable.
const Delimiter = "::"

// EnvPrefix is the prefix of environment variables read as configuration
const EnvPrefix = "FILES_INSTALLER_"

// composerExtraKey is the section of composer.json holding installer keys
const composerExtraKey = "extra"

// Sources lists the optional inputs of Load. Empty fields are skipped.
type Sources struct {
	// ComposerJSON is the path of the root composer.json
	ComposerJSON string
	// ProjectConfigs are candidate project config files; the first one that
	// exists is loaded
	ProjectConfigs []string
	// Extra is an already parsed "extra" section, for hosts that hand it over
	// directly instead of a file path
	Extra map[string]interface{}
	// Overrides are applied last, typically from command-line flags
	Overrides map[string]interface{}
	// SkipEnv disables the environment layer
	SkipEnv bool
}

// Load builds the configuration from defaults and every source in src
func Load(src Sources) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(Delimiter)

	// 1. Defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. composer.json extra
	if src.ComposerJSON != "" {
		if err := loadComposerExtra(k, src.ComposerJSON); err != nil {
			return nil, err
		}
	}
	if src.Extra != nil {
		if err := k.Load(confmap.Provider(src.Extra, Delimiter), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load extra section")
		}
	}

	// 3. Project config file
	for _, path := range src.ProjectConfigs {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load project config from %s", path).
				WithDetail("path", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded project config")
		break
	}

	// 4. Environment
	if !src.SkipEnv {
		if err := k.Load(env.Provider(EnvPrefix, Delimiter, envKey), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment variables")
		}
	}

	// 5. Overrides
	if len(src.Overrides) > 0 {
		if err := k.Load(confmap.Provider(src.Overrides, Delimiter), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load overrides")
		}
	}

	cfg, err := unmarshal(k)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("strategy", cfg.Strategy).
		Bool("force", cfg.Force).
		Int("overrides", len(cfg.Overwrite)).
		Int("translations", len(cfg.Translations)).
		Msg("Configuration loaded")
	return cfg, nil
}

// FromExtra builds the configuration from an already parsed "extra" section
// on top of the defaults, without reading files or the environment
func FromExtra(extra map[string]interface{}) (*Config, error) {
	return Load(Sources{Extra: extra, SkipEnv: true})
}

func loadComposerExtra(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrConfigLoad, "cannot access %s", path)
	}

	composer := koanf.New(Delimiter)
	if err := composer.Load(file.Provider(path), json.Parser()); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", path).
			WithDetail("path", path)
	}
	if !composer.Exists(composerExtraKey) {
		return nil
	}
	if err := k.Merge(composer.Cut(composerExtraKey)); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to merge %s section of %s", composerExtraKey, path)
	}
	return nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, errors.Newf(errors.ErrConfigLoad, "unsupported config file format %s", path).
			WithDetail("path", path)
	}
}

// envKey maps FILES_INSTALLER_FILES_FORCE to files-force. A double
// underscore separates nested keys. Variables that do not name a known
// top-level key are skipped.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.Split(key, "__")
	for i, part := range parts {
		parts[i] = strings.ReplaceAll(part, "_", "-")
	}
	if !knownKey(parts[0]) {
		return ""
	}
	return strings.Join(parts, Delimiter)
}

func knownKey(key string) bool {
	switch key {
	case KeyStrategy, KeyForce, KeyOverwrite, KeyIgnore, KeySortPriority,
		KeyDeploySortPriority, KeyTranslations, KeyMapOverwrite:
		return true
	}
	return false
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	cfg.normalize()
	return &cfg, nil
}
