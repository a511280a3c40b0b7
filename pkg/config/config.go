package config

import (
	"sort"
	"strings"

	"github.com/andparsons/composer-project-files-installer/pkg/errors"
	"github.com/andparsons/composer-project-files-installer/pkg/mapping"
	"github.com/andparsons/composer-project-files-installer/pkg/types"
)

// Configuration keys, as they appear in the "extra" section of composer.json
const (
	KeyStrategy           = "files-install-strategy"
	KeyForce              = "files-force"
	KeyOverwrite          = "files-overwrite"
	KeyIgnore             = "files-ignore"
	KeySortPriority       = "files-sort-priority"
	KeyDeploySortPriority = "deploy-sort-priority"
	KeyTranslations       = "path-mapping-translations"
	KeyMapOverwrite       = "files-map-overwrite"
)

// WildcardPackage selects ignores that apply to every package
const WildcardPackage = "*"

// Config is the merged installer configuration. Package name keys are
// lowercased after loading.
type Config struct {
	// Strategy is the global strategy name
	Strategy string `koanf:"files-install-strategy"`
	// Force allows replacing existing destinations
	Force bool `koanf:"files-force"`
	// Overwrite maps package names to a strategy for that package only
	Overwrite map[string]string `koanf:"files-overwrite"`
	// Ignore maps package names, or "*", to destination paths left alone
	Ignore map[string][]string `koanf:"files-ignore"`
	// SortPriority maps package names to deploy priorities
	SortPriority map[string]int `koanf:"files-sort-priority"`
	// DeploySortPriority is the older name of SortPriority
	DeploySortPriority map[string]int `koanf:"deploy-sort-priority"`
	// Translations maps destination prefixes to replacements
	Translations map[string]string `koanf:"path-mapping-translations"`
	// MapOverwrite replaces the mapping list declared by a package
	MapOverwrite map[string][][]string `koanf:"files-map-overwrite"`
}

// Default returns the configuration used when nothing is configured
func Default() *Config {
	cfg := &Config{Strategy: string(types.DefaultStrategy)}
	cfg.normalize()
	return cfg
}

// GlobalStrategy returns the configured global strategy
func (c *Config) GlobalStrategy() (types.StrategyType, error) {
	return types.ParseStrategyType(c.Strategy)
}

// StrategyFor returns the strategy for a package: its override when one is
// configured, the global strategy otherwise
func (c *Config) StrategyFor(packageName string) (types.StrategyType, error) {
	if name, ok := c.Overwrite[strings.ToLower(packageName)]; ok {
		return types.ParseStrategyType(name)
	}
	return c.GlobalStrategy()
}

// IgnoresFor returns the wildcard ignores followed by the package's own
func (c *Config) IgnoresFor(packageName string) []string {
	var out []string
	out = append(out, c.Ignore[WildcardPackage]...)
	out = append(out, c.Ignore[strings.ToLower(packageName)]...)
	return out
}

// MapOverwriteFor returns the replacement mapping list for a package
func (c *Config) MapOverwriteFor(packageName string) ([][]string, bool) {
	m, ok := c.MapOverwrite[strings.ToLower(packageName)]
	return m, ok
}

// Priorities returns the merged priority table. files-sort-priority wins
// over deploy-sort-priority for the same package.
func (c *Config) Priorities() map[string]int {
	out := make(map[string]int, len(c.SortPriority)+len(c.DeploySortPriority))
	for name, p := range c.DeploySortPriority {
		out[name] = p
	}
	for name, p := range c.SortPriority {
		out[name] = p
	}
	return out
}

// TranslationRules returns the translation table as ordered rules
func (c *Config) TranslationRules() []mapping.TranslationRule {
	return mapping.RulesFromMap(c.Translations)
}

// Validate rejects unknown strategy names, globally and per package
func (c *Config) Validate() error {
	if _, err := c.GlobalStrategy(); err != nil {
		return errors.Wrapf(err, errors.ErrConfigInvalid, "invalid %s", KeyStrategy)
	}

	names := make([]string, 0, len(c.Overwrite))
	for name := range c.Overwrite {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := types.ParseStrategyType(c.Overwrite[name]); err != nil {
			return errors.Wrapf(err, errors.ErrConfigInvalid, "invalid %s for package %s", KeyOverwrite, name).
				WithDetail("package", name)
		}
	}

	for name, m := range c.MapOverwrite {
		for i, pair := range m {
			if len(pair) != 2 {
				return errors.Newf(errors.ErrConfigInvalid, "invalid %s for package %s: entry %d must be a [source, dest] pair", KeyMapOverwrite, name, i).
					WithDetail("package", name).
					WithDetail("index", i)
			}
		}
	}
	return nil
}

// normalize lowercases package name keys and strategy names and makes every
// map non-nil
func (c *Config) normalize() {
	c.Strategy = strings.ToLower(strings.TrimSpace(c.Strategy))

	overwrite := make(map[string]string, len(c.Overwrite))
	for name, s := range c.Overwrite {
		overwrite[strings.ToLower(name)] = strings.ToLower(strings.TrimSpace(s))
	}
	c.Overwrite = overwrite

	ignore := make(map[string][]string, len(c.Ignore))
	for name, paths := range c.Ignore {
		key := strings.ToLower(name)
		ignore[key] = append(ignore[key], paths...)
	}
	c.Ignore = ignore

	c.SortPriority = lowerKeys(c.SortPriority)
	c.DeploySortPriority = lowerKeys(c.DeploySortPriority)

	if c.Translations == nil {
		c.Translations = map[string]string{}
	}

	mapOverwrite := make(map[string][][]string, len(c.MapOverwrite))
	for name, m := range c.MapOverwrite {
		mapOverwrite[strings.ToLower(name)] = m
	}
	c.MapOverwrite = mapOverwrite
}

func lowerKeys(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for name, v := range in {
		out[strings.ToLower(name)] = v
	}
	return out
}
