package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/modelconv/pkg/errors"
	"github.com/arthur-debert/modelconv/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes environment overrides; "__" separates sections
	EnvPrefix = "MODELCONV_"
	// ProjectConfigName is looked up in the working directory with a .toml
	// or .yaml extension
	ProjectConfigName = ".modelconv"
)

// LoadOptions selects the configuration sources beyond the embedded defaults
type LoadOptions struct {
	// WorkDir is searched for the project configuration file
	WorkDir string
	// UserConfigPath replaces $XDG_CONFIG_HOME/modelconv/config.toml
	UserConfigPath string
	// ConfigFile is an explicit file, loaded after the project file. It must exist.
	ConfigFile string
	// Overrides are dotted keys set from command line flags
	Overrides map[string]interface{}
}

// UserConfigPath is the default location of the user configuration file
func UserConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "modelconv", "config.toml")
}

// Load builds the configuration from all sources
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "cannot parse embedded defaults")
	}

	// 2. User file
	userPath := opts.UserConfigPath
	if userPath == "" {
		userPath = UserConfigPath()
	}
	if err := loadOptionalFile(k, userPath); err != nil {
		return nil, err
	}

	// 3. Project file, the first one found
	for _, ext := range []string{".toml", ".yaml", ".yml"} {
		path := filepath.Join(opts.WorkDir, ProjectConfigName+ext)
		if _, err := os.Stat(path); err == nil {
			if err := loadFile(k, path); err != nil {
				return nil, err
			}
			break
		}
	}

	// 4. Explicit file
	if opts.ConfigFile != "" {
		if _, err := os.Stat(opts.ConfigFile); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read configuration file %s", opts.ConfigFile).
				WithDetail("path", opts.ConfigFile)
		}
		if err := loadFile(k, opts.ConfigFile); err != nil {
			return nil, err
		}
	}

	// 5. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "cannot load environment overrides")
	}

	// 6. Flags
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "cannot apply command line overrides")
		}
	}

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
		return nil, errors.Wrap(err, errors.ErrConfigParse, "cannot decode configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Debug().Str("groupId", cfg.Convert.GroupID).Str("version", cfg.Convert.Version).Msg("Configuration loaded")
	return &cfg, nil
}

// Validate checks the values the converter cannot default
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Convert.GroupID) == "" {
		problems = append(problems, "convert.group_id is empty")
	}
	if strings.TrimSpace(c.Convert.Version) == "" {
		problems = append(problems, "convert.version is empty")
	}
	for _, entry := range c.Convert.AddFrameworkProperties {
		if _, _, _, err := ParseFrameworkProperty(entry); err != nil {
			problems = append(problems, err.Error())
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return errors.New(errors.ErrConfigValid, "invalid configuration: "+strings.Join(problems, "; ")).
		WithDetail("problems", problems)
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

func loadOptionalFile(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrConfigLoad, "cannot read configuration file %s", path)
	}
	return loadFile(k, path)
}

func loadFile(k *koanf.Koanf, path string) error {
	var parser koanf.Parser = toml.Parser()
	if ext := filepath.Ext(path); ext == ".yaml" || ext == ".yml" {
		parser = yaml.Parser()
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "cannot parse configuration file %s", path).
			WithDetail("path", path)
	}
	logger := logging.GetLogger("config")
	logger.Debug().Str("path", path).Msg("Loaded configuration file")
	return nil
}
