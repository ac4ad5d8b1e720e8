package quillcfg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	configDirName  = "gitquill"
	configFileName = "config.yaml"
	configType     = "yaml"
	envPrefix      = "GITQUILL"
)

// ConfigFilepath returns the default config file location,
// ~/.config/gitquill/config.yaml.
func ConfigFilepath() (path string, err error) {
	var home string

	home, err = os.UserHomeDir()
	if err != nil {
		err = fmt.Errorf("%w: locating home directory: %v", ErrConfig, err)
		goto end
	}
	path = filepath.Join(home, ".config", configDirName, configFileName)

end:
	return path, err
}

// Load reads the config file (or defaults when absent), applies environment
// overrides, and returns the multi-profile config. A legacy single-profile
// file is migrated in place before loading.
//
// Missing config file is not an error; defaults are used.
func Load(configPath string) (cfg *Config, err error) {
	var v *viper.Viper

	if configPath == "" {
		configPath, err = ConfigFilepath()
		if err != nil {
			goto end
		}
	}

	err = migrateLegacy(configPath)
	if err != nil {
		goto end
	}

	v = viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("default_profile", DefaultProfileName)

	err = v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !os.IsNotExist(err) && !errors.As(err, &notFound) {
			err = fmt.Errorf("%w: reading %s: %v", ErrConfig, configPath, err)
			goto end
		}
		err = nil
	}

	cfg = &Config{}
	err = v.Unmarshal(cfg)
	if err != nil {
		err = fmt.Errorf("%w: unmarshaling %s: %v", ErrConfig, configPath, err)
		cfg = nil
		goto end
	}

	if cfg.DefaultProfile == "" {
		cfg.DefaultProfile = DefaultProfileName
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]Profile{}
	}
	for name, p := range cfg.Profiles {
		p.Name = name
		cfg.Profiles[name] = p
	}

end:
	return cfg, err
}

// Resolve merges the selected profile with environment and flag overrides
// into one immutable validated profile. Precedence: flags > env > file >
// defaults. Environment variables use the GITQUILL_ prefix (GITQUILL_API_KEY,
// GITQUILL_MODEL, ...).
func Resolve(cfg *Config, ov Overrides) (profile Profile, err error) {
	var found bool

	name := ov.Profile
	if name == "" {
		name = cfg.DefaultProfile
	}

	profile, found = cfg.Profiles[name]
	if !found {
		if ov.Profile != "" {
			err = fmt.Errorf("%w: %q (known: %s)", ErrProfileNotFound, name, knownProfiles(cfg))
			goto end
		}
		profile = defaultProfile()
	}
	profile.Name = name

	fillDefaults(&profile)
	applyEnv(&profile)
	applyOverrides(&profile, ov)

	err = profile.Validate()
	if err != nil {
		goto end
	}

end:
	return profile, err
}

func fillDefaults(p *Profile) {
	if p.Provider == "" {
		p.Provider = DefaultProvider
	}
	if p.Model == "" {
		p.Model = DefaultModel
	}
	if p.Locale == "" {
		p.Locale = DefaultLocale
	}
	if p.MaxSubjectLength == 0 {
		p.MaxSubjectLength = DefaultMaxSubjectLength
	}
	if p.ContextLines == 0 {
		p.ContextLines = DefaultContextLines
	}
	if p.TimeoutSeconds == 0 {
		p.TimeoutSeconds = DefaultTimeoutSeconds
	}
}

func applyEnv(p *Profile) {
	if v := os.Getenv(envPrefix + "_API_KEY"); v != "" {
		p.APIKey = v
	}
	if v := os.Getenv(envPrefix + "_BASE_URL"); v != "" {
		p.BaseURL = v
	}
	if v := os.Getenv(envPrefix + "_MODEL"); v != "" {
		p.Model = v
	}
	if v := os.Getenv(envPrefix + "_PROVIDER"); v != "" {
		p.Provider = v
	}
}

func applyOverrides(p *Profile, ov Overrides) {
	if ov.Provider != "" {
		p.Provider = ov.Provider
	}
	if ov.Model != "" {
		p.Model = ov.Model
	}
	if ov.APIKey != "" {
		p.APIKey = ov.APIKey
	}
	if ov.BaseURL != "" {
		p.BaseURL = ov.BaseURL
	}
	if ov.Locale != "" {
		p.Locale = ov.Locale
	}
	if ov.MaxLength > 0 {
		p.MaxSubjectLength = ov.MaxLength
	}
	if ov.ContextLines > 0 {
		p.ContextLines = ov.ContextLines
	}
	if len(ov.Exclude) > 0 {
		p.ExcludeGlobs = append(p.ExcludeGlobs, ov.Exclude...)
	}
}

func knownProfiles(cfg *Config) string {
	names := make([]string, 0, len(cfg.Profiles))
	for name := range cfg.Profiles {
		names = append(names, name)
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

// Save writes the config back to disk, creating parent directories.
func Save(cfg *Config, configPath string) (err error) {
	var raw []byte

	if configPath == "" {
		configPath, err = ConfigFilepath()
		if err != nil {
			goto end
		}
	}

	raw, err = yaml.Marshal(cfg)
	if err != nil {
		err = fmt.Errorf("%w: marshaling config: %v", ErrConfig, err)
		goto end
	}

	err = os.MkdirAll(filepath.Dir(configPath), 0o755)
	if err != nil {
		err = fmt.Errorf("%w: creating config directory: %v", ErrConfig, err)
		goto end
	}

	err = os.WriteFile(configPath, raw, 0o600)
	if err != nil {
		err = fmt.Errorf("%w: writing %s: %v", ErrConfig, configPath, err)
		goto end
	}

end:
	return err
}
