package quillcfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// legacyConfig is the pre-profile single-settings file shape.
type legacyConfig struct {
	Provider         string   `yaml:"provider"`
	Model            string   `yaml:"model"`
	APIKey           string   `yaml:"api_key"`
	BaseURL          string   `yaml:"base_url"`
	Locale           string   `yaml:"locale"`
	MaxSubjectLength int      `yaml:"max_subject_length"`
	Type             string   `yaml:"type"`
	Exclude          []string `yaml:"exclude"`
}

// migrateLegacy rewrites a legacy single-profile config file into the
// multi-profile shape. A file that already has a profiles key, or that does
// not exist, is left alone.
func migrateLegacy(configPath string) (err error) {
	var raw []byte
	var probe map[string]any
	var legacy legacyConfig

	raw, err = os.ReadFile(configPath)
	if err != nil {
		// Nothing to migrate
		err = nil
		goto end
	}

	err = yaml.Unmarshal(raw, &probe)
	if err != nil {
		err = fmt.Errorf("%w: parsing %s: %v", ErrConfig, configPath, err)
		goto end
	}
	if _, hasProfiles := probe["profiles"]; hasProfiles {
		goto end
	}
	if _, hasProvider := probe["provider"]; !hasProvider {
		goto end
	}

	err = yaml.Unmarshal(raw, &legacy)
	if err != nil {
		err = fmt.Errorf("%w: parsing legacy config %s: %v", ErrConfig, configPath, err)
		goto end
	}

	err = Save(&Config{
		DefaultProfile: DefaultProfileName,
		Profiles: map[string]Profile{
			DefaultProfileName: {
				Provider:         legacy.Provider,
				Model:            legacy.Model,
				APIKey:           legacy.APIKey,
				BaseURL:          legacy.BaseURL,
				Locale:           legacy.Locale,
				MaxSubjectLength: legacy.MaxSubjectLength,
				Type:             legacy.Type,
				ExcludeGlobs:     legacy.Exclude,
			},
		},
	}, configPath)

end:
	return err
}
