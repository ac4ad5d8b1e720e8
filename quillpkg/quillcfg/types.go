package quillcfg

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrConfig is the base sentinel for all quillcfg package errors
	ErrConfig = errors.New("configuration error")

	// ErrProfileNotFound indicates the named profile does not exist
	ErrProfileNotFound = errors.New("profile not found")
)

// Defaults applied when neither file, env, nor flags set a value.
const (
	DefaultProfileName      = "default"
	DefaultProvider         = "openai"
	DefaultModel            = "gpt-4o-mini"
	DefaultLocale           = "en"
	DefaultMaxSubjectLength = 72
	DefaultContextLines     = 3
	DefaultTimeoutSeconds   = 120
)

// Profile is a named bundle of provider/model/behavioral settings. It is
// immutable once resolved; nothing re-reads the config file mid-session.
type Profile struct {
	// Name is the profile's key in the config file
	Name string `mapstructure:"-" yaml:"-"`

	// Provider selects the completion provider (openai, gemini, claude-cli)
	Provider string `mapstructure:"provider" yaml:"provider"`

	// Model names the model to request
	Model string `mapstructure:"model" yaml:"model"`

	// APIKey authenticates against hosted APIs
	APIKey string `mapstructure:"api_key" yaml:"api_key,omitempty"`

	// BaseURL overrides the endpoint for OpenAI-compatible servers
	BaseURL string `mapstructure:"base_url" yaml:"base_url,omitempty"`

	// Locale is the language commit messages are written in
	Locale string `mapstructure:"locale" yaml:"locale,omitempty"`

	// MaxSubjectLength limits the commit subject line
	MaxSubjectLength int `mapstructure:"max_subject_length" yaml:"max_subject_length,omitempty"`

	// Type selects the commit-type taxonomy ("" or "conventional")
	Type string `mapstructure:"type" yaml:"type,omitempty"`

	// ContextLines is the diff context width
	ContextLines int `mapstructure:"context_lines" yaml:"context_lines,omitempty"`

	// ExcludeGlobs are pathspecs excluded from generated diffs
	ExcludeGlobs []string `mapstructure:"exclude" yaml:"exclude,omitempty"`

	// GlobalIgnoreGlobs are patterns the ignore command manages
	GlobalIgnoreGlobs []string `mapstructure:"global_ignore" yaml:"global_ignore,omitempty"`

	// TimeoutSeconds bounds each provider request
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds,omitempty"`
}

// Validate checks the profile for usability.
func (p Profile) Validate() (err error) {
	switch p.Provider {
	case "openai", "gemini":
		if p.APIKey == "" {
			err = fmt.Errorf("%w: profile %q: provider %s needs an api_key (set it in the config file, GITQUILL_API_KEY, or --api-key)",
				ErrConfig, p.Name, p.Provider)
			goto end
		}
	case "claude-cli":
		// Carries its own credentials
	case "":
		err = fmt.Errorf("%w: profile %q: no provider set", ErrConfig, p.Name)
		goto end
	default:
		err = fmt.Errorf("%w: profile %q: unknown provider %q", ErrConfig, p.Name, p.Provider)
		goto end
	}

	if p.Model == "" && p.Provider != "claude-cli" {
		err = fmt.Errorf("%w: profile %q: no model set", ErrConfig, p.Name)
		goto end
	}
	if p.MaxSubjectLength < 0 {
		err = fmt.Errorf("%w: profile %q: negative max_subject_length", ErrConfig, p.Name)
		goto end
	}

end:
	return err
}

// Config is the persisted multi-profile shape.
type Config struct {
	// DefaultProfile names the profile used when --profile is absent
	DefaultProfile string `mapstructure:"default_profile" yaml:"default_profile"`

	// Profiles maps profile name to settings
	Profiles map[string]Profile `mapstructure:"profiles" yaml:"profiles"`
}

// Overrides carries CLI flag values; flags beat env, env beats file.
type Overrides struct {
	Profile      string
	Provider     string
	Model        string
	APIKey       string
	BaseURL      string
	Locale       string
	MaxLength    int
	ContextLines int
	Exclude      []string
}

func defaultProfile() Profile {
	return Profile{
		Provider:         DefaultProvider,
		Model:            DefaultModel,
		Locale:           DefaultLocale,
		MaxSubjectLength: DefaultMaxSubjectLength,
		ContextLines:     DefaultContextLines,
		TimeoutSeconds:   DefaultTimeoutSeconds,
	}
}
