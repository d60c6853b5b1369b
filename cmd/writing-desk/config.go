// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/writing-desk/pkg/types"
)

// newViper returns a viper instance that reads cfgFile, or writing-desk.yaml
// from the working directory and ~/.config/writing-desk, overlaid with
// WRITING_DESK_* environment variables.
func newViper(cfgFile string) *viper.Viper {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("writing-desk")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "writing-desk"))
		}
	}
	v.SetEnvPrefix("WRITING_DESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := types.DefaultConfig()
	defaults := map[string]any{
		"citation.sync_delay":          d.Citation.SyncDelay,
		"classifier.endpoint":          d.Classifier.Endpoint,
		"classifier.api_key":           d.Classifier.APIKey,
		"classifier.fallback":          string(d.Classifier.Fallback),
		"classifier.timeout":           d.Classifier.Timeout,
		"classifier.user_agent":        d.Classifier.UserAgent,
		"classifier.max_retries":       d.Classifier.MaxRetries,
		"classifier.breaker_threshold": d.Classifier.BreakerThreshold,
		"classifier.breaker_cooldown":  d.Classifier.BreakerCooldown,
		"assignment.endpoint":          d.Assignment.Endpoint,
		"assignment.timeout":           d.Assignment.Timeout,
		"assignment.user_agent":        d.Assignment.UserAgent,
		"assignment.max_retries":       d.Assignment.MaxRetries,
		"assignment.delay":             d.Assignment.Delay,
		"assignment.min_length":        d.Assignment.MinLength,
		"submission.endpoint":          d.Submission.Endpoint,
		"submission.token":             d.Submission.Token,
		"submission.timeout":           d.Submission.Timeout,
		"submission.user_agent":        d.Submission.UserAgent,
		"library.endpoint":             d.Library.Endpoint,
		"library.email":                d.Library.Email,
		"library.timeout":              d.Library.Timeout,
		"library.user_agent":           d.Library.UserAgent,
		"library.max_retries":          d.Library.MaxRetries,
		"store.dir":                    d.Store.Dir,
		"logging.level":                d.Logging.Level,
		"logging.development":          d.Logging.Development,
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	return v
}

// loadConfig builds the effective configuration. A missing default config
// file is not an error; a missing explicit one is. It returns the path of
// the file used, if any.
func loadConfig(cfgFile string) (types.WriterConfig, string, error) {
	v := newViper(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return types.WriterConfig{}, "", fmt.Errorf("reading config: %w", err)
		}
	}
	c, err := configFrom(v)
	return c, v.ConfigFileUsed(), err
}

func configFrom(v *viper.Viper) (types.WriterConfig, error) {
	c := types.DefaultConfig()
	c.Citation.SyncDelay = v.GetDuration("citation.sync_delay")

	c.Classifier.Endpoint = v.GetString("classifier.endpoint")
	c.Classifier.APIKey = v.GetString("classifier.api_key")
	c.Classifier.Fallback = types.FallbackPolicy(v.GetString("classifier.fallback"))
	c.Classifier.Timeout = v.GetDuration("classifier.timeout")
	c.Classifier.UserAgent = v.GetString("classifier.user_agent")
	c.Classifier.MaxRetries = v.GetInt("classifier.max_retries")
	c.Classifier.BreakerThreshold = v.GetInt("classifier.breaker_threshold")
	c.Classifier.BreakerCooldown = v.GetDuration("classifier.breaker_cooldown")

	c.Assignment.Endpoint = v.GetString("assignment.endpoint")
	c.Assignment.Timeout = v.GetDuration("assignment.timeout")
	c.Assignment.UserAgent = v.GetString("assignment.user_agent")
	c.Assignment.MaxRetries = v.GetInt("assignment.max_retries")
	c.Assignment.Delay = v.GetDuration("assignment.delay")
	c.Assignment.MinLength = v.GetInt("assignment.min_length")

	c.Submission.Endpoint = v.GetString("submission.endpoint")
	c.Submission.Token = v.GetString("submission.token")
	c.Submission.Timeout = v.GetDuration("submission.timeout")
	c.Submission.UserAgent = v.GetString("submission.user_agent")

	c.Library.Endpoint = v.GetString("library.endpoint")
	c.Library.Email = v.GetString("library.email")
	c.Library.Timeout = v.GetDuration("library.timeout")
	c.Library.UserAgent = v.GetString("library.user_agent")
	c.Library.MaxRetries = v.GetInt("library.max_retries")

	c.Store.Dir = v.GetString("store.dir")
	c.Logging.Level = v.GetString("logging.level")
	c.Logging.Development = v.GetBool("logging.development")

	switch c.Classifier.Fallback {
	case types.FallbackSimulate, types.FallbackFail:
	default:
		return c, fmt.Errorf("classifier.fallback must be %q or %q, got %q",
			types.FallbackSimulate, types.FallbackFail, c.Classifier.Fallback)
	}
	return c, nil
}
