package config

import (
	"time"

	"golang.org/x/mod/semver"

	"git.home.luguber.info/inful/doxybuilder/internal/doxyfile"
	"git.home.luguber.info/inful/doxybuilder/internal/foundation"
)

var configValidators = foundation.NewValidatorChain[*Config](
	validateSettings,
	validateDoxygen,
	validateWatch,
	validateNotify,
)

// Validate checks a configuration after defaults have been applied. All
// problems are reported together in a single validation error.
func Validate(cfg *Config) error {
	return configValidators.Validate(cfg).ToError()
}

func validateSettings(cfg *Config) foundation.ValidationResult {
	if err := doxyfile.Settings(cfg.Settings).Validate(); err != nil {
		return foundation.Invalid(foundation.NewFieldError("settings", "invalid_setting", nil, "%v", err))
	}
	return foundation.Valid()
}

func validateDoxygen(cfg *Config) foundation.ValidationResult {
	if v := cfg.Doxygen.MinVersion; v != "" && !semver.IsValid("v"+v) {
		return foundation.Invalid(foundation.NewFieldError("doxygen.min_version", "not_a_version", v,
			"%q is not a version number", v))
	}
	return foundation.Valid()
}

func validateWatch(cfg *Config) foundation.ValidationResult {
	result := foundation.Valid()
	if _, err := time.ParseDuration(cfg.Watch.Debounce); err != nil {
		result = result.Combine(foundation.Invalid(foundation.NewFieldError("watch.debounce", "invalid_duration",
			cfg.Watch.Debounce, "%v", err)))
	}
	if cfg.Watch.Interval != "" {
		d, err := time.ParseDuration(cfg.Watch.Interval)
		switch {
		case err != nil:
			result = result.Combine(foundation.Invalid(foundation.NewFieldError("watch.interval", "invalid_duration",
				cfg.Watch.Interval, "%v", err)))
		case d < time.Second:
			result = result.Combine(foundation.Invalid(foundation.NewFieldError("watch.interval", "too_short",
				cfg.Watch.Interval, "must be at least 1s")))
		}
	}
	return result
}

func validateNotify(cfg *Config) foundation.ValidationResult {
	if cfg.Notify.NATSURL == "" && cfg.Notify.Subject != "" {
		return foundation.Invalid(foundation.NewFieldError("notify.subject", "requires_url", cfg.Notify.Subject,
			"requires notify.nats_url"))
	}
	return foundation.Valid()
}
