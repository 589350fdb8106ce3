// Package config is the boundary with the settings collaborator. The
// credential and provider selector arrive as opaque strings; the only check
// performed here is the fail-closed ASCII check before a credential is used
// in a request header.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	"unicode"
)

// ErrCredentialMissing signals that no credential is stored. The pipeline
// treats this as a warning and takes the fallback path, not as a user error.
var ErrCredentialMissing = errors.New("config: credential missing")

// Settings holds the per-process evaluation settings.
type Settings struct {
	// Provider selects the model backend: "openai" (default), "gemini",
	// or "anthropic".
	Provider string
	// Model is the provider-specific model name; empty selects the
	// provider default.
	Model string
	// Credential is the opaque API credential. Never logged.
	Credential string
	// Timeout bounds one model call. Zero means the llm default.
	Timeout time.Duration
	// LogLevel and LogFormat configure the structured logger
	// ("debug".."error", "text"|"json").
	LogLevel  string
	LogFormat string
}

// FromEnv reads settings from the environment. The CLI loads a .env file
// first, so both work.
func FromEnv() Settings {
	s := Settings{
		Provider:   os.Getenv("ELEOT_PROVIDER"),
		Model:      os.Getenv("ELEOT_MODEL"),
		Credential: os.Getenv("ELEOT_API_KEY"),
		LogLevel:   os.Getenv("ELEOT_LOG_LEVEL"),
		LogFormat:  os.Getenv("ELEOT_LOG_FORMAT"),
	}
	if d, err := time.ParseDuration(os.Getenv("ELEOT_TIMEOUT")); err == nil {
		s.Timeout = d
	}
	return s
}

// CheckCredential validates the stored credential before it is placed in a
// request header. Missing credentials map to ErrCredentialMissing; non-ASCII
// credentials fail closed rather than producing an invalid header silently.
func (s Settings) CheckCredential() error {
	if s.Credential == "" {
		return ErrCredentialMissing
	}
	for i, r := range s.Credential {
		if r > unicode.MaxASCII {
			return fmt.Errorf("config: credential contains non-ASCII character at byte %d", i)
		}
	}
	return nil
}

// ModelOr returns the configured model name or the given provider default.
func (s Settings) ModelOr(def string) string {
	if s.Model == "" {
		return def
	}
	return s.Model
}
