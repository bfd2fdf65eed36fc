// Package config derives runtime configuration from the environment and
// builds the process logger.
package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	// BaseURL is the service root, overridable for test instances.
	BaseURL string

	// Cookie is the session cookie captured from an authenticated browser
	// session (e.g. "JSESSIONID=...; route=..."). Required by every command
	// that talks to the service.
	Cookie string

	// Contact metadata sent with reservations.
	Tel       string
	Applicant string

	// DatabaseURL is only needed by the watch command.
	DatabaseURL string
}

func FromEnv() (Config, error) {
	cfg := Config{
		BaseURL:     envDefault("BITROOM_BASE_URL", "http://stu.bit.edu.cn"),
		Cookie:      strings.TrimSpace(os.Getenv("BITROOM_COOKIE")),
		Tel:         strings.TrimSpace(os.Getenv("BITROOM_TEL")),
		Applicant:   strings.TrimSpace(os.Getenv("BITROOM_APPLICANT")),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
	}
	if cfg.Cookie == "" {
		return cfg, fmt.Errorf("BITROOM_COOKIE is required (copy it from an authenticated browser session)")
	}
	return cfg, nil
}

// RequireContact validates the extra fields the book command needs.
func (c Config) RequireContact() error {
	if c.Tel == "" {
		return fmt.Errorf("BITROOM_TEL is required for reservations")
	}
	if c.Applicant == "" {
		return fmt.Errorf("BITROOM_APPLICANT is required for reservations")
	}
	return nil
}

func envDefault(k, d string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d
	}
	return v
}
