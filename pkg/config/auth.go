package config

import (
	"fmt"
	"strings"
)

// AuthConfig carries the static shared secret expected in bearer tokens on
// mutating routes.
type AuthConfig struct {
	Token string `koanf:"token"`
}

// String returns a string representation of the auth configuration.
// The token itself is never printed.
func (c *AuthConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Auth ---\n")
	b.WriteString(fmt.Sprintf("  token: %s\n", maskToken(c.Token)))
	return b.String()
}

func (c *AuthConfig) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("auth token is not configured")
	}
	return nil
}

func maskToken(token string) string {
	if token == "" {
		return "<not configured>"
	}
	return "****"
}
