package auth

import (
	"errors"
	"fmt"
)

// Token verification failure kinds. Callers branch with errors.Is and map
// each kind to its wire code.
var (
	ErrMissingToken   = errors.New("missing token")
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("expired token")
	ErrInvalidPayload = errors.New("invalid token payload")
)

// ConfigError reports a missing or unusable codec setting. It is a
// startup-time fault: the codec refuses to construct, never a per-request one.
type ConfigError struct {
	Setting string
	Reason  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("auth config: %s %s", e.Setting, e.Reason)
}

func newConfigError(setting, reason string) *ConfigError {
	return &ConfigError{Setting: setting, Reason: reason}
}
