package service

import (
	"errors"
	"strings"
)

var (
	ErrBlankMessage    = errors.New("message text must not be blank")
	ErrProfileNotFound = errors.New("profile not found")
)

// UnknownSettingsKeysError is returned in strict mode when a settings patch names keys
// outside the recognized set.
type UnknownSettingsKeysError struct {
	Keys []string
}

func (e *UnknownSettingsKeysError) Error() string {
	return "unknown accessibility settings keys: " + strings.Join(e.Keys, ", ")
}
