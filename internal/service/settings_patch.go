package service

import (
	"ppods-be/internal/pkg/logger"
	"ppods-be/pkg/appstate"
)

// decodeSettingsPatch applies the unknown-key policy shared by every endpoint that
// accepts an accessibility settings partial.
func decodeSettingsPatch(raw map[string]any, strict bool, log logger.ILogger, userID string) (appstate.SettingsPatch, []string, error) {
	patch, unknown := appstate.DecodeSettingsPatch(raw)
	if len(unknown) == 0 {
		return patch, nil, nil
	}

	log.Warn("Settings", "Unrecognized accessibility settings keys", map[string]interface{}{
		"user_id": userID,
		"keys":    unknown,
		"strict":  strict,
	})
	if strict {
		return appstate.SettingsPatch{}, unknown, &UnknownSettingsKeysError{Keys: unknown}
	}
	return patch, unknown, nil
}
