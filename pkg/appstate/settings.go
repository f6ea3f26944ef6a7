package appstate

import (
	"encoding/json"
	"math"
)

const (
	MinFontSize     = 12
	MaxFontSize     = 24
	DefaultFontSize = 16
)

// AccessibilitySettings holds the accessibility preferences applied by the view layer.
// FontSize is always within [MinFontSize, MaxFontSize] once it has gone through Apply.
type AccessibilitySettings struct {
	HighContrast  bool `json:"highContrast"`
	FontSize      int  `json:"fontSize"`
	VoiceCommands bool `json:"voiceCommands"`
	ScreenReader  bool `json:"screenReader"`
	SignLanguage  bool `json:"signLanguage"`
	ReducedMotion bool `json:"reducedMotion"`
}

func DefaultAccessibilitySettings() AccessibilitySettings {
	return AccessibilitySettings{FontSize: DefaultFontSize}
}

// ClampFontSize pins size into the supported range.
func ClampFontSize(size int) int {
	if size < MinFontSize {
		return MinFontSize
	}
	if size > MaxFontSize {
		return MaxFontSize
	}
	return size
}

// SettingsPatch is a partial AccessibilitySettings. Nil fields are left unchanged on Apply.
type SettingsPatch struct {
	HighContrast  *bool `json:"highContrast,omitempty"`
	FontSize      *int  `json:"fontSize,omitempty"`
	VoiceCommands *bool `json:"voiceCommands,omitempty"`
	ScreenReader  *bool `json:"screenReader,omitempty"`
	SignLanguage  *bool `json:"signLanguage,omitempty"`
	ReducedMotion *bool `json:"reducedMotion,omitempty"`
}

func Bool(v bool) *bool { return &v }
func Int(v int) *int    { return &v }

func (p SettingsPatch) IsEmpty() bool {
	return p.HighContrast == nil && p.FontSize == nil && p.VoiceCommands == nil &&
		p.ScreenReader == nil && p.SignLanguage == nil && p.ReducedMotion == nil
}

// Apply merges the patch into s and returns the result. Font size is clamped, never rejected.
func (p SettingsPatch) Apply(s AccessibilitySettings) AccessibilitySettings {
	if p.HighContrast != nil {
		s.HighContrast = *p.HighContrast
	}
	if p.FontSize != nil {
		s.FontSize = ClampFontSize(*p.FontSize)
	}
	if p.VoiceCommands != nil {
		s.VoiceCommands = *p.VoiceCommands
	}
	if p.ScreenReader != nil {
		s.ScreenReader = *p.ScreenReader
	}
	if p.SignLanguage != nil {
		s.SignLanguage = *p.SignLanguage
	}
	if p.ReducedMotion != nil {
		s.ReducedMotion = *p.ReducedMotion
	}
	return s
}

// DecodeSettingsPatch builds a patch from a loosely typed mapping such as a decoded JSON body.
// Keys that are not recognized, or whose value has the wrong type, are returned in unknown
// and otherwise ignored.
func DecodeSettingsPatch(raw map[string]any) (patch SettingsPatch, unknown []string) {
	for key, value := range raw {
		ok := true
		switch key {
		case "highContrast":
			patch.HighContrast, ok = boolValue(value)
		case "voiceCommands":
			patch.VoiceCommands, ok = boolValue(value)
		case "screenReader":
			patch.ScreenReader, ok = boolValue(value)
		case "signLanguage":
			patch.SignLanguage, ok = boolValue(value)
		case "reducedMotion":
			patch.ReducedMotion, ok = boolValue(value)
		case "fontSize":
			patch.FontSize, ok = fontSizeValue(value)
		default:
			ok = false
		}
		if !ok {
			unknown = append(unknown, key)
		}
	}
	return patch, unknown
}

func boolValue(v any) (*bool, bool) {
	b, ok := v.(bool)
	if !ok {
		return nil, false
	}
	return &b, true
}

func fontSizeValue(v any) (*int, bool) {
	var f float64
	switch n := v.(type) {
	case int:
		return Int(ClampFontSize(n)), true
	case int64:
		f = float64(n)
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return nil, false
		}
		f = parsed
	default:
		return nil, false
	}
	if math.IsNaN(f) {
		return nil, false
	}
	// Clamp in float space so huge values never overflow the int conversion.
	if f < MinFontSize {
		return Int(MinFontSize), true
	}
	if f > MaxFontSize {
		return Int(MaxFontSize), true
	}
	return Int(int(f)), true
}
