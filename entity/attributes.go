package entity

import "math"

// Kelvin range assumed when a light does not report one.
const (
	DefaultMinKelvin = 2000
	DefaultMaxKelvin = 6500
)

// Light is the part of a light's attributes the core interprets.
type Light struct {
	Brightness      *int // 0-255
	ColorTempKelvin *int
	MinKelvin       int
	MaxKelvin       int
	ColorModes      []string
}

// MediaPlayer is the part of a media player's attributes the core interprets.
type MediaPlayer struct {
	VolumeLevel *float64 // 0-1
	Muted       bool
}

func number(attrs map[string]interface{}, key string) (float64, bool) {
	switch v := attrs[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func intAttr(attrs map[string]interface{}, key string) *int {
	if f, ok := number(attrs, key); ok {
		i := int(math.Round(f))
		return &i
	}
	return nil
}

// LightAttributes interprets s as a light. ok is false for other domains.
func LightAttributes(s *EntityState) (light Light, ok bool) {
	if s == nil || s.Domain() != "light" {
		return light, false
	}
	light.Brightness = intAttr(s.Attributes, "brightness")
	light.ColorTempKelvin = intAttr(s.Attributes, "color_temp_kelvin")
	light.MinKelvin = DefaultMinKelvin
	if k := intAttr(s.Attributes, "min_color_temp_kelvin"); k != nil && *k > 0 {
		light.MinKelvin = *k
	}
	light.MaxKelvin = DefaultMaxKelvin
	if k := intAttr(s.Attributes, "max_color_temp_kelvin"); k != nil && *k > 0 {
		light.MaxKelvin = *k
	}
	if modes, ok := s.Attributes["supported_color_modes"].([]interface{}); ok {
		for _, m := range modes {
			if str, ok := m.(string); ok {
				light.ColorModes = append(light.ColorModes, str)
			}
		}
	}
	return light, true
}

// BrightnessPct is the brightness as a 0-100 percentage, 0 if unknown.
func (l Light) BrightnessPct() int {
	if l.Brightness == nil {
		return 0
	}
	return int(math.Round(float64(*l.Brightness) / 255 * 100))
}

func (l Light) SupportsColorTemp() bool {
	for _, m := range l.ColorModes {
		if m == "color_temp" {
			return true
		}
	}
	return false
}

// MediaPlayerAttributes interprets s as a media player.
func MediaPlayerAttributes(s *EntityState) (player MediaPlayer, ok bool) {
	if s == nil || s.Domain() != "media_player" {
		return player, false
	}
	if v, ok := number(s.Attributes, "volume_level"); ok {
		player.VolumeLevel = &v
	}
	player.Muted, _ = s.Attributes["is_volume_muted"].(bool)
	return player, true
}

// VolumePct is the volume as a 0-100 percentage, 0 if unknown.
func (m MediaPlayer) VolumePct() int {
	if m.VolumeLevel == nil {
		return 0
	}
	return int(math.Round(*m.VolumeLevel * 100))
}

// FriendlyName falls back to the entity id.
func FriendlyName(s *EntityState) string {
	if s == nil {
		return ""
	}
	if name, ok := s.Attributes["friendly_name"].(string); ok && name != "" {
		return name
	}
	return s.EntityID
}
