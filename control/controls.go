package control

import "github.com/dashhome/dashhome/entity"

// Commander invokes a named remote action. connection.Manager is one.
type Commander interface {
	CallService(domain, service string, data, target map[string]interface{})
}

func target(entityID string) map[string]interface{} {
	return map[string]interface{}{"entity_id": entityID}
}

// NewBrightness drives light.turn_on brightness_pct over 1-100.
func NewBrightness(cmd Commander, entityID string) *Slider {
	return NewSlider(1, 100, func(pct int) {
		cmd.CallService("light", "turn_on", map[string]interface{}{"brightness_pct": pct}, target(entityID))
	})
}

// NewColorTemp drives light.turn_on color_temp_kelvin over minK-maxK.
func NewColorTemp(cmd Commander, entityID string, minK, maxK int) *Slider {
	return NewSlider(minK, maxK, func(kelvin int) {
		cmd.CallService("light", "turn_on", map[string]interface{}{"color_temp_kelvin": kelvin}, target(entityID))
	})
}

// NewVolume drives media_player.volume_set. The slider works in percent,
// the backend in 0-1.
func NewVolume(cmd Commander, entityID string) *Slider {
	return NewSlider(0, 100, func(pct int) {
		cmd.CallService("media_player", "volume_set", map[string]interface{}{"volume_level": float64(pct) / 100}, target(entityID))
	})
}

// NewPosition drives cover.set_cover_position over 0-100.
func NewPosition(cmd Commander, entityID string) *Slider {
	return NewSlider(0, 100, func(pos int) {
		cmd.CallService("cover", "set_cover_position", map[string]interface{}{"position": pos}, target(entityID))
	})
}

// Extractors read the authoritative value a slider reconciles against.

func BrightnessPct(s *entity.EntityState) (int, bool) {
	light, ok := entity.LightAttributes(s)
	if !ok || light.Brightness == nil {
		return 0, false
	}
	return light.BrightnessPct(), true
}

func ColorTempKelvin(s *entity.EntityState) (int, bool) {
	light, ok := entity.LightAttributes(s)
	if !ok || light.ColorTempKelvin == nil {
		return 0, false
	}
	return *light.ColorTempKelvin, true
}

func VolumePct(s *entity.EntityState) (int, bool) {
	player, ok := entity.MediaPlayerAttributes(s)
	if !ok || player.VolumeLevel == nil {
		return 0, false
	}
	return player.VolumePct(), true
}

func Position(s *entity.EntityState) (int, bool) {
	if s == nil || s.Domain() != "cover" {
		return 0, false
	}
	v, ok := s.Attributes["current_position"].(float64)
	if !ok {
		return 0, false
	}
	return int(v), true
}
