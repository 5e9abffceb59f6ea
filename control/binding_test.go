package control

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dashhome/dashhome/entity"
)

func light(brightness float64) *entity.EntityState {
	return &entity.EntityState{
		EntityID:   "light.kitchen",
		State:      "on",
		Attributes: map[string]interface{}{"brightness": brightness},
	}
}

func TestExtractors(t *testing.T) {
	v, ok := BrightnessPct(light(255))
	assert.True(t, ok)
	assert.Equal(t, 100, v)
	_, ok = BrightnessPct(&entity.EntityState{EntityID: "light.kitchen", State: "off"})
	assert.False(t, ok)

	v, ok = VolumePct(&entity.EntityState{EntityID: "media_player.tv", Attributes: map[string]interface{}{"volume_level": 0.35}})
	assert.True(t, ok)
	assert.Equal(t, 35, v)

	v, ok = ColorTempKelvin(&entity.EntityState{EntityID: "light.desk", Attributes: map[string]interface{}{"color_temp_kelvin": 3000.0}})
	assert.True(t, ok)
	assert.Equal(t, 3000, v)

	v, ok = Position(&entity.EntityState{EntityID: "cover.blind", Attributes: map[string]interface{}{"current_position": 40.0}})
	assert.True(t, ok)
	assert.Equal(t, 40, v)
	_, ok = Position(nil)
	assert.False(t, ok)
}

func TestBindingReconcilesFromStore(t *testing.T) {
	store := entity.NewStore(nil)
	store.SetEntity("light.kitchen", light(51))
	cmd := &recorder{}
	binding := Bind(NewBrightness(cmd, "light.kitchen"), store, "light.kitchen", BrightnessPct)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		binding.Watch(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	assert.Equal(t, 20, binding.Value())
	binding.Slider.PointerDown(0.5)
	binding.Slider.PointerUp(0.5)
	assert.Equal(t, 51, binding.Value())

	// unrelated entities do not reconcile
	store.SetEntity("light.hall", light(0))
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 51, binding.Value())

	store.SetEntity("light.kitchen", light(130))
	assert.Eventually(t, func() bool {
		_, ok := binding.Slider.Optimistic()
		return !ok
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 51, binding.Value())
}
