package util

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ExampleParseArgs() {
	command, fields := ParseArgs([]string{"light.turn_on", "entity_id=light.kitchen", "brightness_pct=40"})
	fmt.Println(command, fields["entity_id"], fields["brightness_pct"])
	// Output: light.turn_on light.kitchen 40
}

func TestParseArgs(t *testing.T) {
	command, params := ParseArgs([]string{"on", "a=b", "b=1", "c=true", "d=x=y"})
	assert.Equal(t, "on", command)
	assert.Equal(t, map[string]interface{}{"a": "b", "b": float64(1), "c": true, "d": "x=y"}, params)
}

func TestExtract(t *testing.T) {
	fields := map[string]interface{}{"entity_id": "light.hall", "brightness_pct": float64(20)}
	target := Extract(fields, "entity_id", "area_id")
	assert.Equal(t, map[string]interface{}{"entity_id": "light.hall"}, target)
	assert.Equal(t, map[string]interface{}{"brightness_pct": float64(20)}, fields)
}
