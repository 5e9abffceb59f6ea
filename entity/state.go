// Package entity holds the live device state mirrored from the backend.
//
// The Store is the single source of truth: values handed out are shared,
// read-only pointers and are never modified after insertion.
package entity

import (
	"strings"
	"time"

	"github.com/dashhome/dashhome/pubsub"
)

type EntityState struct {
	EntityID    string                 `json:"entity_id"`
	State       string                 `json:"state"`
	Attributes  map[string]interface{} `json:"attributes"`
	LastChanged time.Time              `json:"last_changed"`
	LastUpdated time.Time              `json:"last_updated"`
}

type Area struct {
	AreaID  string  `json:"area_id"`
	Name    string  `json:"name"`
	Picture *string `json:"picture"`
	FloorID *string `json:"floor_id"`
}

type Device struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	AreaID       *string `json:"area_id"`
	Manufacturer string  `json:"manufacturer"`
	Model        string  `json:"model"`
}

type Floor struct {
	FloorID string `json:"floor_id"`
	Name    string `json:"name"`
	Level   int    `json:"level"`
}

// Domain of an entity id, e.g. "light" for "light.kitchen".
func Domain(entityID string) string {
	if i := strings.Index(entityID, "."); i >= 0 {
		return entityID[:i]
	}
	return entityID
}

// Topic is the pubsub topic an entity's changes are published on:
// "<domain>/<object_id>".
func Topic(entityID string) string {
	return strings.Replace(entityID, ".", "/", 1)
}

func (s *EntityState) Domain() string {
	return Domain(s.EntityID)
}

// Matching subscribes to the entities whose id starts with prefix. A bare
// domain such as "light" matches that whole domain only.
func Matching(prefix string) pubsub.Topic {
	if !strings.Contains(prefix, ".") {
		return pubsub.Prefix(prefix)
	}
	return pubsub.StartsWith(Topic(prefix))
}
