package hass

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/dashhome/dashhome/entity"
)

type RegistryEntry struct {
	EntityID string  `json:"entity_id"`
	DeviceID *string `json:"device_id"`
	AreaID   *string `json:"area_id"`
}

type Summary struct {
	EntityCount int `json:"entity_count"`
	AreaCount   int `json:"area_count"`
	DeviceCount int `json:"device_count"`
	FloorCount  int `json:"floor_count"`
}

// Discovery is everything Home Assistant reports about the home.
type Discovery struct {
	States         []*entity.EntityState `json:"states"`
	Areas          []entity.Area         `json:"areas"`
	Devices        []entity.Device       `json:"devices"`
	EntityRegistry []RegistryEntry       `json:"entity_registry"`
	Floors         []entity.Floor        `json:"floors"`
	Summary        Summary               `json:"summary"`
}

func (self *Conn) decode(ctx context.Context, kind string, into interface{}) error {
	result, err := self.Result(ctx, kind)
	if err != nil {
		return err
	}
	if len(result) == 0 || string(result) == "null" {
		return nil
	}
	return errors.Wrap(json.Unmarshal(result, into), kind)
}

// Discover reads states and the area, device, entity and floor registries.
// Floors are optional, older servers have no floor registry.
func Discover(ctx context.Context, conn *Conn) (*Discovery, error) {
	d := &Discovery{}
	if err := conn.decode(ctx, "get_states", &d.States); err != nil {
		return nil, err
	}
	if err := conn.decode(ctx, "config/area_registry/list", &d.Areas); err != nil {
		return nil, err
	}
	if err := conn.decode(ctx, "config/device_registry/list", &d.Devices); err != nil {
		return nil, err
	}
	if err := conn.decode(ctx, "config/entity_registry/list", &d.EntityRegistry); err != nil {
		return nil, err
	}
	if err := conn.decode(ctx, "config/floor_registry/list", &d.Floors); err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		conn.logger.Debug("no floor registry", zap.Error(err))
		d.Floors = nil
	}
	d.normalize()
	return d, nil
}

func (self *Discovery) normalize() {
	if self.States == nil {
		self.States = []*entity.EntityState{}
	}
	if self.Areas == nil {
		self.Areas = []entity.Area{}
	}
	if self.Devices == nil {
		self.Devices = []entity.Device{}
	}
	if self.EntityRegistry == nil {
		self.EntityRegistry = []RegistryEntry{}
	}
	if self.Floors == nil {
		self.Floors = []entity.Floor{}
	}
	self.Summary = Summary{
		EntityCount: len(self.States),
		AreaCount:   len(self.Areas),
		DeviceCount: len(self.Devices),
		FloorCount:  len(self.Floors),
	}
}

// AreaMap resolves each registered entity to an area, directly or through
// its device.
func (self *Discovery) AreaMap() map[string]string {
	deviceArea := map[string]string{}
	for _, device := range self.Devices {
		if device.AreaID != nil {
			deviceArea[device.ID] = *device.AreaID
		}
	}
	table := map[string]string{}
	for _, entry := range self.EntityRegistry {
		if entry.AreaID != nil && *entry.AreaID != "" {
			table[entry.EntityID] = *entry.AreaID
		} else if entry.DeviceID != nil {
			if area, ok := deviceArea[*entry.DeviceID]; ok {
				table[entry.EntityID] = area
			}
		}
	}
	return table
}

// Apply loads the discovery into store, replacing states and registries.
func (self *Discovery) Apply(store *entity.Store) {
	states := make(map[string]*entity.EntityState, len(self.States))
	for _, state := range self.States {
		if state != nil {
			states[state.EntityID] = state
		}
	}
	store.SetAreas(self.Areas)
	store.SetDevices(self.Devices)
	store.SetFloors(self.Floors)
	store.SetEntityAreaMap(self.AreaMap())
	store.SetEntities(states)
}
