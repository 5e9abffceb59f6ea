package entity

func (self *Store) SetAreas(areas []Area) {
	m := make(map[string]*Area, len(areas))
	for i := range areas {
		a := areas[i]
		m[a.AreaID] = &a
	}
	self.lock.Lock()
	self.areas = m
	self.lock.Unlock()
}

func (self *Store) SetDevices(devices []Device) {
	m := make(map[string]*Device, len(devices))
	for i := range devices {
		d := devices[i]
		m[d.ID] = &d
	}
	self.lock.Lock()
	self.devices = m
	self.lock.Unlock()
}

func (self *Store) SetFloors(floors []Floor) {
	m := make(map[string]*Floor, len(floors))
	for i := range floors {
		f := floors[i]
		m[f.FloorID] = &f
	}
	self.lock.Lock()
	self.floors = m
	self.lock.Unlock()
}

// SetEntityAreaMap replaces the entity id -> area id table.
func (self *Store) SetEntityAreaMap(table map[string]string) {
	m := make(map[string]string, len(table))
	for k, v := range table {
		m[k] = v
	}
	self.lock.Lock()
	self.entityArea = m
	self.lock.Unlock()
}

func (self *Store) Area(id string) *Area {
	self.lock.RLock()
	defer self.lock.RUnlock()
	return self.areas[id]
}

func (self *Store) Device(id string) *Device {
	self.lock.RLock()
	defer self.lock.RUnlock()
	return self.devices[id]
}

func (self *Store) Floor(id string) *Floor {
	self.lock.RLock()
	defer self.lock.RUnlock()
	return self.floors[id]
}

// AreaOf returns the area an entity belongs to, or nil.
func (self *Store) AreaOf(entityID string) *Area {
	self.lock.RLock()
	defer self.lock.RUnlock()
	if id, ok := self.entityArea[entityID]; ok {
		return self.areas[id]
	}
	return nil
}
