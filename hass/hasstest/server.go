// Package hasstest runs an in-process Home Assistant websocket endpoint for
// tests.
package hasstest

import (
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gorilla/websocket"
)

type peer struct {
	ws   *websocket.Conn
	lock sync.Mutex
	subs []float64
}

func (self *peer) send(v interface{}) error {
	self.lock.Lock()
	defer self.lock.Unlock()
	return self.ws.WriteJSON(v)
}

// Server answers the auth handshake, get_states, the registry lists,
// subscribe_events and call_service. Set the fields before connecting.
type Server struct {
	*httptest.Server
	Token          string
	States         []map[string]interface{}
	Areas          []map[string]interface{}
	Devices        []map[string]interface{}
	EntityRegistry []map[string]interface{}
	Floors         []map[string]interface{}
	// NoFloors makes the floor registry command fail.
	NoFloors bool

	lock        sync.Mutex
	peers       []*peer
	calls       []map[string]interface{}
	connections int
}

var upgrader = websocket.Upgrader{}

// NewServer starts a server accepting token.
func NewServer(token string) *Server {
	self := &Server{Token: token}
	self.Server = httptest.NewServer(http.HandlerFunc(self.serve))
	return self
}

func (self *Server) serve(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/websocket" {
		http.NotFound(w, r)
		return
	}
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer ws.Close()
	p := &peer{ws: ws}

	p.send(map[string]interface{}{"type": "auth_required", "ha_version": "2024.1.0"})
	var auth map[string]interface{}
	if err := ws.ReadJSON(&auth); err != nil {
		return
	}
	if auth["type"] != "auth" || auth["access_token"] != self.Token {
		p.send(map[string]interface{}{"type": "auth_invalid", "message": "Invalid access token"})
		return
	}
	p.send(map[string]interface{}{"type": "auth_ok", "ha_version": "2024.1.0"})

	self.lock.Lock()
	self.connections++
	self.peers = append(self.peers, p)
	self.lock.Unlock()
	defer self.drop(p)

	for {
		var msg map[string]interface{}
		if err := ws.ReadJSON(&msg); err != nil {
			return
		}
		p.send(self.answer(p, msg))
	}
}

func (self *Server) drop(p *peer) {
	self.lock.Lock()
	defer self.lock.Unlock()
	for i, other := range self.peers {
		if other == p {
			self.peers = append(self.peers[:i], self.peers[i+1:]...)
			return
		}
	}
}

func orEmpty(list []map[string]interface{}) []map[string]interface{} {
	if list == nil {
		return []map[string]interface{}{}
	}
	return list
}

func (self *Server) answer(p *peer, msg map[string]interface{}) map[string]interface{} {
	id := msg["id"]
	ok := func(result interface{}) map[string]interface{} {
		return map[string]interface{}{"id": id, "type": "result", "success": true, "result": result}
	}
	switch msg["type"] {
	case "get_states":
		return ok(orEmpty(self.States))
	case "config/area_registry/list":
		return ok(orEmpty(self.Areas))
	case "config/device_registry/list":
		return ok(orEmpty(self.Devices))
	case "config/entity_registry/list":
		return ok(orEmpty(self.EntityRegistry))
	case "config/floor_registry/list":
		if !self.NoFloors {
			return ok(orEmpty(self.Floors))
		}
	case "subscribe_events":
		if n, isNumber := id.(float64); isNumber {
			p.lock.Lock()
			p.subs = append(p.subs, n)
			p.lock.Unlock()
		}
		return ok(nil)
	case "call_service":
		self.lock.Lock()
		self.calls = append(self.calls, msg)
		self.lock.Unlock()
		return ok(map[string]interface{}{"context": map[string]interface{}{"id": "ctx"}})
	}
	return map[string]interface{}{
		"id": id, "type": "result", "success": false,
		"error": map[string]interface{}{"code": "unknown_command", "message": "Unknown command."},
	}
}

// Fire sends a state_changed event to every subscribed connection.
func (self *Server) Fire(entityID string, newState, oldState map[string]interface{}) {
	self.lock.Lock()
	peers := append([]*peer{}, self.peers...)
	self.lock.Unlock()
	for _, p := range peers {
		p.lock.Lock()
		subs := append([]float64{}, p.subs...)
		p.lock.Unlock()
		for _, sub := range subs {
			p.send(map[string]interface{}{
				"id":   sub,
				"type": "event",
				"event": map[string]interface{}{
					"event_type": "state_changed",
					"data": map[string]interface{}{
						"entity_id": entityID,
						"new_state": newState,
						"old_state": oldState,
					},
				},
			})
		}
	}
}

// Subscribers is the number of connections subscribed to events.
func (self *Server) Subscribers() int {
	self.lock.Lock()
	peers := append([]*peer{}, self.peers...)
	self.lock.Unlock()
	n := 0
	for _, p := range peers {
		p.lock.Lock()
		if len(p.subs) > 0 {
			n++
		}
		p.lock.Unlock()
	}
	return n
}

// Calls are the call_service commands received so far.
func (self *Server) Calls() []map[string]interface{} {
	self.lock.Lock()
	defer self.lock.Unlock()
	return append([]map[string]interface{}{}, self.calls...)
}

// Connections is the number of authenticated connections so far.
func (self *Server) Connections() int {
	self.lock.Lock()
	defer self.lock.Unlock()
	return self.connections
}

// DropAll closes every open connection, as a restart would.
func (self *Server) DropAll() {
	self.lock.Lock()
	peers := append([]*peer{}, self.peers...)
	self.lock.Unlock()
	for _, p := range peers {
		p.ws.Close()
	}
}
