package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/dashhome/dashhome/hass"
)

const proxyWriteTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	ws   *websocket.Conn
	lock sync.Mutex
}

func (self *client) send(v interface{}) error {
	self.lock.Lock()
	defer self.lock.Unlock()
	self.ws.SetWriteDeadline(time.Now().Add(proxyWriteTimeout))
	return self.ws.WriteJSON(v)
}

// Proxy shares one Home Assistant connection between every dashboard
// websocket. state_changed events are broadcast to all clients, requests
// from a client are forwarded upstream. The upstream connection is dialled
// on demand and redialled once lost.
type Proxy struct {
	dial   func(ctx context.Context) (*hass.Conn, error)
	logger *zap.Logger

	lock    sync.Mutex
	conn    *hass.Conn
	clients map[*client]bool
}

func NewProxy(dial func(ctx context.Context) (*hass.Conn, error), logger *zap.Logger) *Proxy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Proxy{dial: dial, logger: logger, clients: map[*client]bool{}}
}

// upstream returns the live connection, dialling and subscribing if there
// is none.
func (self *Proxy) upstream(ctx context.Context) (*hass.Conn, error) {
	self.lock.Lock()
	defer self.lock.Unlock()
	if self.conn != nil {
		select {
		case <-self.conn.Done():
			self.conn = nil
		default:
			return self.conn, nil
		}
	}
	conn, err := self.dial(ctx)
	if err != nil {
		return nil, err
	}
	if err := conn.SubscribeStateChanged(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	self.conn = conn
	go self.relay(conn)
	self.logger.Info("connected to home assistant")
	return conn, nil
}

func (self *Proxy) relay(conn *hass.Conn) {
	for {
		select {
		case ev := <-conn.Events():
			self.broadcast(map[string]interface{}{
				"type":      "state_changed",
				"entity_id": ev.EntityID,
				"new_state": rawOrNull(ev.NewState),
				"old_state": rawOrNull(ev.OldState),
			})
		case <-conn.Done():
			return
		}
	}
}

func rawOrNull(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	return raw
}

func (self *Proxy) broadcast(msg interface{}) {
	self.lock.Lock()
	clients := make([]*client, 0, len(self.clients))
	for c := range self.clients {
		clients = append(clients, c)
	}
	self.lock.Unlock()
	for _, c := range clients {
		if err := c.send(msg); err != nil {
			self.logger.Debug("dropping client", zap.Error(err))
			self.remove(c)
			c.ws.Close()
		}
	}
}

func (self *Proxy) add(c *client) {
	self.lock.Lock()
	self.clients[c] = true
	self.lock.Unlock()
}

func (self *Proxy) remove(c *client) {
	self.lock.Lock()
	delete(self.clients, c)
	self.lock.Unlock()
}

// Clients is the number of connected dashboards.
func (self *Proxy) Clients() int {
	self.lock.Lock()
	defer self.lock.Unlock()
	return len(self.clients)
}

func (self *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		self.logger.Debug("upgrade failed", zap.Error(err))
		return
	}
	c := &client{ws: ws}
	self.add(c)
	defer func() {
		self.remove(c)
		ws.Close()
	}()

	_, err = self.upstream(r.Context())
	if err != nil {
		self.logger.Warn("home assistant unavailable", zap.Error(err))
	}
	if err := c.send(map[string]interface{}{"type": "connected", "ha_connected": err == nil}); err != nil {
		return
	}

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		var msg map[string]interface{}
		if err := json.Unmarshal(data, &msg); err != nil {
			self.logger.Debug("ignoring malformed message", zap.Error(err))
			continue
		}
		if err := self.handle(r.Context(), c, msg); err != nil {
			return
		}
	}
}

// handle answers one client message. Only a failed write to the client is
// returned.
func (self *Proxy) handle(ctx context.Context, c *client, msg map[string]interface{}) error {
	kind, _ := msg["type"].(string)
	switch kind {
	case "ping":
		return c.send(map[string]interface{}{"type": "pong"})
	case "call_service":
		conn, err := self.upstream(ctx)
		if err != nil {
			self.logger.Debug("call_service dropped", zap.Error(err))
			return nil
		}
		err = conn.Send(map[string]interface{}{
			"type":         "call_service",
			"domain":       msg["domain"],
			"service":      msg["service"],
			"service_data": orEmpty(msg["data"]),
			"target":       orEmpty(msg["target"]),
		})
		if err != nil {
			self.logger.Debug("call_service dropped", zap.Error(err))
		}
		return nil
	case "get_states":
		result := json.RawMessage("[]")
		if conn, err := self.upstream(ctx); err == nil {
			if states, err := conn.Result(ctx, "get_states"); err == nil && len(states) > 0 {
				result = states
			} else if err != nil {
				self.logger.Debug("get_states failed", zap.Error(err))
			}
		}
		return c.send(map[string]interface{}{"type": "states_result", "result": result})
	}

	id, ok := msg["id"]
	if !ok || kind == "" {
		return nil
	}
	return c.send(self.forward(ctx, id, msg))
}

// forward passes a correlated command upstream under a fresh id and
// translates the reply back to the client's id.
func (self *Proxy) forward(ctx context.Context, id interface{}, msg map[string]interface{}) map[string]interface{} {
	command := make(map[string]interface{}, len(msg))
	for k, v := range msg {
		if k != "id" {
			command[k] = v
		}
	}
	out := map[string]interface{}{"id": id, "type": "result"}
	fail := func(code string, err error) map[string]interface{} {
		out["success"] = false
		out["error"] = &hass.Error{Code: code, Message: err.Error()}
		return out
	}
	conn, err := self.upstream(ctx)
	if err != nil {
		return fail("not_connected", err)
	}
	reply, err := conn.Command(ctx, command)
	if err != nil {
		return fail("upstream_error", err)
	}
	out["success"] = reply.Success
	if reply.Success {
		out["result"] = rawOrNull(reply.Result)
	} else {
		out["error"] = reply.Err()
	}
	return out
}

func orEmpty(v interface{}) interface{} {
	if v == nil {
		return map[string]interface{}{}
	}
	return v
}

// Close drops the upstream connection and every client.
func (self *Proxy) Close() {
	self.lock.Lock()
	conn := self.conn
	self.conn = nil
	clients := self.clients
	self.clients = map[*client]bool{}
	self.lock.Unlock()
	if conn != nil {
		conn.Close()
	}
	for c := range clients {
		c.ws.Close()
	}
}
