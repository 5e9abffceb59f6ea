// Package hass speaks the Home Assistant websocket API: the auth handshake,
// integer-correlated commands and the state_changed event stream.
package hass

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	ErrNoToken = errors.New("no home assistant token configured")
	ErrAuth    = errors.New("home assistant authentication failed")
	ErrClosed  = errors.New("home assistant connection closed")
)

const (
	handshakeTimeout = 10 * time.Second
	writeTimeout     = 5 * time.Second
	eventBuffer      = 256
)

// Error is a failure reported for a command.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// StateChanged is the data of a state_changed event. States are kept raw so
// they pass through untouched.
type StateChanged struct {
	EntityID string          `json:"entity_id"`
	NewState json.RawMessage `json:"new_state"`
	OldState json.RawMessage `json:"old_state"`
}

type event struct {
	EventType string       `json:"event_type"`
	Data      StateChanged `json:"data"`
}

// Reply is the outcome of a command.
type Reply struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result"`
	Error   *Error          `json:"error,omitempty"`
}

// Err is nil when the command succeeded.
func (self *Reply) Err() error {
	if self.Success {
		return nil
	}
	if self.Error != nil {
		return self.Error
	}
	return &Error{Code: "unknown_error", Message: "command failed"}
}

type message struct {
	ID      int64           `json:"id"`
	Type    string          `json:"type"`
	Message string          `json:"message"`
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result"`
	Error   *Error          `json:"error"`
	Event   *event          `json:"event"`
}

// WebsocketURL maps a Home Assistant base url such as
// http://homeassistant.local:8123 to its websocket endpoint.
func WebsocketURL(base string) string {
	url := strings.TrimRight(base, "/")
	switch {
	case strings.HasPrefix(url, "https://"):
		url = "wss://" + strings.TrimPrefix(url, "https://")
	case strings.HasPrefix(url, "http://"):
		url = "ws://" + strings.TrimPrefix(url, "http://")
	}
	if strings.HasSuffix(url, "/api/websocket") {
		return url
	}
	return url + "/api/websocket"
}

// Conn is an authenticated connection. Commands may be issued from any
// goroutine.
type Conn struct {
	ws     *websocket.Conn
	logger *zap.Logger

	writeLock sync.Mutex

	lock    sync.Mutex
	nextID  int64
	pending map[int64]chan *message

	events chan *StateChanged
	done   chan struct{}
}

// Dial connects to the websocket at url and authenticates with token. A nil
// dialer uses websocket.DefaultDialer.
func Dial(ctx context.Context, url, token string, dialer *websocket.Dialer, logger *zap.Logger) (*Conn, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ws, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", url)
	}
	if err := handshake(ctx, ws, token); err != nil {
		ws.Close()
		return nil, err
	}
	self := &Conn{
		ws:      ws,
		logger:  logger,
		pending: map[int64]chan *message{},
		events:  make(chan *StateChanged, eventBuffer),
		done:    make(chan struct{}),
	}
	go self.read()
	return self, nil
}

func handshake(ctx context.Context, ws *websocket.Conn, token string) error {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(handshakeTimeout)
	}
	ws.SetReadDeadline(deadline)
	ws.SetWriteDeadline(deadline)
	defer ws.SetReadDeadline(time.Time{})
	defer ws.SetWriteDeadline(time.Time{})

	var msg message
	if err := ws.ReadJSON(&msg); err != nil {
		return errors.Wrap(err, "handshake")
	}
	if msg.Type == "auth_required" {
		auth := map[string]interface{}{"type": "auth", "access_token": token}
		if err := ws.WriteJSON(auth); err != nil {
			return errors.Wrap(err, "handshake")
		}
		msg = message{}
		if err := ws.ReadJSON(&msg); err != nil {
			return errors.Wrap(err, "handshake")
		}
	}
	if msg.Type != "auth_ok" {
		if msg.Message != "" {
			return errors.Wrap(ErrAuth, msg.Message)
		}
		return ErrAuth
	}
	return nil
}

// read is the only reader of the socket. Replies go to the waiting command,
// state_changed events to Events.
func (self *Conn) read() {
	for {
		var msg message
		if err := self.ws.ReadJSON(&msg); err != nil {
			self.fail(err)
			return
		}
		if msg.Type == "event" {
			if msg.Event == nil || msg.Event.EventType != "state_changed" {
				continue
			}
			data := msg.Event.Data
			select {
			case self.events <- &data:
			default:
				self.logger.Warn("event dropped", zap.String("entity_id", data.EntityID))
			}
			continue
		}
		if msg.ID == 0 {
			continue
		}
		self.lock.Lock()
		ch, ok := self.pending[msg.ID]
		delete(self.pending, msg.ID)
		self.lock.Unlock()
		if ok {
			ch <- &msg
		}
	}
}

func (self *Conn) fail(err error) {
	self.logger.Info("home assistant connection closed", zap.Error(err))
	close(self.done)
}

// Events delivers state_changed events once SubscribeStateChanged has
// succeeded. A consumer that falls behind loses events.
func (self *Conn) Events() <-chan *StateChanged {
	return self.events
}

// Done is closed when the connection is lost or closed.
func (self *Conn) Done() <-chan struct{} {
	return self.done
}

func (self *Conn) write(v interface{}) error {
	self.writeLock.Lock()
	defer self.writeLock.Unlock()
	self.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return self.ws.WriteJSON(v)
}

func (self *Conn) allocate(register bool) (int64, chan *message) {
	self.lock.Lock()
	defer self.lock.Unlock()
	self.nextID++
	if !register {
		return self.nextID, nil
	}
	ch := make(chan *message, 1)
	self.pending[self.nextID] = ch
	return self.nextID, ch
}

func (self *Conn) forget(id int64) {
	self.lock.Lock()
	delete(self.pending, id)
	self.lock.Unlock()
}

func withID(id int64, command map[string]interface{}) map[string]interface{} {
	msg := make(map[string]interface{}, len(command)+1)
	for k, v := range command {
		msg[k] = v
	}
	msg["id"] = id
	return msg
}

// Send issues command without waiting for its reply.
func (self *Conn) Send(command map[string]interface{}) error {
	id, _ := self.allocate(false)
	return self.write(withID(id, command))
}

// Command issues command and waits for its reply. The id field is
// assigned here.
func (self *Conn) Command(ctx context.Context, command map[string]interface{}) (*Reply, error) {
	id, ch := self.allocate(true)
	if err := self.write(withID(id, command)); err != nil {
		self.forget(id)
		return nil, err
	}
	select {
	case msg := <-ch:
		return &Reply{Success: msg.Success, Result: msg.Result, Error: msg.Error}, nil
	case <-ctx.Done():
		self.forget(id)
		return nil, ctx.Err()
	case <-self.done:
		return nil, ErrClosed
	}
}

// Result runs a command with no arguments and returns its result.
func (self *Conn) Result(ctx context.Context, kind string) (json.RawMessage, error) {
	reply, err := self.Command(ctx, map[string]interface{}{"type": kind})
	if err != nil {
		return nil, err
	}
	if err := reply.Err(); err != nil {
		return nil, errors.Wrap(err, kind)
	}
	return reply.Result, nil
}

// SubscribeStateChanged starts the state_changed stream on Events.
func (self *Conn) SubscribeStateChanged(ctx context.Context) error {
	reply, err := self.Command(ctx, map[string]interface{}{
		"type":       "subscribe_events",
		"event_type": "state_changed",
	})
	if err != nil {
		return err
	}
	return reply.Err()
}

func (self *Conn) Close() error {
	return self.ws.Close()
}
