// Package connection keeps a websocket to the backend open, mirrors its
// state stream into an entity.Store and sends commands back.
//
// The manager moves through disconnected, connecting and connected, waiting
// an exponentially growing delay after each failure. There is no terminal
// state other than Close.
package connection

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/dashhome/dashhome/entity"
)

type Settings struct {
	BackoffFloor     time.Duration
	BackoffCeiling   time.Duration
	CommandTimeout   time.Duration
	SweepInterval    time.Duration
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	Header           http.Header
	Dialer           *websocket.Dialer
}

func DefaultSettings() *Settings {
	return &Settings{
		BackoffFloor:     1 * time.Second,
		BackoffCeiling:   30 * time.Second,
		CommandTimeout:   10 * time.Second,
		SweepInterval:    500 * time.Millisecond,
		HandshakeTimeout: 5 * time.Second,
		WriteTimeout:     5 * time.Second,
	}
}

type Manager struct {
	url      string
	store    *entity.Store
	settings *Settings
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	lock    sync.Mutex
	running bool
	closed  bool
	conn    *websocket.Conn

	writeLock sync.Mutex
	status    statusSignal
	requests  *requests
}

// NewManager creates a manager for the websocket at url feeding store. nil
// settings or logger use defaults. settings is copied, not retained.
// Nothing is dialled until Connect.
func NewManager(url string, store *entity.Store, given *Settings, logger *zap.Logger) *Manager {
	if given == nil {
		given = DefaultSettings()
	}
	settings := &Settings{}
	*settings = *given
	if logger == nil {
		logger = zap.NewNop()
	}
	if settings.SweepInterval <= 0 {
		settings.SweepInterval = DefaultSettings().SweepInterval
	}
	if settings.Dialer == nil {
		settings.Dialer = &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: settings.HandshakeTimeout,
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	self := &Manager{
		url:      url,
		store:    store,
		settings: settings,
		logger:   logger.With(zap.String("url", url)),
		ctx:      ctx,
		cancel:   cancel,
		requests: newRequests(),
	}
	self.status.status = Disconnected
	self.wg.Add(1)
	go self.sweep()
	return self
}

func (self *Manager) Status() Status {
	return self.status.get()
}

// Subscribe returns a channel holding the latest status change.
func (self *Manager) Subscribe() <-chan Status {
	return self.status.subscribe()
}

func (self *Manager) Unsubscribe(ch <-chan Status) {
	self.status.unsubscribe(ch)
}

func (self *Manager) setStatus(status Status) {
	if self.status.set(status) {
		self.logger.Info("connection status", zap.String("status", string(status)))
	}
}

// Connect starts the connection loop. It does nothing while the loop is
// already running, whether connecting, connected or waiting to retry. The
// loop stops when ctx is cancelled or the manager is closed.
func (self *Manager) Connect(ctx context.Context) {
	self.lock.Lock()
	defer self.lock.Unlock()
	if self.running || self.closed {
		return
	}
	self.running = true
	runCtx, runCancel := context.WithCancel(self.ctx)
	stop := context.AfterFunc(ctx, runCancel)
	self.wg.Add(1)
	go func() {
		defer self.wg.Done()
		defer stop()
		defer runCancel()
		self.run(runCtx)
		self.lock.Lock()
		self.running = false
		self.lock.Unlock()
		self.setStatus(Disconnected)
	}()
}

func (self *Manager) run(ctx context.Context) {
	backoff := NewBackoff(self.settings.BackoffFloor, self.settings.BackoffCeiling)
	for {
		self.setStatus(Connecting)
		ws, _, err := self.settings.Dialer.DialContext(ctx, self.url, self.settings.Header)
		if err == nil {
			backoff.Reset()
			self.serve(ctx, ws)
		} else {
			self.logger.Warn("connect failed", zap.Error(err))
		}
		self.setStatus(Disconnected)

		delay := backoff.Next()
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// serve owns one live transport until it fails or ctx ends.
func (self *Manager) serve(ctx context.Context, ws *websocket.Conn) {
	self.lock.Lock()
	self.conn = ws
	self.lock.Unlock()
	defer func() {
		self.lock.Lock()
		self.conn = nil
		self.lock.Unlock()
		ws.Close()
	}()

	self.setStatus(Connected)
	if err := self.send(getStates{Type: TypeGetStates}); err != nil {
		self.logger.Warn("requesting states", zap.Error(err))
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		self.read(ws)
	}()

	select {
	case <-ctx.Done():
		ws.Close()
		<-done
	case <-done:
	}
}

// read is the single reader of a transport, so messages apply in receipt
// order.
func (self *Manager) read(ws *websocket.Conn) {
	for {
		messageType, data, err := ws.ReadMessage()
		if err != nil {
			self.logger.Info("connection closed", zap.Error(err))
			return
		}
		if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
			continue
		}
		self.handle(data)
	}
}

func (self *Manager) handle(data []byte) {
	var msg Inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		self.logger.Debug("ignoring malformed message", zap.Error(err))
		return
	}
	switch msg.Type {
	case TypeStateChanged:
		if msg.NewState == nil {
			return
		}
		id := msg.EntityID
		if id == "" {
			id = msg.NewState.EntityID
		}
		self.store.SetEntity(id, msg.NewState)
	case TypeStatesResult:
		if states, ok := msg.states(); ok {
			self.store.SetEntities(states)
			self.logger.Debug("states loaded", zap.Int("count", len(states)))
		}
	default:
		if msg.ID != "" && msg.Success != nil {
			result, err := msg.reply()
			if !self.requests.settle(msg.ID, result, err) {
				self.logger.Debug("reply for unknown command", zap.String("id", msg.ID))
			}
		}
	}
}

// send writes v to the live transport.
func (self *Manager) send(v interface{}) error {
	self.lock.Lock()
	ws := self.conn
	self.lock.Unlock()
	if ws == nil {
		return ErrNotConnected
	}
	self.writeLock.Lock()
	defer self.writeLock.Unlock()
	if self.settings.WriteTimeout > 0 {
		ws.SetWriteDeadline(time.Now().Add(self.settings.WriteTimeout))
	}
	return ws.WriteJSON(v)
}

// CallService asks the backend to run domain.service. It is dropped when
// not connected.
func (self *Manager) CallService(domain, service string, data, target map[string]interface{}) {
	err := self.send(CallService{
		Type:    TypeCallService,
		Domain:  domain,
		Service: service,
		Data:    data,
		Target:  target,
	})
	if err != nil {
		self.logger.Debug("call_service dropped",
			zap.String("domain", domain), zap.String("service", service), zap.Error(err))
	}
}

// SendCommand sends a command correlated by a fresh id and waits for the
// backend's reply, the command timeout, ctx or Close, whichever is first.
func (self *Manager) SendCommand(ctx context.Context, command map[string]interface{}) (json.RawMessage, error) {
	id := ulid.Make().String()
	msg := make(map[string]interface{}, len(command)+1)
	for k, v := range command {
		msg[k] = v
	}
	msg["id"] = id

	p, err := self.requests.add(id, time.Now().Add(self.settings.CommandTimeout))
	if err != nil {
		return nil, err
	}
	if err := self.send(msg); err != nil {
		self.requests.settle(id, nil, err)
	}

	select {
	case out := <-p.done:
		return out.result, out.err
	case <-ctx.Done():
		self.requests.settle(id, nil, ctx.Err())
		out := <-p.done
		return out.result, out.err
	}
}

// Pending is the number of commands awaiting a reply.
func (self *Manager) Pending() int {
	return self.requests.len()
}

func (self *Manager) sweep() {
	defer self.wg.Done()
	ticker := time.NewTicker(self.settings.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-self.ctx.Done():
			return
		case now := <-ticker.C:
			if n := self.requests.sweep(now); n > 0 {
				self.logger.Debug("commands timed out", zap.Int("count", n))
			}
		}
	}
}

// Close stops the loop and the transport and rejects outstanding commands.
func (self *Manager) Close() {
	self.lock.Lock()
	if self.closed {
		self.lock.Unlock()
		return
	}
	self.closed = true
	self.lock.Unlock()

	self.cancel()
	self.requests.close(ErrClosed)
	self.wg.Wait()
	self.setStatus(Disconnected)
}
