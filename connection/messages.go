package connection

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/dashhome/dashhome/entity"
)

// Message types on the websocket.
const (
	TypeGetStates    = "get_states"
	TypeCallService  = "call_service"
	TypeStateChanged = "state_changed"
	TypeStatesResult = "states_result"
	TypeResult       = "result"
	TypeConnected    = "connected"
	TypePong         = "pong"
)

var (
	ErrTimeout      = errors.New("command timed out")
	ErrNotConnected = errors.New("not connected")
	ErrClosed       = errors.New("connection manager closed")
)

// CommandError is a failure reported by the backend for a correlated
// command.
type CommandError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command failed: %s: %s", e.Code, e.Message)
}

// Inbound is any message received from the backend. Only the fields for
// its Type are set.
type Inbound struct {
	Type     string              `json:"type"`
	ID       string              `json:"id,omitempty"`
	EntityID string              `json:"entity_id,omitempty"`
	NewState *entity.EntityState `json:"new_state,omitempty"`
	OldState *entity.EntityState `json:"old_state,omitempty"`
	Success  *bool               `json:"success,omitempty"`
	Result   json.RawMessage     `json:"result,omitempty"`
	Error    *CommandError       `json:"error,omitempty"`
}

// CallService is the fire-and-forget service invocation.
type CallService struct {
	Type    string                 `json:"type"`
	Domain  string                 `json:"domain"`
	Service string                 `json:"service"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Target  map[string]interface{} `json:"target,omitempty"`
}

type getStates struct {
	Type string `json:"type"`
}

// states decodes a states_result payload. ok is false unless the result is
// an array.
func (self *Inbound) states() (map[string]*entity.EntityState, bool) {
	if !bytes.HasPrefix(bytes.TrimSpace(self.Result), []byte("[")) {
		return nil, false
	}
	var list []*entity.EntityState
	if err := json.Unmarshal(self.Result, &list); err != nil {
		return nil, false
	}
	states := make(map[string]*entity.EntityState, len(list))
	for _, state := range list {
		if state != nil && state.EntityID != "" {
			states[state.EntityID] = state
		}
	}
	return states, true
}

// reply converts a correlated reply into its outcome.
func (self *Inbound) reply() (json.RawMessage, error) {
	if self.Success != nil && *self.Success {
		return self.Result, nil
	}
	if self.Error != nil {
		return nil, self.Error
	}
	return nil, &CommandError{Code: "unknown_error", Message: "command failed"}
}
