package hass

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashhome/dashhome/hass/hasstest"
)

func ExampleWebsocketURL() {
	fmt.Println(WebsocketURL("http://homeassistant.local:8123"))
	fmt.Println(WebsocketURL("https://ha.example.com/"))
	fmt.Println(WebsocketURL("ws://ha:8123/api/websocket"))
	// Output:
	// ws://homeassistant.local:8123/api/websocket
	// wss://ha.example.com/api/websocket
	// ws://ha:8123/api/websocket
}

func dial(t *testing.T, server *hasstest.Server, token string) (*Conn, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return Dial(ctx, WebsocketURL(server.URL), token, nil, nil)
}

func TestDialAuthenticates(t *testing.T) {
	server := hasstest.NewServer("secret")
	defer server.Close()

	conn, err := dial(t, server, "secret")
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, 1, server.Connections())
}

func TestDialRejectedToken(t *testing.T) {
	server := hasstest.NewServer("secret")
	defer server.Close()

	_, err := dial(t, server, "wrong")
	assert.ErrorIs(t, err, ErrAuth)
	assert.Contains(t, err.Error(), "Invalid access token")
}

func TestDialNoToken(t *testing.T) {
	_, err := Dial(context.Background(), "ws://127.0.0.1:1/api/websocket", "", nil, nil)
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestDialUnreachable(t *testing.T) {
	server := hasstest.NewServer("secret")
	url := WebsocketURL(server.URL)
	server.Close()

	_, err := Dial(context.Background(), url, "secret", nil, nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAuth)
}

func TestCommandsCorrelate(t *testing.T) {
	server := hasstest.NewServer("secret")
	server.States = []map[string]interface{}{{"entity_id": "light.kitchen", "state": "on"}}
	server.Areas = []map[string]interface{}{{"area_id": "kitchen", "name": "Kitchen"}}
	defer server.Close()
	conn, err := dial(t, server, "secret")
	require.NoError(t, err)
	defer conn.Close()

	ctx := context.Background()
	results := make(chan string, 2)
	for _, kind := range []string{"get_states", "config/area_registry/list"} {
		go func(kind string) {
			result, err := conn.Result(ctx, kind)
			if err != nil {
				results <- err.Error()
				return
			}
			results <- kind + " " + string(result)
		}(kind)
	}
	got := []string{<-results, <-results}
	assert.ElementsMatch(t, []string{
		`get_states [{"entity_id":"light.kitchen","state":"on"}]`,
		`config/area_registry/list [{"area_id":"kitchen","name":"Kitchen"}]`,
	}, got)
}

func TestCommandFailure(t *testing.T) {
	server := hasstest.NewServer("secret")
	defer server.Close()
	conn, err := dial(t, server, "secret")
	require.NoError(t, err)
	defer conn.Close()

	reply, err := conn.Command(context.Background(), map[string]interface{}{"type": "nonsense"})
	require.NoError(t, err)
	assert.False(t, reply.Success)
	assert.Equal(t, &Error{Code: "unknown_command", Message: "Unknown command."}, reply.Err())

	_, err = conn.Result(context.Background(), "nonsense")
	assert.EqualError(t, err, "nonsense: unknown_command: Unknown command.")
}

func TestCommandAfterClose(t *testing.T) {
	server := hasstest.NewServer("secret")
	defer server.Close()
	conn, err := dial(t, server, "secret")
	require.NoError(t, err)

	server.DropAll()
	select {
	case <-conn.Done():
	case <-time.After(time.Second):
		t.Fatal("connection not closed")
	}
	_, err = conn.Result(context.Background(), "get_states")
	assert.Error(t, err)
}

func TestStateChangedEvents(t *testing.T) {
	server := hasstest.NewServer("secret")
	defer server.Close()
	conn, err := dial(t, server, "secret")
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SubscribeStateChanged(context.Background()))
	server.Fire("light.kitchen",
		map[string]interface{}{"entity_id": "light.kitchen", "state": "on"},
		map[string]interface{}{"entity_id": "light.kitchen", "state": "off"})

	select {
	case ev := <-conn.Events():
		assert.Equal(t, "light.kitchen", ev.EntityID)
		var state map[string]interface{}
		require.NoError(t, json.Unmarshal(ev.NewState, &state))
		assert.Equal(t, "on", state["state"])
		assert.JSONEq(t, `{"entity_id":"light.kitchen","state":"off"}`, string(ev.OldState))
	case <-time.After(time.Second):
		t.Fatal("no event")
	}
}
