// The dashhome home automation dashboard
//
// Features
//
// - Live mirror of Home Assistant entity states over a websocket
//
// - Automatic reconnection with exponential backoff
//
// - Request/response commands with timeouts
//
// - Editable dashboard layout with undo and redo
//
// - Throttled, optimistic sliders for lights, media players and covers
//
// - REST backend persisting configuration to files or redis
//
// - Websocket proxy to Home Assistant, discovery and suggested dashboards
//
// - Optional mqtt mirror of state changes
//
// Commands
//
// - dashhome serve
//
// - dashhome watch [entity-prefix]
//
// - dashhome call domain.service [key=value...]
//
// - dashhome dashboard get|put FILE
package dashhome
