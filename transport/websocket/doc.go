// Package websocket pushes maze session changes to browsers.
//
// A central Hub tracks connected clients per session. Each connection gets a
// read pump (keeps the connection alive, handles pongs and close frames) and
// a write pump (drains the client's send buffer and pings).
//
// Clients connect with ?session=<id>. The hub does not accept commands over
// the socket; moves go through the REST API or MCP tools.
//
// Outgoing messages, one JSON document per frame:
//
//	{"session_id":"ab12","event":"state_update","game_state":{...}}
//	{"session_id":"ab12","event":"feedback","data":{"sound":"move|hit|win"}}
//
// Hub implements service.EventPublisher. Broadcasts are queued on a buffered
// channel and never block the caller; when the queue is full the message is
// dropped and logged.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	svc := service.NewGameService(sessions, configs, hub)
package websocket
