// Package api provides the HTTP REST API for maze sessions.
//
// Endpoints:
//
// Sessions:
//   - POST   /api/sessions                      {config_id} -> 201 SessionInfo
//   - GET    /api/sessions                      ?sort=created|accessed&order=asc|desc&limit=N
//   - GET    /api/sessions/unified              ?sessionIds=a,b or ?configName=classic
//   - GET    /api/sessions/{id}
//   - DELETE /api/sessions/{id}
//
// Game operations:
//   - GET  /api/sessions/{id}/state
//   - POST /api/sessions/{id}/move              {direction, regenerate}
//   - POST /api/sessions/{id}/bulk-move         {moves, regenerate}
//   - POST /api/sessions/{id}/generate
//   - POST /api/sessions/{id}/next-level
//   - GET  /api/sessions/{id}/history           ?page=&limit=&order=
//
// Sizing:
//   - PUT  /api/sessions/{id}/initial-size      {size}
//   - PUT  /api/sessions/{id}/cell-size         {size}
//   - PUT  /api/sessions/{id}/viewport          {width}
//   - POST /api/sessions/{id}/adjust-cell-size
//
// Presets:
//   - GET  /api/configs
//   - POST /api/configs                         GameConfig (+ optional config_id)
//   - GET  /api/configs/{name}
//
// Misc:
//   - GET /api/health
//   - GET /ws?session=<id>                      WebSocket updates
//
// Errors are returned as {"error": "..."}. Unknown sessions and presets map
// to 404; bad directions, unknown preset IDs and invalid presets map to 400.
//
// Move responses carry a step record ({idx, dir, from, to, signal, success,
// victory}) or, when the move did not happen, attempted_to with the target
// cell. Bulk move responses add per-step traces, blocked counts, start and
// end positions, possible_moves and local_view_3x3.
package api
