package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/maze-runner/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownConfig   = errors.New("unknown config")

	// ErrConfigNotFound is returned by ConfigManager implementations for a missing preset
	ErrConfigNotFound = errors.New("configuration not found")
)

// gameServiceImpl implements the GameService interface.
// Engines are not safe for concurrent use; mu serializes every engine call.
// getSession writes Session.LastAccessedAt, so every path that calls it or
// reads that field holds the write lock.
type gameServiceImpl struct {
	sessions  SessionManager
	configs   ConfigManager
	publisher EventPublisher
	mu        sync.RWMutex
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// NewGameService creates a new game service instance. publisher may be nil,
// in which case state changes and feedback are not fanned out.
func NewGameService(sessions SessionManager, configs ConfigManager, publisher EventPublisher) GameService {
	return &gameServiceImpl{
		sessions:  sessions,
		configs:   configs,
		publisher: publisher,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s' not found. Available configs: %v", ErrUnknownConfig, configName, configIDs)
				}
				return nil, fmt.Errorf("%w: '%s' not found. Use /api/configs to list available configurations", ErrUnknownConfig, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.attach(session)

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     strings.TrimSuffix(configID, ".json"),
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      s.snapshot(session),
		GameConfig:     session.Config,
	}, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	return s.sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}
	return nil
}

// Move executes a single move for a session, optionally on a fresh maze
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, regenerate bool) (*MoveResult, error) {
	dir, err := engine.ParseDirection(direction)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, direction)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	events := []GameEvent{}
	if regenerate {
		sess.Engine.GenerateMaze()
		events = append(events, regenerateEvent(sess.Engine))
	}

	prevPos := sess.Engine.GetPlayerPosition()
	signal := sess.Engine.MovePlayer(dir)
	state := s.snapshot(sess)

	result := &MoveResult{
		Success:   moved(signal),
		Signal:    signal,
		GameState: state,
		Message:   state.Message,
		Events:    append(events, moveEvents(state, dir, prevPos, signal)...),
	}

	if result.Success {
		result.Step = &StepInfo{
			Idx:     1,
			Dir:     string(dir),
			From:    prevPos,
			To:      state.PlayerPos,
			Signal:  signal,
			Success: true,
			Victory: signal == engine.SignalWon,
		}
	} else {
		result.AttemptedTo = attemptedTarget(state, dir.Apply(prevPos))
	}

	return result, nil
}

// BulkMove executes up to engine.MaxBulkMoves moves in sequence, stopping
// early only when the maze is won. Blocked moves do not stop the sequence.
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, regenerate bool) (*BulkMoveResult, error) {
	dirs := make([]engine.Direction, 0, len(moves))
	for i, move := range moves {
		dir, err := engine.ParseDirection(move)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w: %q", i+1, err, move)
		}
		dirs = append(dirs, dir)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}

	if regenerate {
		sess.Engine.GenerateMaze()
		result.Events = append(result.Events, regenerateEvent(sess.Engine))
	}

	// Limit moves to prevent abuse
	if len(dirs) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		dirs = dirs[:engine.MaxBulkMoves]
	}

	result.StartPos = sess.Engine.GetPlayerPosition()
	signals := sess.Engine.BulkMove(dirs)

	endState := s.snapshot(sess)

	// Out-of-bounds moves leave no history entry, so steps are replayed from
	// the signals instead of read back from the history.
	pos := result.StartPos
	for i, signal := range signals {
		dir := dirs[i]
		from := pos
		if moved(signal) {
			pos = dir.Apply(pos)
		}
		result.Steps = append(result.Steps, StepInfo{
			Idx:     i + 1,
			Dir:     string(dir),
			From:    from,
			To:      pos,
			Signal:  signal,
			Success: moved(signal),
			Victory: signal == engine.SignalWon,
		})
		result.Events = append(result.Events, moveEvents(endState, dir, from, signal)...)

		if moved(signal) {
			result.MovesExecuted++
		} else {
			result.Blocked++
			result.Success = false
		}
	}

	if n := len(signals); n > 0 && signals[n-1] == engine.SignalWon {
		result.StopReasonCode = "victory"
		result.StoppedOnMove = n
	}

	result.GameState = endState
	result.EndPos = endState.PlayerPos
	result.Won = endState.HasWon
	result.Message = endState.Message
	result.LocalView3x3 = endState.LocalView3x3
	for _, dir := range sess.Engine.GetPossibleMoves() {
		result.PossibleMoves = append(result.PossibleMoves, string(dir))
	}

	return result, nil
}

// GenerateMaze regenerates the maze for the current level
func (s *gameServiceImpl) GenerateMaze(ctx context.Context, sessionID string) (*engine.GameState, error) {
	return s.mutate(sessionID, func(sess *Session) {
		sess.Engine.GenerateMaze()
	})
}

// NextLevel advances the session one level. A session at the size cap is
// left untouched and reported with Advanced false.
func (s *gameServiceImpl) NextLevel(ctx context.Context, sessionID string) (*LevelResult, error) {
	var advanced bool
	var capMessage string
	state, err := s.mutate(sessionID, func(sess *Session) {
		advanced = sess.Engine.NextLevel()
		if !advanced {
			capMessage = sess.Engine.GetMessages().MaxLevel
		}
	})
	if err != nil {
		return nil, err
	}

	result := &LevelResult{
		Advanced:  advanced,
		Level:     state.Level,
		MaxLevel:  state.MaxLevel,
		Message:   state.Message,
		GameState: state,
	}
	if !advanced {
		result.Message = capMessage
	}
	return result, nil
}

// SetInitialSize stores a new base size (regenerating on level 1)
func (s *gameServiceImpl) SetInitialSize(ctx context.Context, sessionID string, size int) (*engine.GameState, error) {
	return s.mutate(sessionID, func(sess *Session) {
		sess.Engine.SetInitialSize(size)
	})
}

// SetCellSize stores a new preferred cell size and refits the display size
func (s *gameServiceImpl) SetCellSize(ctx context.Context, sessionID string, size int) (*engine.GameState, error) {
	return s.mutate(sessionID, func(sess *Session) {
		sess.Engine.SetCellSize(size)
	})
}

// ResizeViewport records the client's drawing width and refits the display cell size
func (s *gameServiceImpl) ResizeViewport(ctx context.Context, sessionID string, width int) (*engine.GameState, error) {
	return s.mutate(sessionID, func(sess *Session) {
		sess.Viewport.SetWidth(max(width, 0))
		sess.Engine.AdjustCellSize()
	})
}

// AdjustCellSize refits the display cell size to the current viewport
func (s *gameServiceImpl) AdjustCellSize(ctx context.Context, sessionID string) (*engine.GameState, error) {
	return s.mutate(sessionID, func(sess *Session) {
		sess.Engine.AdjustCellSize()
	})
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return s.snapshot(sess), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := min(start+opts.Limit, total)

	var moves []engine.MoveHistoryEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = append(moves, history[start:end]...)
	}

	if moves == nil {
		moves = []engine.MoveHistoryEntry{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available game presets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game preset
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game preset to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// mutate runs fn against a session under the write lock and returns the
// resulting snapshot.
func (s *gameServiceImpl) mutate(sessionID string, fn func(*Session)) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	fn(sess)
	return s.snapshot(sess), nil
}

// getSession looks a session up and marks it as accessed
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     s.getConfigID(sess.Config.Name),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      s.snapshot(sess),
		GameConfig:     sess.Config,
	}
}

// snapshot returns the engine state enriched with decision aids
func (s *gameServiceImpl) snapshot(sess *Session) *engine.GameState {
	state := sess.Engine.GetState()
	state.LocalView3x3 = buildLocal3x3(state)
	return state
}

// attach forwards the session's state changes and feedback to the publisher
func (s *gameServiceImpl) attach(sess *Session) {
	if s.publisher == nil {
		return
	}
	id := sess.ID
	sess.Engine.Subscribe(func(state *engine.GameState) {
		state.LocalView3x3 = buildLocal3x3(state)
		s.publisher.BroadcastToSession(id, state)
	})
	sess.Engine.SetFeedbackSink(engine.FeedbackFunc(func(f engine.Feedback) {
		s.publisher.BroadcastEvent(id, "feedback", FeedbackEvent{Sound: f})
	}))
}

func moved(signal engine.Signal) bool {
	return signal == engine.SignalMoved || signal == engine.SignalWon
}

// moveEvents describes the outcome of a single move
func moveEvents(state *engine.GameState, dir engine.Direction, from engine.Position, signal engine.Signal) []GameEvent {
	now := time.Now()
	target := dir.Apply(from)

	switch signal {
	case engine.SignalMoved:
		return []GameEvent{{
			Type:      "move",
			Message:   fmt.Sprintf("Moved %s to (%d,%d)", dir, target.X, target.Y),
			Timestamp: now,
			Position:  target,
		}}
	case engine.SignalWon:
		return []GameEvent{
			{
				Type:      "move",
				Message:   fmt.Sprintf("Moved %s to (%d,%d)", dir, target.X, target.Y),
				Timestamp: now,
				Position:  target,
			},
			{
				Type:      "victory",
				Message:   fmt.Sprintf("Reached the exit of level %d", state.Level),
				Timestamp: now,
				Position:  target,
			},
		}
	case engine.SignalBlocked:
		return []GameEvent{{
			Type:      "blocked",
			Message:   fmt.Sprintf("Wall at (%d,%d)", target.X, target.Y),
			Timestamp: now,
			Position:  from,
		}}
	default:
		return []GameEvent{{
			Type:      "boundary",
			Message:   fmt.Sprintf("(%d,%d) is outside the grid", target.X, target.Y),
			Timestamp: now,
			Position:  from,
		}}
	}
}

func regenerateEvent(e *engine.GameEngine) GameEvent {
	size := e.GetCurrentSize()
	return GameEvent{
		Type:      "regenerate",
		Message:   fmt.Sprintf("New %dx%d maze for level %d", size, size, e.GetLevel()),
		Timestamp: time.Now(),
		Position:  e.GetPlayerPosition(),
	}
}

// attemptedTarget describes the cell a failed move tried to enter
func attemptedTarget(state *engine.GameState, target engine.Position) *AttemptInfo {
	info := &AttemptInfo{X: target.X, Y: target.Y, TileType: "boundary"}
	if target.Y >= 0 && target.Y < len(state.Grid) && target.X >= 0 && target.X < len(state.Grid[target.Y]) {
		cell := state.Grid[target.Y][target.X]
		info.Passable = !cell.IsWall
		if cell.IsWall {
			info.TileType = "wall"
		} else {
			info.TileType = "open"
		}
	}
	return info
}

// cellChar maps a cell to the characters used by maze.Render
func cellChar(cell engine.Cell) byte {
	switch {
	case cell.IsWall:
		return '#'
	case cell.IsStart:
		return 'S'
	case cell.IsEnd:
		return 'E'
	default:
		return '.'
	}
}

// buildLocal3x3 renders the 3x3 neighbourhood around the player; '@' marks
// the player and out-of-bounds cells read as walls.
func buildLocal3x3(state *engine.GameState) []string {
	if state == nil {
		return nil
	}
	px, py := state.PlayerPos.X, state.PlayerPos.Y
	lines := make([]string, 0, 3)
	for dy := -1; dy <= 1; dy++ {
		var row strings.Builder
		for dx := -1; dx <= 1; dx++ {
			x, y := px+dx, py+dy
			if dx == 0 && dy == 0 {
				row.WriteByte('@')
				continue
			}
			if y < 0 || y >= len(state.Grid) || x < 0 || x >= len(state.Grid[y]) {
				row.WriteByte('#')
				continue
			}
			row.WriteByte(cellChar(state.Grid[y][x]))
		}
		lines = append(lines, row.String())
	}
	return lines
}
