package engine

import "time"

// CanMoveTo checks if the player can stand on the specified coordinates
func (e *GameEngine) CanMoveTo(x, y int) bool {
	return e.grid.IsOpen(x, y)
}

// MovePlayer attempts a unit step in the given direction.
//
// Out-of-bounds targets are a no-op: no feedback, no history entry and no
// change notification; the result is SignalNone. Walls return SignalBlocked
// and play FeedbackHit. Open cells move the player and play FeedbackMove, or FeedbackWin and SignalWon when
// the cell is the end room. Once won, the session stays won until the next
// regeneration even if the player walks off the end room.
func (e *GameEngine) MovePlayer(direction Direction) Signal {
	dx, dy, ok := direction.delta()
	if !ok {
		return SignalNone
	}

	from := e.playerPos
	newX, newY := from.X+dx, from.Y+dy

	if !e.grid.InBounds(newX, newY) {
		return SignalNone
	}

	cell := e.grid.At(newX, newY)
	if cell.IsWall {
		e.message = e.messages.Blocked
		e.sink.Play(FeedbackHit)
		e.addMoveToHistory(direction, from, from, SignalBlocked)
		e.notify()
		return SignalBlocked
	}

	e.playerPos = Position{X: newX, Y: newY}

	signal := SignalMoved
	if cell.IsEnd {
		e.hasWon = true
		e.message = e.messages.Victory
		e.sink.Play(FeedbackWin)
		signal = SignalWon
	} else {
		e.message = e.messages.Moved
		e.sink.Play(FeedbackMove)
	}

	e.addMoveToHistory(direction, from, e.playerPos, signal)
	e.notify()
	return signal
}

// CanMove checks if the player can move in the specified direction
func (e *GameEngine) CanMove(direction Direction) bool {
	dx, dy, ok := direction.delta()
	if !ok {
		return false
	}
	return e.CanMoveTo(e.playerPos.X+dx, e.playerPos.Y+dy)
}

// GetPossibleMoves returns all directions leading to an open cell
func (e *GameEngine) GetPossibleMoves() []Direction {
	var possible []Direction
	for _, dir := range Directions {
		if e.CanMove(dir) {
			possible = append(possible, dir)
		}
	}
	return possible
}

// GetLocalView creates list of 8 surrounding cells around the player
func (e *GameEngine) GetLocalView() []SurroundingCell {
	px, py := e.playerPos.X, e.playerPos.Y

	directions := []struct{ dx, dy int }{
		{0, -1},  // North
		{1, -1},  // North-East
		{1, 0},   // East
		{1, 1},   // South-East
		{0, 1},   // South
		{-1, 1},  // South-West
		{-1, 0},  // West
		{-1, -1}, // North-West
	}

	surroundings := make([]SurroundingCell, len(directions))
	for i, dir := range directions {
		x, y := px+dir.dx, py+dir.dy
		surroundings[i] = SurroundingCell{
			X:    x,
			Y:    y,
			Wall: !e.grid.IsOpen(x, y), // Out of bounds = wall
		}
	}

	return surroundings
}

// addMoveToHistory adds a move to the cumulative history and the current segment
func (e *GameEngine) addMoveToHistory(direction Direction, fromPos, toPos Position, signal Signal) {
	entry := MoveHistoryEntry{
		Action:       string(direction),
		FromPosition: fromPos,
		ToPosition:   toPos,
		Signal:       signal,
		Level:        e.level,
		Timestamp:    time.Now().Unix(),
		Success:      signal == SignalMoved || signal == SignalWon,
		MoveNumber:   e.totalMoves + 1,
	}
	e.moveHistory = append(e.moveHistory, entry)
	e.totalMoves++
	e.currentMoves = append(e.currentMoves, entry)
}
