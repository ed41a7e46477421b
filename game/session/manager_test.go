package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wricardo/maze-runner/game/engine"
)

func createTestConfig() *engine.GameConfig {
	config := engine.DefaultGameConfig()
	config.Name = "Test Config"
	config.Description = "Test configuration"
	config.ViewportWidth = 500
	return config
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", config)
		require.NoError(t, err)
		assert.Equal(t, "test-session", session.ID)
		require.NotNil(t, session.Engine)
		require.NotNil(t, session.Viewport)
		assert.Equal(t, 500, session.Viewport.Width())
		assert.Equal(t, 500, session.Engine.GetState().ViewportWidth)
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", config)
		require.NoError(t, err)
		assert.Len(t, session.ID, 4)
	})

	t.Run("duplicate session ID", func(t *testing.T) {
		_, err := manager.Create("test-session", config)
		assert.ErrorIs(t, err, ErrSessionAlreadyExists)
	})

	t.Run("case-insensitive duplicate check", func(t *testing.T) {
		_, err := manager.Create("TEST-SESSION", config)
		assert.ErrorIs(t, err, ErrSessionAlreadyExists)
	})

	t.Run("invalid ID", func(t *testing.T) {
		_, err := manager.Create("bad/id", config)
		assert.ErrorIs(t, err, ErrInvalidSessionID)
	})

	t.Run("invalid config", func(t *testing.T) {
		invalidConfig := createTestConfig()
		invalidConfig.Name = ""
		_, err := manager.Create("invalid-test", invalidConfig)
		assert.Error(t, err)
		_, err = manager.Get("invalid-test")
		assert.ErrorIs(t, err, ErrSessionNotFound, "failed creation leaves no session behind")
	})

	t.Run("nil config uses built-in preset", func(t *testing.T) {
		session, err := manager.Create("nil-config", nil)
		require.NoError(t, err)
		assert.Equal(t, "default", session.Config.Name)
	})

	t.Run("engine options are applied", func(t *testing.T) {
		var feedback []engine.Feedback
		session, err := manager.Create("with-sink", config, engine.WithFeedback(engine.FeedbackFunc(func(f engine.Feedback) {
			feedback = append(feedback, f)
		})))
		require.NoError(t, err)

		// (0,1) is always border wall
		session.Engine.MovePlayer(engine.Left)
		assert.Equal(t, []engine.Feedback{engine.FeedbackHit}, feedback)
	})
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	created, err := manager.Create("get-test", createTestConfig())
	require.NoError(t, err)

	t.Run("get existing session", func(t *testing.T) {
		session, err := manager.Get("get-test")
		require.NoError(t, err)
		assert.Same(t, created, session)
	})

	t.Run("case-insensitive get", func(t *testing.T) {
		session, err := manager.Get("GET-TEST")
		require.NoError(t, err)
		assert.Same(t, created, session)
	})

	t.Run("get non-existent session", func(t *testing.T) {
		_, err := manager.Get("non-existent")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()
	manager.Create("delete-test", config)

	t.Run("delete existing session", func(t *testing.T) {
		require.NoError(t, manager.Delete("delete-test"))
		_, err := manager.Get("delete-test")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("delete non-existent session", func(t *testing.T) {
		assert.ErrorIs(t, manager.Delete("non-existent"), ErrSessionNotFound)
	})

	t.Run("case-insensitive delete", func(t *testing.T) {
		manager.Create("case-test", config)
		require.NoError(t, manager.Delete("CASE-TEST"))
		_, err := manager.Get("case-test")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestManager_List(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	manager.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	for _, id := range []string{"list-c", "list-a", "list-b"} {
		_, err := manager.Create(id, config)
		require.NoError(t, err)
	}

	sessions := manager.List()
	require.Len(t, sessions, 3)
	assert.Equal(t, "list-c", sessions[0].ID)
	assert.Equal(t, "list-a", sessions[1].ID)
	assert.Equal(t, "list-b", sessions[2].ID)
	assert.Equal(t, 3, manager.Count())
}

func TestManager_CleanupExpired(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	active, _ := manager.Create("active", config)
	expired, _ := manager.Create("expired", config)

	expired.LastAccessedAt = time.Now().Add(-2 * time.Hour)
	active.LastAccessedAt = time.Now()

	deleted := manager.CleanupExpiredSessions(1 * time.Hour)
	assert.Equal(t, 1, deleted)

	_, err := manager.Get("expired")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = manager.Get("active")
	assert.NoError(t, err)
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return clock }

	session, _ := manager.Create("access-test", createTestConfig())
	originalTime := session.LastAccessedAt

	clock = clock.Add(time.Minute)
	require.NoError(t, manager.UpdateLastAccessed("ACCESS-TEST"))

	updated, _ := manager.Get("access-test")
	assert.True(t, updated.LastAccessedAt.After(originalTime))
	assert.Equal(t, originalTime, updated.CreatedAt)

	assert.ErrorIs(t, manager.UpdateLastAccessed("missing"), ErrSessionNotFound)
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			sessionID := fmt.Sprintf("conc-%d", id%50)
			_, err := manager.Create(sessionID, config)
			if err != nil && err != ErrSessionAlreadyExists {
				errs <- err
			}
			manager.Get(sessionID)
			manager.UpdateLastAccessed(sessionID)
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}
	assert.Equal(t, 50, manager.Count())
}

func TestManager_SessionIsolation(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	session1, _ := manager.Create("iso-1", config)
	session2, _ := manager.Create("iso-2", config)

	session1.Engine.NextLevel()
	session1.Viewport.SetWidth(100)
	session1.Engine.AdjustCellSize()

	assert.Equal(t, 2, session1.Engine.GetLevel())
	assert.Equal(t, 1, session2.Engine.GetLevel())
	assert.Equal(t, 500, session2.Viewport.Width())
	assert.NotEqual(t, session1.Engine.GetState().MazeID, session2.Engine.GetState().MazeID)
}

func TestManager_SessionIDGeneration(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	generatedIDs := make(map[string]bool)
	for i := 0; i < 50; i++ {
		session, err := manager.Create("", config)
		require.NoError(t, err)

		assert.False(t, generatedIDs[session.ID], "duplicate session ID generated: %s", session.ID)
		generatedIDs[session.ID] = true
		assert.Regexp(t, `^[0-9a-f]{4}$`, session.ID)
	}
}
