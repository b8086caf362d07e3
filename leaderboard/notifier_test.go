package leaderboard

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/cratequest/gameserver/logger"
	"github.com/cratequest/gameserver/models"
	"github.com/cratequest/gameserver/network"
	"github.com/cratequest/gameserver/persistence"
)

func TestMain(m *testing.M) {
	logger.Init()
	m.Run()
}

// StubStore is a test double for persistence.Store.
type StubStore struct {
	entries []models.LeaderboardEntry
	err     error
}

func (s *StubStore) GetRanked(ctx context.Context) ([]models.LeaderboardEntry, error) {
	return s.entries, s.err
}

func (s *StubStore) EnsureTeam(ctx context.Context, teamName string) (*models.LeaderboardEntry, bool, error) {
	return nil, false, nil
}

func (s *StubStore) UpdateScore(ctx context.Context, teamName string, timeTaken, crates int) error {
	return nil
}

func (s *StubStore) Questions(ctx context.Context) ([]models.Question, error) { return nil, nil }
func (s *StubStore) Answer(ctx context.Context, questionID int) (string, error) {
	return "", persistence.ErrQuestionNotFound
}
func (s *StubStore) Close(ctx context.Context) error { return nil }

// RecordingEmitter records admin-bound pushes.
type RecordingEmitter struct {
	mu     sync.Mutex
	pushes []interface{}
}

func (e *RecordingEmitter) EmitToSession(sessionID, event string, v interface{}) {}

func (e *RecordingEmitter) EmitToAdmin(event string, v interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if event == network.EventLeaderboardUpdate {
		e.pushes = append(e.pushes, v)
	}
}

func (e *RecordingEmitter) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pushes)
}

func TestNotifier_PushEmitsRankedEntries(t *testing.T) {
	ranked := []models.LeaderboardEntry{
		{TeamName: "B", Crates: 5, TimeTaken: 80},
		{TeamName: "C", Crates: 3, TimeTaken: 40},
		{TeamName: "A", Crates: 3, TimeTaken: 50},
	}
	emitter := &RecordingEmitter{}
	notifier := NewNotifier(&StubStore{entries: ranked}, emitter)

	notifier.Push(context.Background())

	if emitter.count() != 1 {
		t.Fatalf("Expected exactly one push, got %d", emitter.count())
	}
	got, ok := emitter.pushes[0].([]models.LeaderboardEntry)
	if !ok {
		t.Fatalf("Pushed payload has unexpected type %T", emitter.pushes[0])
	}
	for i, want := range []string{"B", "C", "A"} {
		if got[i].TeamName != want {
			t.Errorf("Rank %d: expected team %s, got %s", i+1, want, got[i].TeamName)
		}
	}
}

func TestNotifier_PushKeepsStaleViewOnStoreFailure(t *testing.T) {
	emitter := &RecordingEmitter{}
	notifier := NewNotifier(&StubStore{err: errors.New("document store down")}, emitter)

	notifier.Push(context.Background())

	if emitter.count() != 0 {
		t.Error("Push must not emit anything when the store read fails")
	}
}
