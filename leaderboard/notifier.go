// leaderboard/notifier.go
package leaderboard

import (
	"context"

	"github.com/cratequest/gameserver/broadcast"
	"github.com/cratequest/gameserver/logger"
	"github.com/cratequest/gameserver/network"
	"github.com/cratequest/gameserver/persistence"
)

// Notifier keeps the admin's view of the standings current. Pushes fire
// after every successful score mutation and after every player
// connect/disconnect.
type Notifier struct {
	store   persistence.Store
	emitter broadcast.Emitter
}

func NewNotifier(store persistence.Store, emitter broadcast.Emitter) *Notifier {
	return &Notifier{
		store:   store,
		emitter: emitter,
	}
}

// Push reads the ranked standings and emits them to the admin. On a
// storage read failure the error is logged and nothing is emitted, so
// the admin keeps its last known view instead of seeing a blank one.
func (n *Notifier) Push(ctx context.Context) {
	entries, err := n.store.GetRanked(ctx)
	if err != nil {
		logger.Log.Errorf("Failed to fetch leaderboard for admin push: %v", err)
		return
	}
	n.emitter.EmitToAdmin(network.EventLeaderboardUpdate, entries)
}
