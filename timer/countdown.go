// timer/countdown.go
package timer

import (
	"errors"
	"sync"
	"time"

	"github.com/cratequest/gameserver/broadcast"
	"github.com/cratequest/gameserver/network"
)

// ErrNotRegistered is returned when a countdown is queried for an
// unknown session.
var ErrNotRegistered = errors.New("no countdown registered for session")

// playerCountdown 每个玩家连接一个独立倒计时
type playerCountdown struct {
	remaining int
	handle    int64 // active scheduler task, 0 when idle
	gen       uint64
}

// Engine owns one countdown per player session. Mutating operations on
// unknown sessions are silent no-ops so that a tick racing a disconnect
// is harmless.
type Engine struct {
	mu        sync.Mutex
	timers    map[string]*playerCountdown
	scheduler *Scheduler
	emitter   broadcast.Emitter
	total     int
	tick      time.Duration
	nextGen   uint64 // engine-wide, so stale ticks never match a reused id
}

func NewEngine(scheduler *Scheduler, emitter broadcast.Emitter, totalSeconds int, tick time.Duration) *Engine {
	return &Engine{
		timers:    make(map[string]*playerCountdown),
		scheduler: scheduler,
		emitter:   emitter,
		total:     totalSeconds,
		tick:      tick,
	}
}

// Register creates a fresh full-length countdown for the session and
// immediately emits its value. Registering twice resets the entry, last
// call wins.
func (e *Engine) Register(sessionID string) {
	e.mu.Lock()
	if prev, exists := e.timers[sessionID]; exists && prev.handle != 0 {
		e.scheduler.Cancel(prev.handle)
	}
	e.timers[sessionID] = &playerCountdown{remaining: e.total}
	value := FormatSeconds(e.total)
	e.mu.Unlock()

	e.emitter.EmitToSession(sessionID, network.EventTimer, value)
}

// Start begins the 1-per-tick decrement for the session. A countdown
// already running is restarted: the pending tick schedule is replaced but
// the remaining value is kept. Unknown sessions are ignored.
func (e *Engine) Start(sessionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pc, exists := e.timers[sessionID]
	if !exists {
		return
	}

	if pc.handle != 0 {
		e.scheduler.Cancel(pc.handle)
	}
	e.nextGen++
	pc.gen = e.nextGen
	gen := pc.gen
	pc.handle = e.scheduler.Schedule(e.tick, e.tick, func() {
		e.onTick(sessionID, gen)
	})
}

// Remove cancels any pending ticks and drops the countdown. Idempotent.
func (e *Engine) Remove(sessionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pc, exists := e.timers[sessionID]
	if !exists {
		return
	}
	if pc.handle != 0 {
		e.scheduler.Cancel(pc.handle)
	}
	delete(e.timers, sessionID)
}

// CurrentValue returns the formatted remaining time for the session.
func (e *Engine) CurrentValue(sessionID string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pc, exists := e.timers[sessionID]
	if !exists {
		return "", ErrNotRegistered
	}
	return FormatSeconds(pc.remaining), nil
}

// onTick is the scheduled callback. The generation check drops stale
// ticks that were already in flight when the countdown was restarted or
// removed.
func (e *Engine) onTick(sessionID string, gen uint64) {
	e.mu.Lock()

	pc, exists := e.timers[sessionID]
	if !exists || pc.gen != gen || pc.handle == 0 {
		e.mu.Unlock()
		return
	}

	if pc.remaining > 0 {
		pc.remaining--
	}
	value := FormatSeconds(pc.remaining)

	if pc.remaining == 0 {
		// The countdown stops for good, it never resets or loops.
		e.scheduler.Cancel(pc.handle)
		pc.handle = 0
	}
	e.mu.Unlock()

	e.emitter.EmitToSession(sessionID, network.EventTimer, value)
}
