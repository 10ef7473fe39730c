// Package duel runs one goroutine per paired game. Every mutation of the
// underlying game state funnels through the actor loop, so two participants
// answering at the same instant can never race on the score counters or
// double-apply the end-of-game transition.
package duel

import (
	"context"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/vekariaayush04/matiq/internal/game"
	"github.com/vekariaayush04/matiq/internal/types"
)

type Msg interface{ isDuelMsg() }

// Start attaches the second participant and opens the timing window.
type Start struct {
	User   string
	Outbox chan types.ServerEvent
}

// Answer is one submitted answer outcome.
type Answer struct {
	User    string
	Correct bool
}

// CheckExpiry asks the duel to end itself if its window has closed. Sent by
// the hub sweeper so a game with no inbound traffic still terminates.
type CheckExpiry struct{}

// Detach drops a participant's outbox after their connection goes away. The
// game itself keeps running until natural expiry.
type Detach struct{ User string }

// GetState reflects internal state without data races. Test hook.
type GetState struct {
	Reply chan View
}

type Shutdown struct{}

func (Start) isDuelMsg()       {}
func (Answer) isDuelMsg()      {}
func (CheckExpiry) isDuelMsg() {}
func (Detach) isDuelMsg()      {}
func (GetState) isDuelMsg()    {}
func (Shutdown) isDuelMsg()    {}

// View is a copy of the duel's state at one point in its loop.
type View struct {
	Game        game.Game
	NumOutboxes int
}

type Duel struct {
	inbox    chan Msg
	game     *game.Game
	outboxes map[string]chan types.ServerEvent
	clock    clockwork.Clock
	log      *zap.Logger
	onEnd    func(uuid.UUID) // registry removal, runs exactly once
	done     bool
	ctx      context.Context
	cancel   context.CancelFunc
}

// New starts the actor for a freshly created PENDING game with the first
// participant's outbox already attached.
func New(parent context.Context, g *game.Game, outbox chan types.ServerEvent, clock clockwork.Clock, log *zap.Logger, onEnd func(uuid.UUID)) *Duel {
	ctx, cancel := context.WithCancel(parent)

	d := &Duel{
		inbox:    make(chan Msg, 64),
		game:     g,
		outboxes: map[string]chan types.ServerEvent{g.User1: outbox},
		clock:    clock,
		log:      log.With(zap.String("game_id", g.ID.String())),
		onEnd:    onEnd,
		ctx:      ctx,
		cancel:   cancel,
	}

	go d.loop()
	return d
}

func (d *Duel) Inbox() chan<- Msg { return d.inbox }

// GameID never changes after construction, so it is safe to read from any
// goroutine.
func (d *Duel) GameID() uuid.UUID { return d.game.ID }

func (d *Duel) loop() {
	for {
		select {
		case <-d.ctx.Done():
			d.shutdown()
			return

		case m := <-d.inbox:
			switch msg := m.(type) {
			case Start:
				d.game.Start(msg.User, d.clock.Now())
				d.outboxes[msg.User] = msg.Outbox
				d.broadcast(types.NewGameStarted(d.game))
				d.log.Info("game started",
					zap.String("user1", d.game.User1),
					zap.String("user2", d.game.User2),
					zap.Time("ending_time", d.game.EndingTime))

			case Answer:
				now := d.clock.Now()
				if d.game.Expired(now) {
					d.finish()
					break
				}
				d.game.RecordAnswer(msg.User, msg.Correct, now)
				if d.game.Status == game.StatusEnded {
					// The answer landed exactly on the deadline.
					d.finish()
					break
				}
				d.broadcast(types.NewScoreUpdate(d.game))

			case CheckExpiry:
				if d.game.Expired(d.clock.Now()) {
					d.finish()
				}

			case Detach:
				if ch, ok := d.outboxes[msg.User]; ok {
					close(ch)
					delete(d.outboxes, msg.User)
					d.log.Info("participant detached", zap.String("user", msg.User))
				}

			case GetState:
				msg.Reply <- View{Game: *d.game, NumOutboxes: len(d.outboxes)}

			case Shutdown:
				d.shutdown()
				return
			}
		}
	}
}

// finish runs the terminal transition exactly once: ENDED status, one
// GAME_OVER to both participants, registry removal, connections closed.
func (d *Duel) finish() {
	if d.done {
		return
	}
	d.done = true

	d.game.End()
	d.broadcast(types.NewGameOver(d.game))

	for user, ch := range d.outboxes {
		close(ch)
		delete(d.outboxes, user)
	}

	if d.onEnd != nil {
		d.onEnd(d.game.ID)
	}

	d.log.Info("game over",
		zap.Int("user1_points", d.game.User1Points),
		zap.Int("user2_points", d.game.User2Points))

	d.cancel()
}

func (d *Duel) shutdown() {
	for user, ch := range d.outboxes {
		close(ch)
		delete(d.outboxes, user)
	}
	d.cancel()
}

// broadcast delivers an event to each attached participant independently.
// A slow or gone recipient is dropped; it never blocks delivery to the other.
func (d *Duel) broadcast(ev types.ServerEvent) {
	for user, ch := range d.outboxes {
		select {
		case ch <- ev:
			// ok
		default:
			close(ch)
			delete(d.outboxes, user)
			d.log.Warn("outbox full, dropping participant", zap.String("user", user))
		}
	}
}
