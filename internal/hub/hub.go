// Package hub owns the single pending-game slot. Because pairing is
// check-then-create-or-join, the whole decision runs inside one actor loop:
// two simultaneous JOINs can neither both become first nor both pair into
// the same pending game.
package hub

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/vekariaayush04/matiq/internal/duel"
	"github.com/vekariaayush04/matiq/internal/game"
	"github.com/vekariaayush04/matiq/internal/registry"
	"github.com/vekariaayush04/matiq/internal/types"
)

type HubMsg interface{ isHubMsg() }

type Role string

const (
	RoleFirst  Role = "FIRST"
	RoleSecond Role = "SECOND"
)

// Join pairs a participant. It always succeeds: either the caller becomes
// the waiting first player or it completes the pending pair.
type Join struct {
	Name   string
	Outbox chan types.ServerEvent
	Reply  chan JoinReply
}

type JoinReply struct {
	Role Role
	Duel *duel.Duel
}

type Shutdown struct{}

func (Join) isHubMsg()     {}
func (Shutdown) isHubMsg() {}

type Hub struct {
	inbox      chan HubMsg
	pending    *duel.Duel
	registry   *registry.Registry
	clock      clockwork.Clock
	log        *zap.Logger
	sweepEvery time.Duration
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewHub(parent context.Context, reg *registry.Registry, clock clockwork.Clock, log *zap.Logger, sweepEvery time.Duration) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:      make(chan HubMsg, 64),
		registry:   reg,
		clock:      clock,
		log:        log,
		sweepEvery: sweepEvery,
		ctx:        ctx,
		cancel:     cancel,
	}
	go h.loop()
	go h.sweep()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case Join:
				msg.Reply <- h.join(msg)

			case Shutdown:
				h.shutdown()
				h.cancel()
				return
			}
		}
	}
}

func (h *Hub) join(msg Join) JoinReply {
	if h.pending == nil {
		g := game.NewGame(msg.Name)
		d := duel.New(h.ctx, g, msg.Outbox, h.clock, h.log, h.registry.Remove)
		h.pending = d
		h.log.Info("participant waiting",
			zap.String("game_id", g.ID.String()),
			zap.String("user", msg.Name))
		return JoinReply{Role: RoleFirst, Duel: d}
	}

	d := h.pending
	h.pending = nil
	// Registered before the start broadcast so an UPDATE racing the
	// GAME_STARTED event already resolves.
	h.registry.Insert(d)
	d.Inbox() <- duel.Start{User: msg.Name, Outbox: msg.Outbox}
	h.log.Info("participants paired",
		zap.String("game_id", d.GameID().String()),
		zap.String("user", msg.Name))
	return JoinReply{Role: RoleSecond, Duel: d}
}

// sweep periodically nudges every active duel to check its deadline, so a
// game nobody answers in anymore still ends and its connections close.
func (h *Hub) sweep() {
	ticker := h.clock.NewTicker(h.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return
		case <-ticker.Chan():
			for _, d := range h.registry.Snapshot() {
				select {
				case d.Inbox() <- duel.CheckExpiry{}:
				default:
					// Inbox full means the duel is busy; the next tick
					// or its own traffic will catch the expiry.
				}
			}
		}
	}
}

func (h *Hub) shutdown() {
	if h.pending != nil {
		h.pending.Inbox() <- duel.Shutdown{}
		h.pending = nil
	}
	for _, d := range h.registry.Snapshot() {
		h.registry.Remove(d.GameID())
		d.Inbox() <- duel.Shutdown{}
	}
}
