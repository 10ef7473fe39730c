package duel

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vekariaayush04/matiq/internal/game"
	"github.com/vekariaayush04/matiq/internal/types"
)

// helper: receive one event with a timeout so tests never hang
func recvEvent(t *testing.T, ch <-chan types.ServerEvent, within time.Duration) types.ServerEvent {
	t.Helper()
	select {
	case ev, ok := <-ch:
		if !ok {
			t.Fatalf("outbox closed unexpectedly")
		}
		return ev
	case <-time.After(within):
		t.Fatalf("timed out waiting for event")
		return nil // unreachable
	}
}

func recvClosed(t *testing.T, ch <-chan types.ServerEvent, within time.Duration) {
	t.Helper()
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return // closed, possibly after draining queued events
			}
		case <-time.After(within):
			t.Fatalf("expected outbox to close within %v", within)
		}
	}
}

func recvState(t *testing.T, d *Duel, within time.Duration) View {
	t.Helper()
	reply := make(chan View, 1)
	d.Inbox() <- GetState{Reply: reply}
	select {
	case v := <-reply:
		return v
	case <-time.After(within):
		t.Fatalf("timed out waiting for state")
		return View{} // unreachable
	}
}

type fixture struct {
	duel   *Duel
	clock  *clockwork.FakeClock
	out1   chan types.ServerEvent
	out2   chan types.ServerEvent
	endedC chan uuid.UUID
}

// startedDuel pairs Alice and Bob and drains the GAME_STARTED broadcast.
func startedDuel(t *testing.T) fixture {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	fc := clockwork.NewFakeClock()
	out1 := make(chan types.ServerEvent, 16)
	out2 := make(chan types.ServerEvent, 16)
	endedC := make(chan uuid.UUID, 4)

	g := game.NewGame("Alice")
	d := New(ctx, g, out1, fc, zap.NewNop(), func(id uuid.UUID) { endedC <- id })
	d.Inbox() <- Start{User: "Bob", Outbox: out2}

	for _, ch := range []chan types.ServerEvent{out1, out2} {
		ev := recvEvent(t, ch, time.Second)
		_, ok := ev.(types.GameStarted)
		require.True(t, ok, "expected GAME_STARTED, got %T", ev)
	}

	return fixture{duel: d, clock: fc, out1: out1, out2: out2, endedC: endedC}
}

func TestStartBroadcastsToBothParticipants(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fc := clockwork.NewFakeClock()
	pairedAt := fc.Now()
	out1 := make(chan types.ServerEvent, 16)
	out2 := make(chan types.ServerEvent, 16)

	g := game.NewGame("Alice")
	d := New(ctx, g, out1, fc, zap.NewNop(), nil)
	d.Inbox() <- Start{User: "Bob", Outbox: out2}

	ev1 := recvEvent(t, out1, time.Second)
	ev2 := recvEvent(t, out2, time.Second)

	started1, ok := ev1.(types.GameStarted)
	require.True(t, ok)
	started2, ok := ev2.(types.GameStarted)
	require.True(t, ok)

	assert.Equal(t, started1, started2, "both participants see the same start payload")
	assert.Equal(t, "Alice", started1.User1)
	assert.Equal(t, "Bob", started1.User2)
	assert.Len(t, started1.Questions, game.QuestionCount)
	assert.Equal(t, pairedAt.Add(game.GraceWindow), started1.StartingTime)
	assert.Equal(t, game.PlayWindow, started1.EndingTime.Sub(started1.StartingTime))
}

func TestAnswerBroadcastsScoreUpdate(t *testing.T) {
	f := startedDuel(t)

	f.duel.Inbox() <- Answer{User: "Alice", Correct: true}

	for _, ch := range []chan types.ServerEvent{f.out1, f.out2} {
		ev := recvEvent(t, ch, time.Second)
		update, ok := ev.(types.ScoreUpdate)
		require.True(t, ok, "expected SCORE_UPDATE, got %T", ev)
		assert.Equal(t, 1, update.User1Points)
		assert.Equal(t, 0, update.User2Points)
	}
}

func TestIncorrectAnswerDoesNotScore(t *testing.T) {
	f := startedDuel(t)

	f.duel.Inbox() <- Answer{User: "Bob", Correct: false}

	ev := recvEvent(t, f.out1, time.Second)
	update, ok := ev.(types.ScoreUpdate)
	require.True(t, ok)
	assert.Equal(t, 0, update.User1Points)
	assert.Equal(t, 0, update.User2Points)
}

func TestUnknownUserIsTolerated(t *testing.T) {
	f := startedDuel(t)

	f.duel.Inbox() <- Answer{User: "Mallory", Correct: true}

	ev := recvEvent(t, f.out1, time.Second)
	update, ok := ev.(types.ScoreUpdate)
	require.True(t, ok)
	assert.Equal(t, 0, update.User1Points+update.User2Points)
}

func TestLateAnswerEndsGameExactlyOnce(t *testing.T) {
	f := startedDuel(t)

	f.duel.Inbox() <- Answer{User: "Alice", Correct: true}
	ev := recvEvent(t, f.out1, time.Second)
	_, ok := ev.(types.ScoreUpdate)
	require.True(t, ok)
	recvEvent(t, f.out2, time.Second)

	f.clock.Advance(game.GraceWindow + game.PlayWindow + time.Second)
	f.duel.Inbox() <- Answer{User: "Bob", Correct: true}

	for _, ch := range []chan types.ServerEvent{f.out1, f.out2} {
		ev := recvEvent(t, ch, time.Second)
		over, ok := ev.(types.GameOver)
		require.True(t, ok, "expected GAME_OVER, got %T", ev)
		assert.Equal(t, 1, over.User1Points)
		assert.Equal(t, 0, over.User2Points)
		assert.Equal(t, "Alice", over.Winner)
	}

	// Outboxes close so the gateway writers close both connections.
	recvClosed(t, f.out1, time.Second)
	recvClosed(t, f.out2, time.Second)

	// Exactly one registry removal, and no second GAME_OVER anywhere.
	select {
	case <-f.endedC:
	case <-time.After(time.Second):
		t.Fatal("expected registry removal callback")
	}
	select {
	case id := <-f.endedC:
		t.Fatalf("second removal callback for %s", id)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestAnswerExactlyAtDeadlineEndsWithoutScoring(t *testing.T) {
	f := startedDuel(t)

	f.clock.Advance(game.GraceWindow + game.PlayWindow)
	f.duel.Inbox() <- Answer{User: "Alice", Correct: true}

	ev := recvEvent(t, f.out1, time.Second)
	over, ok := ev.(types.GameOver)
	require.True(t, ok, "expected GAME_OVER, got %T", ev)
	assert.Equal(t, 0, over.User1Points)
	assert.Equal(t, 0, over.User2Points)
	assert.Empty(t, over.Winner, "scoreless game is a draw")
}

func TestCheckExpiryEndsIdleGame(t *testing.T) {
	f := startedDuel(t)

	f.duel.Inbox() <- CheckExpiry{}
	f.clock.Advance(game.GraceWindow + game.PlayWindow + time.Second)
	f.duel.Inbox() <- CheckExpiry{}

	for _, ch := range []chan types.ServerEvent{f.out1, f.out2} {
		ev := recvEvent(t, ch, time.Second)
		_, ok := ev.(types.GameOver)
		require.True(t, ok, "expected GAME_OVER, got %T", ev)
	}
}

func TestDetachedParticipantDoesNotStopTheGame(t *testing.T) {
	f := startedDuel(t)

	f.duel.Inbox() <- Detach{User: "Alice"}
	recvClosed(t, f.out1, time.Second)

	f.duel.Inbox() <- Answer{User: "Bob", Correct: true}

	ev := recvEvent(t, f.out2, time.Second)
	update, ok := ev.(types.ScoreUpdate)
	require.True(t, ok)
	assert.Equal(t, 1, update.User2Points)

	view := recvState(t, f.duel, time.Second)
	assert.Equal(t, game.StatusActive, view.Game.Status)
	assert.Equal(t, 1, view.NumOutboxes)
}
