package oauth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReaperSweepsAllStores(t *testing.T) {
	clock := newFakeClock()

	transactions := NewTransactionStore(10 * time.Minute)
	transactions.now = clock.Now
	codes := NewAuthCodeStore(5 * time.Minute)
	codes.now = clock.Now
	sessions := NewSessionStore(time.Hour)
	sessions.now = clock.Now

	transactions.Put("txn", &Transaction{ClientID: "a"})
	codes.Put("code", &AuthCode{ClientID: "a"})
	sessions.Put("subject", &Session{Credentials: &Credentials{}})

	clock.Advance(2 * time.Hour)

	r := NewReaper(time.Millisecond, map[string]Sweepable{
		"transactions": transactions,
		"codes":        codes,
		"sessions":     sessions,
	})
	r.sweep()

	assert.Equal(t, 0, transactions.Len())
	assert.Equal(t, 0, codes.Len())
	assert.Equal(t, 0, sessions.Len())
}

func TestReaperStopsOnCancel(t *testing.T) {
	r := NewReaper(time.Millisecond, map[string]Sweepable{
		"transactions": NewTransactionStore(time.Minute),
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	// Let a few ticks pass, then cancel.
	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reaper did not stop after context cancellation")
	}
}
