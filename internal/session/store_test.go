package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/devburger/ordering-agent/internal/model"
)

const testPrompt = "Você é o atendente virtual."

func TestAcquireSeedsSystemPrompt(t *testing.T) {
	store := NewStore(testPrompt)

	sess := store.Acquire("+5511999998888")
	defer store.Release(sess)

	turns := sess.Turns()
	if len(turns) != 1 {
		t.Fatalf("expected 1 seeded turn, got %d", len(turns))
	}
	if turns[0].Role != model.RoleSystem {
		t.Fatalf("expected system role, got %q", turns[0].Role)
	}
	if turns[0].Content != testPrompt {
		t.Fatalf("expected system prompt, got %q", turns[0].Content)
	}
}

func TestAcquireReturnsSameSessionForSameCustomer(t *testing.T) {
	store := NewStore(testPrompt)

	sess := store.Acquire("a")
	sess.Append(model.UserTurn("oi", time.Now()))
	store.Release(sess)

	again := store.Acquire("a")
	defer store.Release(again)

	if again.Len() != 2 {
		t.Fatalf("expected 2 turns, got %d", again.Len())
	}
	if store.Count() != 1 {
		t.Fatalf("expected 1 session, got %d", store.Count())
	}
}

func TestSessionsAreIsolatedPerCustomer(t *testing.T) {
	store := NewStore(testPrompt)

	a := store.Acquire("a")
	a.Append(model.UserTurn("quero um lanche", time.Now()))
	store.Release(a)

	b := store.Acquire("b")
	defer store.Release(b)

	if b.Len() != 1 {
		t.Fatalf("customer b should only have the system turn, got %d turns", b.Len())
	}
	if store.Count() != 2 {
		t.Fatalf("expected 2 sessions, got %d", store.Count())
	}
}

func TestTurnsReturnsCopy(t *testing.T) {
	store := NewStore(testPrompt)

	sess := store.Acquire("a")
	defer store.Release(sess)

	turns := sess.Turns()
	turns[0].Content = "mutated"

	if got := sess.Turns()[0].Content; got != testPrompt {
		t.Fatalf("transcript mutated through returned slice: %q", got)
	}
}

func TestConcurrentAppendsKeepEveryTurn(t *testing.T) {
	store := NewStore(testPrompt)

	const workers = 8
	const perWorker = 25

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				sess := store.Acquire("shared")
				sess.Append(model.UserTurn(fmt.Sprintf("w%d-%d", worker, j), time.Now()))
				store.Release(sess)
			}
		}(i)
	}
	wg.Wait()

	sess := store.Acquire("shared")
	defer store.Release(sess)

	want := 1 + workers*perWorker
	if sess.Len() != want {
		t.Fatalf("expected %d turns, got %d", want, sess.Len())
	}
}
