package render

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tebeka/selenium"
)

// fakeWD satisfies selenium.WebDriver without a real browser. Only the
// methods the pool itself touches are overridden.
type fakeWD struct {
	selenium.WebDriver
	quitCalls *int
}

func (f fakeWD) Quit() error {
	if f.quitCalls != nil {
		*f.quitCalls++
	}
	return nil
}

func newTestPool(size int, dial func() (selenium.WebDriver, error)) *Pool {
	p := &Pool{
		cfg:    Config{PoolSize: size, SettleDelay: time.Millisecond},
		slots:  make(chan *slot, size),
		closed: make(chan struct{}),
		dial:   dial,
	}
	for i := 0; i < size; i++ {
		p.slots <- &slot{}
	}
	return p
}

func TestPool_AcquireBlocksUntilRelease(t *testing.T) {
	dials := 0
	p := newTestPool(1, func() (selenium.WebDriver, error) {
		dials++
		return fakeWD{}, nil
	})

	s, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	// Pool exhausted: a second acquire must wait and then give up with the
	// caller's deadline error, not a fabricated session.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := p.Acquire(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}

	s.Release()
	s2, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	s2.Release()

	if dials != 1 {
		t.Fatalf("expected 1 dial (session reused), got %d", dials)
	}
}

func TestPool_BrokenSessionIsRedialed(t *testing.T) {
	dials := 0
	quits := 0
	p := newTestPool(1, func() (selenium.WebDriver, error) {
		dials++
		return fakeWD{quitCalls: &quits}, nil
	})

	s, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	s.MarkBroken()
	s.Release()

	if quits != 1 {
		t.Fatalf("broken session not quit: %d", quits)
	}

	s2, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	s2.Release()

	if dials != 2 {
		t.Fatalf("expected redial after broken release, got %d dials", dials)
	}
}

func TestPool_DialFailureKeepsSlot(t *testing.T) {
	fail := true
	p := newTestPool(1, func() (selenium.WebDriver, error) {
		if fail {
			return nil, errors.New("no browser")
		}
		return fakeWD{}, nil
	})

	if _, err := p.Acquire(context.Background()); err == nil {
		t.Fatal("expected dial error")
	}

	// The slot must have returned to the pool, so a later acquire succeeds.
	fail = false
	s, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("pool shrank after dial failure: %v", err)
	}
	s.Release()
}

func TestPool_ReleaseIsIdempotent(t *testing.T) {
	p := newTestPool(1, func() (selenium.WebDriver, error) { return fakeWD{}, nil })

	s, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	s.Release()
	s.Release() // must not double-insert the slot

	if len(p.slots) != 1 {
		t.Fatalf("pool has %d slots, want 1", len(p.slots))
	}
}
