// Package render owns the pool of headless-browser sessions used to fully
// load event pages before capture. Sessions are a bounded, scoped resource:
// every Acquire must be paired with a Release, on every exit path, or
// chromedriver processes leak.
package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"

	"github.com/eventscope/eventscope/internal/utils"
)

type Config struct {
	ChromeDriverPath string
	Port             int
	PoolSize         int
	// SettleDelay is how long to wait after document.readyState reaches
	// "complete", giving client-side rendering a chance to finish.
	SettleDelay time.Duration
}

// ErrPoolClosed is returned by Acquire after Close.
var ErrPoolClosed = errors.New("render pool closed")

// Pool hands out browser sessions up to a fixed size. Exhausted pools make
// Acquire block until a session comes back or the caller's context expires.
type Pool struct {
	cfg     Config
	service *selenium.Service
	slots   chan *slot
	closed  chan struct{}

	// dial is swappable for tests.
	dial func() (selenium.WebDriver, error)
}

// slot is a pool position. wd is nil when the previous session broke and a
// fresh one must be dialed on next acquire.
type slot struct {
	wd selenium.WebDriver
}

// NewPool starts the chromedriver service and prepares PoolSize lazily-dialed
// sessions.
func NewPool(cfg Config) (*Pool, error) {
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = 1
	}
	if cfg.Port == 0 {
		cfg.Port = 9515
	}
	if cfg.SettleDelay == 0 {
		cfg.SettleDelay = 1500 * time.Millisecond
	}

	service, err := selenium.NewChromeDriverService(cfg.ChromeDriverPath, cfg.Port)
	if err != nil {
		return nil, fmt.Errorf("starting chromedriver service: %w", err)
	}

	p := &Pool{
		cfg:     cfg,
		service: service,
		slots:   make(chan *slot, cfg.PoolSize),
		closed:  make(chan struct{}),
	}
	p.dial = p.dialSession

	for i := 0; i < cfg.PoolSize; i++ {
		p.slots <- &slot{}
	}
	return p, nil
}

func (p *Pool) dialSession() (selenium.WebDriver, error) {
	caps := selenium.Capabilities{
		"browserName":      "chrome",
		"pageLoadStrategy": "eager",
	}
	caps.AddChrome(chrome.Capabilities{
		Args: []string{
			"--headless",
			"--no-sandbox",
			"--disable-dev-shm-usage",
			"--disable-gpu",
			"--window-size=1920,1080",
			"--user-agent=Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		},
	})
	return selenium.NewRemote(caps, fmt.Sprintf("http://localhost:%d/wd/hub", p.cfg.Port))
}

// Acquire takes a session from the pool, dialing a fresh one if the slot's
// previous session was discarded. Blocks until a slot frees up or ctx is done.
func (p *Pool) Acquire(ctx context.Context) (*Session, error) {
	select {
	case <-p.closed:
		return nil, ErrPoolClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	case s := <-p.slots:
		if s.wd == nil {
			wd, err := p.dial()
			if err != nil {
				// Slot goes back so the pool never shrinks.
				p.slots <- s
				return nil, fmt.Errorf("dialing browser session: %w", err)
			}
			s.wd = wd
		}
		return &Session{pool: p, slot: s}, nil
	}
}

// Close quits all idle sessions and stops chromedriver. In-flight sessions
// are quit when released.
func (p *Pool) Close() {
	close(p.closed)
	for i := 0; i < p.cfg.PoolSize; i++ {
		select {
		case s := <-p.slots:
			if s.wd != nil {
				if err := s.wd.Quit(); err != nil {
					utils.Log.Warn("quitting browser session: ", err)
				}
				s.wd = nil
			}
		default:
		}
	}
	if p.service != nil {
		if err := p.service.Stop(); err != nil {
			utils.Log.Warn("stopping chromedriver: ", err)
		}
	}
}

// Session is one acquired browser. Release it exactly once.
type Session struct {
	pool     *Pool
	slot     *slot
	broken   bool
	released bool
}

// MarkBroken flags the underlying browser as unusable; Release will quit it
// and leave the slot to be re-dialed by the next Acquire.
func (s *Session) MarkBroken() {
	s.broken = true
}

// Release returns the slot to the pool. Safe to call via defer on every path.
func (s *Session) Release() {
	if s.released {
		return
	}
	s.released = true
	if s.broken && s.slot.wd != nil {
		if err := s.slot.wd.Quit(); err != nil {
			utils.Log.Debug("quitting broken session: ", err)
		}
		s.slot.wd = nil
	}
	select {
	case <-s.pool.closed:
		if s.slot.wd != nil {
			_ = s.slot.wd.Quit()
			s.slot.wd = nil
		}
	default:
		s.pool.slots <- s.slot
	}
}

// Render navigates to url, waits for the page to settle and returns the
// rendered HTML. The deadline on ctx bounds the whole operation.
func (s *Session) Render(ctx context.Context, url string) (string, error) {
	wd := s.slot.wd

	budget := 30 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		budget = time.Until(deadline)
		if budget <= 0 {
			return "", context.DeadlineExceeded
		}
	}

	if err := wd.SetPageLoadTimeout(budget); err != nil {
		utils.Log.Debug("setting page load timeout: ", err)
	}

	if err := wd.Get(url); err != nil {
		s.MarkBroken()
		return "", err
	}

	waitBudget := budget - s.pool.cfg.SettleDelay
	if waitBudget < time.Second {
		waitBudget = time.Second
	}
	err := wd.WaitWithTimeout(func(wd selenium.WebDriver) (bool, error) {
		state, err := wd.ExecuteScript("return document.readyState", nil)
		if err != nil {
			return false, nil
		}
		ready, _ := state.(string)
		return ready == "complete", nil
	}, waitBudget)
	if err != nil {
		return "", fmt.Errorf("page did not settle: %w", err)
	}

	// Let client-side rendering finish, bounded by the caller's deadline.
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(s.pool.cfg.SettleDelay):
	}

	html, err := wd.PageSource()
	if err != nil {
		s.MarkBroken()
		return "", err
	}
	return html, nil
}
