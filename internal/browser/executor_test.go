package browser

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/taskping/internal/model"
	"github.com/sandeepkv93/taskping/internal/urlcheck"
)

type fakeOpener struct {
	mu     sync.Mutex
	urls   []string
	fail   bool
	block  bool
	failOn map[string]bool
}

func (f *fakeOpener) Open(ctx context.Context, url string) error {
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	f.mu.Lock()
	f.urls = append(f.urls, url)
	f.mu.Unlock()
	if f.fail || f.failOn[url] {
		return errors.New("fake open failure")
	}
	return nil
}

func (f *fakeOpener) opened() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.urls))
	copy(out, f.urls)
	return out
}

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestExecutor(opener Opener) *Executor {
	return NewExecutor(opener, urlcheck.NewValidator(), quietLogger()).WithTiming(time.Second, 0)
}

func TestRunOpensEnabledActionsInOrder(t *testing.T) {
	opener := &fakeOpener{}
	exec := newTestExecutor(opener)

	exec.Run(context.Background(), []model.BrowserAction{
		{ID: "1", URL: "https://first.example.com", Enabled: true, Order: 1},
		{ID: "2", URL: "https://second.example.com", Enabled: true, Order: 2},
		{ID: "3", URL: "https://third.example.com", Enabled: true, Order: 3},
	})

	got := opener.opened()
	if len(got) != 3 {
		t.Fatalf("expected 3 opens, got %d", len(got))
	}
	if got[0] != "https://first.example.com" || got[2] != "https://third.example.com" {
		t.Fatalf("unexpected open order: %v", got)
	}
}

func TestRunSkipsDisabledActions(t *testing.T) {
	opener := &fakeOpener{}
	exec := newTestExecutor(opener)

	exec.Run(context.Background(), []model.BrowserAction{
		{ID: "1", URL: "https://a.example.com", Enabled: true, Order: 1},
		{ID: "2", URL: "https://b.example.com", Enabled: false, Order: 2},
		{ID: "3", URL: "https://c.example.com", Enabled: true, Order: 3},
		{ID: "4", URL: "https://d.example.com", Enabled: true, Order: 4},
	})

	if got := opener.opened(); len(got) != 3 {
		t.Fatalf("expected exactly 3 open attempts, got %d (%v)", len(got), got)
	}
}

func TestRunContinuesPastInvalidURL(t *testing.T) {
	opener := &fakeOpener{}
	exec := newTestExecutor(opener)

	exec.Run(context.Background(), []model.BrowserAction{
		{ID: "1", URL: "https://ok.example.com", Enabled: true, Order: 1},
		{ID: "2", URL: "javascript:alert(1)", Enabled: true, Order: 2},
		{ID: "3", URL: "https://also-ok.example.com", Enabled: true, Order: 3},
	})

	got := opener.opened()
	if len(got) != 2 {
		t.Fatalf("expected the two valid URLs to open, got %v", got)
	}
	if got[1] != "https://also-ok.example.com" {
		t.Fatalf("expected execution to continue after invalid URL, got %v", got)
	}
}

func TestRunPacesOnlyBetweenOpenAttempts(t *testing.T) {
	opener := &fakeOpener{}
	exec := NewExecutor(opener, urlcheck.NewValidator(), quietLogger()).
		WithTiming(time.Second, 100*time.Millisecond)
	sleeps := 0
	exec.sleep = func(ctx context.Context, d time.Duration) { sleeps++ }

	exec.Run(context.Background(), []model.BrowserAction{
		{ID: "1", URL: "javascript:alert(1)", Enabled: true, Order: 1},
		{ID: "2", URL: "https://a.example.com", Enabled: true, Order: 2},
		{ID: "3", URL: "ftp://files.example.com", Enabled: true, Order: 3},
		{ID: "4", URL: "https://b.example.com", Enabled: true, Order: 4},
	})

	if got := opener.opened(); len(got) != 2 {
		t.Fatalf("expected 2 opens, got %v", got)
	}
	// One delay between the two real opens; the skipped URLs around
	// them must not add any.
	if sleeps != 1 {
		t.Fatalf("expected exactly 1 pacing sleep, got %d", sleeps)
	}
}

func TestRunContinuesPastOpenFailure(t *testing.T) {
	opener := &fakeOpener{failOn: map[string]bool{"https://broken.example.com": true}}
	exec := newTestExecutor(opener)

	exec.Run(context.Background(), []model.BrowserAction{
		{ID: "1", URL: "https://broken.example.com", Enabled: true, Order: 1},
		{ID: "2", URL: "https://fine.example.com", Enabled: true, Order: 2},
	})

	if got := opener.opened(); len(got) != 2 {
		t.Fatalf("expected both actions attempted despite failure, got %v", got)
	}
}

func TestRunOnePropagatesValidationFailure(t *testing.T) {
	opener := &fakeOpener{}
	exec := newTestExecutor(opener)

	err := exec.RunOne(context.Background(), model.BrowserAction{
		ID: "1", URL: "javascript:alert(1)", Enabled: true, Order: 1,
	})
	if !errors.Is(err, ErrInvalidURL) {
		t.Fatalf("expected ErrInvalidURL, got %v", err)
	}
	if len(opener.opened()) != 0 {
		t.Fatal("expected no open attempt for invalid URL")
	}
}

func TestRunOneSkipsDisabled(t *testing.T) {
	opener := &fakeOpener{}
	exec := newTestExecutor(opener)

	if err := exec.RunOne(context.Background(), model.BrowserAction{
		ID: "1", URL: "https://example.com", Enabled: false, Order: 1,
	}); err != nil {
		t.Fatalf("expected nil for disabled action, got %v", err)
	}
	if len(opener.opened()) != 0 {
		t.Fatal("expected no open attempt for disabled action")
	}
}

func TestOpenTimesOut(t *testing.T) {
	opener := &fakeOpener{block: true}
	exec := NewExecutor(opener, urlcheck.NewValidator(), quietLogger()).WithTiming(20*time.Millisecond, 0)

	err := exec.RunOne(context.Background(), model.BrowserAction{
		ID: "1", URL: "https://slow.example.com", Enabled: true, Order: 1,
	})
	if !errors.Is(err, ErrActionTimeout) {
		t.Fatalf("expected ErrActionTimeout, got %v", err)
	}
}
