// Package browser opens task browser actions through the OS default
// handler, isolating every failure to the single action that caused it.
package browser

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/taskping/internal/model"
	"github.com/sandeepkv93/taskping/internal/urlcheck"
)

var (
	ErrActionTimeout = errors.New("browser: action timed out")
	ErrInvalidURL    = errors.New("browser: invalid url")
)

const (
	defaultOpenTimeout = 3 * time.Second
	defaultPaceDelay   = 500 * time.Millisecond
)

// Opener launches a URL in the platform's external handler.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// ExecOpener shells out to the platform open command.
type ExecOpener struct{}

func (ExecOpener) Open(ctx context.Context, url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.CommandContext(ctx, "cmd", "/C", "start", "", url)
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", url)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("browser: start open command: %w", err)
	}
	// The handler keeps running; releasing it avoids zombie processes.
	go func() { _ = cmd.Wait() }()
	return nil
}

type Executor struct {
	opener    Opener
	validator *urlcheck.Validator
	log       logrus.FieldLogger
	timeout   time.Duration
	pace      time.Duration
	sleep     func(ctx context.Context, d time.Duration)
}

func NewExecutor(opener Opener, validator *urlcheck.Validator, log logrus.FieldLogger) *Executor {
	if opener == nil {
		opener = ExecOpener{}
	}
	if validator == nil {
		validator = urlcheck.NewValidator()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Executor{
		opener:    opener,
		validator: validator,
		log:       log,
		timeout:   defaultOpenTimeout,
		pace:      defaultPaceDelay,
		sleep:     sleepCtx,
	}
}

// WithTiming overrides the open timeout and pacing delay. Used by tests
// and by the manual "test this action" flow where pacing is pointless.
func (e *Executor) WithTiming(timeout, pace time.Duration) *Executor {
	if timeout > 0 {
		e.timeout = timeout
	}
	e.pace = pace
	return e
}

// Run opens the actions in ascending order. Disabled actions are skipped,
// invalid URLs and open failures are logged and the loop continues: one
// bad action never suppresses the rest.
func (e *Executor) Run(ctx context.Context, actions []model.BrowserAction) {
	if len(actions) == 0 {
		return
	}
	e.log.WithField("count", len(actions)).Info("executing browser actions")

	opened := 0
	for _, action := range actions {
		if !action.Enabled {
			e.log.WithField("label", action.Label).Debug("skipping disabled action")
			continue
		}
		if result := e.validator.Validate(action.URL); !result.Valid {
			e.log.WithFields(logrus.Fields{
				"url":    action.URL,
				"reason": result.Reason,
			}).Warn("skipping invalid action url")
			continue
		}

		// Pace between real open attempts only; skipped actions
		// should not stall the ones behind them.
		if opened > 0 && e.pace > 0 {
			e.sleep(ctx, e.pace)
		}

		if err := e.open(ctx, action.URL); err != nil {
			e.log.WithFields(logrus.Fields{
				"url": action.URL,
			}).WithError(err).Warn("browser action failed, continuing")
		} else {
			e.log.WithField("url", action.URL).Info("opened browser action")
		}
		opened++
	}
}

// RunOne opens a single action and propagates the failure. This is the
// ad-hoc "test this action" path, not the fire path.
func (e *Executor) RunOne(ctx context.Context, action model.BrowserAction) error {
	if !action.Enabled {
		return nil
	}
	if result := e.validator.Validate(action.URL); !result.Valid {
		return fmt.Errorf("%w: %s", ErrInvalidURL, result.Reason)
	}
	return e.open(ctx, action.URL)
}

func (e *Executor) open(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- e.opener.Open(ctx, url) }()

	select {
	case err := <-done:
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrActionTimeout
		}
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrActionTimeout
		}
		return ctx.Err()
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
