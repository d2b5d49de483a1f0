package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxBrowserActions caps the per-task action list.
const MaxBrowserActions = 5

var (
	ErrTooManyActions   = errors.New("model: too many browser actions")
	ErrActionURLMissing = errors.New("model: browser action url is required")
)

// BrowserAction is one URL the dispatcher opens for escalated
// notifications. Actions run in ascending Order, ties broken by insertion.
type BrowserAction struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	URL       string    `json:"url"`
	Enabled   bool      `json:"enabled"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewBrowserAction(label, url string, order int) BrowserAction {
	return BrowserAction{
		ID:        uuid.NewString(),
		Label:     label,
		URL:       url,
		Enabled:   true,
		Order:     order,
		CreatedAt: time.Now().UTC(),
	}
}

func (a BrowserAction) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return errors.New("model: browser action id is required")
	}
	if strings.TrimSpace(a.URL) == "" {
		return ErrActionURLMissing
	}
	return nil
}

// BrowserActionSettings is the per-task action set, persisted as a JSON
// blob alongside the notification columns.
type BrowserActionSettings struct {
	Enabled bool            `json:"enabled"`
	Actions []BrowserAction `json:"actions"`
}

func (s BrowserActionSettings) Validate() error {
	if len(s.Actions) > MaxBrowserActions {
		return fmt.Errorf("%w: %d (max %d)", ErrTooManyActions, len(s.Actions), MaxBrowserActions)
	}
	for _, a := range s.Actions {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// AddAction appends an action, keeping the list order-sorted. Additions
// beyond the cap are rejected.
func (s *BrowserActionSettings) AddAction(a BrowserAction) error {
	if len(s.Actions) >= MaxBrowserActions {
		return fmt.Errorf("%w: %d (max %d)", ErrTooManyActions, len(s.Actions)+1, MaxBrowserActions)
	}
	s.Actions = append(s.Actions, a)
	s.sortActions()
	return nil
}

func (s *BrowserActionSettings) RemoveAction(id string) {
	kept := s.Actions[:0]
	for _, a := range s.Actions {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	s.Actions = kept
}

func (s *BrowserActionSettings) Reorder(id string, order int) {
	for i := range s.Actions {
		if s.Actions[i].ID == id {
			s.Actions[i].Order = order
			break
		}
	}
	s.sortActions()
}

// EnabledActions returns the actions the executor should attempt, in run
// order. An action set that is itself disabled yields nothing.
func (s BrowserActionSettings) EnabledActions() []BrowserAction {
	if !s.Enabled {
		return nil
	}
	out := make([]BrowserAction, 0, len(s.Actions))
	for _, a := range s.Actions {
		if a.Enabled {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func (s *BrowserActionSettings) sortActions() {
	sort.SliceStable(s.Actions, func(i, j int) bool { return s.Actions[i].Order < s.Actions[j].Order })
}
