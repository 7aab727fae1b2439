package usecase

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/prefab-leads/internal/entity"
)

type SortKey string

const (
	SortByDate  SortKey = "date"
	SortByPrice SortKey = "price"
)

type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// StatusAll disables the status filter.
const StatusAll = "all"

var (
	ErrInvalidSortKey       = errors.New("sort key must be date or price")
	ErrInvalidSortDirection = errors.New("sort direction must be asc or desc")
	ErrNoLeadSelected       = errors.New("no lead selected")
)

// ConsoleState is everything the leads view derives from besides the leads.
type ConsoleState struct {
	SearchQuery   string
	StatusFilter  string
	SortKey       SortKey
	SortDirection SortDirection
}

func DefaultConsoleState() ConsoleState {
	return ConsoleState{
		StatusFilter:  StatusAll,
		SortKey:       SortByDate,
		SortDirection: SortDescending,
	}
}

// ParseConsoleState builds a state from raw query values. Empty values keep
// the defaults.
func ParseConsoleState(query, status, sortKey, direction string) (ConsoleState, error) {
	st := DefaultConsoleState()
	st.SearchQuery = query

	if status != "" && status != StatusAll {
		if _, err := entity.ParseStatus(status); err != nil {
			return st, err
		}
		st.StatusFilter = status
	}

	switch SortKey(sortKey) {
	case "":
	case SortByDate, SortByPrice:
		st.SortKey = SortKey(sortKey)
	default:
		return st, ErrInvalidSortKey
	}

	switch SortDirection(direction) {
	case "":
	case SortAscending, SortDescending:
		st.SortDirection = SortDirection(direction)
	default:
		return st, ErrInvalidSortDirection
	}

	return st, nil
}

// Matches reports whether a lead passes the status filter and the search.
// Name and email are compared case-insensitively; phone numbers are not
// case folded.
func (st ConsoleState) Matches(l entity.Lead) bool {
	if st.StatusFilter != "" && st.StatusFilter != StatusAll && string(l.Status) != st.StatusFilter {
		return false
	}
	if st.SearchQuery == "" {
		return true
	}

	q := strings.ToLower(st.SearchQuery)
	return strings.Contains(strings.ToLower(l.FullName()), q) ||
		strings.Contains(strings.ToLower(l.Email), q) ||
		strings.Contains(l.Phone, st.SearchQuery)
}

func (st ConsoleState) compare(a, b entity.Lead) int {
	var c int
	if st.SortKey == SortByPrice {
		switch {
		case a.TotalPrice < b.TotalPrice:
			c = -1
		case a.TotalPrice > b.TotalPrice:
			c = 1
		}
	} else {
		c = a.CreatedTime().Compare(b.CreatedTime())
	}
	if st.SortDirection == SortDescending {
		return -c
	}
	return c
}

// Derive filters and sorts leads for display. The sort is stable, so ties
// keep their insertion order. The input slice is not modified.
func Derive(leads []entity.Lead, st ConsoleState) []entity.Lead {
	out := make([]entity.Lead, 0, len(leads))
	for _, l := range leads {
		if st.Matches(l) {
			out = append(out, l)
		}
	}
	slices.SortStableFunc(out, st.compare)
	return out
}

// LeadDetail is the open detail view of one lead.
type LeadDetail struct {
	Lead      entity.Lead
	NoteDraft string
}

// LeadsConsole is the operator view over the lead store. It owns its own
// state and talks to the store only through the store's operations.
type LeadsConsole struct {
	Store LeadStoreInterface
	Log   logrus.FieldLogger

	state    ConsoleState
	selected *LeadDetail
}

func NewLeadsConsole(store LeadStoreInterface, log logrus.FieldLogger) *LeadsConsole {
	return &LeadsConsole{
		Store: store,
		Log:   log,
		state: DefaultConsoleState(),
	}
}

func (c *LeadsConsole) State() ConsoleState {
	return c.state
}

func (c *LeadsConsole) SetState(st ConsoleState) {
	c.state = st
}

func (c *LeadsConsole) SetSearch(q string) {
	c.state.SearchQuery = q
}

func (c *LeadsConsole) SetStatusFilter(status string) error {
	if status != StatusAll {
		if _, err := entity.ParseStatus(status); err != nil {
			return err
		}
	}
	c.state.StatusFilter = status
	return nil
}

func (c *LeadsConsole) SetSortKey(k SortKey) error {
	if k != SortByDate && k != SortByPrice {
		return ErrInvalidSortKey
	}
	c.state.SortKey = k
	return nil
}

func (c *LeadsConsole) SetSortDirection(d SortDirection) error {
	if d != SortAscending && d != SortDescending {
		return ErrInvalidSortDirection
	}
	c.state.SortDirection = d
	return nil
}

func (c *LeadsConsole) ToggleDirection() {
	if c.state.SortDirection == SortAscending {
		c.state.SortDirection = SortDescending
	} else {
		c.state.SortDirection = SortAscending
	}
}

// ToggleSort is the single sort button of the console: date goes to price
// with the same direction, price goes back to date with the direction flipped.
func (c *LeadsConsole) ToggleSort() {
	if c.state.SortKey == SortByDate {
		c.state.SortKey = SortByPrice
		return
	}
	c.state.SortKey = SortByDate
	c.ToggleDirection()
}

// View reads the whole collection and derives the visible rows.
func (c *LeadsConsole) View(ctx context.Context) []entity.Lead {
	return Derive(c.Store.ListAll(ctx), c.state)
}

// Select opens the detail view of a lead.
func (c *LeadsConsole) Select(ctx context.Context, id string) (*LeadDetail, error) {
	lead, ok := c.Store.Get(ctx, id)
	if !ok {
		return nil, entity.ErrLeadNotFound
	}
	c.selected = &LeadDetail{Lead: *lead}
	return c.selected, nil
}

func (c *LeadsConsole) Selected() *LeadDetail {
	return c.selected
}

// Close discards the detail view and its draft. Writes already issued stay.
func (c *LeadsConsole) Close() {
	c.selected = nil
}

func (c *LeadsConsole) SetNoteDraft(text string) error {
	if c.selected == nil {
		return ErrNoLeadSelected
	}
	c.selected.NoteDraft = text
	return nil
}

// ChangeStatus updates the open lead. The detail view shows the new status
// whether or not the write succeeds; a failed write is logged and returned.
func (c *LeadsConsole) ChangeStatus(ctx context.Context, status entity.Status) error {
	if c.selected == nil {
		return ErrNoLeadSelected
	}
	if !status.Valid() {
		return entity.ErrInvalidStatus
	}

	c.selected.Lead.Status = status

	if _, err := c.Store.Update(ctx, c.selected.Lead.ID, entity.SetStatus{Status: status}); err != nil {
		c.Log.WithError(err).WithField("lead_id", c.selected.Lead.ID).Error("status change not persisted")
		return err
	}
	return nil
}

// AddNote appends the draft (or text, when given) to the open lead. Blank
// notes are ignored. The draft is cleared after the note is issued.
func (c *LeadsConsole) AddNote(ctx context.Context, text string) (bool, error) {
	if c.selected == nil {
		return false, ErrNoLeadSelected
	}
	if text == "" {
		text = c.selected.NoteDraft
	}
	if strings.TrimSpace(text) == "" {
		return false, nil
	}

	id := c.selected.Lead.ID
	c.selected.Lead.Notes = append(c.selected.Lead.Notes, text)
	c.selected.NoteDraft = ""

	if _, err := c.Store.Update(ctx, id, entity.AppendNote{Text: text}); err != nil {
		c.Log.WithError(err).WithField("lead_id", id).Error("note not persisted")
		return true, err
	}
	return true, nil
}
