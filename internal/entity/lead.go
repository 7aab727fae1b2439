package entity

import (
	"errors"
	"slices"
	"time"
)

var (
	ErrInvalidStatus = errors.New("invalid lead status")
	ErrLeadNotFound  = errors.New("lead not found")
)

// Status is the sales stage of a lead. The set is fixed and ordered.
type Status string

const (
	StatusNew         Status = "new"
	StatusContacted   Status = "contacted"
	StatusQualified   Status = "qualified"
	StatusNegotiating Status = "negotiating"
	StatusWon         Status = "won"
	StatusLost        Status = "lost"
)

// Statuses returns the six statuses in pipeline order.
func Statuses() []Status {
	return []Status{
		StatusNew,
		StatusContacted,
		StatusQualified,
		StatusNegotiating,
		StatusWon,
		StatusLost,
	}
}

func (s Status) Valid() bool {
	return slices.Contains(Statuses(), s)
}

// ParseStatus accepts only members of the fixed set.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// Configuration is the product selection the customer had on screen when the
// lead was submitted. It is a snapshot: catalog changes never reach it.
type Configuration struct {
	FloorPlan string   `json:"floorPlan" validate:"required"`
	Kitchen   string   `json:"kitchen" validate:"required"`
	Floor     string   `json:"floor" validate:"required"`
	Facade    string   `json:"facade" validate:"required"`
	Upgrades  []string `json:"upgrades" validate:"required"`
	BasePrice float64  `json:"basePrice" validate:"gte=0"`
}

// Clone copies the upgrades slice so the snapshot cannot be aliased.
func (c Configuration) Clone() Configuration {
	out := c
	out.Upgrades = append([]string{}, c.Upgrades...)
	return out
}

type Lead struct {
	ID             string        `json:"id"`
	FirstName      string        `json:"firstName"`
	LastName       string        `json:"lastName"`
	Email          string        `json:"email"`
	Phone          string        `json:"phone"`
	Message        string        `json:"message,omitempty"`
	Configuration  Configuration `json:"configuration"`
	TotalPrice     float64       `json:"totalPrice"`
	ReserveSlot    bool          `json:"reserveSlot"`
	PreferredMonth string        `json:"preferredMonth,omitempty"`
	Status         Status        `json:"status"`
	CreatedAt      string        `json:"createdAt"`
	Notes          []string      `json:"notes"`
}

// FullName is what the console searches and displays.
func (l Lead) FullName() string {
	return l.FirstName + " " + l.LastName
}

// CreatedTime parses CreatedAt. Unparsable values sort as the zero time.
func (l Lead) CreatedTime() time.Time {
	t, err := time.Parse(time.RFC3339Nano, l.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Clone returns a deep copy.
func (l Lead) Clone() Lead {
	out := l
	out.Configuration = l.Configuration.Clone()
	out.Notes = append([]string{}, l.Notes...)
	return out
}

// LeadCandidate is what a lead-capture form hands to the store: a Lead minus
// the fields the store owns (id, status, notes).
type LeadCandidate struct {
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Message        string
	Configuration  Configuration
	TotalPrice     float64
	ReserveSlot    bool
	PreferredMonth string
	CreatedAt      string
}

// NewLead builds a fresh lead in the initial state.
func NewLead(id string, c LeadCandidate, now time.Time) Lead {
	createdAt := c.CreatedAt
	if createdAt == "" {
		createdAt = now.UTC().Format(time.RFC3339Nano)
	}

	return Lead{
		ID:             id,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Email:          c.Email,
		Phone:          c.Phone,
		Message:        c.Message,
		Configuration:  c.Configuration.Clone(),
		TotalPrice:     c.TotalPrice,
		ReserveSlot:    c.ReserveSlot,
		PreferredMonth: c.PreferredMonth,
		Status:         StatusNew,
		CreatedAt:      createdAt,
		Notes:          []string{},
	}
}
