package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/prefab-leads/internal/entity"
)

const (
	DefaultLeadsKey = "leads"

	// LeadsSchemaVersion tags the persisted envelope. Version 0 is the legacy
	// bare JSON array written by the browser-only site.
	LeadsSchemaVersion = 1
)

var (
	ErrCorruptLeads      = errors.New("persisted leads are unreadable")
	ErrUnsupportedSchema = errors.New("persisted leads use an unsupported schema version")
)

type leadsEnvelope struct {
	Version int           `json:"version"`
	Leads   []entity.Lead `json:"leads"`
}

// LeadStore owns the persisted lead collection. Every read and write of the
// slot goes through it; writes always replace the whole collection.
//
// The mutex serialises read-modify-write inside this process only. Two
// processes sharing a slot are last-write-wins on the whole collection.
type LeadStore struct {
	Slot        SlotStore
	Key         string
	Log         logrus.FieldLogger
	IDGenerator func() string
	Clock       func() time.Time

	mu sync.Mutex
}

func NewLeadStore(slot SlotStore, key string, log logrus.FieldLogger) *LeadStore {
	if key == "" {
		key = DefaultLeadsKey
	}
	return &LeadStore{
		Slot:        slot,
		Key:         key,
		Log:         log,
		IDGenerator: func() string { return uuid.New().String() },
		Clock:       time.Now,
	}
}

// Append stores a new lead built from the candidate. The store assigns the
// id, sets the status to new and starts with no notes.
func (s *LeadStore) Append(ctx context.Context, candidate entity.LeadCandidate) (*entity.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	leads, err := s.load(ctx)
	if errors.Is(err, ErrCorruptLeads) {
		if err := s.quarantine(ctx); err != nil {
			return nil, err
		}
		leads, err = nil, nil
	}
	if err != nil {
		return nil, err
	}

	lead := entity.NewLead(s.newID(leads), candidate, s.Clock())
	leads = append(leads, lead)

	if err := s.save(ctx, leads); err != nil {
		return nil, err
	}

	s.Log.WithFields(logrus.Fields{"lead_id": lead.ID, "slot": s.Key}).Info("lead stored")

	out := lead.Clone()
	return &out, nil
}

// ListAll returns every lead in insertion order. It never fails: an absent,
// empty or unreadable slot yields an empty collection.
func (s *LeadStore) ListAll(ctx context.Context) []entity.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()

	leads, err := s.load(ctx)
	if err != nil {
		s.Log.WithError(err).WithField("slot", s.Key).Error("reading leads, serving empty collection")
		return []entity.Lead{}
	}

	out := make([]entity.Lead, 0, len(leads))
	for _, l := range leads {
		out = append(out, l.Clone())
	}
	return out
}

func (s *LeadStore) Get(ctx context.Context, id string) (*entity.Lead, bool) {
	for _, l := range s.ListAll(ctx) {
		if l.ID == id {
			return &l, true
		}
	}
	return nil, false
}

// Update applies one mutation to the lead with the given id and persists the
// collection. An unknown id is a silent no-op that reports found=false and
// leaves the slot untouched.
func (s *LeadStore) Update(ctx context.Context, id string, m entity.Mutation) (bool, error) {
	if m == nil {
		return false, errors.New("nil mutation")
	}
	if set, ok := m.(entity.SetStatus); ok && !set.Status.Valid() {
		return false, entity.ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	leads, err := s.load(ctx)
	if errors.Is(err, ErrCorruptLeads) {
		s.Log.WithError(err).WithField("lead_id", id).Warn("update against unreadable leads ignored")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	idx := -1
	for i := range leads {
		if leads[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.Log.WithField("lead_id", id).Debug("update for unknown lead ignored")
		return false, nil
	}

	entity.Apply(&leads[idx], m)

	if err := s.save(ctx, leads); err != nil {
		return true, err
	}
	return true, nil
}

func (s *LeadStore) load(ctx context.Context) ([]entity.Lead, error) {
	raw, ok, err := s.Slot.Get(ctx, s.Key)
	if err != nil {
		return nil, fmt.Errorf("reading slot %q: %w", s.Key, err)
	}
	if !ok {
		return nil, nil
	}
	return DecodeLeads(raw)
}

func (s *LeadStore) save(ctx context.Context, leads []entity.Lead) error {
	raw, err := EncodeLeads(leads)
	if err != nil {
		s.Log.WithError(err).Error("encoding leads")
		return err
	}
	if err := s.Slot.Set(ctx, s.Key, raw); err != nil {
		s.Log.WithError(err).WithField("slot", s.Key).Error("❌ persisting leads failed")
		return fmt.Errorf("writing slot %q: %w", s.Key, err)
	}
	return nil
}

// quarantine copies unreadable slot content aside so the next write does not
// destroy it.
func (s *LeadStore) quarantine(ctx context.Context) error {
	raw, _, err := s.Slot.Get(ctx, s.Key)
	if err != nil {
		return fmt.Errorf("reading slot %q: %w", s.Key, err)
	}
	backup := fmt.Sprintf("%s.corrupt-%d", s.Key, s.Clock().UnixNano())
	if err := s.Slot.Set(ctx, backup, raw); err != nil {
		return fmt.Errorf("saving unreadable leads to %q: %w", backup, err)
	}
	s.Log.WithFields(logrus.Fields{"slot": s.Key, "backup": backup}).Warn("⚠️ unreadable leads moved aside, starting a new collection")
	return nil
}

// newID retries on the (practically impossible) event of a duplicate.
func (s *LeadStore) newID(existing []entity.Lead) string {
	for {
		id := s.IDGenerator()
		taken := false
		for _, l := range existing {
			if l.ID == id {
				taken = true
				break
			}
		}
		if !taken {
			return id
		}
	}
}

// EncodeLeads writes the versioned envelope.
func EncodeLeads(leads []entity.Lead) ([]byte, error) {
	if leads == nil {
		leads = []entity.Lead{}
	}
	return json.Marshal(leadsEnvelope{Version: LeadsSchemaVersion, Leads: leads})
}

// envelopeFields is the decoding side of leadsEnvelope. Both keys must be
// present for the content to count as a lead collection.
type envelopeFields struct {
	Version *int            `json:"version"`
	Leads   json.RawMessage `json:"leads"`
}

// DecodeLeads reads both the versioned envelope and the legacy bare array.
// Anything else, including a lead outside the status set, is ErrCorruptLeads.
func DecodeLeads(raw []byte) ([]entity.Lead, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}

	var leads []entity.Lead
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &leads); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptLeads, err)
		}
	} else {
		var env envelopeFields
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptLeads, err)
		}
		if env.Version == nil || env.Leads == nil {
			return nil, fmt.Errorf("%w: not a lead collection", ErrCorruptLeads)
		}
		if *env.Version < 1 || *env.Version > LeadsSchemaVersion {
			return nil, fmt.Errorf("%w: %w (version %d)", ErrCorruptLeads, ErrUnsupportedSchema, *env.Version)
		}
		if err := json.Unmarshal(env.Leads, &leads); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptLeads, err)
		}
	}

	for i := range leads {
		if !leads[i].Status.Valid() {
			return nil, fmt.Errorf("%w: lead %q: %w %q", ErrCorruptLeads, leads[i].ID, entity.ErrInvalidStatus, leads[i].Status)
		}
		if leads[i].Notes == nil {
			leads[i].Notes = []string{}
		}
		if leads[i].Configuration.Upgrades == nil {
			leads[i].Configuration.Upgrades = []string{}
		}
	}
	return leads, nil
}
