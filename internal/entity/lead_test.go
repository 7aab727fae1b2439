package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/prefab-leads/internal/entity"
)

func TestParseStatus(t *testing.T) {
	for _, s := range entity.Statuses() {
		got, err := entity.ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	for _, raw := range []string{"", "New", "archived", "all"} {
		_, err := entity.ParseStatus(raw)
		assert.ErrorIs(t, err, entity.ErrInvalidStatus, raw)
	}
}

// TestNewLeadInitialState - id, status and notes belong to the store
func TestNewLeadInitialState(t *testing.T) {
	now := time.Date(2026, 5, 4, 12, 30, 0, 0, time.FixedZone("CEST", 2*3600))
	c := entity.LeadCandidate{
		FirstName:     "Jane",
		LastName:      "Doe",
		Configuration: entity.Configuration{FloorPlan: "rebel", Upgrades: []string{"solar"}},
		TotalPrice:    130000,
	}

	l := entity.NewLead("abc", c, now)

	assert.Equal(t, "abc", l.ID)
	assert.Equal(t, entity.StatusNew, l.Status)
	assert.Equal(t, []string{}, l.Notes)
	assert.Equal(t, "2026-05-04T10:30:00Z", l.CreatedAt)
	assert.Equal(t, "Jane Doe", l.FullName())

	c.Configuration.Upgrades[0] = "sauna"
	assert.Equal(t, []string{"solar"}, l.Configuration.Upgrades)

	c.CreatedAt = "2025-12-24T18:00:00Z"
	assert.Equal(t, "2025-12-24T18:00:00Z", entity.NewLead("x", c, now).CreatedAt)
}

func TestApplyMutations(t *testing.T) {
	l := entity.Lead{ID: "1", Status: entity.StatusNew}

	entity.Apply(&l, entity.SetStatus{Status: entity.StatusLost})
	entity.Apply(&l, entity.SetStatus{Status: entity.StatusNew})
	entity.Apply(&l, entity.AppendNote{Text: "first"})
	entity.Apply(&l, entity.AppendNote{Text: "first"})

	assert.Equal(t, entity.StatusNew, l.Status)
	assert.Equal(t, []string{"first", "first"}, l.Notes)
}

func TestCloneIsDeep(t *testing.T) {
	l := entity.Lead{
		Notes:         []string{"a"},
		Configuration: entity.Configuration{Upgrades: []string{"solar"}},
	}
	c := l.Clone()
	c.Notes[0] = "b"
	c.Configuration.Upgrades[0] = "sauna"

	assert.Equal(t, []string{"a"}, l.Notes)
	assert.Equal(t, []string{"solar"}, l.Configuration.Upgrades)
}

// TestCreatedTime - bad timestamps sort first instead of failing
func TestCreatedTime(t *testing.T) {
	l := entity.Lead{CreatedAt: "2026-01-02T03:04:05.123Z"}
	assert.Equal(t, 2026, l.CreatedTime().Year())

	l.CreatedAt = "yesterday"
	assert.True(t, l.CreatedTime().IsZero())
}

func TestCatalogFindByID(t *testing.T) {
	c := entity.Catalog{Products: []entity.Product{{ID: "nature", Name: "Nature"}}}

	p, err := c.FindByID("nature")
	require.NoError(t, err)
	assert.Equal(t, "Nature", p.Name)

	p.Name = "changed"
	assert.Equal(t, "Nature", c.All()[0].Name)

	_, err = c.FindByID("castle")
	assert.ErrorIs(t, err, entity.ErrProductNotFound)
}
