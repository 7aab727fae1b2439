package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/prefab-leads/internal/entity"
	"github.com/xavierca1/prefab-leads/internal/infra/logging"
	"github.com/xavierca1/prefab-leads/internal/infra/storage"
	"github.com/xavierca1/prefab-leads/internal/usecase"
)

// MockLeadStore
type MockLeadStore struct {
	mock.Mock
}

func (m *MockLeadStore) Append(ctx context.Context, c entity.LeadCandidate) (*entity.Lead, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadStore) ListAll(ctx context.Context) []entity.Lead {
	args := m.Called(ctx)
	return args.Get(0).([]entity.Lead)
}

func (m *MockLeadStore) Get(ctx context.Context, id string) (*entity.Lead, bool) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*entity.Lead), args.Bool(1)
}

func (m *MockLeadStore) Update(ctx context.Context, id string, mut entity.Mutation) (bool, error) {
	args := m.Called(ctx, id, mut)
	return args.Bool(0), args.Error(1)
}

func lead(id, first, email, phone string, status entity.Status, price float64, createdAt string) entity.Lead {
	return entity.Lead{
		ID:         id,
		FirstName:  first,
		LastName:   "Doe",
		Email:      email,
		Phone:      phone,
		Status:     status,
		TotalPrice: price,
		CreatedAt:  createdAt,
		Notes:      []string{},
	}
}

func ids(leads []entity.Lead) []string {
	out := make([]string, 0, len(leads))
	for _, l := range leads {
		out = append(out, l.ID)
	}
	return out
}

func fixture() []entity.Lead {
	return []entity.Lead{
		lead("1", "Anna", "anna@x.com", "+49 100", entity.StatusNew, 300, "2026-01-01T10:00:00Z"),
		lead("2", "Jane", "jane.doe@x.com", "+49 200", entity.StatusQualified, 100, "2026-01-03T10:00:00Z"),
		lead("3", "Bob", "jane@x.com", "+49 300", entity.StatusContacted, 200, "2026-01-02T10:00:00Z"),
		lead("4", "Carl", "carl@x.com", "0151-JANE", entity.StatusQualified, 250, "2026-01-05T10:00:00Z"),
		lead("5", "Dora", "dora@x.com", "+49 500", entity.StatusLost, 400, "2026-01-04T10:00:00Z"),
	}
}

// TestDeriveDefaultSort - newest first when nothing is set
func TestDeriveDefaultSort(t *testing.T) {
	got := usecase.Derive(fixture(), usecase.DefaultConsoleState())
	assert.Equal(t, []string{"4", "5", "2", "3", "1"}, ids(got))
}

// TestDeriveStatusFilter - only the qualified leads, in sorted order
func TestDeriveStatusFilter(t *testing.T) {
	st := usecase.DefaultConsoleState()
	st.StatusFilter = string(entity.StatusQualified)

	got := usecase.Derive(fixture(), st)
	assert.Equal(t, []string{"4", "2"}, ids(got))

	st.SortDirection = usecase.SortAscending
	got = usecase.Derive(fixture(), st)
	assert.Equal(t, []string{"2", "4"}, ids(got))
}

// TestDeriveSearch - name and email are case-insensitive, phone is matched as typed
func TestDeriveSearch(t *testing.T) {
	leads := fixture()

	t.Run("name or email", func(t *testing.T) {
		st := usecase.DefaultConsoleState()
		st.SearchQuery = "jane"
		st.SortDirection = usecase.SortAscending

		// "2" by first name, "3" by email; "4" only has JANE in the phone
		assert.Equal(t, []string{"3", "2"}, ids(usecase.Derive(leads, st)))
	})

	t.Run("full name", func(t *testing.T) {
		st := usecase.DefaultConsoleState()
		st.SearchQuery = "ANNA DOE"
		assert.Equal(t, []string{"1"}, ids(usecase.Derive(leads, st)))
	})

	t.Run("phone without case folding", func(t *testing.T) {
		st := usecase.DefaultConsoleState()
		st.SearchQuery = "JANE"
		got := ids(usecase.Derive(leads, st))
		assert.Contains(t, got, "4")

		st.SearchQuery = "-JANE"
		assert.Equal(t, []string{"4"}, ids(usecase.Derive(leads, st)))

		st.SearchQuery = "-jane"
		assert.Empty(t, usecase.Derive(leads, st))
	})

	t.Run("search and filter combine", func(t *testing.T) {
		st := usecase.DefaultConsoleState()
		st.SearchQuery = "jane"
		st.StatusFilter = string(entity.StatusContacted)
		assert.Equal(t, []string{"3"}, ids(usecase.Derive(leads, st)))
	})
}

// TestDerivePriceSort - ascending then reversed
func TestDerivePriceSort(t *testing.T) {
	leads := []entity.Lead{
		lead("a", "A", "a@x.com", "1", entity.StatusNew, 300, "2026-01-01T00:00:00Z"),
		lead("b", "B", "b@x.com", "2", entity.StatusNew, 100, "2026-01-01T00:00:00Z"),
		lead("c", "C", "c@x.com", "3", entity.StatusNew, 200, "2026-01-01T00:00:00Z"),
	}

	st := usecase.DefaultConsoleState()
	st.SortKey = usecase.SortByPrice
	st.SortDirection = usecase.SortAscending
	assert.Equal(t, []string{"b", "c", "a"}, ids(usecase.Derive(leads, st)))

	st.SortDirection = usecase.SortDescending
	assert.Equal(t, []string{"a", "c", "b"}, ids(usecase.Derive(leads, st)))
}

// TestDeriveStableTies - equal keys keep insertion order in both directions
func TestDeriveStableTies(t *testing.T) {
	leads := []entity.Lead{
		lead("a", "A", "a@x.com", "1", entity.StatusNew, 100, "2026-01-01T00:00:00Z"),
		lead("b", "B", "b@x.com", "2", entity.StatusNew, 100, "2026-01-01T00:00:00Z"),
		lead("c", "C", "c@x.com", "3", entity.StatusNew, 100, "2026-01-01T00:00:00Z"),
	}

	for _, dir := range []usecase.SortDirection{usecase.SortAscending, usecase.SortDescending} {
		for _, key := range []usecase.SortKey{usecase.SortByDate, usecase.SortByPrice} {
			st := usecase.ConsoleState{StatusFilter: usecase.StatusAll, SortKey: key, SortDirection: dir}
			assert.Equal(t, []string{"a", "b", "c"}, ids(usecase.Derive(leads, st)), "%s %s", key, dir)
		}
	}
}

// TestDeriveDoesNotReorderInput - the store's slice is left alone
func TestDeriveDoesNotReorderInput(t *testing.T) {
	leads := fixture()
	usecase.Derive(leads, usecase.DefaultConsoleState())
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(leads))
}

func TestParseConsoleState(t *testing.T) {
	st, err := usecase.ParseConsoleState("", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, usecase.DefaultConsoleState(), st)

	st, err = usecase.ParseConsoleState("jane", "won", "price", "asc")
	require.NoError(t, err)
	assert.Equal(t, usecase.ConsoleState{
		SearchQuery:   "jane",
		StatusFilter:  "won",
		SortKey:       usecase.SortByPrice,
		SortDirection: usecase.SortAscending,
	}, st)

	_, err = usecase.ParseConsoleState("", "archived", "", "")
	assert.ErrorIs(t, err, entity.ErrInvalidStatus)
	_, err = usecase.ParseConsoleState("", "", "name", "")
	assert.ErrorIs(t, err, usecase.ErrInvalidSortKey)
	_, err = usecase.ParseConsoleState("", "", "", "up")
	assert.ErrorIs(t, err, usecase.ErrInvalidSortDirection)
}

// TestToggleSortCycle - date -> price keeps direction, price -> date flips it
func TestToggleSortCycle(t *testing.T) {
	c := usecase.NewLeadsConsole(new(MockLeadStore), logging.Discard())

	c.ToggleSort()
	assert.Equal(t, usecase.SortByPrice, c.State().SortKey)
	assert.Equal(t, usecase.SortDescending, c.State().SortDirection)

	c.ToggleSort()
	assert.Equal(t, usecase.SortByDate, c.State().SortKey)
	assert.Equal(t, usecase.SortAscending, c.State().SortDirection)

	c.ToggleDirection()
	assert.Equal(t, usecase.SortDescending, c.State().SortDirection)
}

func TestConsoleSetters(t *testing.T) {
	c := usecase.NewLeadsConsole(new(MockLeadStore), logging.Discard())

	assert.NoError(t, c.SetStatusFilter("negotiating"))
	assert.NoError(t, c.SetStatusFilter(usecase.StatusAll))
	assert.ErrorIs(t, c.SetStatusFilter("maybe"), entity.ErrInvalidStatus)
	assert.ErrorIs(t, c.SetSortKey("name"), usecase.ErrInvalidSortKey)
	assert.ErrorIs(t, c.SetSortDirection("sideways"), usecase.ErrInvalidSortDirection)
	assert.NoError(t, c.SetSortKey(usecase.SortByPrice))
	assert.NoError(t, c.SetSortDirection(usecase.SortAscending))

	c.SetSearch("bob")
	assert.Equal(t, usecase.ConsoleState{
		SearchQuery:   "bob",
		StatusFilter:  usecase.StatusAll,
		SortKey:       usecase.SortByPrice,
		SortDirection: usecase.SortAscending,
	}, c.State())
}

// TestConsoleViewReadsStore - the view is recomputed from the store on every call
func TestConsoleViewReadsStore(t *testing.T) {
	ctx := context.Background()
	store := usecase.NewLeadStore(storage.NewMemorySlot(), "leads", logging.Discard())
	c := usecase.NewLeadsConsole(store, logging.Discard())

	assert.Empty(t, c.View(ctx))

	_, err := store.Append(ctx, candidate("Jane", "jane@x.com", 100, "2026-01-01T00:00:00Z"))
	require.NoError(t, err)
	_, err = store.Append(ctx, candidate("Bob", "bob@x.com", 200, "2026-01-02T00:00:00Z"))
	require.NoError(t, err)

	got := c.View(ctx)
	require.Len(t, got, 2)
	assert.Equal(t, "Bob", got[0].FirstName)

	c.SetSearch("jane")
	got = c.View(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "Jane", got[0].FirstName)
}

// TestConsoleDetailFlow - select, change status, add notes against a real store
func TestConsoleDetailFlow(t *testing.T) {
	ctx := context.Background()
	store := usecase.NewLeadStore(storage.NewMemorySlot(), "leads", logging.Discard())
	c := usecase.NewLeadsConsole(store, logging.Discard())

	created, err := store.Append(ctx, candidate("Jane", "jane@x.com", 100, ""))
	require.NoError(t, err)

	_, err = c.Select(ctx, "missing")
	assert.ErrorIs(t, err, entity.ErrLeadNotFound)

	detail, err := c.Select(ctx, created.ID)
	require.NoError(t, err)

	require.NoError(t, c.ChangeStatus(ctx, entity.StatusNegotiating))
	assert.Equal(t, entity.StatusNegotiating, detail.Lead.Status)

	added, err := c.AddNote(ctx, "   ")
	assert.NoError(t, err)
	assert.False(t, added)

	require.NoError(t, c.SetNoteDraft("sent brochure"))
	added, err = c.AddNote(ctx, "")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Empty(t, detail.NoteDraft)

	added, err = c.AddNote(ctx, "booked visit")
	require.NoError(t, err)
	assert.True(t, added)

	stored, ok := store.Get(ctx, created.ID)
	require.True(t, ok)
	assert.Equal(t, entity.StatusNegotiating, stored.Status)
	assert.Equal(t, []string{"sent brochure", "booked visit"}, stored.Notes)
	assert.Equal(t, stored.Notes, detail.Lead.Notes)

	c.Close()
	assert.Nil(t, c.Selected())
	assert.ErrorIs(t, c.ChangeStatus(ctx, entity.StatusWon), usecase.ErrNoLeadSelected)
	_, err = c.AddNote(ctx, "late")
	assert.ErrorIs(t, err, usecase.ErrNoLeadSelected)
}

// TestChangeStatusIsOptimistic - the detail shows the new status even when the write fails
func TestChangeStatusIsOptimistic(t *testing.T) {
	ctx := context.Background()
	store := new(MockLeadStore)
	l := lead("1", "Jane", "jane@x.com", "1", entity.StatusNew, 1, "")
	store.On("Get", ctx, "1").Return(&l, true)
	store.On("Update", ctx, "1", entity.SetStatus{Status: entity.StatusWon}).Return(true, errors.New("disk full"))

	c := usecase.NewLeadsConsole(store, logging.Discard())
	detail, err := c.Select(ctx, "1")
	require.NoError(t, err)

	err = c.ChangeStatus(ctx, entity.StatusWon)
	assert.Error(t, err)
	assert.Equal(t, entity.StatusWon, detail.Lead.Status)
	store.AssertExpectations(t)
}

// TestAddNoteBlankNeverReachesStore - whitespace notes are dropped before the store
func TestAddNoteBlankNeverReachesStore(t *testing.T) {
	ctx := context.Background()
	store := new(MockLeadStore)
	l := lead("1", "Jane", "jane@x.com", "1", entity.StatusNew, 1, "")
	store.On("Get", ctx, "1").Return(&l, true)

	c := usecase.NewLeadsConsole(store, logging.Discard())
	_, err := c.Select(ctx, "1")
	require.NoError(t, err)

	added, err := c.AddNote(ctx, "\n\t ")
	assert.NoError(t, err)
	assert.False(t, added)
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}
