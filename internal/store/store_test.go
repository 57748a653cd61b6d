package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniride/carpool-service/internal/domain/ride"
	"github.com/uniride/carpool-service/internal/domain/user"
	"github.com/uniride/carpool-service/internal/persistence"
	"github.com/uniride/carpool-service/pkg/logger"
)

// memGateway keeps the snapshot in memory and counts saves.
type memGateway struct {
	doc     *persistence.Document
	saves   int
	saveErr error
}

func (g *memGateway) Load(context.Context) (*persistence.Document, error) {
	if g.doc == nil {
		return &persistence.Document{}, nil
	}
	return g.doc, nil
}

func (g *memGateway) Save(_ context.Context, doc *persistence.Document) error {
	if g.saveErr != nil {
		return g.saveErr
	}
	g.doc = doc
	g.saves++
	return nil
}

func newTestStore(t *testing.T) (*Store, *memGateway) {
	t.Helper()
	gw := &memGateway{}
	s := New(gw, logger.NewNop())
	require.NoError(t, s.Load(context.Background()))
	return s, gw
}

func registerUsers(t *testing.T, s *Store, aliases ...string) {
	t.Helper()
	ctx := context.Background()
	for _, a := range aliases {
		_, err := s.RegisterUser(ctx, a, "User "+a, "")
		require.NoError(t, err)
	}
}

// TestRegisterUser_RejectsDuplicateAlias covers scenario: duplicate alias
// registration fails and saves nothing
func TestRegisterUser_RejectsDuplicateAlias(t *testing.T) {
	s, gw := newTestStore(t)
	ctx := context.Background()

	info, err := s.RegisterUser(ctx, "jperez", "Juan Perez", "ABC123")
	require.NoError(t, err)
	assert.Equal(t, "jperez", info.Alias)
	assert.Equal(t, "ABC123", info.CarPlate)
	assert.Equal(t, 1, gw.saves)

	_, err = s.RegisterUser(ctx, "jperez", "Otro Juan", "")
	assert.ErrorIs(t, err, user.ErrAliasTaken)
	assert.Equal(t, 1, gw.saves, "failed registration must not snapshot")
	assert.Len(t, s.ListUsers(), 1)
}

// TestListUsers_KeepsInsertionOrder tests registry ordering
func TestListUsers_KeepsInsertionOrder(t *testing.T) {
	s, _ := newTestStore(t)
	registerUsers(t, s, "jperez", "lgomez", "mrodriguez")

	users := s.ListUsers()
	require.Len(t, users, 3)
	assert.Equal(t, "jperez", users[0].Alias)
	assert.Equal(t, "lgomez", users[1].Alias)
	assert.Equal(t, "mrodriguez", users[2].Alias)
}

// TestGetUser_NotFound tests lookup of an unknown alias
func TestGetUser_NotFound(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.GetUser("nadie")
	assert.ErrorIs(t, err, user.ErrNotFound)
	assert.False(t, s.UserExists("nadie"))
}

// TestCreateRide_RequiresExistingDriver tests the driver reference check
func TestCreateRide_RequiresExistingDriver(t *testing.T) {
	s, gw := newTestStore(t)

	_, err := s.CreateRide(context.Background(), "nadie", "2025-06-01T08:00", "Campus Central", 2)
	assert.ErrorIs(t, err, user.ErrNotFound)
	assert.Equal(t, 0, gw.saves)
}

// TestCreateRide_AllocatesIncreasingIDs tests the allocator
func TestCreateRide_AllocatesIncreasingIDs(t *testing.T) {
	s, _ := newTestStore(t)
	registerUsers(t, s, "jperez")
	ctx := context.Background()

	var last int64
	for i := 0; i < 5; i++ {
		info, err := s.CreateRide(ctx, "jperez", "2025-06-01T08:00", "Campus Central", 2)
		require.NoError(t, err)
		assert.Greater(t, info.ID, last)
		last = info.ID
	}
}

// TestLoad_RestoresIDAllocatorFromMaxID tests id continuity across restarts
func TestLoad_RestoresIDAllocatorFromMaxID(t *testing.T) {
	gw := &memGateway{doc: &persistence.Document{
		Users: []persistence.UserRecord{{Alias: "jperez", Name: "Juan Perez", CarPlate: "ABC123"}},
		Rides: []persistence.RideRecord{
			{ID: 3, DateAndTime: "a", FinalAddress: "x", AllowedSpaces: 2, Driver: "jperez", Status: "done"},
			{ID: 9, DateAndTime: "b", FinalAddress: "y", AllowedSpaces: 1, Driver: "jperez", Status: "ready"},
			{ID: 5, DateAndTime: "c", FinalAddress: "z", AllowedSpaces: 4, Driver: "jperez", Status: "ready"},
		},
	}}
	s := New(gw, logger.NewNop())
	require.NoError(t, s.Load(context.Background()))

	info, err := s.CreateRide(context.Background(), "jperez", "2025-06-02T08:00", "Campus Central", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(10), info.ID, "allocator resumes at max(id)+1")
}

// TestPersistenceRoundTrip_FileGateway tests full state survival through
// the real file gateway
func TestPersistenceRoundTrip_FileGateway(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	ctx := context.Background()

	s := New(persistence.NewFileGateway(path), logger.NewNop())
	require.NoError(t, s.Load(ctx))

	_, err := s.RegisterUser(ctx, "jperez", "Juan Perez", "ABC123")
	require.NoError(t, err)
	_, err = s.RegisterUser(ctx, "lgomez", "Lucia Gomez", "")
	require.NoError(t, err)
	created, err := s.CreateRide(ctx, "jperez", "2025-06-01T08:00", "Campus Central", 2)
	require.NoError(t, err)
	_, err = s.RequestToJoin(ctx, created.ID, "lgomez", "Estación Norte")
	require.NoError(t, err)
	_, err = s.Accept(ctx, created.ID, "lgomez")
	require.NoError(t, err)

	// fresh store, same file
	s2 := New(persistence.NewFileGateway(path), logger.NewNop())
	require.NoError(t, s2.Load(ctx))

	loaded, err := s2.GetRide(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "jperez", loaded.Driver)
	assert.Equal(t, "ready", loaded.Status)
	require.Len(t, loaded.Participants, 1)
	p := loaded.Participants[0]
	assert.Equal(t, "lgomez", p.Participant.Alias)
	assert.Equal(t, "confirmed", p.Status)
	require.NotNil(t, p.Confirmation)
	assert.True(t, *p.Confirmation)

	// and the lifecycle continues where it left off
	_, err = s2.Start(ctx, created.ID)
	require.NoError(t, err)
}

// TestMutateRide_FailedOperationSavesNothing tests all-or-nothing mutations
func TestMutateRide_FailedOperationSavesNothing(t *testing.T) {
	s, gw := newTestStore(t)
	registerUsers(t, s, "jperez", "lgomez")
	ctx := context.Background()

	created, err := s.CreateRide(ctx, "jperez", "2025-06-01T08:00", "Campus Central", 1)
	require.NoError(t, err)
	_, err = s.RequestToJoin(ctx, created.ID, "lgomez", "Estación Norte")
	require.NoError(t, err)
	savesBefore := gw.saves

	// start with a pending request fails: no state change, no snapshot
	_, err = s.Start(ctx, created.ID)
	assert.ErrorIs(t, err, ride.ErrPendingRequests)
	assert.Equal(t, savesBefore, gw.saves)

	info, err := s.GetRide(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ready", info.Status)
	assert.Equal(t, "waiting", info.Participants[0].Status)
}

// TestMutateRide_UnknownRide tests the ride existence check
func TestMutateRide_UnknownRide(t *testing.T) {
	s, _ := newTestStore(t)
	registerUsers(t, s, "jperez")

	_, err := s.Start(context.Background(), 42)
	assert.ErrorIs(t, err, ride.ErrNotFound)
	_, err = s.RequestToJoin(context.Background(), 42, "jperez", "x")
	assert.ErrorIs(t, err, ride.ErrNotFound)
}

// TestRequestToJoin_RequiresRegisteredParticipant tests the participant
// reference check
func TestRequestToJoin_RequiresRegisteredParticipant(t *testing.T) {
	s, _ := newTestStore(t)
	registerUsers(t, s, "jperez")
	ctx := context.Background()

	created, err := s.CreateRide(ctx, "jperez", "2025-06-01T08:00", "Campus Central", 2)
	require.NoError(t, err)

	_, err = s.RequestToJoin(ctx, created.ID, "nadie", "Estación Norte")
	assert.ErrorIs(t, err, user.ErrNotFound)
}

// TestSaveFailure_SurfacesError tests gateway errors propagating out
func TestSaveFailure_SurfacesError(t *testing.T) {
	s, gw := newTestStore(t)
	gw.saveErr = errors.New("disk full")

	_, err := s.RegisterUser(context.Background(), "jperez", "Juan Perez", "")
	assert.Error(t, err)
}

// TestActiveRides_FiltersByStatus tests the active listing
func TestActiveRides_FiltersByStatus(t *testing.T) {
	s, _ := newTestStore(t)
	registerUsers(t, s, "jperez")
	ctx := context.Background()

	ready, err := s.CreateRide(ctx, "jperez", "a", "x", 2)
	require.NoError(t, err)
	started, err := s.CreateRide(ctx, "jperez", "b", "y", 2)
	require.NoError(t, err)
	finished, err := s.CreateRide(ctx, "jperez", "c", "z", 2)
	require.NoError(t, err)

	_, err = s.Start(ctx, started.ID)
	require.NoError(t, err)
	_, err = s.Start(ctx, finished.ID)
	require.NoError(t, err)
	_, err = s.End(ctx, finished.ID)
	require.NoError(t, err)

	active := s.ActiveRides()
	ids := make([]int64, 0, len(active))
	for _, r := range active {
		ids = append(ids, r.ID)
	}
	assert.ElementsMatch(t, []int64{ready.ID, started.ID}, ids)
}

// TestRidesByDriver_OnlyOwnRides tests the per-driver listing
func TestRidesByDriver_OnlyOwnRides(t *testing.T) {
	s, _ := newTestStore(t)
	registerUsers(t, s, "jperez", "lgomez")
	ctx := context.Background()

	_, err := s.CreateRide(ctx, "jperez", "a", "x", 2)
	require.NoError(t, err)
	_, err = s.CreateRide(ctx, "lgomez", "b", "y", 2)
	require.NoError(t, err)

	rides, err := s.RidesByDriver("jperez")
	require.NoError(t, err)
	require.Len(t, rides, 1)
	assert.Equal(t, "jperez", rides[0].Driver)

	_, err = s.RidesByDriver("nadie")
	assert.ErrorIs(t, err, user.ErrNotFound)
}

// TestParticipantStats_ScansAllParticipations tests the corrected
// statistics traversal: it counts rides the alias rode in, across every
// ride in the store, bucketed by outcome
func TestParticipantStats_ScansAllParticipations(t *testing.T) {
	s, _ := newTestStore(t)
	registerUsers(t, s, "driver1", "driver2", "lgomez")
	ctx := context.Background()

	// ride 1: lgomez completes with explicit unload
	r1, err := s.CreateRide(ctx, "driver1", "a", "x", 2)
	require.NoError(t, err)
	_, err = s.RequestToJoin(ctx, r1.ID, "lgomez", "d1")
	require.NoError(t, err)
	_, err = s.Accept(ctx, r1.ID, "lgomez")
	require.NoError(t, err)
	_, err = s.Start(ctx, r1.ID)
	require.NoError(t, err)
	_, err = s.Unload(ctx, r1.ID, "lgomez")
	require.NoError(t, err)
	_, err = s.End(ctx, r1.ID)
	require.NoError(t, err)

	// ride 2 (different driver): lgomez never marked
	r2, err := s.CreateRide(ctx, "driver2", "b", "y", 2)
	require.NoError(t, err)
	_, err = s.RequestToJoin(ctx, r2.ID, "lgomez", "d2")
	require.NoError(t, err)
	_, err = s.Accept(ctx, r2.ID, "lgomez")
	require.NoError(t, err)
	_, err = s.Start(ctx, r2.ID)
	require.NoError(t, err)
	_, err = s.End(ctx, r2.ID)
	require.NoError(t, err)

	// ride 3: lgomez rejected
	r3, err := s.CreateRide(ctx, "driver1", "c", "z", 2)
	require.NoError(t, err)
	_, err = s.RequestToJoin(ctx, r3.ID, "lgomez", "d3")
	require.NoError(t, err)
	_, err = s.Reject(ctx, r3.ID, "lgomez")
	require.NoError(t, err)

	// ride 4: request still waiting, counts toward total only
	r4, err := s.CreateRide(ctx, "driver2", "d", "w", 2)
	require.NoError(t, err)
	_, err = s.RequestToJoin(ctx, r4.ID, "lgomez", "d4")
	require.NoError(t, err)

	info, err := s.GetRide(r4.ID)
	require.NoError(t, err)
	require.Len(t, info.Participants, 1)
	stats := info.Participants[0].Participant

	assert.Equal(t, "lgomez", stats.Alias)
	assert.Equal(t, 4, stats.PreviousRidesTotal)
	assert.Equal(t, 1, stats.PreviousRidesCompleted)
	assert.Equal(t, 1, stats.PreviousRidesNotMarked)
	assert.Equal(t, 1, stats.PreviousRidesRejected)
	assert.Equal(t, 0, stats.PreviousRidesMissing)
}

// TestUserInfo_ListsDrivenRides tests the driver back-reference in the view
func TestUserInfo_ListsDrivenRides(t *testing.T) {
	s, _ := newTestStore(t)
	registerUsers(t, s, "jperez", "lgomez")
	ctx := context.Background()

	created, err := s.CreateRide(ctx, "jperez", "a", "x", 2)
	require.NoError(t, err)

	info, err := s.GetUser("jperez")
	require.NoError(t, err)
	require.Len(t, info.Rides, 1)
	assert.Equal(t, created.ID, info.Rides[0].ID)

	other, err := s.GetUser("lgomez")
	require.NoError(t, err)
	assert.Empty(t, other.Rides)
}

// TestRideDriver tests the cheap driver lookup used by authorization
func TestRideDriver(t *testing.T) {
	s, _ := newTestStore(t)
	registerUsers(t, s, "jperez")

	created, err := s.CreateRide(context.Background(), "jperez", "a", "x", 2)
	require.NoError(t, err)

	driver, err := s.RideDriver(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "jperez", driver)

	_, err = s.RideDriver(999)
	assert.ErrorIs(t, err, ride.ErrNotFound)
}
