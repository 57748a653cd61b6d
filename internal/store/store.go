package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/uniride/carpool-service/internal/domain/ride"
	"github.com/uniride/carpool-service/internal/domain/user"
	"github.com/uniride/carpool-service/internal/persistence"
	"github.com/uniride/carpool-service/pkg/logger"
)

// Store holds the authoritative in-memory state: the user registry, the
// ride collection and the ride-id allocator. All mutations run under one
// exclusive lock and snapshot the whole state through the gateway before
// the lock is released; reads share the lock and return value copies.
//
// Capacity checks and status transitions are compound read-then-write
// sequences, so the lock must cover the whole operation, not just the
// individual field accesses.
type Store struct {
	mu      sync.RWMutex
	gateway persistence.Gateway
	log     *logger.Logger

	users        []*user.User
	usersByAlias map[string]*user.User
	rides        []*ride.Ride
	ridesByID    map[int64]*ride.Ride
	nextRideID   int64
}

// New creates an empty store backed by gateway.
func New(gateway persistence.Gateway, log *logger.Logger) *Store {
	return &Store{
		gateway:      gateway,
		log:          log,
		usersByAlias: make(map[string]*user.User),
		ridesByID:    make(map[int64]*ride.Ride),
		nextRideID:   1,
	}
}

// Load replaces the store contents with the persisted snapshot. The ride-id
// allocator resumes at max(persisted id)+1 so ids are never reused across
// restarts.
func (s *Store) Load(ctx context.Context) error {
	doc, err := s.gateway.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = nil
	s.usersByAlias = make(map[string]*user.User)
	s.rides = nil
	s.ridesByID = make(map[int64]*ride.Ride)
	s.nextRideID = 1

	for _, rec := range doc.Users {
		u := user.New(rec.Alias, rec.Name, rec.CarPlate)
		s.users = append(s.users, u)
		s.usersByAlias[u.Alias] = u
	}

	for _, rec := range doc.Rides {
		r := rideFromRecord(rec)
		s.rides = append(s.rides, r)
		s.ridesByID[r.ID] = r
		if r.ID >= s.nextRideID {
			s.nextRideID = r.ID + 1
		}
	}

	s.log.Info("snapshot loaded",
		logger.Int("users", len(s.users)),
		logger.Int("rides", len(s.rides)),
		logger.Int64("next_ride_id", s.nextRideID),
	)
	return nil
}

// RegisterUser adds a user and snapshots. Aliases are globally unique.
func (s *Store) RegisterUser(ctx context.Context, alias, name, carPlate string) (UserInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usersByAlias[alias]; ok {
		return UserInfo{}, user.ErrAliasTaken
	}

	u := user.New(alias, name, carPlate)
	s.users = append(s.users, u)
	s.usersByAlias[alias] = u

	if err := s.saveLocked(ctx); err != nil {
		return UserInfo{}, err
	}
	s.log.Info("user registered", logger.String("alias", alias))
	return s.userInfoLocked(u), nil
}

// GetUser returns the user by alias, or user.ErrNotFound.
func (s *Store) GetUser(alias string) (UserInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.usersByAlias[alias]
	if !ok {
		return UserInfo{}, user.ErrNotFound
	}
	return s.userInfoLocked(u), nil
}

// UserExists reports whether alias is registered.
func (s *Store) UserExists(alias string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.usersByAlias[alias]
	return ok
}

// ListUsers returns every registered user in insertion order.
func (s *Store) ListUsers() []UserInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]UserInfo, 0, len(s.users))
	for _, u := range s.users {
		infos = append(infos, s.userInfoLocked(u))
	}
	return infos
}

// CreateRide opens a new ride driven by driverAlias and snapshots. The id
// comes from the allocator and is never reused.
func (s *Store) CreateRide(ctx context.Context, driverAlias, dateAndTime, finalAddress string, allowedSpaces int) (RideInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usersByAlias[driverAlias]; !ok {
		return RideInfo{}, user.ErrNotFound
	}

	r, err := ride.New(s.nextRideID, dateAndTime, finalAddress, allowedSpaces, driverAlias)
	if err != nil {
		return RideInfo{}, err
	}
	s.nextRideID++
	s.rides = append(s.rides, r)
	s.ridesByID[r.ID] = r

	if err := s.saveLocked(ctx); err != nil {
		return RideInfo{}, err
	}
	s.log.Info("ride created",
		logger.Int64("ride_id", r.ID),
		logger.String("driver", driverAlias),
		logger.Int("allowed_spaces", allowedSpaces),
	)
	return s.rideInfoLocked(r), nil
}

// GetRide returns the ride by id, or ride.ErrNotFound.
func (s *Store) GetRide(id int64) (RideInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.ridesByID[id]
	if !ok {
		return RideInfo{}, ride.ErrNotFound
	}
	return s.rideInfoLocked(r), nil
}

// RideDriver returns the driver alias of ride id, or ride.ErrNotFound. The
// driver never changes after creation, so the result cannot go stale.
func (s *Store) RideDriver(id int64) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.ridesByID[id]
	if !ok {
		return "", ride.ErrNotFound
	}
	return r.Driver, nil
}

// RidesByDriver returns the rides driverAlias has created, in creation order.
func (s *Store) RidesByDriver(alias string) ([]RideInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.usersByAlias[alias]; !ok {
		return nil, user.ErrNotFound
	}

	infos := []RideInfo{}
	for _, r := range s.rides {
		if r.Driver == alias {
			infos = append(infos, s.rideInfoLocked(r))
		}
	}
	return infos, nil
}

// ActiveRides returns rides still in ready or inprogress state.
func (s *Store) ActiveRides() []RideInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := []RideInfo{}
	for _, r := range s.rides {
		if r.Active() {
			infos = append(infos, s.rideInfoLocked(r))
		}
	}
	return infos
}

// RequestToJoin records a join request by participantAlias on ride id.
func (s *Store) RequestToJoin(ctx context.Context, id int64, participantAlias, destination string) (RideInfo, error) {
	return s.mutateRide(ctx, id, "request to join", func(r *ride.Ride) error {
		if _, ok := s.usersByAlias[participantAlias]; !ok {
			return user.ErrNotFound
		}
		return r.RequestToJoin(participantAlias, destination)
	})
}

// Accept confirms a pending request on ride id.
func (s *Store) Accept(ctx context.Context, id int64, participantAlias string) (RideInfo, error) {
	return s.mutateRide(ctx, id, "request accepted", func(r *ride.Ride) error {
		if _, ok := s.usersByAlias[participantAlias]; !ok {
			return user.ErrNotFound
		}
		return r.Accept(participantAlias)
	})
}

// Reject declines a pending request on ride id.
func (s *Store) Reject(ctx context.Context, id int64, participantAlias string) (RideInfo, error) {
	return s.mutateRide(ctx, id, "request rejected", func(r *ride.Ride) error {
		if _, ok := s.usersByAlias[participantAlias]; !ok {
			return user.ErrNotFound
		}
		return r.Reject(participantAlias)
	})
}

// Start moves ride id to inprogress.
func (s *Store) Start(ctx context.Context, id int64) (RideInfo, error) {
	return s.mutateRide(ctx, id, "ride started", func(r *ride.Ride) error {
		return r.Start()
	})
}

// End moves ride id to done.
func (s *Store) End(ctx context.Context, id int64) (RideInfo, error) {
	return s.mutateRide(ctx, id, "ride ended", func(r *ride.Ride) error {
		return r.End()
	})
}

// Unload marks participantAlias as dropped off on ride id.
func (s *Store) Unload(ctx context.Context, id int64, participantAlias string) (RideInfo, error) {
	return s.mutateRide(ctx, id, "participant unloaded", func(r *ride.Ride) error {
		if _, ok := s.usersByAlias[participantAlias]; !ok {
			return user.ErrNotFound
		}
		return r.Unload(participantAlias)
	})
}

// mutateRide runs op on the ride under the exclusive lock and snapshots on
// success. Domain operations validate before mutating, so an error from op
// means the state is unchanged and nothing is saved.
func (s *Store) mutateRide(ctx context.Context, id int64, event string, op func(*ride.Ride) error) (RideInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.ridesByID[id]
	if !ok {
		return RideInfo{}, ride.ErrNotFound
	}
	if err := op(r); err != nil {
		return RideInfo{}, err
	}
	if err := s.saveLocked(ctx); err != nil {
		return RideInfo{}, err
	}
	s.log.Info(event,
		logger.Int64("ride_id", r.ID),
		logger.String("status", string(r.Status)),
	)
	return s.rideInfoLocked(r), nil
}

// saveLocked snapshots the full state. Callers hold the write lock, so a
// reader can never observe the state the snapshot missed.
func (s *Store) saveLocked(ctx context.Context) error {
	if err := s.gateway.Save(ctx, s.documentLocked()); err != nil {
		s.log.Error("snapshot save failed", logger.Err(err))
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (s *Store) documentLocked() *persistence.Document {
	doc := &persistence.Document{
		Users: make([]persistence.UserRecord, 0, len(s.users)),
		Rides: make([]persistence.RideRecord, 0, len(s.rides)),
	}
	for _, u := range s.users {
		doc.Users = append(doc.Users, persistence.UserRecord{
			Alias:    u.Alias,
			Name:     u.Name,
			CarPlate: u.CarPlate,
		})
	}
	for _, r := range s.rides {
		doc.Rides = append(doc.Rides, rideToRecord(r))
	}
	return doc
}

// statsLocked scans every participation held by alias across all rides.
// Deliberately a direct scan over the whole store: the statistic describes
// rides the user rode in, not rides they drove.
func (s *Store) statsLocked(alias string) ParticipantStats {
	stats := ParticipantStats{Alias: alias}
	for _, r := range s.rides {
		for _, p := range r.Participants {
			if p.Alias != alias {
				continue
			}
			stats.PreviousRidesTotal++
			switch p.Status {
			case ride.ParticipationDone:
				stats.PreviousRidesCompleted++
			case ride.ParticipationMissing:
				stats.PreviousRidesMissing++
			case ride.ParticipationNotMarked:
				stats.PreviousRidesNotMarked++
			case ride.ParticipationRejected:
				stats.PreviousRidesRejected++
			}
		}
	}
	return stats
}

func (s *Store) userInfoLocked(u *user.User) UserInfo {
	info := UserInfo{
		Alias:    u.Alias,
		Name:     u.Name,
		CarPlate: u.CarPlate,
		Rides:    []RideInfo{},
	}
	for _, r := range s.rides {
		if r.Driver == u.Alias {
			info.Rides = append(info.Rides, s.rideInfoLocked(r))
		}
	}
	return info
}

func (s *Store) rideInfoLocked(r *ride.Ride) RideInfo {
	info := RideInfo{
		ID:            r.ID,
		DateAndTime:   r.DateAndTime,
		FinalAddress:  r.FinalAddress,
		AllowedSpaces: r.AllowedSpaces,
		Driver:        r.Driver,
		Status:        string(r.Status),
		Participants:  make([]ParticipantInfo, 0, len(r.Participants)),
	}
	for _, p := range r.Participants {
		c := p.Clone()
		info.Participants = append(info.Participants, ParticipantInfo{
			Confirmation:   c.Confirmation,
			Participant:    s.statsLocked(p.Alias),
			Destination:    p.Destination,
			OccupiedSpaces: p.OccupiedSpaces,
			Status:         string(p.Status),
		})
	}
	return info
}

func rideToRecord(r *ride.Ride) persistence.RideRecord {
	rec := persistence.RideRecord{
		ID:            r.ID,
		DateAndTime:   r.DateAndTime,
		FinalAddress:  r.FinalAddress,
		AllowedSpaces: r.AllowedSpaces,
		Driver:        r.Driver,
		Status:        string(r.Status),
		Participants:  make([]persistence.ParticipationRecord, 0, len(r.Participants)),
	}
	for _, p := range r.Participants {
		c := p.Clone()
		rec.Participants = append(rec.Participants, persistence.ParticipationRecord{
			Confirmation:   c.Confirmation,
			Participant:    persistence.ParticipantAlias{Alias: p.Alias},
			Destination:    p.Destination,
			OccupiedSpaces: p.OccupiedSpaces,
			Status:         string(p.Status),
		})
	}
	return rec
}

func rideFromRecord(rec persistence.RideRecord) *ride.Ride {
	r := &ride.Ride{
		ID:            rec.ID,
		DateAndTime:   rec.DateAndTime,
		FinalAddress:  rec.FinalAddress,
		AllowedSpaces: rec.AllowedSpaces,
		Driver:        rec.Driver,
		Status:        ride.Status(rec.Status),
	}
	for _, pr := range rec.Participants {
		var confirmation *bool
		if pr.Confirmation != nil {
			v := *pr.Confirmation
			confirmation = &v
		}
		r.Participants = append(r.Participants, &ride.Participation{
			Alias:          pr.Participant.Alias,
			Destination:    pr.Destination,
			OccupiedSpaces: pr.OccupiedSpaces,
			Status:         ride.ParticipationStatus(pr.Status),
			Confirmation:   confirmation,
		})
	}
	return r
}
