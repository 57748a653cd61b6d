package ride

// Status represents the ride lifecycle state.
type Status string

const (
	StatusReady      Status = "ready"
	StatusInProgress Status = "inprogress"
	StatusDone       Status = "done"
)

// Ride is a driver-initiated trip offering a bounded number of seats.
// Transitions are strictly forward: ready -> inprogress -> done.
//
// A Ride owns its Participations. Every operation validates fully before
// mutating, so a failed call leaves the ride untouched.
type Ride struct {
	ID            int64
	DateAndTime   string
	FinalAddress  string
	AllowedSpaces int
	Driver        string
	Status        Status
	Participants  []*Participation
}

// New creates a ride in ready state. allowedSpaces must be at least 1.
func New(id int64, dateAndTime, finalAddress string, allowedSpaces int, driverAlias string) (*Ride, error) {
	if allowedSpaces < 1 {
		return nil, ErrInvalidSpaces
	}
	return &Ride{
		ID:            id,
		DateAndTime:   dateAndTime,
		FinalAddress:  finalAddress,
		AllowedSpaces: allowedSpaces,
		Driver:        driverAlias,
		Status:        StatusReady,
	}, nil
}

// Active reports whether the ride still shows up in the active listing.
func (r *Ride) Active() bool {
	return r.Status == StatusReady || r.Status == StatusInProgress
}

// ConfirmedCount returns the number of seats consumed by confirmed participants.
func (r *Ride) ConfirmedCount() int {
	n := 0
	for _, p := range r.Participants {
		if p.Status == ParticipationConfirmed {
			n++
		}
	}
	return n
}

// find returns the participation for alias regardless of status.
func (r *Ride) find(alias string) *Participation {
	for _, p := range r.Participants {
		if p.Alias == alias {
			return p
		}
	}
	return nil
}

// findInStatus returns the participation for alias only if it is in the given status.
func (r *Ride) findInStatus(alias string, status ParticipationStatus) *Participation {
	if p := r.find(alias); p != nil && p.Status == status {
		return p
	}
	return nil
}

// RequestToJoin records a join request for alias. A user may hold at most
// one participation per ride, in any status, and may only request while the
// ride is open for booking with a confirmed seat still free.
func (r *Ride) RequestToJoin(alias, destination string) error {
	if r.find(alias) != nil {
		return ErrDuplicateRequest
	}
	if r.Status != StatusReady {
		return ErrRideNotOpen
	}
	if r.ConfirmedCount() >= r.AllowedSpaces {
		return ErrNoSpacesAvailable
	}
	r.Participants = append(r.Participants, newParticipation(alias, destination))
	return nil
}

// Accept confirms a waiting request, consuming one seat.
func (r *Ride) Accept(alias string) error {
	p := r.findInStatus(alias, ParticipationWaiting)
	if p == nil {
		return ErrNoPendingRequest
	}
	if r.ConfirmedCount() >= r.AllowedSpaces {
		return ErrNoSpacesAvailable
	}
	p.Status = ParticipationConfirmed
	p.Confirmation = boolPtr(true)
	return nil
}

// Reject declines a waiting request. Rejected is terminal.
func (r *Ride) Reject(alias string) error {
	p := r.findInStatus(alias, ParticipationWaiting)
	if p == nil {
		return ErrNoPendingRequest
	}
	p.Status = ParticipationRejected
	p.Confirmation = boolPtr(false)
	return nil
}

// Start moves the ride and every confirmed participant to inprogress.
// Every request must have been accepted or rejected first; there is no
// implicit resolution.
func (r *Ride) Start() error {
	if r.Status != StatusReady {
		return ErrRideNotOpen
	}
	for _, p := range r.Participants {
		if p.Pending() {
			return ErrPendingRequests
		}
	}
	for _, p := range r.Participants {
		if p.Status == ParticipationConfirmed {
			p.Status = ParticipationInProgress
		}
	}
	r.Status = StatusInProgress
	return nil
}

// End finishes the ride. Participants the driver never unloaded are marked
// notmarked; everything else keeps its terminal status.
func (r *Ride) End() error {
	if r.Status != StatusInProgress {
		return ErrRideNotStarted
	}
	for _, p := range r.Participants {
		if p.Status == ParticipationInProgress {
			p.Status = ParticipationNotMarked
		}
	}
	r.Status = StatusDone
	return nil
}

// Unload marks an on-board participant as dropped off. This is the explicit
// attendance confirmation, distinct from the automatic notmarked at End.
func (r *Ride) Unload(alias string) error {
	p := r.findInStatus(alias, ParticipationInProgress)
	if p == nil {
		return ErrParticipantNotOnBoard
	}
	p.Status = ParticipationDone
	return nil
}

// Clone returns a deep copy safe to hand out of the store.
func (r *Ride) Clone() *Ride {
	c := *r
	c.Participants = make([]*Participation, len(r.Participants))
	for i, p := range r.Participants {
		c.Participants[i] = p.Clone()
	}
	return &c
}
