package ride

// ParticipationStatus tracks one participant's progress through a ride.
type ParticipationStatus string

const (
	ParticipationWaiting    ParticipationStatus = "waiting"
	ParticipationConfirmed  ParticipationStatus = "confirmed"
	ParticipationRejected   ParticipationStatus = "rejected"
	ParticipationInProgress ParticipationStatus = "inprogress"
	ParticipationDone       ParticipationStatus = "done"
	ParticipationNotMarked  ParticipationStatus = "notmarked"

	// ParticipationMissing is a legal persisted value kept for statistics;
	// no transition in this service produces it.
	ParticipationMissing ParticipationStatus = "missing"
)

// Participation is one user's membership record on a single ride. It is
// created by a join request and kept forever as history, even after the
// ride is done.
//
// Status is the single source of truth for every business rule.
// Confirmation only mirrors the accept/reject decision for the wire format:
// nil until decided, then true (accepted) or false (rejected).
type Participation struct {
	Alias          string
	Destination    string
	OccupiedSpaces int
	Status         ParticipationStatus
	Confirmation   *bool
}

func newParticipation(alias, destination string) *Participation {
	return &Participation{
		Alias:          alias,
		Destination:    destination,
		OccupiedSpaces: 1,
		Status:         ParticipationWaiting,
	}
}

// Pending reports whether the participation still awaits a driver decision.
func (p *Participation) Pending() bool {
	return p.Status == ParticipationWaiting
}

// Clone returns a deep copy safe to hand out of the store.
func (p *Participation) Clone() *Participation {
	c := *p
	if p.Confirmation != nil {
		v := *p.Confirmation
		c.Confirmation = &v
	}
	return &c
}

func boolPtr(v bool) *bool { return &v }
