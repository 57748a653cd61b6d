package store

// View types returned by the store. They are value copies of the internal
// state shaped like the wire format; callers can hold them without racing
// later mutations.

// UserInfo is the external user representation. Rides lists the rides this
// user has created as driver.
type UserInfo struct {
	Alias    string     `json:"alias"`
	Name     string     `json:"name"`
	CarPlate string     `json:"carPlate"`
	Rides    []RideInfo `json:"rides"`
}

// RideInfo is the external ride representation.
type RideInfo struct {
	ID            int64             `json:"id"`
	DateAndTime   string            `json:"rideDateAndTime"`
	FinalAddress  string            `json:"finalAddress"`
	AllowedSpaces int               `json:"allowedSpaces"`
	Driver        string            `json:"driver"`
	Status        string            `json:"status"`
	Participants  []ParticipantInfo `json:"participants"`
}

// ParticipantInfo is one participation on a ride, with the participant's
// historical statistics computed at read time.
type ParticipantInfo struct {
	Confirmation   *bool            `json:"confirmation"`
	Participant    ParticipantStats `json:"participant"`
	Destination    string           `json:"destination"`
	OccupiedSpaces int              `json:"occupiedSpaces"`
	Status         string           `json:"status"`
}

// ParticipantStats summarizes every participation the alias has ever held
// across all rides, bucketed by outcome.
type ParticipantStats struct {
	Alias                  string `json:"alias"`
	PreviousRidesTotal     int    `json:"previousRidesTotal"`
	PreviousRidesCompleted int    `json:"previousRidesCompleted"`
	PreviousRidesMissing   int    `json:"previousRidesMissing"`
	PreviousRidesNotMarked int    `json:"previousRidesNotMarked"`
	PreviousRidesRejected  int    `json:"previousRidesRejected"`
}
