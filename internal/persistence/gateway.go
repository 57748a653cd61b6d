package persistence

import "context"

// Document is the persisted whole-state layout: the full user list plus
// every ride with its participations. It is overwritten in one piece on
// every save and read back in one piece at startup.
type Document struct {
	Users []UserRecord `json:"users"`
	Rides []RideRecord `json:"rides"`
}

// UserRecord mirrors the user wire shape minus the derived ride list.
type UserRecord struct {
	Alias    string `json:"alias"`
	Name     string `json:"name"`
	CarPlate string `json:"carPlate,omitempty"`
}

// RideRecord mirrors the ride wire shape with the driver by alias.
type RideRecord struct {
	ID            int64                 `json:"id"`
	DateAndTime   string                `json:"rideDateAndTime"`
	FinalAddress  string                `json:"finalAddress"`
	AllowedSpaces int                   `json:"allowedSpaces"`
	Driver        string                `json:"driver"`
	Status        string                `json:"status"`
	Participants  []ParticipationRecord `json:"participants"`
}

// ParticipationRecord carries the participant by nested alias only;
// statistics are derived and never persisted.
type ParticipationRecord struct {
	Confirmation   *bool            `json:"confirmation"`
	Participant    ParticipantAlias `json:"participant"`
	Destination    string           `json:"destination"`
	OccupiedSpaces int              `json:"occupiedSpaces"`
	Status         string           `json:"status"`
}

type ParticipantAlias struct {
	Alias string `json:"alias"`
}

// Gateway is the snapshot collaborator. Load returns an empty document when
// no state has ever been saved; that is a normal first-run outcome, not an
// error. Save must replace the previous snapshot atomically so a crashed
// write never leaves a half-written state behind.
type Gateway interface {
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc *Document) error
}
