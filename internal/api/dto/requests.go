package dto

import "github.com/uniride/carpool-service/internal/store"

// RegisterUserRequest represents a request to register a new user
type RegisterUserRequest struct {
	Alias    string `json:"alias" binding:"required"`
	Name     string `json:"name" binding:"required"`
	CarPlate string `json:"carPlate"`
}

// CreateRideRequest represents a request to open a new ride
type CreateRideRequest struct {
	RideDateAndTime string `json:"rideDateAndTime" binding:"required"`
	FinalAddress    string `json:"finalAddress" binding:"required"`
	AllowedSpaces   int    `json:"allowedSpaces" binding:"required"`
}

// JoinRideRequest represents a participant asking to join a ride
type JoinRideRequest struct {
	Destination string `json:"destination" binding:"required"`
}

// UnloadParticipantRequest represents the driver marking a drop-off
type UnloadParticipantRequest struct {
	ParticipantAlias string `json:"participant_alias" binding:"required"`
}

// MessageResponse is the body of mutation endpoints that confirm an action,
// optionally echoing the updated ride.
type MessageResponse struct {
	Message string          `json:"message"`
	Ride    *store.RideInfo `json:"ride,omitempty"`
}

// RideEnvelope wraps a single ride lookup.
type RideEnvelope struct {
	Ride store.RideInfo `json:"ride"`
}
