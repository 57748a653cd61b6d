package ride

import "errors"

var (
	// ErrNotFound is returned when a ride does not exist.
	ErrNotFound = errors.New("ride not found")

	// ErrInvalidSpaces is returned when a ride is created with less than one seat.
	ErrInvalidSpaces = errors.New("allowed spaces must be at least 1")

	// ErrRideNotOpen is returned when an operation needs the ride to still be open for booking.
	ErrRideNotOpen = errors.New("ride is not open for booking")

	// ErrRideNotStarted is returned when ending a ride that is not in progress.
	ErrRideNotStarted = errors.New("ride is not in progress")

	// ErrDuplicateRequest is returned when a participant already has a request on the ride.
	ErrDuplicateRequest = errors.New("participant already has a request for this ride")

	// ErrNoSpacesAvailable is returned when the confirmed seats reach the ride capacity.
	ErrNoSpacesAvailable = errors.New("no spaces available for this ride")

	// ErrNoPendingRequest is returned when accept/reject finds no waiting request.
	ErrNoPendingRequest = errors.New("no pending request for this participant")

	// ErrPendingRequests is returned when starting a ride with unresolved requests.
	ErrPendingRequests = errors.New("ride has participants with pending requests")

	// ErrParticipantNotOnBoard is returned when unloading a participant who is not riding.
	ErrParticipantNotOnBoard = errors.New("participant is not on board this ride")

	// ErrNotDriver is returned when someone other than the driver invokes a driver-only operation.
	ErrNotDriver = errors.New("only the ride driver may perform this operation")
)
