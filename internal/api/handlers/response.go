package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniride/carpool-service/internal/domain/ride"
	"github.com/uniride/carpool-service/internal/domain/user"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status
// code. The domain reason string goes out verbatim.
func respondError(c *gin.Context, err error) {
	c.JSON(mapErrorToHTTPStatus(err), ErrorResponse{Error: err.Error()})
}

// mapErrorToHTTPStatus maps domain errors to HTTP status codes: missing
// entities are 404, everything the domain rules forbid is 422.
func mapErrorToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, user.ErrNotFound),
		errors.Is(err, ride.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, user.ErrAliasTaken),
		errors.Is(err, ride.ErrInvalidSpaces),
		errors.Is(err, ride.ErrRideNotOpen),
		errors.Is(err, ride.ErrRideNotStarted),
		errors.Is(err, ride.ErrDuplicateRequest),
		errors.Is(err, ride.ErrNoSpacesAvailable),
		errors.Is(err, ride.ErrNoPendingRequest),
		errors.Is(err, ride.ErrPendingRequests),
		errors.Is(err, ride.ErrParticipantNotOnBoard),
		errors.Is(err, ride.ErrNotDriver):
		return http.StatusUnprocessableEntity

	default:
		return http.StatusInternalServerError
	}
}
