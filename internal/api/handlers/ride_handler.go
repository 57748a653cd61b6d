package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/uniride/carpool-service/internal/api/dto"
	"github.com/uniride/carpool-service/internal/domain/ride"
	"github.com/uniride/carpool-service/internal/domain/user"
	"github.com/uniride/carpool-service/pkg/logger"
)

// rideID parses the :id path parameter. Ride ids are positive integers, so
// anything unparsable can only name a ride that does not exist.
func rideID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, ride.ErrNotFound
	}
	return id, nil
}

// lookupRide resolves the :alias user and the :id ride, in that order, the
// way every ride endpoint is specified to fail.
func (h *Handlers) lookupRide(c *gin.Context) (int64, bool) {
	if !h.Store.UserExists(c.Param("alias")) {
		respondError(c, user.ErrNotFound)
		return 0, false
	}
	id, err := rideID(c)
	if err != nil {
		respondError(c, err)
		return 0, false
	}
	return id, true
}

// authorizeDriver performs the single driver check for driver-only
// operations: the path alias must own the ride.
func (h *Handlers) authorizeDriver(c *gin.Context, id int64) bool {
	driver, err := h.Store.RideDriver(id)
	if err != nil {
		respondError(c, err)
		return false
	}
	if driver != c.Param("alias") {
		respondError(c, ride.ErrNotDriver)
		return false
	}
	return true
}

// CreateRide handles POST /usuarios/:alias/rides
func (h *Handlers) CreateRide(c *gin.Context) {
	alias := c.Param("alias")
	if !h.Store.UserExists(alias) {
		respondError(c, user.ErrNotFound)
		return
	}

	var req dto.CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "rideDateAndTime, finalAddress and allowedSpaces are required"})
		return
	}

	info, err := h.Store.CreateRide(c.Request.Context(), alias, req.RideDateAndTime, req.FinalAddress, req.AllowedSpaces)
	if err != nil {
		respondError(c, err)
		return
	}

	h.Monitor.RecordRideCreated(info.ID, info.AllowedSpaces)
	c.JSON(http.StatusCreated, info)
}

// ListUserRides handles GET /usuarios/:alias/rides
func (h *Handlers) ListUserRides(c *gin.Context) {
	rides, err := h.Store.RidesByDriver(c.Param("alias"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rides)
}

// ListActiveRides handles GET /rides/active
func (h *Handlers) ListActiveRides(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.ActiveRides())
}

// GetRide handles GET /usuarios/:alias/rides/:id
func (h *Handlers) GetRide(c *gin.Context) {
	id, ok := h.lookupRide(c)
	if !ok {
		return
	}
	info, err := h.Store.GetRide(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RideEnvelope{Ride: info})
}

// RequestToJoin handles POST /usuarios/:alias/rides/:id/requestToJoin/:participantAlias
func (h *Handlers) RequestToJoin(c *gin.Context) {
	id, ok := h.lookupRide(c)
	if !ok {
		return
	}
	participant := c.Param("participantAlias")
	if !h.Store.UserExists(participant) {
		respondError(c, user.ErrNotFound)
		return
	}

	var req dto.JoinRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "destination is required"})
		return
	}

	if _, err := h.Store.RequestToJoin(c.Request.Context(), id, participant, req.Destination); err != nil {
		respondError(c, err)
		return
	}

	h.Logger.Info("join request handled",
		logger.Int64("ride_id", id),
		logger.String("participant", participant),
	)
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "join request submitted"})
}

// AcceptParticipant handles POST /usuarios/:alias/rides/:id/accept/:participantAlias
func (h *Handlers) AcceptParticipant(c *gin.Context) {
	id, ok := h.lookupRide(c)
	if !ok {
		return
	}
	if !h.authorizeDriver(c, id) {
		return
	}
	participant := c.Param("participantAlias")
	if !h.Store.UserExists(participant) {
		respondError(c, user.ErrNotFound)
		return
	}

	if _, err := h.Store.Accept(c.Request.Context(), id, participant); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "join request accepted"})
}

// RejectParticipant handles POST /usuarios/:alias/rides/:id/reject/:participantAlias
func (h *Handlers) RejectParticipant(c *gin.Context) {
	id, ok := h.lookupRide(c)
	if !ok {
		return
	}
	if !h.authorizeDriver(c, id) {
		return
	}
	participant := c.Param("participantAlias")
	if !h.Store.UserExists(participant) {
		respondError(c, user.ErrNotFound)
		return
	}

	if _, err := h.Store.Reject(c.Request.Context(), id, participant); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "join request rejected"})
}

// StartRide handles POST /usuarios/:alias/rides/:id/start
func (h *Handlers) StartRide(c *gin.Context) {
	id, ok := h.lookupRide(c)
	if !ok {
		return
	}
	if !h.authorizeDriver(c, id) {
		return
	}

	info, err := h.Store.Start(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	h.Monitor.RecordRideStatusChange(id, info.Status)
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "ride started", Ride: &info})
}

// EndRide handles POST /usuarios/:alias/rides/:id/end
func (h *Handlers) EndRide(c *gin.Context) {
	id, ok := h.lookupRide(c)
	if !ok {
		return
	}
	if !h.authorizeDriver(c, id) {
		return
	}

	info, err := h.Store.End(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	h.Monitor.RecordRideStatusChange(id, info.Status)
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "ride ended", Ride: &info})
}

// UnloadParticipant handles POST /usuarios/:alias/rides/:id/unloadParticipant
func (h *Handlers) UnloadParticipant(c *gin.Context) {
	id, ok := h.lookupRide(c)
	if !ok {
		return
	}
	if !h.authorizeDriver(c, id) {
		return
	}

	var req dto.UnloadParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "participant_alias is required"})
		return
	}
	if !h.Store.UserExists(req.ParticipantAlias) {
		respondError(c, user.ErrNotFound)
		return
	}

	info, err := h.Store.Unload(c.Request.Context(), id, req.ParticipantAlias)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "participant unloaded", Ride: &info})
}
