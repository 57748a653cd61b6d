package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniride/carpool-service/internal/api/dto"
	"github.com/uniride/carpool-service/pkg/logger"
)

// RegisterUser handles POST /usuarios
func (h *Handlers) RegisterUser(c *gin.Context) {
	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "alias and name are required"})
		return
	}

	info, err := h.Store.RegisterUser(c.Request.Context(), req.Alias, req.Name, req.CarPlate)
	if err != nil {
		respondError(c, err)
		return
	}

	h.Logger.Info("user registration handled", logger.String("alias", req.Alias))
	h.Monitor.RecordUserRegistered(req.CarPlate != "")
	c.JSON(http.StatusCreated, info)
}

// ListUsers handles GET /usuarios
func (h *Handlers) ListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.ListUsers())
}

// GetUser handles GET /usuarios/:alias
func (h *Handlers) GetUser(c *gin.Context) {
	info, err := h.Store.GetUser(c.Param("alias"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}
