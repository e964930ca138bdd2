package handlers

import (
	"net/http"

	"consultbook/middleware"
	"consultbook/models"
	"consultbook/services/schedule"
	"consultbook/utils"

	"github.com/gin-gonic/gin"
)

// AvailabilityHandler exposes pattern and override management for the
// authenticated expert.
type AvailabilityHandler struct {
	Service schedule.AvailabilityService
}

func (h *AvailabilityHandler) CreatePatternHandler(c *gin.Context) {
	var input models.PatternInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	pattern, err := h.Service.CreatePattern(c.Request.Context(), c.GetString(middleware.ContextActorID), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pattern)
}

func (h *AvailabilityHandler) UpdatePatternHandler(c *gin.Context) {
	var input models.PatternInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	pattern, err := h.Service.UpdatePattern(c.Request.Context(), c.GetString(middleware.ContextActorID), c.Param("patternID"), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pattern)
}

func (h *AvailabilityHandler) DeletePatternHandler(c *gin.Context) {
	err := h.Service.DeletePattern(c.Request.Context(), c.GetString(middleware.ContextActorID), c.Param("patternID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "pattern deleted"})
}

func (h *AvailabilityHandler) ListPatternsHandler(c *gin.Context) {
	patterns, err := h.Service.ListPatterns(c.Request.Context(), c.GetString(middleware.ContextActorID))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patterns": patterns})
}

func (h *AvailabilityHandler) CreateOverrideHandler(c *gin.Context) {
	var input models.OverrideInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	override, err := h.Service.CreateOverride(c.Request.Context(), c.GetString(middleware.ContextActorID), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, override)
}

func (h *AvailabilityHandler) UpdateOverrideHandler(c *gin.Context) {
	var input models.OverrideInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	input.Date = c.Param("date")

	override, err := h.Service.UpdateOverride(c.Request.Context(), c.GetString(middleware.ContextActorID), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, override)
}

func (h *AvailabilityHandler) DeleteOverrideHandler(c *gin.Context) {
	err := h.Service.DeleteOverride(c.Request.Context(), c.GetString(middleware.ContextActorID), c.Param("date"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "override deleted"})
}
