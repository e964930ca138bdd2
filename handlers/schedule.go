package handlers

import (
	"net/http"

	"consultbook/services/schedule"
	"consultbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ScheduleHandler struct {
	Resolver *schedule.Resolver
}

// GetDayHandler returns the resolved schedule for one expert and one date.
func (h *ScheduleHandler) GetDayHandler(c *gin.Context) {
	expertID := c.Param("id")
	date := c.Param("date")

	day, err := h.Resolver.ResolveDay(c.Request.Context(), expertID, date)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

// GetRangeHandler returns resolved schedules for an inclusive date range.
func (h *ScheduleHandler) GetRangeHandler(c *gin.Context) {
	expertID := c.Param("id")
	start := c.Query("start")
	end := c.Query("end")
	if start == "" || end == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "start and end query parameters are required")
		return
	}

	days, err := h.Resolver.ResolveRange(c.Request.Context(), expertID, start, end)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	getLogger(c).Debug("resolved schedule range",
		zap.String("expertID", expertID),
		zap.Int("days", len(days)))
	c.JSON(http.StatusOK, gin.H{"days": days})
}
