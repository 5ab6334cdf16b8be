package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/revboard/revboard/internal/api/dto"
	ierr "github.com/revboard/revboard/internal/errors"
	"github.com/revboard/revboard/internal/logger"
	"github.com/revboard/revboard/internal/service"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
	logger           *logger.Logger
}

func NewDashboardHandler(
	dashboardService service.DashboardService,
	logger *logger.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// GetRevenueOverview serves the combined multi-merchant revenue view for a
// calendar month. year and month default to the current month when omitted;
// timezone and currency fall back to the configured defaults.
func (h *DashboardHandler) GetRevenueOverview(c *gin.Context) {
	now := time.Now()
	year, err := queryInt(c, "year", now.Year())
	if err != nil {
		c.Error(err)
		return
	}
	month, err := queryInt(c, "month", int(now.Month()))
	if err != nil {
		c.Error(err)
		return
	}

	req := dto.RevenueOverviewRequest{
		Year:            year,
		Month:           month,
		Timezone:        c.Query("timezone"),
		DisplayCurrency: c.Query("currency"),
	}

	response, err := h.dashboardService.GetRevenueOverview(c.Request.Context(), req)
	if err != nil {
		h.logger.Errorw("failed to get revenue overview", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHintf("Query parameter %s must be an integer", name).
			Mark(ierr.ErrValidation)
	}
	return value, nil
}
