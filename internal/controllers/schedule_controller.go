package controllers

import (
	"net/http"

	"escalas-server/internal/logics"

	"github.com/labstack/echo/v4"
)

type ScheduleController struct {
	BaseController
	ScheduleService *logics.ScheduleService
}

func NewScheduleController(base BaseController, scheduleService *logics.ScheduleService) *ScheduleController {
	return &ScheduleController{
		BaseController:  base,
		ScheduleService: scheduleService,
	}
}

type createScheduleRequest struct {
	Date   string `json:"date" validate:"required"`
	UserID string `json:"user_id" validate:"required"`
}

type createScheduleBatchRequest struct {
	Date    string   `json:"date" validate:"required"`
	UserIDs []string `json:"user_ids" validate:"required,min=1"`
}

// ListSchedules handles GET /api/v1/schedules with an optional ?date= filter.
func (sc *ScheduleController) ListSchedules(c echo.Context) error {
	if _, err := sc.CurrentUser(c); err != nil {
		return respondError(c, err)
	}

	ctx := c.Request().Context()
	date := c.QueryParam("date")

	var (
		schedules interface{}
		err       error
	)
	if date != "" {
		schedules, err = sc.ScheduleService.ListSchedulesByDate(ctx, date)
	} else {
		schedules, err = sc.ScheduleService.ListSchedules(ctx)
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, schedules)
}

// AvailableUsers handles GET /api/v1/schedules/available?date=, listing users
// not yet assigned on the given date.
func (sc *ScheduleController) AvailableUsers(c echo.Context) error {
	if _, err := sc.CurrentUser(c); err != nil {
		return respondError(c, err)
	}

	date := c.QueryParam("date")
	if date == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "date query parameter is required"})
	}

	users, err := sc.ScheduleService.AvailableUsers(c.Request().Context(), date)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// CreateSchedule handles POST /api/v1/schedules.
func (sc *ScheduleController) CreateSchedule(c echo.Context) error {
	caller, err := sc.RequireAdmin(c)
	if err != nil {
		return respondError(c, err)
	}

	var req createScheduleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err)
	}

	schedule, err := sc.ScheduleService.CreateSchedule(c.Request().Context(), req.Date, req.UserID, caller.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, schedule)
}

// CreateScheduleBatch handles POST /api/v1/schedules/batch. Rows are created
// one by one; failures are reported per user without rolling back the rest.
func (sc *ScheduleController) CreateScheduleBatch(c echo.Context) error {
	caller, err := sc.RequireAdmin(c)
	if err != nil {
		return respondError(c, err)
	}

	var req createScheduleBatchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err)
	}

	result, err := sc.ScheduleService.CreateSchedulesBatch(c.Request().Context(), req.Date, req.UserIDs, caller.ID)
	if err != nil {
		return respondError(c, err)
	}

	status := http.StatusCreated
	if len(result.Failed) > 0 {
		status = http.StatusMultiStatus
	}
	return c.JSON(status, result)
}

// DeleteSchedule handles DELETE /api/v1/schedules/:id. Deleting a schedule
// that no longer exists succeeds.
func (sc *ScheduleController) DeleteSchedule(c echo.Context) error {
	if _, err := sc.RequireAdmin(c); err != nil {
		return respondError(c, err)
	}

	if err := sc.ScheduleService.DeleteSchedule(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
