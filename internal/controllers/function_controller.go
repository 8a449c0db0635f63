package controllers

import (
	"net/http"

	"escalas-server/internal/logics"
	"escalas-server/internal/models"

	"github.com/labstack/echo/v4"
)

type FunctionController struct {
	BaseController
	FunctionService *logics.FunctionService
}

func NewFunctionController(base BaseController, functionService *logics.FunctionService) *FunctionController {
	return &FunctionController{
		BaseController:  base,
		FunctionService: functionService,
	}
}

type createFunctionRequest struct {
	Name        string `json:"name" validate:"required"`
	Label       string `json:"label" validate:"required"`
	Description string `json:"description"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
}

type updateFunctionRequest struct {
	ID          string  `json:"id" validate:"required"`
	Name        *string `json:"name"`
	Label       *string `json:"label"`
	Description *string `json:"description"`
	Color       *string `json:"color" validate:"omitempty"`
}

// ListFunctions handles GET /api/v1/functions.
func (fc *FunctionController) ListFunctions(c echo.Context) error {
	if _, err := fc.CurrentUser(c); err != nil {
		return respondError(c, err)
	}

	functions, err := fc.FunctionService.ListFunctions()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, functions)
}

// CreateFunction handles POST /api/v1/functions.
func (fc *FunctionController) CreateFunction(c echo.Context) error {
	if _, err := fc.RequireAdmin(c); err != nil {
		return respondError(c, err)
	}

	var req createFunctionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err)
	}

	function, err := fc.FunctionService.CreateFunction(req.Name, req.Label, req.Description, req.Color)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, function)
}

// UpdateFunction handles PUT /api/v1/functions.
func (fc *FunctionController) UpdateFunction(c echo.Context) error {
	if _, err := fc.RequireAdmin(c); err != nil {
		return respondError(c, err)
	}

	var req updateFunctionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err)
	}

	function, err := fc.FunctionService.UpdateFunction(req.ID, models.TeamFunctionUpdate{
		Name:        req.Name,
		Label:       req.Label,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, function)
}

// DeleteFunction handles DELETE /api/v1/functions?id=.
func (fc *FunctionController) DeleteFunction(c echo.Context) error {
	if _, err := fc.RequireAdmin(c); err != nil {
		return respondError(c, err)
	}

	id := c.QueryParam("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "id query parameter is required"})
	}

	if err := fc.FunctionService.DeleteFunction(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
