package logics

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"escalas-server/internal/apperrors"
	"escalas-server/internal/models"
	"escalas-server/internal/repositories"
	"escalas-server/internal/utils"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

var whitespaceRe = regexp.MustCompile(`\s+`)
var functionNameCaser = cases.Lower(language.Und)

// NormalizeFunctionName produces the machine key for a function: unicode
// lowercasing plus whitespace collapsed to underscores. Accents are kept.
func NormalizeFunctionName(name string) string {
	lowered := functionNameCaser.String(strings.TrimSpace(name))
	return whitespaceRe.ReplaceAllString(lowered, "_")
}

// FunctionService handles team function CRUD.
type FunctionService struct {
	rosterCache *RosterCache
}

// NewFunctionService creates a new FunctionService. The roster cache may be
// nil; function mutations then skip cache invalidation.
func NewFunctionService(rosterCache *RosterCache) *FunctionService {
	return &FunctionService{
		rosterCache: rosterCache,
	}
}

// invalidateRoster drops the cached schedule list, which embeds the team
// function of every rostered user.
func (s *FunctionService) invalidateRoster() {
	if s.rosterCache != nil {
		s.rosterCache.Invalidate(context.Background())
	}
}

// ListFunctions returns all team functions ordered by label.
func (s *FunctionService) ListFunctions() ([]models.TeamFunction, error) {
	var functions []models.TeamFunction
	if err := repositories.DBS.Postgres.Order("label asc").Find(&functions).Error; err != nil {
		return nil, err
	}
	return functions, nil
}

// GetFunctionByID retrieves one team function.
func (s *FunctionService) GetFunctionByID(id string) (*models.TeamFunction, error) {
	var function models.TeamFunction
	if err := repositories.DBS.Postgres.First(&function, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("team function not found")
		}
		return nil, err
	}
	return &function, nil
}

// CreateFunction creates a team function. Name and label are required; the
// name is normalized and the color defaults to the standard navy tone.
func (s *FunctionService) CreateFunction(name, label, description, color string) (*models.TeamFunction, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(label) == "" {
		return nil, apperrors.NewValidation("name and label are required")
	}

	id, err := utils.GenerateUniqueID("F")
	if err != nil {
		return nil, fmt.Errorf("failed to generate function ID: %w", err)
	}

	if color == "" {
		color = models.DefaultFunctionColor
	}

	function := models.TeamFunction{
		ID:          id,
		Name:        NormalizeFunctionName(name),
		Label:       label,
		Description: description,
		Color:       color,
	}

	if err := repositories.DBS.Postgres.Create(&function).Error; err != nil {
		return nil, err
	}

	return &function, nil
}

// UpdateFunction applies a partial update. The name is re-normalized when
// provided.
func (s *FunctionService) UpdateFunction(id string, updates models.TeamFunctionUpdate) (*models.TeamFunction, error) {
	function, err := s.GetFunctionByID(id)
	if err != nil {
		return nil, err
	}

	updateMap := make(map[string]interface{})

	if updates.Name != nil {
		if strings.TrimSpace(*updates.Name) == "" {
			return nil, apperrors.NewValidation("name cannot be empty")
		}
		updateMap["name"] = NormalizeFunctionName(*updates.Name)
	}
	if updates.Label != nil {
		if strings.TrimSpace(*updates.Label) == "" {
			return nil, apperrors.NewValidation("label cannot be empty")
		}
		updateMap["label"] = *updates.Label
	}
	if updates.Description != nil {
		updateMap["description"] = *updates.Description
	}
	if updates.Color != nil {
		updateMap["color"] = *updates.Color
	}

	if len(updateMap) > 0 {
		if err := repositories.DBS.Postgres.Model(function).Updates(updateMap).Error; err != nil {
			return nil, fmt.Errorf("failed to update team function: %w", err)
		}
		s.invalidateRoster()
	}

	return s.GetFunctionByID(id)
}

// DeleteFunction hard-deletes a function unless a user still references it.
// The guard is a limit-1 existence query, not a cascade.
func (s *FunctionService) DeleteFunction(id string) error {
	if _, err := s.GetFunctionByID(id); err != nil {
		return err
	}

	var inUse []models.User
	if err := repositories.DBS.Postgres.Select("id").Where("team_function_id = ?", id).Limit(1).Find(&inUse).Error; err != nil {
		return err
	}
	if len(inUse) > 0 {
		return apperrors.NewConflict("this function is in use by users; remove the users first")
	}

	if err := repositories.DBS.Postgres.Delete(&models.TeamFunction{}, "id = ?", id).Error; err != nil {
		return err
	}
	s.invalidateRoster()
	return nil
}
