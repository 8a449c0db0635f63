package logics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"escalas-server/configs"
	"escalas-server/internal/apperrors"
	"escalas-server/internal/models"
	"escalas-server/internal/repositories"
	"escalas-server/internal/utils"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ScheduleService handles the roster: who is scheduled on which date.
type ScheduleService struct {
	userService  *UserService
	cache        *RosterCache
	notification *NotificationService
}

// NewScheduleService creates a new ScheduleService. The notification service
// may be nil; schedule creation then skips the best-effort notify.
func NewScheduleService(userService *UserService, cache *RosterCache, notification *NotificationService) *ScheduleService {
	return &ScheduleService{
		userService:  userService,
		cache:        cache,
		notification: notification,
	}
}

// BatchFailure reports one failed entry of a batch creation.
type BatchFailure struct {
	UserID string `json:"user_id"`
	Error  string `json:"error"`
}

// BatchResult is the explicit partial-success outcome of a batch creation.
type BatchResult struct {
	Created []models.Schedule `json:"created"`
	Failed  []BatchFailure    `json:"failed"`
}

// ValidateDate checks the canonical YYYY-MM-DD form.
func ValidateDate(date string) error {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil || parsed.Format("2006-01-02") != date {
		return apperrors.NewValidation("date must be in YYYY-MM-DD form")
	}
	return nil
}

// ListSchedules returns all schedules joined with their user and the user's
// team function, ordered by date. The unfiltered list is served from the
// roster cache when warm.
func (s *ScheduleService) ListSchedules(ctx context.Context) ([]models.Schedule, error) {
	var schedules []models.Schedule
	if s.cache != nil && s.cache.Get(ctx, &schedules) {
		return schedules, nil
	}

	if err := repositories.DBS.Postgres.
		Preload("User.TeamFunction").
		Preload("User").
		Order("date asc").
		Find(&schedules).Error; err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, schedules)
	}
	return schedules, nil
}

// ListSchedulesByDate returns the roster for one date, matched by exact
// string equality on the canonical form.
func (s *ScheduleService) ListSchedulesByDate(ctx context.Context, date string) ([]models.Schedule, error) {
	if err := ValidateDate(date); err != nil {
		return nil, err
	}

	var schedules []models.Schedule
	if err := repositories.DBS.Postgres.
		Preload("User.TeamFunction").
		Preload("User").
		Where("date = ?", date).
		Order("created_at asc").
		Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

// AvailableUsers returns the users not yet scheduled on the given date: the
// set difference by user id, computed server-side so concurrent edits cannot
// be hidden by a stale client copy.
func (s *ScheduleService) AvailableUsers(ctx context.Context, date string) ([]models.User, error) {
	scheduled, err := s.ListSchedulesByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	users, err := s.userService.ListUsers()
	if err != nil {
		return nil, err
	}

	scheduledIDs := lo.Map(scheduled, func(sc models.Schedule, _ int) string {
		return sc.UserID
	})
	return lo.Filter(users, func(u models.User, _ int) bool {
		return !lo.Contains(scheduledIDs, u.ID)
	}), nil
}

// CreateSchedule adds one user to one date's roster. Duplicate (date, user)
// pairs are permitted; the referenced user must exist at creation time.
func (s *ScheduleService) CreateSchedule(ctx context.Context, date, userID, createdBy string) (*models.Schedule, error) {
	if err := ValidateDate(date); err != nil {
		return nil, err
	}

	user, err := s.userService.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	id, err := utils.GenerateUniqueID("S")
	if err != nil {
		return nil, fmt.Errorf("failed to generate schedule ID: %w", err)
	}

	schedule := models.Schedule{
		ID:        id,
		Date:      date,
		UserID:    userID,
		CreatedBy: createdBy,
	}

	if err := repositories.DBS.Postgres.Create(&schedule).Error; err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}

	if s.notification != nil {
		// Best-effort, inline; failures are logged and swallowed.
		if err := s.notification.NotifyUser(ctx, user, "Nova escala",
			fmt.Sprintf("Você foi escalado para %s.", date), ""); err != nil {
			configs.Logger.Warn("schedule notification failed",
				zap.String("user_id", userID),
				zap.String("date", date),
				zap.Error(err))
		}
	}

	return s.GetScheduleByID(id)
}

// CreateSchedulesBatch creates schedules sequentially, one request per user.
// Not transactional: a failure partway leaves the earlier rows committed, and
// the result reports each outcome explicitly.
func (s *ScheduleService) CreateSchedulesBatch(ctx context.Context, date string, userIDs []string, createdBy string) (*BatchResult, error) {
	if err := ValidateDate(date); err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		return nil, apperrors.NewValidation("user_ids is required")
	}

	result := &BatchResult{
		Created: []models.Schedule{},
		Failed:  []BatchFailure{},
	}
	for _, userID := range userIDs {
		schedule, err := s.CreateSchedule(ctx, date, userID, createdBy)
		if err != nil {
			result.Failed = append(result.Failed, BatchFailure{UserID: userID, Error: err.Error()})
			continue
		}
		result.Created = append(result.Created, *schedule)
	}
	return result, nil
}

// GetScheduleByID retrieves one schedule joined with its user.
func (s *ScheduleService) GetScheduleByID(id string) (*models.Schedule, error) {
	var schedule models.Schedule
	if err := repositories.DBS.Postgres.
		Preload("User.TeamFunction").
		Preload("User").
		First(&schedule, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("schedule not found")
		}
		return nil, err
	}
	return &schedule, nil
}

// DeleteSchedule hard-deletes a schedule. Deleting an id that is already
// absent is a no-op success.
func (s *ScheduleService) DeleteSchedule(ctx context.Context, id string) error {
	if err := repositories.DBS.Postgres.Delete(&models.Schedule{}, "id = ?", id).Error; err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return nil
}
