package logics

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"escalas-server/configs"
	"escalas-server/internal/apperrors"
	"escalas-server/internal/identity"
	"escalas-server/internal/models"
	"escalas-server/internal/repositories"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserService handles the user directory: lookups, self-registration on first
// login, admin invitations and profile updates.
type UserService struct {
	identityClient *identity.Client
	rosterCache    *RosterCache
}

// NewUserService creates a new UserService. The roster cache may be nil;
// profile mutations then skip cache invalidation.
func NewUserService(identityClient *identity.Client, rosterCache *RosterCache) *UserService {
	return &UserService{
		identityClient: identityClient,
		rosterCache:    rosterCache,
	}
}

// invalidateRoster drops the cached schedule list. The cached payload embeds
// the joined user rows, so profile mutations stale it just like roster ones.
func (s *UserService) invalidateRoster(ctx context.Context) {
	if s.rosterCache != nil {
		s.rosterCache.Invalidate(ctx)
	}
}

// UsernameFromEmail derives the display username from the email local part.
// No uniqueness is enforced; collisions are allowed.
func UsernameFromEmail(email string) string {
	return strings.ToLower(strings.Split(email, "@")[0])
}

// ListUsers returns all users joined with their team function, ordered by
// full name.
func (s *UserService) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := repositories.DBS.Postgres.Preload("TeamFunction").Order("full_name asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetUserByID retrieves one user joined with their team function.
func (s *UserService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := repositories.DBS.Postgres.Preload("TeamFunction").First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// GetOrCreateUser returns the profile row for an authenticated identity,
// creating it with the default role on first login.
func (s *UserService) GetOrCreateUser(id, email string) (*models.User, error) {
	var user models.User
	err := repositories.DBS.Postgres.Preload("TeamFunction").First(&user, "id = ?", id).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = models.User{
		ID:       id,
		Email:    email,
		FullName: UsernameFromEmail(email),
		Username: UsernameFromEmail(email),
		Role:     models.RoleUser,
	}
	if err := repositories.DBS.Postgres.Create(&user).Error; err != nil {
		return nil, err
	}

	configs.Logger.Info("user self-registered on first login",
		zap.String("user_id", id),
		zap.String("email", email))
	return &user, nil
}

/// InviteUser runs the invitation workflow: the identity provider creates the
// login and emails the credential-setup link, then the profile row is
// reconciled with the requested role and function.
//
// The reconciliation is an idempotent upsert keyed by the identity id, so a
// crash between the two steps is healed by re-running the invite.
func (s *UserService) InviteUser(ctx context.Context, email, fullName, role string, teamFunctionID *string) (*models.User, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(fullName) == "" {
		return nil, apperrors.NewValidation("email and full_name are required")
	}
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleAdmin && role != models.RoleUser {
		return nil, apperrors.NewValidation("role must be admin or user")
	}

	identityUser, err := s.identityClient.InviteUserByEmail(ctx, email, fullName)
	if err != nil {
		// Provider failure terminates the workflow; its message and status
		// surface verbatim.
		return nil, err
	}

	var user models.User
	err = repositories.DBS.Postgres.First(&user, "id = ?", identityUser.ID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			ID:             identityUser.ID,
			Email:          email,
			FullName:       fullName,
			Username:       UsernameFromEmail(email),
			Role:           role,
			TeamFunctionID: normalizeFunctionID(teamFunctionID),
		}
		if err := repositories.DBS.Postgres.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create invited profile: %w", err)
		}
	case err != nil:
		return nil, err
	default:
		// A provider-side hook already created the row; apply the requested
		// role and function when they differ from the defaults.
		if role != models.RoleUser || teamFunctionID != nil {
			updateMap := map[string]interface{}{
				"role":             role,
				"team_function_id": functionIDColumn(teamFunctionID),
			}
			if err := repositories.DBS.Postgres.Model(&user).Updates(updateMap).Error; err != nil {
				return nil, fmt.Errorf("failed to reconcile invited profile: %w", err)
			}
		}
	}

	return s.GetUserByID(identityUser.ID)
}

// UpdateUser applies a partial profile update.
func (s *UserService) UpdateUser(id string, updates models.UserUpdate) (*models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	updateMap := make(map[string]interface{})

	if updates.FullName != nil {
		updateMap["full_name"] = *updates.FullName
	}
	if updates.Username != nil {
		updateMap["username"] = strings.ToLower(*updates.Username)
	}
	if updates.Role != nil {
		if *updates.Role != models.RoleAdmin && *updates.Role != models.RoleUser {
			return nil, apperrors.NewValidation("role must be admin or user")
		}
		updateMap["role"] = *updates.Role
	}
	if updates.TeamFunctionID != nil {
		updateMap["team_function_id"] = functionIDColumn(updates.TeamFunctionID)
	}
	if updates.AvatarURL != nil {
		updateMap["avatar_url"] = *updates.AvatarURL
	}

	if len(updateMap) > 0 {
		if err := repositories.DBS.Postgres.Model(user).Updates(updateMap).Error; err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
		s.invalidateRoster(context.Background())
	}

	return s.GetUserByID(id)
}

// DeleteUser removes the profile unconditionally. Schedules referencing the
// user are left behind (orphaning is allowed); the identity record is removed
// best-effort.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.GetUserByID(id); err != nil {
		return err
	}

	if err := repositories.DBS.Postgres.Delete(&models.User{}, "id = ?", id).Error; err != nil {
		return err
	}
	s.invalidateRoster(ctx)

	if err := s.identityClient.DeleteUser(ctx, id); err != nil {
		configs.Logger.Warn("failed to delete identity record",
			zap.String("user_id", id),
			zap.Error(err))
	}

	return nil
}

// SetPassword finishes the invitation flow: validates the new password and
// forwards it to the identity provider under the caller's own access token.
// No old-password check; this runs immediately post-invite.
func (s *UserService) SetPassword(ctx context.Context, accessToken, password, confirmation string) error {
	if len(password) < 6 {
		return apperrors.NewValidation("password must be at least 6 characters")
	}
	if password != confirmation {
		return apperrors.NewValidation("password confirmation does not match")
	}
	return s.identityClient.UpdatePassword(ctx, accessToken, password)
}

// SetPushSubscription stores the caller's serialized push endpoint.
func (s *UserService) SetPushSubscription(id string, subscription datatypes.JSON) error {
	if _, err := s.GetUserByID(id); err != nil {
		return err
	}
	return repositories.DBS.Postgres.Model(&models.User{ID: id}).
		Update("push_subscription", subscription).Error
}

// ClearPushSubscription removes the caller's push endpoint.
func (s *UserService) ClearPushSubscription(id string) error {
	if _, err := s.GetUserByID(id); err != nil {
		return err
	}
	return repositories.DBS.Postgres.Model(&models.User{ID: id}).
		Update("push_subscription", nil).Error
}

// normalizeFunctionID maps an empty function id to NULL.
func normalizeFunctionID(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	return id
}

// functionIDColumn is the map-update form of normalizeFunctionID. The empty
// case must be an untyped nil: gorm's map Updates skips typed-nil pointers,
// which would leave the column unchanged instead of clearing it.
func functionIDColumn(id *string) interface{} {
	if id == nil || *id == "" {
		return nil
	}
	return *id
}
