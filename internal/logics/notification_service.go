package logics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"escalas-server/configs"
	"escalas-server/internal/apperrors"
	"escalas-server/internal/models"
	"escalas-server/internal/repositories"
	"escalas-server/internal/utils"

	webpush "github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"
)

// NotificationService delivers a message to a single user: web push to their
// registered endpoint, falling back to a best-effort email when they have
// none.
type NotificationService struct {
	emailService *utils.EmailService
}

// NewNotificationService creates a new NotificationService. The email service
// may be nil; there is then no fallback channel.
func NewNotificationService(emailService *utils.EmailService) *NotificationService {
	return &NotificationService{
		emailService: emailService,
	}
}

// pushPayload is what the service worker receives and renders.
type pushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
}

// NotifyUserByID resolves the user and dispatches to them.
func (s *NotificationService) NotifyUserByID(ctx context.Context, userID, title, body, targetURL string) error {
	var user models.User
	if err := repositories.DBS.Postgres.First(&user, "id = ?", userID).Error; err != nil {
		return apperrors.NewValidation("user not found")
	}
	return s.NotifyUser(ctx, &user, title, body, targetURL)
}

// NotifyUser dispatches one notification. Expired push endpoints (404/410
// from the push service) are cleared from the user row.
func (s *NotificationService) NotifyUser(ctx context.Context, user *models.User, title, body, targetURL string) error {
	if len(user.PushSubscription) > 0 {
		return s.sendPush(ctx, user, title, body, targetURL)
	}

	if s.emailService != nil && user.Email != "" {
		return s.sendEmailFallback(user, title, body, targetURL)
	}

	return apperrors.NewValidation("user has no push subscription")
}

func (s *NotificationService) sendPush(ctx context.Context, user *models.User, title, body, targetURL string) error {
	var subscription webpush.Subscription
	if err := json.Unmarshal(user.PushSubscription, &subscription); err != nil {
		return fmt.Errorf("stored push subscription is invalid: %w", err)
	}

	payload, err := json.Marshal(pushPayload{Title: title, Body: body, URL: targetURL})
	if err != nil {
		return fmt.Errorf("failed to encode push payload: %w", err)
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, &subscription, &webpush.Options{
		Subscriber:      configs.Configs.Push.SubscriberEmail,
		VAPIDPublicKey:  configs.Configs.Push.VapidPublicKey,
		VAPIDPrivateKey: configs.Configs.Push.VapidPrivateKey,
		TTL:             60,
	})
	if err != nil {
		return apperrors.NewUpstream("push delivery failed", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		// The endpoint no longer exists; drop it so we stop trying.
		if err := repositories.DBS.Postgres.Model(user).Update("push_subscription", nil).Error; err != nil {
			configs.Logger.Warn("failed to clear expired push subscription",
				zap.String("user_id", user.ID),
				zap.Error(err))
		}
		return apperrors.NewUpstream("push subscription expired", 0, nil)
	}
	if resp.StatusCode >= 400 {
		return apperrors.NewUpstream(fmt.Sprintf("push service returned status %d", resp.StatusCode), 0, nil)
	}

	configs.Logger.Info("push notification sent",
		zap.String("user_id", user.ID),
		zap.String("title", title))
	return nil
}

func (s *NotificationService) sendEmailFallback(user *models.User, title, body, targetURL string) error {
	html := s.emailService.GenerateNotificationEmailHTML(user.FullName, title, body, targetURL)
	if err := s.emailService.SendEmail(configs.Configs.Email.SenderEmail, user.Email, title, html); err != nil {
		return apperrors.NewUpstream("email fallback failed", 0, err)
	}

	configs.Logger.Info("notification delivered by email fallback",
		zap.String("user_id", user.ID),
		zap.String("title", title))
	return nil
}
