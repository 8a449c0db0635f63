package controllers

import (
	"net/http"
	"testing"

	"escalas-server/internal/logics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushController_SendPush(t *testing.T) {
	setupControllerTest(t)
	controller := NewPushController(logics.NewNotificationService(nil))
	member := createMember(t)

	t.Run("binds the userId key", func(t *testing.T) {
		// The member has no push subscription and no email channel is
		// configured, so a correctly bound id reaches the dispatcher and
		// fails there, not at validation of the body.
		c, rec := newAuthedContext(t, http.MethodPost, "/push",
			`{"userId":"`+member.ID+`","title":"Nova escala"}`, "", "")

		require.NoError(t, controller.SendPush(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "push subscription")
	})

	t.Run("missing userId is rejected", func(t *testing.T) {
		c, rec := newAuthedContext(t, http.MethodPost, "/push",
			`{"title":"Nova escala"}`, "", "")

		require.NoError(t, controller.SendPush(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "UserID")
	})

	t.Run("unknown user", func(t *testing.T) {
		c, rec := newAuthedContext(t, http.MethodPost, "/push",
			`{"userId":"55555555-5555-5555-5555-555555555555","title":"Nova escala"}`, "", "")

		require.NoError(t, controller.SendPush(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "user not found")
	})
}
