package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"

	"vendocs/internal/auth"
	"vendocs/internal/config"
	"vendocs/internal/model"
	repomocks "vendocs/internal/repository/mocks"
)

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	cfg := config.AuthConfig{JWTSecret: "test-secret", TokenTTLHours: 1}

	hash, err := auth.HashPassword("correct-password")
	assert.NoError(t, err)

	activeUser := func() *model.User {
		return &model.User{
			ID:           "user-1",
			Email:        "vendor@example.com",
			PasswordHash: hash,
			Role:         model.RoleVendor,
			IsActive:     true,
		}
	}

	t.Run("issues token for valid credentials", func(t *testing.T) {
		users := new(repomocks.MockUserRepository)
		svc := NewAuthService(users, cfg)

		users.On("FindByEmail", ctx, "vendor@example.com").Return(activeUser(), nil)

		res, err := svc.Login(ctx, "vendor@example.com", "correct-password")

		assert.NoError(t, err)
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, "user-1", res.User.ID)

		claims, err := auth.ValidateToken(cfg.JWTSecret, res.Token)
		assert.NoError(t, err)
		assert.Equal(t, model.RoleVendor, claims.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		users := new(repomocks.MockUserRepository)
		svc := NewAuthService(users, cfg)

		users.On("FindByEmail", ctx, "vendor@example.com").Return(activeUser(), nil)

		_, err := svc.Login(ctx, "vendor@example.com", "wrong")

		var aerr *AuthorizationError
		assert.ErrorAs(t, err, &aerr)
	})

	t.Run("unknown email", func(t *testing.T) {
		users := new(repomocks.MockUserRepository)
		svc := NewAuthService(users, cfg)

		users.On("FindByEmail", ctx, "ghost@example.com").Return(nil, sql.ErrNoRows)

		_, err := svc.Login(ctx, "ghost@example.com", "whatever")

		var aerr *AuthorizationError
		assert.ErrorAs(t, err, &aerr)
	})

	t.Run("deactivated account", func(t *testing.T) {
		users := new(repomocks.MockUserRepository)
		svc := NewAuthService(users, cfg)

		u := activeUser()
		u.IsActive = false
		users.On("FindByEmail", ctx, "vendor@example.com").Return(u, nil)

		_, err := svc.Login(ctx, "vendor@example.com", "correct-password")

		var aerr *AuthorizationError
		assert.ErrorAs(t, err, &aerr)
	})

	t.Run("pending login approval", func(t *testing.T) {
		users := new(repomocks.MockUserRepository)
		svc := NewAuthService(users, cfg)

		u := activeUser()
		u.RequiresLoginApproval = true
		users.On("FindByEmail", ctx, "vendor@example.com").Return(u, nil)

		_, err := svc.Login(ctx, "vendor@example.com", "correct-password")

		var aerr *AuthorizationError
		assert.ErrorAs(t, err, &aerr)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc := NewAuthService(new(repomocks.MockUserRepository), cfg)

		_, err := svc.Login(ctx, "", "")

		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}
