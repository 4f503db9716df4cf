package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"same-backend/internal/config"
	"same-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newProtectedApp(cfg *config.Config) *fiber.App {
	app := fiber.New()
	app.Get("/whoami", JWTMiddleware(cfg), func(c *fiber.Ctx) error {
		tenantID, err := TenantID(c)
		if err != nil {
			return err
		}
		return c.SendString(tenantID)
	})
	return app
}

func TestTokenRoundTrip(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	token, err := GenerateToken(cfg.JWTSecret, &models.User{ID: "T1", Email: "maria@x.com"})
	require.NoError(t, err)

	app := newProtectedApp(cfg)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMiddlewareRejectsBadTokens(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	wrongKey, err := GenerateToken("another-secret-another-secret-32", &models.User{ID: "T1"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong signing key", "Bearer " + wrongKey},
	}

	app := newProtectedApp(cfg)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestTenantIDWithoutMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/whoami", func(c *fiber.Ctx) error {
		_, err := TenantID(c)
		return err
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
