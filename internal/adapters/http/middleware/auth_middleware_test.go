package middleware

import (
	"net/http/httptest"
	"testing"

	"refundhub/internal/config"
	"refundhub/internal/core/domain"
	"refundhub/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:          "middleware-test-secret",
			AccessTokenMins: 15,
		},
	}
}

func newProtectedApp(cfg *config.Config, extra ...fiber.Handler) *fiber.App {
	app := fiber.New()

	handlers := []fiber.Handler{AuthMiddleware(cfg)}
	handlers = append(handlers, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		ident, ok := Identity(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"user_id": ident.UserID, "role": ident.Role})
	})

	app.Get("/protected", handlers...)
	return app
}

func mustToken(t *testing.T, cfg *config.Config, userID uint, role string, mins int) string {
	t.Helper()
	token, err := jwt.GenerateAccessToken(userID, role, cfg.JWT.Secret, mins)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	app := newProtectedApp(cfg)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"missing header", "", fiber.StatusUnauthorized},
		{"wrong scheme", "Token abc", fiber.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", fiber.StatusUnauthorized},
		{"expired token", "Bearer " + mustToken(t, cfg, 1, domain.RoleEmployee, -1), fiber.StatusUnauthorized},
		{"valid token", "Bearer " + mustToken(t, cfg, 1, domain.RoleEmployee, 15), fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	cfg := testConfig()
	app := newProtectedApp(cfg)

	token, err := jwt.GenerateAccessToken(1, domain.RoleEmployee, "some-other-secret", 15)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestRoleMiddleware(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name       string
		gate       fiber.Handler
		role       string
		wantStatus int
	}{
		{"reviewer gate allows manager", RoleMiddleware(domain.RoleManager, domain.RoleAdmin), domain.RoleManager, fiber.StatusOK},
		{"reviewer gate allows admin", RoleMiddleware(domain.RoleManager, domain.RoleAdmin), domain.RoleAdmin, fiber.StatusOK},
		{"reviewer gate rejects employee", RoleMiddleware(domain.RoleManager, domain.RoleAdmin), domain.RoleEmployee, fiber.StatusForbidden},
		{"submitter gate allows employee", SubmitterOnly(), domain.RoleEmployee, fiber.StatusOK},
		{"submitter gate allows admin", SubmitterOnly(), domain.RoleAdmin, fiber.StatusOK},
		{"submitter gate rejects manager", SubmitterOnly(), domain.RoleManager, fiber.StatusForbidden},
		{"any role allows employee", AnyRole(), domain.RoleEmployee, fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newProtectedApp(cfg, tt.gate)

			req := httptest.NewRequest("GET", "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+mustToken(t, cfg, 1, tt.role, 15))

			resp, err := app.Test(req)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestIdentity_AbsentWithoutMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/open", func(c *fiber.Ctx) error {
		if _, ok := Identity(c); ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/open", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
