package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/arremateai/internal/domain"
	"github.com/seu-repo/arremateai/pkg/config"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

type stubAuth struct{}

func (stubAuth) Login(ctx context.Context, email, password string) (string, error) { return "", nil }

func (stubAuth) ValidateToken(ctx context.Context, token string) (*domain.Actor, error) {
	switch token {
	case "admin":
		return &domain.Actor{ID: "admin-1", Role: domain.UserRoleAdmin}, nil
	case "buyer":
		return &domain.Actor{ID: "buyer-1", Role: domain.UserRoleBuyer}, nil
	}
	return nil, domain.Unauthorized("token inválido")
}

func (stubAuth) Logout(ctx context.Context, token string) error { return nil }

func (stubAuth) HashPassword(password string) (string, error) { return password, nil }

func newApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: ErrorHandler(newTestLogger())})
}

func decodeError(t *testing.T, app *fiber.App, method, path, token string) (int, ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var body ErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func TestErrorHandler_MapsDomainKinds(t *testing.T) {
	app := newApp()
	cases := map[string]error{
		"/validation": domain.Validation("campo obrigatório"),
		"/notfound":   domain.NotFound("imóvel", "x"),
		"/state":      domain.InvalidState("estado inválido"),
		"/conflict":   domain.Conflict("duplicado"),
		"/forbidden":  domain.Forbidden("proibido"),
		"/business":   domain.Business("regra"),
		"/auth":       domain.Unauthorized("sem token"),
		"/internal":   errors.New("pq: connection reset"),
		"/fiber":      fiber.ErrMethodNotAllowed,
	}
	for path, err := range cases {
		err := err
		app.Get(path, func(c *fiber.Ctx) error { return err })
	}

	want := map[string]int{
		"/validation": 400, "/notfound": 404, "/state": 409, "/conflict": 409,
		"/forbidden": 403, "/business": 422, "/auth": 401, "/internal": 500, "/fiber": 405,
	}
	for path, status := range want {
		got, body := decodeError(t, app, "GET", path, "")
		if got != status {
			t.Errorf("%s: expected %d, got %d", path, status, got)
		}
		if path == "/internal" && body.Message == "pq: connection reset" {
			t.Error("internal errors must not leak their message")
		}
		if path == "/validation" && body.Message != "campo obrigatório" {
			t.Errorf("expected domain message, got %q", body.Message)
		}
	}
}

func TestAuthRequired_AndRoles(t *testing.T) {
	app := newApp()
	app.Get("/me", AuthRequired(stubAuth{}), func(c *fiber.Ctx) error {
		return c.JSON(Actor(c))
	})
	app.Get("/admin", AuthRequired(stubAuth{}), RequireRole(domain.UserRoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	if status, _ := decodeError(t, app, "GET", "/me", ""); status != 401 {
		t.Errorf("missing header: expected 401, got %d", status)
	}
	if status, _ := decodeError(t, app, "GET", "/me", "forged"); status != 401 {
		t.Errorf("bad token: expected 401, got %d", status)
	}
	if status, _ := decodeError(t, app, "GET", "/admin", "buyer"); status != 403 {
		t.Errorf("buyer on admin route: expected 403, got %d", status)
	}
	if status, _ := decodeError(t, app, "GET", "/admin", "admin"); status != 204 {
		t.Errorf("admin: expected 204, got %d", status)
	}

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer buyer")
	resp, _ := app.Test(req)
	var actor domain.Actor
	_ = json.NewDecoder(resp.Body).Decode(&actor)
	if actor.ID != "buyer-1" {
		t.Errorf("expected actor in locals, got %+v", actor)
	}
}

func TestAuthRequired_QueryTokenOnlyForUpgrade(t *testing.T) {
	app := newApp()
	app.Get("/ws", AuthRequired(stubAuth{}), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest("GET", "/ws?access_token=admin", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != 401 {
		t.Errorf("plain request with query token: expected 401, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest("GET", "/ws?access_token=admin", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	resp, _ = app.Test(req)
	if resp.StatusCode != 204 {
		t.Errorf("upgrade with query token: expected 204, got %d", resp.StatusCode)
	}
}

type denyAll struct{}

func (denyAll) Allowed(domain.UserRole, string, string) bool { return false }

func TestRequirePermission(t *testing.T) {
	app := newApp()
	app.Get("/x", AuthRequired(stubAuth{}), RequirePermission(denyAll{}, "listings", "write"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	if status, _ := decodeError(t, app, "GET", "/x", "admin"); status != 403 {
		t.Errorf("expected 403, got %d", status)
	}
}

func TestCircuitBreaker_OpensOnServerErrors(t *testing.T) {
	app := newApp()
	cfg := config.CircuitBreakerConfig{Enabled: true, MaxRequests: 1, Interval: time.Minute, Timeout: time.Minute, FailureThreshold: 2}
	app.Use(CircuitBreaker("test", cfg, newTestLogger()))
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("database down") })
	app.Get("/missing", func(c *fiber.Ctx) error { return domain.NotFound("imóvel", "x") })

	for i := 0; i < 5; i++ {
		if status, _ := decodeError(t, app, "GET", "/missing", ""); status != 404 {
			t.Fatalf("client errors must not trip the breaker, got %d", status)
		}
	}
	for i := 0; i < 2; i++ {
		if status, _ := decodeError(t, app, "GET", "/boom", ""); status != 500 {
			t.Fatalf("expected 500, got %d", status)
		}
	}
	if status, _ := decodeError(t, app, "GET", "/missing", ""); status != 503 {
		t.Errorf("expected open breaker to answer 503, got %d", status)
	}
}

func TestRateLimit(t *testing.T) {
	app := newApp()
	app.Use(RateLimit(config.RateLimitingConfig{Enabled: true, MaxRequests: 2, Window: time.Minute}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		if err != nil {
			t.Fatal(err)
		}
		codes = append(codes, resp.StatusCode)
	}
	if codes[0] != 204 || codes[1] != 204 || codes[2] != 429 {
		t.Errorf("unexpected status sequence %v", codes)
	}
}
