package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/seu-repo/arremateai/internal/domain"
	"github.com/seu-repo/arremateai/internal/ports"
)

const (
	// ActorLocal is the c.Locals key holding the authenticated domain.Actor.
	ActorLocal = "actor"
	tokenLocal = "token"
)

// AuthRequired resolves the bearer token into a domain.Actor. WebSocket
// upgrades may pass the token as the access_token query parameter since
// browsers cannot set headers on them.
func AuthRequired(service ports.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c)
		if err != nil {
			return err
		}

		actor, err := service.ValidateToken(c.UserContext(), token)
		if err != nil {
			return err
		}

		c.Locals(ActorLocal, *actor)
		c.Locals(tokenLocal, token)
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) (string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		if q := c.Query("access_token"); q != "" && strings.EqualFold(c.Get(fiber.HeaderUpgrade), "websocket") {
			return q, nil
		}
		return "", domain.Unauthorized("cabeçalho Authorization ausente")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", domain.Unauthorized("formato do cabeçalho Authorization inválido")
	}
	return strings.TrimSpace(parts[1]), nil
}

// Actor returns the identity set by AuthRequired.
func Actor(c *fiber.Ctx) domain.Actor {
	actor, _ := c.Locals(ActorLocal).(domain.Actor)
	return actor
}

// Token returns the raw bearer token of the request.
func Token(c *fiber.Ctx) string {
	token, _ := c.Locals(tokenLocal).(string)
	return token
}

// RequireRole lets only the given roles through. It must run after
// AuthRequired.
func RequireRole(roles ...domain.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := Actor(c)
		for _, r := range roles {
			if actor.Role == r {
				return c.Next()
			}
		}
		return domain.Forbidden("acesso negado para o perfil %s", actor.Role)
	}
}

// Authorizer decides whether a role may act on a resource.
type Authorizer interface {
	Allowed(role domain.UserRole, resource, action string) bool
}

func RequirePermission(authz Authorizer, resource, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !authz.Allowed(Actor(c).Role, resource, action) {
			return domain.Forbidden("acesso negado")
		}
		return c.Next()
	}
}
