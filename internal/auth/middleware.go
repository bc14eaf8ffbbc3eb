package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/identity-service/internal/domain"
	apperrors "github.com/spec-kit/identity-service/pkg/util"
)

const identityKey = "auth_identity"

// Middleware provides the authentication and authorization gates protecting
// the HTTP surface. Every error is converted to a structured response by the
// global error middleware; nothing unwinds past these handlers raw.
type Middleware struct {
	codec    *TokenCodec
	resolver *Resolver
	logger   *zap.Logger
}

// NewMiddleware constructs the gates.
func NewMiddleware(codec *TokenCodec, resolver *Resolver, logger *zap.Logger) *Middleware {
	return &Middleware{codec: codec, resolver: resolver, logger: logger}
}

// Authenticate validates the bearer credential and attaches the verified
// identity to the request. Rejections are always 401 with a code naming the
// specific failure.
func (m *Middleware) Authenticate(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthenticated(apperrors.CodeUnauthenticated, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" || strings.ContainsRune(parts[1], ' ') {
		return apperrors.NewUnauthenticated(apperrors.CodeMalformedCredentials, "authorization header must be of the form 'Bearer <token>'")
	}

	identity, err := m.codec.VerifyAccess(parts[1])
	if err != nil {
		return apperrors.NewUnauthenticated(FailureCode(err), FailureMessage(err))
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

// RequirePermission gates a route on the given permission. It expects
// Authenticate to have run first on the route chain.
func (m *Middleware) RequirePermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			// Should not happen when routes compose the gates correctly.
			return apperrors.NewUnauthenticated(apperrors.CodeUnauthenticated, "authentication required")
		}

		allowed, err := m.resolver.HasPermission(c.UserContext(), identity, permission)
		if err != nil {
			// Fail closed: the lookup failure is logged and the request denied.
			m.logger.Error("permission lookup failed",
				zap.String("subject_id", identity.SubjectID),
				zap.String("permission", permission),
				zap.Error(err))
		}
		if !allowed {
			return apperrors.NewForbidden("missing required permission: "+permission,
				map[string]any{"required_permission": permission})
		}
		return c.Next()
	}
}

// IdentityFromContext retrieves the identity attached by Authenticate.
func IdentityFromContext(c *fiber.Ctx) (domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return domain.Identity{}, false
	}
	identity, ok := val.(domain.Identity)
	return identity, ok
}
