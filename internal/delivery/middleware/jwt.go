package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/logger"
)

const (
	LocalOperatorID = "operator_id"
	LocalTerminalID = "terminal_id"
)

// JWTMiddleware verifies operator tokens issued by the external auth service.
type JWTMiddleware struct {
	secret []byte
}

func NewJWTMiddleware(secret string) *JWTMiddleware {
	return &JWTMiddleware{secret: []byte(secret)}
}

func (m *JWTMiddleware) Protect() fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get("Authorization")
		if auth == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (any, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid token signing method")
			}
			return m.secret, nil
		})
		if err != nil || token == nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token claims")
		}

		if typ, _ := claims["typ"].(string); typ != "" && typ != "operator" {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token type")
		}

		sub, _ := claims["sub"].(string)
		if sub == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "token has no subject")
		}
		c.Locals(LocalOperatorID, sub)

		terminal, _ := claims["terminal"].(string)
		if terminal == "" {
			terminal = sub
		}
		c.Locals(LocalTerminalID, terminal)

		ctx := c.UserContext()
		log := logger.FromContext(ctx).With(
			zap.String("operator_id", sub),
			zap.String("terminal_id", terminal),
		)
		c.SetUserContext(logger.WithContext(ctx, log))

		return c.Next()
	}
}

// TerminalID returns the terminal the request came from, as set by Protect.
func TerminalID(c *fiber.Ctx) string {
	if id, ok := c.Locals(LocalTerminalID).(string); ok && id != "" {
		return id
	}
	return c.IP()
}
