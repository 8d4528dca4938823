package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"keepsakes/apperror"
	"keepsakes/config/common"
	"keepsakes/security"
)

const (
	jwtContextKey = "jwt"
	UserIDKey     = "user_id"
)

type Middleware struct {
	*common.Config
	Log *logrus.Logger
}

func NewMiddleware(config *common.Config, logger *logrus.Logger) *Middleware {
	return &Middleware{Config: config, Log: logger}
}

func (middleware *Middleware) JWTProtected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{JWTAlg: jwtware.HS512, Key: middleware.GetJwtConfig()},
		ContextKey: jwtContextKey,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			middleware.Log.WithError(err).Warn("Failed to validate JWT")
			return apperror.Unauthenticated("token is not valid")
		},
	})
}

// ExtractUserID copies the verified user_id claim into the request locals.
func (middleware *Middleware) ExtractUserID(c *fiber.Ctx) error {
	token, ok := c.Locals(jwtContextKey).(*jwt.Token)
	if !ok {
		return apperror.ErrNotAuthenticated
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return apperror.ErrNotAuthenticated
	}
	userID, err := security.UserIDFromClaims(claims)
	if err != nil {
		middleware.Log.WithError(err).Warn("Failed to extract user ID from token")
		return apperror.Unauthenticated("failed to extract user ID from token")
	}

	c.Locals(UserIDKey, userID)
	return c.Next()
}

// UserID returns the caller id stored by ExtractUserID, or "".
func UserID(c *fiber.Ctx) string {
	userID, _ := c.Locals(UserIDKey).(string)
	return userID
}

// WebSocketUpgrade admits websocket upgrades carrying a valid ?token= query
// parameter, since browsers cannot set headers on the handshake.
func (middleware *Middleware) WebSocketUpgrade(jwt *security.JWT) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		userID, err := jwt.GetUserIdFromToken(c.Query("token"))
		if err != nil {
			middleware.Log.WithError(err).Warn("Rejected websocket handshake")
			return apperror.Unauthenticated("token is not valid")
		}
		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}
