package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/entity"
)

// Roles carried in the role claim.
const (
	RoleCustomer = "customer"
	RoleOwner    = "owner"
	RoleAdmin    = "admin"
)

// AuthUser represents an authenticated user from JWT
type AuthUser struct {
	UserID          string `json:"user_id"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	EstablishmentID string `json:"establishment_id,omitempty"`
}

// Actor returns the booking actor the user acts as. Administrators have no
// actor and see every booking.
func (u *AuthUser) Actor() (*entity.Actor, error) {
	switch u.Role {
	case RoleCustomer:
		return &entity.Actor{Role: entity.ActorCustomer, ID: u.UserID}, nil
	case RoleOwner:
		if u.EstablishmentID == "" {
			return nil, fmt.Errorf("owner token without establishment")
		}
		return &entity.Actor{Role: entity.ActorOwner, ID: u.EstablishmentID}, nil
	case RoleAdmin:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown role %q", u.Role)
	}
}

// Claims are the token claims issued to customers, owners and admins.
type Claims struct {
	Email           string `json:"email"`
	Role            string `json:"role"`
	EstablishmentID string `json:"establishment_id,omitempty"`
	jwt.RegisteredClaims
}

// contextKey is used for storing user in context
type contextKey string

const (
	userContextKey contextKey = "authenticated_user"
)

// JWTConfig holds the configuration for JWT middleware
type JWTConfig struct {
	Secret    string
	Issuer    string
	Logger    *zap.Logger
	SkipPaths []string // Paths to skip JWT validation
}

// JWTMiddleware creates a middleware that validates HS256 bearer tokens
func JWTMiddleware(config JWTConfig) echo.MiddlewareFunc {
	parserOpts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if config.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(config.Issuer))
	}
	parser := jwt.NewParser(parserOpts...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, skipPath := range config.SkipPaths {
				if strings.HasPrefix(path, skipPath) {
					return next(c)
				}
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				config.Logger.Warn("Missing authorization header",
					zap.String("path", path),
					zap.String("method", c.Request().Method))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Authorization header required",
					"code":  "MISSING_AUTH_HEADER",
				})
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				config.Logger.Warn("Invalid authorization header format",
					zap.String("path", path))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Invalid authorization header format. Expected: Bearer <token>",
					"code":  "INVALID_AUTH_FORMAT",
				})
			}

			claims := &Claims{}
			token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				return []byte(config.Secret), nil
			})
			if err != nil || !token.Valid {
				config.Logger.Warn("JWT validation failed",
					zap.Error(err),
					zap.String("path", path))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Invalid or expired token",
					"code":  "INVALID_TOKEN",
				})
			}

			user := &AuthUser{
				UserID:          claims.Subject,
				Email:           claims.Email,
				Role:            claims.Role,
				EstablishmentID: claims.EstablishmentID,
			}
			if user.UserID == "" {
				config.Logger.Warn("Invalid JWT claims", zap.String("path", path))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Invalid token claims",
					"code":  "INVALID_CLAIMS",
				})
			}
			if _, err := user.Actor(); err != nil {
				config.Logger.Warn("JWT role not permitted",
					zap.String("role", user.Role),
					zap.String("path", path),
					zap.Error(err))
				return c.JSON(http.StatusForbidden, echo.Map{
					"error": "Token role is not permitted",
					"code":  "INVALID_ROLE",
				})
			}

			ctx := context.WithValue(c.Request().Context(), userContextKey, user)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set("user_id", user.UserID)

			config.Logger.Debug("User authenticated successfully",
				zap.String("user_id", user.UserID),
				zap.String("role", user.Role),
				zap.String("path", path))

			return next(c)
		}
	}
}

// RequireRole rejects users whose role is not listed.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := GetUserFromContext(c)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Authentication required",
					"code":  "AUTH_REQUIRED",
				})
			}
			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, echo.Map{
				"error": "Insufficient role",
				"code":  "FORBIDDEN",
			})
		}
	}
}

// GetUserFromContext extracts the authenticated user from the request context
func GetUserFromContext(c echo.Context) (*AuthUser, error) {
	user, ok := c.Request().Context().Value(userContextKey).(*AuthUser)
	if !ok || user == nil {
		return nil, fmt.Errorf("no authenticated user found in context")
	}
	return user, nil
}

// WithUser stores user in ctx the way JWTMiddleware does.
func WithUser(ctx context.Context, user *AuthUser) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
