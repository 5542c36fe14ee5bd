package auth

import (
	"net/http"
	"strings"

	"sharpcut/cmd/internal/domain/entity"
	"sharpcut/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

const userContextKey = "auth.user"

type UserLoader interface {
	FindByID(id int) (*entity.User, error)
}

// Protect authenticates the request: it extracts the bearer credential,
// verifies it, and loads the matching user into the request context.
// Missing, invalid and orphaned tokens all produce the same 401 body; the
// distinction only reaches the server log.
func Protect(codec *TokenCodec, users UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get("Authorization"))
			if !ok {
				log.Warnf("auth rejected (%s %s): no bearer token", c.Request().Method, c.Path())
				return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
			}

			userID, err := codec.Verify(token)
			if err != nil {
				log.Warnf("auth rejected (%s %s): %v", c.Request().Method, c.Path(), err)
				return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
			}

			user, err := users.FindByID(userID)
			if err != nil {
				log.Errorf("failed to load user %d during auth: %v", userID, err)
				return c.JSON(http.StatusInternalServerError, apierror.InternalServerError)
			}

			if user == nil {
				log.Warnf("auth rejected (%s %s): token subject %d no longer exists", c.Request().Method, c.Path(), userID)
				return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
			}

			WithUser(c, user)
			return next(c)
		}
	}
}

// WithUser attaches an authenticated user to the echo context.
func WithUser(c echo.Context, user *entity.User) {
	c.Set(userContextKey, user)
}

// UserFrom returns the authenticated user attached by Protect.
func UserFrom(c echo.Context) (*entity.User, bool) {
	user, ok := c.Get(userContextKey).(*entity.User)
	return user, ok && user != nil
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token, token != ""
}
