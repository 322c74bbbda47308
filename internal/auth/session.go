package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/blogsite/internal/db"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	// SessionName is the cookie carrying the signed session.
	SessionName = "blog_session"

	sessionUserKey     = "user_id"
	currentUserContext = "__current_user"
)

// UserLoader resolves the user id stored in a session back to a full record.
type UserLoader interface {
	LoadUser(ctx context.Context, id uint) (*db.User, error)
}

// LoginUser moves the session to the authenticated state for user.
func LoginUser(c *gin.Context, user *db.User) error {
	session := sessions.Default(c)
	session.Set(sessionUserKey, user.ID)
	if err := session.Save(); err != nil {
		return err
	}
	c.Set(currentUserContext, user)
	return nil
}

// LogoutUser returns the session to the anonymous state.
func LogoutUser(c *gin.Context) error {
	session := sessions.Default(c)
	session.Delete(sessionUserKey)
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	c.Set(currentUserContext, nil)
	return session.Save()
}

// CurrentUser returns the user bound to this request, if any.
func CurrentUser(c *gin.Context) (*db.User, bool) {
	value, exists := c.Get(currentUserContext)
	if !exists {
		return nil, false
	}
	user, ok := value.(*db.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

// LoadIdentity resolves the session's user on every request. A user id that no
// longer resolves turns the session anonymous.
func LoadIdentity(loader UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		id, ok := sessionUserID(session.Get(sessionUserKey))
		if !ok {
			c.Next()
			return
		}

		user, err := loader.LoadUser(c.Request.Context(), id)
		switch {
		case err == nil:
			c.Set(currentUserContext, user)
		case errors.Is(err, db.ErrNotFound):
			session.Delete(sessionUserKey)
			if saveErr := session.Save(); saveErr != nil {
				slog.WarnContext(c.Request.Context(), "failed to reset stale session", slog.String("error", saveErr.Error()))
			}
		default:
			c.Error(err)
			slog.ErrorContext(c.Request.Context(), "failed to load session user", slog.Uint64("user_id", uint64(id)), slog.String("error", err.Error()))
		}

		c.Next()
	}
}

// sessionUserID accepts the integer shapes the cookie codec may hand back.
func sessionUserID(value any) (uint, bool) {
	switch v := value.(type) {
	case uint:
		return v, v > 0
	case uint64:
		return uint(v), v > 0
	case int:
		return uint(v), v > 0
	case int64:
		return uint(v), v > 0
	default:
		return 0, false
	}
}
