// Package auth implements the admin session gate: a password login that
// sets a time-limited HTTP-only cookie whose presence authorizes every
// admin mutation.
package auth

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/portfolio-site/portfolio-backend/config"
)

// CookieName is the session marker checked by every admin operation.
const CookieName = "admin_token"

const cookieValue = "authorized"

// Session validates the admin credential and manages the session cookie.
type Session struct {
	password []byte
	maxAge   int
	secure   bool
	limiter  *rate.Limiter
}

func NewSession(cfg config.AdminConfig, production bool) *Session {
	return &Session{
		password: []byte(cfg.Password),
		maxAge:   cfg.SessionMaxAge,
		secure:   production,
		limiter:  rate.NewLimiter(rate.Every(time.Second), cfg.LoginRateBurst),
	}
}

// Allow throttles login attempts.
func (s *Session) Allow() bool { return s.limiter.Allow() }

// Verify compares the submitted credential in constant time.
func (s *Session) Verify(password string) bool {
	return subtle.ConstantTimeCompare([]byte(password), s.password) == 1
}

// Grant sets the session cookie on the response.
func (s *Session) Grant(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, cookieValue, s.maxAge, "/", "", s.secure, true)
}

// Revoke clears the session cookie.
func (s *Session) Revoke(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", s.secure, true)
}

// IsAuthorized reports whether the request carries the session marker.
func IsAuthorized(c *gin.Context) bool {
	cookie, err := c.Cookie(CookieName)
	return err == nil && cookie != ""
}

// RequireAdmin rejects unauthenticated requests before any handler I/O.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAuthorized(c) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}
