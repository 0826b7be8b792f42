package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// userIDContextKey is where requireLogin stores the authenticated user id.
const userIDContextKey = "userID"

// requireLogin converts the auth gate's decision into either a stored user
// id or a redirect to the login page carrying the original path. The gate
// itself never writes a response; this middleware is the single place where
// "unauthorized" becomes a 302.
func (s *Server) requireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		access := s.gate.RequireUserID(c.Request, "")
		if !access.Authorized() {
			c.Redirect(http.StatusFound, access.RedirectTo)
			c.Abort()
			return
		}

		c.Set(userIDContextKey, access.UserID)
		c.Next()
	}
}

// GetUserID returns the authenticated user id stored by requireLogin.
func GetUserID(c *gin.Context) (string, bool) {
	id, exists := c.Get(userIDContextKey)
	if !exists {
		return "", false
	}
	userID, ok := id.(string)
	return userID, ok && userID != ""
}

// forceLogout destroys the session and sends the client back to login. Used
// when a session resolves to a user that no longer exists.
func (s *Server) forceLogout(c *gin.Context) {
	cookie, target := s.gate.Logout()
	http.SetCookie(c.Writer, cookie)
	c.Redirect(http.StatusFound, target)
	c.Abort()
}

// fieldErrors flattens validator errors into a field -> message map for
// template rendering. Non-validation errors produce a single generic entry.
func fieldErrors(err error) map[string]string {
	result := make(map[string]string)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		result["form"] = "That's not valid input"
		return result
	}

	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			result[fe.Field()] = "This field is required"
		case "min":
			result[fe.Field()] = "That's too short"
		case "oneof":
			result[fe.Field()] = "Unknown value"
		case "slugfield":
			result[fe.Field()] = "Only letters, digits, hyphens, and underscores are allowed"
		default:
			result[fe.Field()] = "That's not valid"
		}
	}
	return result
}

// safeRedirect keeps redirect targets local to this site. Anything that is
// not a simple absolute path falls back to the default.
func safeRedirect(target, fallback string) string {
	if len(target) == 0 || target[0] != '/' {
		return fallback
	}
	if len(target) > 1 && (target[1] == '/' || target[1] == '\\') {
		return fallback
	}
	return target
}
