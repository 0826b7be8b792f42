package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jokehub-dev/jokehub/internal/auth"
)

// defaultRedirect is where a fresh login lands when no return path was
// requested.
const defaultRedirect = "/jokes"

// LoginForm is the combined login/register form. The loginType field picks
// the action, matching a single form with two submit modes.
type LoginForm struct {
	LoginType  string `form:"loginType" binding:"required,oneof=login register"`
	Username   string `form:"username" binding:"required,min=3"`
	Password   string `form:"password" binding:"required,min=6"`
	RedirectTo string `form:"redirectTo"`
}

func (s *Server) home(c *gin.Context) {
	user, lookup := s.gate.CurrentUser(c.Request)
	if lookup == auth.LookupStale {
		s.forceLogout(c)
		return
	}

	c.HTML(http.StatusOK, "home", gin.H{
		"User": user,
	})
}

func (s *Server) loginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login", gin.H{
		"LoginType":  "login",
		"Username":   "",
		"RedirectTo": safeRedirect(c.Query("redirectTo"), defaultRedirect),
	})
}

func (s *Server) loginSubmit(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "login", gin.H{
			"Errors":     fieldErrors(err),
			"Username":   c.PostForm("username"),
			"LoginType":  c.PostForm("loginType"),
			"RedirectTo": safeRedirect(c.PostForm("redirectTo"), defaultRedirect),
		})
		return
	}

	redirectTo := safeRedirect(form.RedirectTo, defaultRedirect)

	var userID string
	switch form.LoginType {
	case "login":
		user, err := s.auth.Login(c.Request.Context(), form.Username, form.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				c.HTML(http.StatusBadRequest, "login", gin.H{
					"FormError":  "Username/Password combination is incorrect",
					"Username":   form.Username,
					"LoginType":  form.LoginType,
					"RedirectTo": redirectTo,
				})
				return
			}
			s.logger.Error().Err(err).Msg("Login failed")
			c.HTML(http.StatusInternalServerError, "login", gin.H{
				"FormError":  "Something went wrong, please try again",
				"Username":   form.Username,
				"LoginType":  form.LoginType,
				"RedirectTo": redirectTo,
			})
			return
		}
		userID = user.ID

	case "register":
		user, err := s.auth.Register(c.Request.Context(), form.Username, form.Password)
		if err != nil {
			if errors.Is(err, auth.ErrDuplicateUsername) {
				c.HTML(http.StatusBadRequest, "login", gin.H{
					"FormError":  "User with username " + form.Username + " already exists",
					"Username":   form.Username,
					"LoginType":  form.LoginType,
					"RedirectTo": redirectTo,
				})
				return
			}
			s.logger.Error().Err(err).Msg("Registration failed")
			c.HTML(http.StatusInternalServerError, "login", gin.H{
				"FormError":  "Something went wrong, please try again",
				"Username":   form.Username,
				"LoginType":  form.LoginType,
				"RedirectTo": redirectTo,
			})
			return
		}
		userID = user.ID
	}

	cookie, target, err := s.auth.CreateUserSession(userID, redirectTo)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create session")
		c.HTML(http.StatusInternalServerError, "login", gin.H{
			"FormError":  "Something went wrong, please try again",
			"Username":   form.Username,
			"LoginType":  form.LoginType,
			"RedirectTo": redirectTo,
		})
		return
	}

	http.SetCookie(c.Writer, cookie)
	c.Redirect(http.StatusFound, target)
}

func (s *Server) logout(c *gin.Context) {
	cookie, target := s.gate.Logout()
	http.SetCookie(c.Writer, cookie)
	c.Redirect(http.StatusFound, target)
}
