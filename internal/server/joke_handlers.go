package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jokehub-dev/jokehub/internal/auth"
	"github.com/jokehub-dev/jokehub/internal/models"
)

// JokeForm carries the new-joke submission. Length rules match the form's
// inline hints: names of at least 3 characters, content of at least 10.
type JokeForm struct {
	Name    string `form:"name" binding:"required,min=3"`
	Content string `form:"content" binding:"required,min=10"`
}

func (s *Server) listJokes(c *gin.Context) {
	user, lookup := s.gate.CurrentUser(c.Request)
	if lookup == auth.LookupStale {
		s.forceLogout(c)
		return
	}

	var jokes []models.Joke
	if err := s.db.Order("created_at DESC").Limit(5).Find(&jokes).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list jokes")
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}

	c.HTML(http.StatusOK, "jokes_index", gin.H{
		"Jokes": jokes,
		"User":  user,
	})
}

func (s *Server) randomJoke(c *gin.Context) {
	var joke models.Joke
	if err := s.db.Order("RANDOM()").First(&joke).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.Redirect(http.StatusFound, "/jokes")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to pick random joke")
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}
	c.Redirect(http.StatusFound, "/jokes/"+joke.ID)
}

func (s *Server) showJoke(c *gin.Context) {
	jokeID := c.Param("id")

	var joke models.Joke
	if err := models.FindByID(s.db, jokeID, &joke); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.String(http.StatusNotFound, "What a joke! Not found.")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find joke")
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}

	// The delete button only shows for the joke's owner; the POST handler
	// re-checks ownership regardless.
	c.HTML(http.StatusOK, "joke", gin.H{
		"Joke":    joke,
		"IsOwner": s.gate.CurrentUserID(c.Request) == joke.JokesterID,
	})
}

func (s *Server) newJokePage(c *gin.Context) {
	c.HTML(http.StatusOK, "joke_new", gin.H{})
}

func (s *Server) createJoke(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	var form JokeForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "joke_new", gin.H{
			"Errors":  fieldErrors(err),
			"Name":    c.PostForm("name"),
			"Content": c.PostForm("content"),
		})
		return
	}

	joke := &models.Joke{
		Name:       form.Name,
		Content:    form.Content,
		JokesterID: userID,
	}
	if err := s.db.Create(joke).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create joke")
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}

	s.logger.Info().Str("joke_id", joke.ID).Str("user_id", userID).Msg("Joke created")
	c.Redirect(http.StatusFound, "/jokes/"+joke.ID)
}

func (s *Server) deleteJoke(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	jokeID := c.Param("id")

	var joke models.Joke
	if err := models.FindByID(s.db, jokeID, &joke); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.String(http.StatusNotFound, "What a joke! Not found.")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find joke")
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}

	if joke.JokesterID != userID {
		c.String(http.StatusForbidden, "That's not your joke")
		return
	}

	if err := s.db.Delete(&joke).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to delete joke")
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}

	s.logger.Info().Str("joke_id", jokeID).Str("user_id", userID).Msg("Joke deleted")
	c.Redirect(http.StatusFound, "/jokes")
}
