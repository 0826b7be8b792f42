package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jokehub-dev/jokehub/internal/posts"
)

// PostForm carries blog post create/edit submissions. The slug becomes a
// filename, so it is restricted to filesystem-safe characters.
type PostForm struct {
	Title    string `form:"title" binding:"required"`
	Slug     string `form:"slug" binding:"required,slugfield"`
	Markdown string `form:"markdown" binding:"required"`
}

func (s *Server) listPosts(c *gin.Context) {
	all, err := s.posts.List()
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list posts")
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}
	c.HTML(http.StatusOK, "posts_index", gin.H{
		"Posts": all,
	})
}

func (s *Server) showPost(c *gin.Context) {
	post, err := s.posts.Get(c.Param("slug"))
	if err != nil {
		if errors.Is(err, posts.ErrNotFound) {
			c.String(http.StatusNotFound, "Post not found")
			return
		}
		s.logger.Error().Err(err).Str("slug", c.Param("slug")).Msg("Failed to load post")
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}
	c.HTML(http.StatusOK, "post", gin.H{
		"Post": post,
	})
}

func (s *Server) adminIndex(c *gin.Context) {
	all, err := s.posts.List()
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list posts")
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}
	c.HTML(http.StatusOK, "admin_index", gin.H{
		"Posts": all,
	})
}

func (s *Server) newPostPage(c *gin.Context) {
	c.HTML(http.StatusOK, "admin_form", gin.H{
		"Action": "/admin/new",
	})
}

func (s *Server) createPost(c *gin.Context) {
	var form PostForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "admin_form", gin.H{
			"Action":   "/admin/new",
			"Errors":   fieldErrors(err),
			"Title":    c.PostForm("title"),
			"Slug":     c.PostForm("slug"),
			"Markdown": c.PostForm("markdown"),
		})
		return
	}

	if _, err := s.posts.Create(posts.NewPost{
		Slug:     form.Slug,
		Title:    form.Title,
		Markdown: form.Markdown,
	}); err != nil {
		s.logger.Error().Err(err).Str("slug", form.Slug).Msg("Failed to create post")
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}

	c.Redirect(http.StatusFound, "/admin")
}

func (s *Server) editPostPage(c *gin.Context) {
	slug := c.Param("slug")
	post, err := s.posts.Get(slug)
	if err != nil {
		if errors.Is(err, posts.ErrNotFound) {
			c.String(http.StatusNotFound, "Post not found")
			return
		}
		s.logger.Error().Err(err).Str("slug", slug).Msg("Failed to load post")
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}

	c.HTML(http.StatusOK, "admin_form", gin.H{
		"Action":   "/admin/" + slug,
		"Title":    post.Title,
		"Slug":     post.Slug,
		"Markdown": post.Markdown,
	})
}

func (s *Server) updatePost(c *gin.Context) {
	slug := c.Param("slug")

	var form PostForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "admin_form", gin.H{
			"Action":   "/admin/" + slug,
			"Errors":   fieldErrors(err),
			"Title":    c.PostForm("title"),
			"Slug":     c.PostForm("slug"),
			"Markdown": c.PostForm("markdown"),
		})
		return
	}

	if _, err := s.posts.Update(slug, posts.NewPost{
		Slug:     form.Slug,
		Title:    form.Title,
		Markdown: form.Markdown,
	}); err != nil {
		if errors.Is(err, posts.ErrNotFound) {
			c.String(http.StatusNotFound, "Post not found")
			return
		}
		s.logger.Error().Err(err).Str("slug", slug).Msg("Failed to update post")
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}

	c.Redirect(http.StatusFound, "/admin")
}
