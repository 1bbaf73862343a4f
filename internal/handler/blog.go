package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oakwellhq/webstarter/internal/model"
)

// BlogHandler exposes CRUD over blog posts. Mutations require an
// authenticated session; the author is always the session user.
type BlogHandler struct {
	Posts BlogStore
}

func NewBlogHandler(posts BlogStore) *BlogHandler {
	return &BlogHandler{Posts: posts}
}

// GetPosts lists every post, newest first.
func (h *BlogHandler) GetPosts(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	posts, err := h.Posts.All(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

// GetPost returns one post by id.
func (h *BlogHandler) GetPost(c echo.Context) error {
	id, err := paramObjectID(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	post, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// PostCreate creates a post authored by the session user.
func (h *BlogHandler) PostCreate(c echo.Context) error {
	author, err := currentObjectID(c)
	if err != nil {
		return err
	}
	var req model.BlogPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := model.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	post := model.BlogPost{
		Title:   req.Title,
		Content: req.Content,
		Author:  author,
	}
	if err := h.Posts.Create(ctx, &post); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// PutUpdate replaces a post's title and content.
func (h *BlogHandler) PutUpdate(c echo.Context) error {
	id, err := paramObjectID(c)
	if err != nil {
		return err
	}
	var req model.BlogPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := model.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	post, err := h.Posts.Update(ctx, id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// Delete removes a post.
func (h *BlogHandler) Delete(c echo.Context) error {
	id, err := paramObjectID(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Posts.Delete(ctx, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

func paramObjectID(c echo.Context) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
