// Post HTTP handlers.
//
// This file exposes REST endpoints for post resources:
//   - GET    /posts/          (list, authors embedded)
//   - POST   /posts/          (create, validates user_id)
//   - GET    /posts/{id}      (fetch)
//   - PUT    /posts/{id}      (partial update, re-validates user_id)
//   - DELETE /posts/{id}      (hard delete of the post and its associations)
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-users-api/internal/domain"
	"github.com/tbourn/go-users-api/internal/services"
)

// PostService defines post lifecycle operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type PostService interface {
	// List returns posts with authors eager-loaded; limit <= 0 returns all.
	List(ctx context.Context, limit, offset int) ([]domain.Post, error)
	// Get fetches one post by id with its author eager-loaded.
	Get(ctx context.Context, id string) (*domain.Post, error)
	// Create validates the referenced user and writes post + association.
	Create(ctx context.Context, in services.CreatePostInput) (*domain.Post, error)
	// Update applies a partial update and re-validates the referenced user.
	Update(ctx context.Context, id string, in services.UpdatePostInput) (*domain.Post, error)
	// Delete removes a post and its association rows.
	Delete(ctx context.Context, id string) error
}

//
// DTOs
//

// CreatePostRequest is the JSON payload for post creation.
type CreatePostRequest struct {
	Title       *string `json:"title"       binding:"required" example:"My first post"`
	Description *string `json:"description" example:"A short summary"`
	Content     *string `json:"content"     example:"Full text"`
	UserID      string  `json:"user_id"     binding:"required,uuid" format:"uuid"`
}

// UpdatePostRequest is the JSON payload for a partial post update.
// Omitted title/content are left unchanged; user_id is always re-validated.
type UpdatePostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	UserID  string  `json:"user_id" binding:"required,uuid" format:"uuid"`
}

// PostView is the response shape for a single post with its author embedded.
type PostView struct {
	ID          string       `json:"id"`
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Content     *string      `json:"content"`
	CreatedAt   time.Time    `json:"created_at"`
	LastUpdated time.Time    `json:"last_updated"`
	User        *domain.User `json:"user"`
}

// PostsResponse wraps a list of posts.
type PostsResponse struct {
	Posts []PostView `json:"posts"`
}

// DeletePostResponse acknowledges a post deletion.
type DeletePostResponse struct {
	Status string `json:"status" example:"Post deleted successfully"`
	Code   int    `json:"code"   example:"204"`
}

// postView maps a domain post onto its response shape, embedding the first
// associated author (posts are single-author at the API surface).
func postView(p *domain.Post) PostView {
	v := PostView{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Content:     p.Content,
		CreatedAt:   p.CreatedAt,
		LastUpdated: p.LastUpdated,
	}
	if len(p.Users) > 0 {
		u := p.Users[0]
		v.User = &u
	}
	return v
}

//
// Handlers
//

// GetPosts godoc
// @ID          listPosts
// @Summary     List posts
// @Description Returns all posts with their authors eager-loaded.
// @Tags        Posts
// @Produce     json
// @Success     200  {object}  handlers.PostsResponse
// @Failure     500  {object}  handlers.Envelope "Internal error"
// @Router      /posts/ [get]
func (h *Handlers) GetPosts(c *gin.Context) {
	limit, offset := listBounds(c)
	posts, err := h.postSvc.List(c.Request.Context(), limit, offset)
	if err != nil {
		failUnknown(c, err)
		return
	}
	views := make([]PostView, 0, len(posts))
	for i := range posts {
		views = append(views, postView(&posts[i]))
	}
	ok(c, http.StatusOK, PostsResponse{Posts: views})
}

// CreatePost godoc
// @ID          createPost
// @Summary     Create a post
// @Description Creates a post linked to an existing user; a missing user_id fails with 400.
// @Tags        Posts
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.CreatePostRequest  true "Create payload"
// @Success     200  {object}  handlers.PostView
// @Failure     400  {object}  handlers.Envelope "Validation error / invalid user_id"
// @Router      /posts/ [post]
func (h *Handlers) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if !bindJSON(c, &req) {
		return
	}
	post, err := h.postSvc.Create(c.Request.Context(), services.CreatePostInput{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		UserID:      req.UserID,
	})
	if errors.Is(err, services.ErrInvalidUserID) {
		fail(c, http.StatusBadRequest, CodeInvalidParams, "Invalid user_id.")
		return
	}
	if err != nil {
		failUnknown(c, err)
		return
	}
	ok(c, http.StatusOK, postView(post))
}

// GetPost godoc
// @ID          getPost
// @Summary     Fetch a post
// @Tags        Posts
// @Produce     json
// @Param       id  path  string  true "Post ID (UUID)" format(uuid)
// @Success     200  {object}  handlers.PostView
// @Failure     404  {object}  handlers.Envelope "Post not found"
// @Router      /posts/{id} [get]
func (h *Handlers) GetPost(c *gin.Context) {
	id, valid := pathUUID(c, "post_id")
	if !valid {
		return
	}
	post, err := h.postSvc.Get(c.Request.Context(), id)
	if errors.Is(err, services.ErrPostNotFound) {
		fail(c, http.StatusNotFound, CodeItemNotFound, "Post not found.")
		return
	}
	if err != nil {
		failUnknown(c, err)
		return
	}
	ok(c, http.StatusOK, postView(post))
}

// UpdatePost godoc
// @ID          updatePost
// @Summary     Update a post
// @Tags        Posts
// @Accept      json
// @Produce     json
// @Param       id    path  string                       true "Post ID (UUID)" format(uuid)
// @Param       body  body  handlers.UpdatePostRequest   true "Update payload"
// @Success     200  {object}  handlers.PostView
// @Failure     400  {object}  handlers.Envelope "Validation error / invalid user_id"
// @Failure     404  {object}  handlers.Envelope "Post not found"
// @Router      /posts/{id} [put]
func (h *Handlers) UpdatePost(c *gin.Context) {
	id, valid := pathUUID(c, "post_id")
	if !valid {
		return
	}
	var req UpdatePostRequest
	if !bindJSON(c, &req) {
		return
	}
	post, err := h.postSvc.Update(c.Request.Context(), id, services.UpdatePostInput{
		Title:   req.Title,
		Content: req.Content,
		UserID:  req.UserID,
	})
	switch {
	case errors.Is(err, services.ErrPostNotFound):
		fail(c, http.StatusNotFound, CodeItemNotFound, "Post not found.")
		return
	case errors.Is(err, services.ErrInvalidUserID):
		fail(c, http.StatusBadRequest, CodeInvalidParams, "Invalid user_id.")
		return
	case err != nil:
		failUnknown(c, err)
		return
	}
	ok(c, http.StatusOK, postView(post))
}

// DeletePost godoc
// @ID          deletePost
// @Summary     Delete a post
// @Description Removes the post and its association rows; users are kept.
// @Tags        Posts
// @Produce     json
// @Param       id  path  string  true "Post ID (UUID)" format(uuid)
// @Success     200  {object}  handlers.DeletePostResponse
// @Failure     404  {object}  handlers.Envelope "Post not found"
// @Router      /posts/{id} [delete]
func (h *Handlers) DeletePost(c *gin.Context) {
	id, valid := pathUUID(c, "post_id")
	if !valid {
		return
	}
	err := h.postSvc.Delete(c.Request.Context(), id)
	if errors.Is(err, services.ErrPostNotFound) {
		fail(c, http.StatusNotFound, CodeItemNotFound, "Post not found.")
		return
	}
	if err != nil {
		failUnknown(c, err)
		return
	}
	ok(c, http.StatusOK, DeletePostResponse{Status: "Post deleted successfully", Code: http.StatusNoContent})
}
