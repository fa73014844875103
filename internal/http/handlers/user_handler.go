// User HTTP handlers.
//
// This file exposes REST endpoints for user resources:
//   - GET    /users/          (list)
//   - GET    /users/{id}      (fetch)
//   - POST   /users/          (upsert by email/sms)
//   - DELETE /users/{id}      (hard delete)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/go-users-api/internal/domain"
	"github.com/tbourn/go-users-api/internal/services"
	"github.com/tbourn/go-users-api/internal/utils"
)

//
// Service contracts (context-aware)
//

// UserService defines user lifecycle operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type UserService interface {
	// List returns users in database-default order; limit <= 0 returns all.
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
	// Get fetches one user by id.
	Get(ctx context.Context, id string) (*domain.User, error)
	// CreateOrUpdate upserts a user, matching by email first, then sms.
	CreateOrUpdate(ctx context.Context, email, sms *string) (*domain.User, error)
	// Delete removes a user by id.
	Delete(ctx context.Context, id string) error
}

//
// DTOs
//

// CreateUsersRequest is the JSON payload for the user upsert endpoint.
// Both keys are optional individually, but at least one must be present.
type CreateUsersRequest struct {
	Email *string `json:"email" example:"newuser@example.com"`
	SMS   *string `json:"sms"   example:"1234567890"`
}

// UsersResponse wraps one or more users. Single-user fetches reuse the same
// shape with a one-element list.
type UsersResponse struct {
	Users []domain.User `json:"users"`
}

// DeleteUserResponse acknowledges a hard delete.
type DeleteUserResponse struct {
	Status string `json:"status" example:"Successfully deleted user: 141add05-4415-4938-b5a1-17e0d3171aff"`
}

//
// Helpers
//

// listBounds parses the optional limit/offset query parameters.
// limit defaults to 0 (unbounded) and is capped to keep responses sane.
func listBounds(c *gin.Context) (limit, offset int) {
	const maxLimit = 500
	limit = utils.AtoiDefault(c.Query("limit"), 0)
	if limit < 0 {
		limit = 0
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset = utils.AtoiDefault(c.Query("offset"), 0)
	if offset < 0 {
		offset = 0
	}
	return
}

// pathUUID validates that the named path parameter is a syntactically valid
// UUID, failing the request with INVALID_PARAMS otherwise.
func pathUUID(c *gin.Context, name string) (string, bool) {
	id := c.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, CodeInvalidParams, "Validation error.",
			FieldError{Name: name, Message: "Value is not a valid uuid."})
		return "", false
	}
	return id, true
}

//
// Handlers
//

// GetUsers godoc
// @ID          listUsers
// @Summary     List users
// @Description Returns all users, optionally bounded by limit/offset.
// @Tags        Users
// @Produce     json
// @Param       limit   query  int  false "Maximum rows returned"  minimum(0)
// @Param       offset  query  int  false "Rows skipped"           minimum(0)
// @Success     200  {object}  handlers.UsersResponse
// @Failure     500  {object}  handlers.Envelope "Internal error"
// @Router      /users/ [get]
func (h *Handlers) GetUsers(c *gin.Context) {
	limit, offset := listBounds(c)
	users, err := h.userSvc.List(c.Request.Context(), limit, offset)
	if err != nil {
		failUnknown(c, err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	ok(c, http.StatusOK, UsersResponse{Users: users})
}

// GetUser godoc
// @ID          getUser
// @Summary     Fetch a user
// @Tags        Users
// @Produce     json
// @Param       id  path  string  true "User ID (UUID)" format(uuid)
// @Success     200  {object}  handlers.UsersResponse
// @Failure     400  {object}  handlers.Envelope "Invalid id"
// @Failure     404  {object}  handlers.Envelope "User not found"
// @Router      /users/{id} [get]
func (h *Handlers) GetUser(c *gin.Context) {
	id, valid := pathUUID(c, "user_id")
	if !valid {
		return
	}
	user, err := h.userSvc.Get(c.Request.Context(), id)
	if errors.Is(err, services.ErrUserNotFound) {
		fail(c, http.StatusNotFound, CodeItemNotFound, "Item not found.")
		return
	}
	if err != nil {
		failUnknown(c, err)
		return
	}
	ok(c, http.StatusOK, UsersResponse{Users: []domain.User{*user}})
}

// PostUser godoc
// @ID          upsertUser
// @Summary     Create or update a user
// @Description Upserts by natural key: the email match wins, sms is the fallback.
// @Tags        Users
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.CreateUsersRequest  true "Upsert payload"
// @Success     200  {object}  handlers.UsersResponse
// @Failure     400  {object}  handlers.Envelope "Validation error"
// @Router      /users/ [post]
func (h *Handlers) PostUser(c *gin.Context) {
	var req CreateUsersRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userSvc.CreateOrUpdate(c.Request.Context(), req.Email, req.SMS)
	if errors.Is(err, services.ErrNoMatchKey) {
		fail(c, http.StatusBadRequest, CodeInvalidParams, "At least one of email or sms is required.")
		return
	}
	if err != nil {
		failUnknown(c, err)
		return
	}
	ok(c, http.StatusOK, UsersResponse{Users: []domain.User{*user}})
}

// DeleteUser godoc
// @ID          deleteUser
// @Summary     Delete a user
// @Tags        Users
// @Produce     json
// @Param       id  path  string  true "User ID (UUID)" format(uuid)
// @Success     200  {object}  handlers.DeleteUserResponse
// @Failure     404  {object}  handlers.Envelope "User not found"
// @Router      /users/{id} [delete]
func (h *Handlers) DeleteUser(c *gin.Context) {
	id, valid := pathUUID(c, "user_id")
	if !valid {
		return
	}
	err := h.userSvc.Delete(c.Request.Context(), id)
	if errors.Is(err, services.ErrUserNotFound) {
		fail(c, http.StatusNotFound, CodeItemNotFound, "Item not found.")
		return
	}
	if err != nil {
		failUnknown(c, err)
		return
	}
	ok(c, http.StatusOK, DeleteUserResponse{Status: fmt.Sprintf("Successfully deleted user: %s", id)})
}
