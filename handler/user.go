package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/malazinvestment/backend/model"
	"github.com/malazinvestment/backend/pkg/logger"
	"github.com/malazinvestment/backend/service"
)

// UserHandler serves the admin user endpoints
type UserHandler struct {
	users service.UserRepository
}

// NewUserHandler creates a user handler backed by users
func NewUserHandler(users service.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// Create stores a new admin account with a hashed password
func (h *UserHandler) Create(c *gin.Context) {
	var req model.UserCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		abortDetail(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	hash, ok := hashPassword(c, req.Password)
	if !ok {
		return
	}

	user := &model.User{
		Username: req.Username,
		Password: hash,
		Role:     req.Role,
	}
	id, err := h.users.Create(c.Request.Context(), user)
	if err != nil {
		internalError(c, err)
		return
	}
	user.ID = id

	logger.Info(c.Request.Context(), "user created", "user_id", id.Hex(), "user", user.Username)

	c.JSON(http.StatusOK, user.Response())
}

// List returns every account without passwords
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}

	result := make([]model.UserResponse, len(users))
	for i := range users {
		result[i] = users[i].Response()
	}

	c.JSON(http.StatusOK, result)
}

// Update applies a partial update, rehashing the password when present
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := objectID(c, "Invalid user ID format")
	if !ok {
		return
	}

	var req model.UserUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		abortDetail(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if req.Password != nil {
		hash, ok := hashPassword(c, *req.Password)
		if !ok {
			return
		}
		req.Password = &hash
	}

	fields := req.Fields()
	if len(fields) == 0 {
		abortDetail(c, http.StatusBadRequest, "No update data provided")
		return
	}

	user, err := h.users.Update(c.Request.Context(), id, fields)
	if err != nil {
		storeError(c, err, "User not found")
		return
	}

	logger.Info(c.Request.Context(), "user updated", "user_id", id.Hex(), "fields", len(fields))

	c.JSON(http.StatusOK, user.Response())
}

// Delete removes an account by identity
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := objectID(c, "Invalid user ID format")
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		storeError(c, err, "User not found")
		return
	}

	logger.Info(c.Request.Context(), "user deleted", "user_id", id.Hex())

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func hashPassword(c *gin.Context, password string) (string, bool) {
	hash, err := service.HashPassword(password)
	if errors.Is(err, service.ErrPasswordTooLong) {
		abortDetail(c, http.StatusBadRequest, "Password must be at most 72 bytes")
		return "", false
	}
	if err != nil {
		internalError(c, err)
		return "", false
	}
	return hash, true
}
