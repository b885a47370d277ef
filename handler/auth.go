package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/malazinvestment/backend/middleware"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// Me returns the operator the request authenticated as
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"username": middleware.GetUsername(c),
	})
}
