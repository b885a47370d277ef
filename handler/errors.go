package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/malazinvestment/backend/pkg/logger"
	"github.com/malazinvestment/backend/service"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// abortDetail writes the error body every endpoint uses: {"detail": msg}
func abortDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

// internalError reports a store or filesystem failure with its message
func internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	logger.Error(c.Request.Context(), "request failed", "error", err)
	abortDetail(c, http.StatusInternalServerError, "Internal server error: "+err.Error())
}

// storeError maps repository errors; notFound is the 404 detail.
func storeError(c *gin.Context, err error, notFound string) {
	if errors.Is(err, service.ErrNotFound) {
		abortDetail(c, http.StatusNotFound, notFound)
		return
	}
	internalError(c, err)
}

// objectID parses the :id path parameter, writing a 400 with detail when it
// is not a 24-hex identity.
func objectID(c *gin.Context, detail string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortDetail(c, http.StatusBadRequest, detail)
		return primitive.NilObjectID, false
	}
	return id, true
}
