package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/streamtube/backend/internal/model"
	"github.com/streamtube/backend/internal/service"
)

func respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, model.ApiResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, model.ApiError{
		StatusCode: status,
		Message:    message,
		Success:    false,
	})
}

func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, "All required fields must be provided")
	case errors.Is(err, service.ErrUploadFailed):
		respondError(c, http.StatusBadRequest, "File upload failed")
	case errors.Is(err, service.ErrTokenReused):
		respondError(c, http.StatusUnauthorized, "Refresh token is expired or used")
	case errors.Is(err, service.ErrUnauthorized):
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrNotFound):
		respondError(c, http.StatusNotFound, "User does not exist")
	case errors.Is(err, service.ErrConflict):
		respondError(c, http.StatusConflict, "User with email or username already exists")
	default:
		respondError(c, http.StatusInternalServerError, "Something went wrong")
	}
}

// saveTempFile stages a multipart upload under tempDir with a collision-free
// name; the media client removes the file after its upload attempt.
func saveTempFile(c *gin.Context, fh *multipart.FileHeader, tempDir string) (string, error) {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	dst := filepath.Join(tempDir, name)
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return "", err
	}
	return dst, nil
}
