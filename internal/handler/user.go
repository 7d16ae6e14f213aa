package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/streamtube/backend/internal/model"
	"github.com/streamtube/backend/internal/service"
)

type UserHandler struct {
	svc     *service.UserService
	tempDir string
}

func NewUserHandler(svc *service.UserService, tempDir string) *UserHandler {
	return &UserHandler{svc: svc, tempDir: tempDir}
}

// CurrentUser godoc
// @Summary Get the authenticated user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.ApiResponse
// @Failure 401 {object} model.ApiError
// @Router /api/v1/users/current-user [post]
func (h *UserHandler) CurrentUser(c *gin.Context) {
	auth := GetAuthUser(c)
	if auth == nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	user, err := h.svc.CurrentUser(c.Request.Context(), auth.ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, user, "Current user fetched successfully")
}

// UpdateAccount godoc
// @Summary Update fullName and email
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.UpdateAccountRequest true "Account fields"
// @Success 200 {object} model.ApiResponse
// @Failure 400 {object} model.ApiError
// @Failure 401 {object} model.ApiError
// @Failure 409 {object} model.ApiError
// @Router /api/v1/users/update-user [post]
func (h *UserHandler) UpdateAccount(c *gin.Context) {
	auth := GetAuthUser(c)
	if auth == nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	var req model.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request")
		return
	}

	user, err := h.svc.UpdateAccount(c.Request.Context(), auth.ID, req.FullName, req.Email)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, user, "Account details updated successfully")
}

// UpdateAvatar godoc
// @Summary Replace the user's avatar
// @Tags users
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} model.ApiResponse
// @Failure 400 {object} model.ApiError
// @Failure 401 {object} model.ApiError
// @Router /api/v1/users/update-avatar [post]
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	h.updateImage(c, "avatar", func(c *gin.Context, userID, path string) (*model.User, error) {
		return h.svc.UpdateAvatar(c.Request.Context(), userID, path)
	}, "Avatar updated successfully")
}

// UpdateCoverImage godoc
// @Summary Replace the user's cover image
// @Tags users
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param coverImage formData file true "Cover image"
// @Success 200 {object} model.ApiResponse
// @Failure 400 {object} model.ApiError
// @Failure 401 {object} model.ApiError
// @Router /api/v1/users/update-cover-image [post]
func (h *UserHandler) UpdateCoverImage(c *gin.Context) {
	h.updateImage(c, "coverImage", func(c *gin.Context, userID, path string) (*model.User, error) {
		return h.svc.UpdateCoverImage(c.Request.Context(), userID, path)
	}, "Cover image updated successfully")
}

func (h *UserHandler) updateImage(c *gin.Context, field string, update func(*gin.Context, string, string) (*model.User, error), message string) {
	auth := GetAuthUser(c)
	if auth == nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	fileHeader, err := c.FormFile(field)
	if err != nil {
		respondError(c, http.StatusBadRequest, "File is required")
		return
	}

	path, err := saveTempFile(c, fileHeader, h.tempDir)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to store uploaded file")
		return
	}

	user, err := update(c, auth.ID, path)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, user, message)
}
