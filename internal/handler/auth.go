package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/streamtube/backend/internal/model"
	"github.com/streamtube/backend/internal/service"
)

const (
	accessCookieName  = "accessToken"
	refreshCookieName = "refreshToken"
)

type AuthHandler struct {
	svc     *service.AuthService
	tempDir string
}

func NewAuthHandler(svc *service.AuthService, tempDir string) *AuthHandler {
	return &AuthHandler{svc: svc, tempDir: tempDir}
}

// Register godoc
// @Summary Register a new user
// @Description Multipart form with account fields plus a required avatar file and an optional coverImage file.
// @Tags users
// @Accept mpfd
// @Produce json
// @Param fullName formData string true "Full name"
// @Param email formData string true "Email"
// @Param userName formData string true "Username (stored lowercased)"
// @Param password formData string true "Password"
// @Param avatar formData file true "Avatar image"
// @Param coverImage formData file false "Cover image"
// @Success 201 {object} model.ApiResponse
// @Failure 400 {object} model.ApiError
// @Failure 409 {object} model.ApiError
// @Failure 500 {object} model.ApiError
// @Router /api/v1/users/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request")
		return
	}

	avatarHeader, err := c.FormFile("avatar")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Avatar file is required")
		return
	}
	avatarPath, err := saveTempFile(c, avatarHeader, h.tempDir)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to store uploaded file")
		return
	}

	coverImagePath := ""
	if coverHeader, err := c.FormFile("coverImage"); err == nil {
		if coverImagePath, err = saveTempFile(c, coverHeader, h.tempDir); err != nil {
			coverImagePath = ""
		}
	}

	user, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
		FullName:       req.FullName,
		Email:          req.Email,
		UserName:       req.UserName,
		Password:       req.Password,
		AvatarPath:     avatarPath,
		CoverImagePath: coverImagePath,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	respond(c, http.StatusCreated, user, "User registered successfully")
}

// Login godoc
// @Summary Login with username or email
// @Tags users
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Identifier and password"
// @Success 200 {object} model.ApiResponse
// @Failure 400 {object} model.ApiError
// @Failure 401 {object} model.ApiError
// @Failure 404 {object} model.ApiError
// @Router /api/v1/users/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request")
		return
	}

	user, pair, err := h.svc.Login(c.Request.Context(), req.UserName, req.Email, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	h.setAuthCookies(c, pair)
	// Tokens go in the body too, for clients that cannot use cookies.
	respond(c, http.StatusOK, model.LoginData{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "User logged in successfully")
}

// Logout godoc
// @Summary Logout
// @Description Clears the stored refresh token and both auth cookies.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.ApiResponse
// @Failure 401 {object} model.ApiError
// @Router /api/v1/users/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	if err := h.svc.Logout(c.Request.Context(), user.ID); err != nil {
		writeServiceError(c, err)
		return
	}

	h.clearAuthCookies(c)
	respond(c, http.StatusOK, gin.H{}, "User logged out")
}

// Refresh godoc
// @Summary Rotate the access/refresh token pair
// @Description Reads the refresh token from the refreshToken cookie or the request body.
// @Tags users
// @Accept json
// @Produce json
// @Param request body model.RefreshRequest false "Refresh token (when cookies are unavailable)"
// @Success 200 {object} model.ApiResponse
// @Failure 401 {object} model.ApiError
// @Router /api/v1/users/refresh-token [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, _ := c.Cookie(refreshCookieName)
	if refreshToken == "" {
		var req model.RefreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}

	pair, err := h.svc.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	h.setAuthCookies(c, pair)
	respond(c, http.StatusOK, pair, "Access token refreshed")
}

// ChangePassword godoc
// @Summary Change the current user's password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.ChangePasswordRequest true "Old and new password"
// @Success 200 {object} model.ApiResponse
// @Failure 400 {object} model.ApiError
// @Failure 401 {object} model.ApiError
// @Router /api/v1/users/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request")
		return
	}

	if err := h.svc.ChangePassword(c.Request.Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		writeServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{}, "Password changed successfully")
}

func (h *AuthHandler) setAuthCookies(c *gin.Context, pair *model.TokenPair) {
	cfg := h.svc.CookieConfig()
	c.SetSameSite(cfg.SameSite)
	c.SetCookie(accessCookieName, pair.AccessToken, cfg.AccessMaxAge, cfg.Path, cfg.Domain, cfg.Secure, true)
	c.SetCookie(refreshCookieName, pair.RefreshToken, cfg.RefreshMaxAge, cfg.Path, cfg.Domain, cfg.Secure, true)
}

func (h *AuthHandler) clearAuthCookies(c *gin.Context) {
	cfg := h.svc.CookieConfig()
	c.SetSameSite(cfg.SameSite)
	c.SetCookie(accessCookieName, "", -1, cfg.Path, cfg.Domain, cfg.Secure, true)
	c.SetCookie(refreshCookieName, "", -1, cfg.Path, cfg.Domain, cfg.Secure, true)
}
