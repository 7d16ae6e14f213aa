package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/streamtube/backend/internal/config"
	"github.com/streamtube/backend/internal/db"
	"github.com/streamtube/backend/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrUploadFailed  = errors.New("upload failed")
	ErrTokenReused   = errors.New("refresh token expired or used")
	ErrMisconfigured = errors.New("auth config invalid")
)

type CookieConfig struct {
	Path          string
	Domain        string
	Secure        bool
	SameSite      http.SameSite
	AccessMaxAge  int
	RefreshMaxAge int
}

type RegisterInput struct {
	FullName       string
	Email          string
	UserName       string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

// AuthService implements the session lifecycle: register, login, refresh
// with rotation and reuse detection, logout, password change.
type AuthService struct {
	store     UserStore
	media     MediaUploader
	tokens    *TokenService
	cookieCfg CookieConfig
}

func NewAuthService(store UserStore, media MediaUploader, tokens *TokenService, cfg config.AuthConfig) (*AuthService, error) {
	cookieSecure, err := parseBool(cfg.CookieSecure, true)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid AUTH_COOKIE_SECURE", ErrMisconfigured)
	}

	cookieSameSite, err := parseSameSite(cfg.CookieSameSite)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid AUTH_COOKIE_SAMESITE", ErrMisconfigured)
	}

	if cookieSameSite == http.SameSiteNoneMode && !cookieSecure {
		return nil, fmt.Errorf("%w: SameSite=None requires Secure cookie", ErrMisconfigured)
	}

	cookiePath := cfg.CookiePath
	if strings.TrimSpace(cookiePath) == "" {
		cookiePath = "/"
	}

	return &AuthService{
		store:  store,
		media:  media,
		tokens: tokens,
		cookieCfg: CookieConfig{
			Path:          cookiePath,
			Domain:        cfg.CookieDomain,
			Secure:        cookieSecure,
			SameSite:      cookieSameSite,
			AccessMaxAge:  int(tokens.AccessTTL().Seconds()),
			RefreshMaxAge: int(tokens.RefreshTTL().Seconds()),
		},
	}, nil
}

func (s *AuthService) CookieConfig() CookieConfig {
	return s.cookieCfg
}

func (s *AuthService) Tokens() *TokenService {
	return s.tokens
}

// Register creates the account. The avatar is mandatory; the cover image is
// optional and its upload failure is not terminal.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	for _, field := range []string{in.FullName, in.Email, in.UserName, in.Password} {
		if strings.TrimSpace(field) == "" {
			return nil, ErrInvalidInput
		}
	}
	if in.AvatarPath == "" {
		return nil, ErrInvalidInput
	}

	userName := strings.ToLower(strings.TrimSpace(in.UserName))
	email := strings.TrimSpace(in.Email)

	_, err := s.store.GetUserByUserNameOrEmail(ctx, userName, email)
	if err == nil {
		return nil, ErrConflict
	}
	if !db.IsNoDocs(err) {
		return nil, err
	}

	avatarURL, err := s.media.Upload(in.AvatarPath)
	if err != nil {
		return nil, fmt.Errorf("%w: avatar: %v", ErrUploadFailed, err)
	}

	coverImageURL := ""
	if in.CoverImagePath != "" {
		coverImageURL, err = s.media.Upload(in.CoverImagePath)
		if err != nil {
			// Cover image is optional; the account is still created.
			coverImageURL = ""
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.store.CreateUser(ctx, &model.User{
		UserName:      userName,
		Email:         email,
		FullName:      strings.TrimSpace(in.FullName),
		PasswordHash:  string(hash),
		AvatarURL:     avatarURL,
		CoverImageURL: coverImageURL,
	})
	if err != nil {
		if db.IsDuplicateKey(err) {
			return nil, ErrConflict
		}
		return nil, err
	}

	return user, nil
}

// Login authenticates by userName or email and issues a fresh token pair.
// The new refresh token replaces whatever the store held before.
func (s *AuthService) Login(ctx context.Context, userName, email, password string) (*model.User, *model.TokenPair, error) {
	identifier := strings.ToLower(strings.TrimSpace(userName))
	if identifier == "" {
		identifier = strings.TrimSpace(email)
	}
	if identifier == "" {
		return nil, nil, ErrInvalidInput
	}

	user, err := s.store.GetUserByIdentifier(ctx, identifier)
	if err != nil {
		if db.IsNoDocs(err) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrUnauthorized
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// Logout revokes all refresh capability for the user. Idempotent.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.store.ClearRefreshToken(ctx, userID)
}

// Refresh validates the presented refresh token, rejects anything that is
// not the user's current token (reuse of a rotated-out token), and rotates
// the pair. The new refresh token is persisted before the pair is returned.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, ErrUnauthorized
	}

	userID, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoDocs(err) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	if user.RefreshTokenHash == "" || user.RefreshTokenHash != hashRefreshToken(refreshToken) {
		return nil, ErrTokenReused
	}

	return s.issueTokens(ctx, user)
}

// ChangePassword replaces the stored hash after verifying the old password.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if strings.TrimSpace(oldPassword) == "" || strings.TrimSpace(newPassword) == "" {
		return ErrInvalidInput
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoDocs(err) {
			return ErrUnauthorized
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrUnauthorized
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = s.store.UpdateFields(ctx, userID, bson.M{"passwordHash": string(hash)})
	return err
}

func (s *AuthService) issueTokens(ctx context.Context, user *model.User) (*model.TokenPair, error) {
	accessToken, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	refreshToken, err := s.tokens.IssueRefreshToken(user.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	if err := s.store.SetRefreshTokenHash(ctx, user.ID.Hex(), hashRefreshToken(refreshToken)); err != nil {
		return nil, err
	}

	return &model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// hashRefreshToken is the at-rest form of the current refresh token. The
// store never holds a usable token; equality of hashes is equality of
// tokens for reuse detection.
func hashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func parseBool(value string, fallback bool) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, err
	}
	return parsed, nil
}

func parseSameSite(value string) (http.SameSite, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	switch value {
	case "", "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, ErrInvalidInput
	}
}
