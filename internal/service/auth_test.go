package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/streamtube/backend/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeStore struct {
	users map[string]*model.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[string]*model.User)}
}

func duplicateKeyError() error {
	return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
}

func (f *fakeStore) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	for _, existing := range f.users {
		if existing.UserName == user.UserName || existing.Email == user.Email {
			return nil, duplicateKeyError()
		}
	}
	user.ID = primitive.NewObjectID()
	f.users[user.ID.Hex()] = user
	return user, nil
}

func (f *fakeStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeStore) GetUserByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	for _, user := range f.users {
		if user.UserName == identifier || user.Email == identifier {
			return user, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeStore) GetUserByUserNameOrEmail(ctx context.Context, userName, email string) (*model.User, error) {
	for _, user := range f.users {
		if user.UserName == userName || user.Email == email {
			return user, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeStore) UpdateFields(ctx context.Context, id string, fields bson.M) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	for key, value := range fields {
		str, _ := value.(string)
		switch key {
		case "passwordHash":
			user.PasswordHash = str
		case "fullName":
			user.FullName = str
		case "email":
			user.Email = str
		case "avatarUrl":
			user.AvatarURL = str
		case "coverImageUrl":
			user.CoverImageURL = str
		}
	}
	return user, nil
}

func (f *fakeStore) SetRefreshTokenHash(ctx context.Context, id, hash string) error {
	user, ok := f.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	user.RefreshTokenHash = hash
	return nil
}

func (f *fakeStore) ClearRefreshToken(ctx context.Context, id string) error {
	user, ok := f.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	user.RefreshTokenHash = ""
	return nil
}

type fakeUploader struct {
	failPaths map[string]bool
	calls     []string
}

func (f *fakeUploader) Upload(localPath string) (string, error) {
	f.calls = append(f.calls, localPath)
	if f.failPaths[localPath] {
		return "", errors.New("media host unavailable")
	}
	return "https://cdn.example.com/media/" + filepath.Base(localPath), nil
}

func newTestAuthService(t *testing.T) (*AuthService, *fakeStore, *fakeUploader) {
	t.Helper()
	store := newFakeStore()
	uploader := &fakeUploader{failPaths: make(map[string]bool)}
	tokens := newTestTokens(t, testAuthConfig())

	svc, err := NewAuthService(store, uploader, tokens, testAuthConfig())
	if err != nil {
		t.Fatalf("NewAuthService error: %v", err)
	}
	return svc, store, uploader
}

func registerInput() RegisterInput {
	return RegisterInput{
		FullName:       "Ada Lovelace",
		Email:          "ada@example.com",
		UserName:       "Ada",
		Password:       "secret1",
		AvatarPath:     "tmp/avatar.png",
		CoverImagePath: "tmp/cover.png",
	}
}

func TestRegisterRejectsBlankFields(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	mutations := []func(*RegisterInput){
		func(in *RegisterInput) { in.FullName = "   " },
		func(in *RegisterInput) { in.Email = "" },
		func(in *RegisterInput) { in.UserName = "\t" },
		func(in *RegisterInput) { in.Password = "" },
	}
	for i, mutate := range mutations {
		in := registerInput()
		mutate(&in)
		if _, err := svc.Register(ctx, in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestRegisterRequiresAvatarEvenWithCover(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	in := registerInput()
	in.AvatarPath = ""
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRegisterLowercasesUserName(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	user, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if user.UserName != "ada" {
		t.Fatalf("userName not lowercased: got %q", user.UserName)
	}
	if user.AvatarURL == "" {
		t.Fatalf("avatar URL missing")
	}
	if user.CoverImageURL == "" {
		t.Fatalf("cover image URL missing")
	}
}

func TestRegisterConflicts(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerInput()); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	sameName := registerInput()
	sameName.Email = "other@example.com"
	if _, err := svc.Register(ctx, sameName); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate userName, got %v", err)
	}

	// Case-insensitive: the stored name is lowercased.
	casedName := registerInput()
	casedName.UserName = "ADA"
	casedName.Email = "third@example.com"
	if _, err := svc.Register(ctx, casedName); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for case-variant userName, got %v", err)
	}

	sameEmail := registerInput()
	sameEmail.UserName = "grace"
	if _, err := svc.Register(ctx, sameEmail); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate email, got %v", err)
	}
}

func TestRegisterAvatarUploadFailure(t *testing.T) {
	svc, store, uploader := newTestAuthService(t)
	uploader.failPaths["tmp/avatar.png"] = true

	if _, err := svc.Register(context.Background(), registerInput()); !errors.Is(err, ErrUploadFailed) {
		t.Fatalf("expected ErrUploadFailed, got %v", err)
	}
	if len(store.users) != 0 {
		t.Fatalf("user created despite failed avatar upload")
	}
}

func TestRegisterCoverImageFailureIsNotTerminal(t *testing.T) {
	svc, _, uploader := newTestAuthService(t)
	uploader.failPaths["tmp/cover.png"] = true

	user, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if user.CoverImageURL != "" {
		t.Fatalf("expected empty cover URL after failed cover upload, got %q", user.CoverImageURL)
	}
}

func TestLoginFailures(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerInput()); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if _, _, err := svc.Login(ctx, "", "", "secret1"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without identifier, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody", "", "secret1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "ada", "", "wrong"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for wrong password, got %v", err)
	}
}

func TestLoginPersistsRefreshToken(t *testing.T) {
	svc, store, _ := newTestAuthService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, registerInput())
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	user, pair, err := svc.Login(ctx, "", "ada@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if user.ID != created.ID {
		t.Fatalf("login returned wrong user")
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("incomplete token pair: %+v", pair)
	}

	stored := store.users[created.ID.Hex()]
	if stored.RefreshTokenHash != hashRefreshToken(pair.RefreshToken) {
		t.Fatalf("stored refresh token does not match issued token")
	}
}

func TestRefreshRotatesAndDetectsReuse(t *testing.T) {
	svc, store, _ := newTestAuthService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, registerInput())
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	_, first, err := svc.Login(ctx, "ada", "", "secret1")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	second, err := svc.Refresh(ctx, first.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}

	stored := store.users[created.ID.Hex()]
	if stored.RefreshTokenHash != hashRefreshToken(second.RefreshToken) {
		t.Fatalf("rotation did not persist the new refresh token")
	}

	// The rotated-out token has a valid signature and expiry but must be
	// rejected as reused.
	if _, err := svc.Refresh(ctx, first.RefreshToken); !errors.Is(err, ErrTokenReused) {
		t.Fatalf("expected ErrTokenReused for rotated-out token, got %v", err)
	}

	// The current token still works.
	if _, err := svc.Refresh(ctx, second.RefreshToken); err != nil {
		t.Fatalf("Refresh with current token error: %v", err)
	}
}

func TestRefreshRejectsBadTokens(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Refresh(ctx, ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for missing token, got %v", err)
	}
	if _, err := svc.Refresh(ctx, "garbage"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for malformed token, got %v", err)
	}

	// Valid token for a user that does not exist.
	orphan, err := svc.Tokens().IssueRefreshToken(primitive.NewObjectID().Hex())
	if err != nil {
		t.Fatalf("IssueRefreshToken error: %v", err)
	}
	if _, err := svc.Refresh(ctx, orphan); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for unknown user, got %v", err)
	}
}

func TestLogoutRevokesRefresh(t *testing.T) {
	svc, store, _ := newTestAuthService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, registerInput())
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	_, pair, err := svc.Login(ctx, "ada", "", "secret1")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	if err := svc.Logout(ctx, created.ID.Hex()); err != nil {
		t.Fatalf("Logout error: %v", err)
	}
	if store.users[created.ID.Hex()].RefreshTokenHash != "" {
		t.Fatalf("logout did not clear the stored refresh token")
	}

	if _, err := svc.Refresh(ctx, pair.RefreshToken); !errors.Is(err, ErrTokenReused) {
		t.Fatalf("expected refresh to fail after logout, got %v", err)
	}

	// Idempotent.
	if err := svc.Logout(ctx, created.ID.Hex()); err != nil {
		t.Fatalf("second Logout error: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, store, _ := newTestAuthService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, registerInput())
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	originalHash := store.users[created.ID.Hex()].PasswordHash

	if err := svc.ChangePassword(ctx, created.ID.Hex(), "wrong", "newsecret"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for wrong old password, got %v", err)
	}
	if store.users[created.ID.Hex()].PasswordHash != originalHash {
		t.Fatalf("hash changed despite rejected password change")
	}

	if err := svc.ChangePassword(ctx, created.ID.Hex(), "secret1", "newsecret"); err != nil {
		t.Fatalf("ChangePassword error: %v", err)
	}

	if _, _, err := svc.Login(ctx, "ada", "", "secret1"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("old password still accepted after change: %v", err)
	}
	if _, _, err := svc.Login(ctx, "ada", "", "newsecret"); err != nil {
		t.Fatalf("login with new password error: %v", err)
	}
}

func TestChangePasswordValidation(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	if err := svc.ChangePassword(context.Background(), primitive.NewObjectID().Hex(), "", "new"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAuthServiceCookieConfigValidation(t *testing.T) {
	store := newFakeStore()
	uploader := &fakeUploader{failPaths: make(map[string]bool)}
	tokens := newTestTokens(t, testAuthConfig())

	cfg := testAuthConfig()
	cfg.CookieSameSite = "none"
	cfg.CookieSecure = "false"
	if _, err := NewAuthService(store, uploader, tokens, cfg); !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("expected ErrMisconfigured for SameSite=None without Secure, got %v", err)
	}

	cfg = testAuthConfig()
	cfg.CookieSecure = "maybe"
	if _, err := NewAuthService(store, uploader, tokens, cfg); !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("expected ErrMisconfigured for bad AUTH_COOKIE_SECURE, got %v", err)
	}
}
