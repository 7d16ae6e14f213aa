package service

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestUserService(t *testing.T) (*UserService, *AuthService, *fakeStore, *fakeUploader) {
	t.Helper()
	auth, store, uploader := newTestAuthService(t)
	return NewUserService(store, uploader), auth, store, uploader
}

func TestCurrentUser(t *testing.T) {
	svc, auth, _, _ := newTestUserService(t)
	ctx := context.Background()

	created, err := auth.Register(ctx, registerInput())
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	user, err := svc.CurrentUser(ctx, created.ID.Hex())
	if err != nil {
		t.Fatalf("CurrentUser error: %v", err)
	}
	if user.UserName != "ada" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := svc.CurrentUser(ctx, primitive.NewObjectID().Hex()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateAccount(t *testing.T) {
	svc, auth, _, _ := newTestUserService(t)
	ctx := context.Background()

	created, err := auth.Register(ctx, registerInput())
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if _, err := svc.UpdateAccount(ctx, created.ID.Hex(), "", "new@example.com"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty fullName, got %v", err)
	}
	if _, err := svc.UpdateAccount(ctx, created.ID.Hex(), "Ada King", " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty email, got %v", err)
	}

	user, err := svc.UpdateAccount(ctx, created.ID.Hex(), "Ada King", "countess@example.com")
	if err != nil {
		t.Fatalf("UpdateAccount error: %v", err)
	}
	if user.FullName != "Ada King" || user.Email != "countess@example.com" {
		t.Fatalf("account not updated: %+v", user)
	}
}

func TestUpdateAvatar(t *testing.T) {
	svc, auth, _, uploader := newTestUserService(t)
	ctx := context.Background()

	created, err := auth.Register(ctx, registerInput())
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if _, err := svc.UpdateAvatar(ctx, created.ID.Hex(), ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing file, got %v", err)
	}

	uploader.failPaths["tmp/new-avatar.png"] = true
	if _, err := svc.UpdateAvatar(ctx, created.ID.Hex(), "tmp/new-avatar.png"); !errors.Is(err, ErrUploadFailed) {
		t.Fatalf("expected ErrUploadFailed, got %v", err)
	}

	user, err := svc.UpdateAvatar(ctx, created.ID.Hex(), "tmp/better-avatar.png")
	if err != nil {
		t.Fatalf("UpdateAvatar error: %v", err)
	}
	if user.AvatarURL != "https://cdn.example.com/media/better-avatar.png" {
		t.Fatalf("avatar URL not updated: %q", user.AvatarURL)
	}
}

func TestUpdateCoverImage(t *testing.T) {
	svc, auth, _, _ := newTestUserService(t)
	ctx := context.Background()

	created, err := auth.Register(ctx, registerInput())
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	user, err := svc.UpdateCoverImage(ctx, created.ID.Hex(), "tmp/new-cover.png")
	if err != nil {
		t.Fatalf("UpdateCoverImage error: %v", err)
	}
	if user.CoverImageURL != "https://cdn.example.com/media/new-cover.png" {
		t.Fatalf("cover URL not updated: %q", user.CoverImageURL)
	}
}
