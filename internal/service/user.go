package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/streamtube/backend/internal/db"
	"github.com/streamtube/backend/internal/model"
	"go.mongodb.org/mongo-driver/bson"
)

// UserService covers profile reads and updates for an authenticated user.
type UserService struct {
	store UserStore
	media MediaUploader
}

func NewUserService(store UserStore, media MediaUploader) *UserService {
	return &UserService{store: store, media: media}
}

func (s *UserService) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoDocs(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateAccount changes fullName and email. Both fields are required.
func (s *UserService) UpdateAccount(ctx context.Context, userID, fullName, email string) (*model.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)
	if fullName == "" || email == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.store.UpdateFields(ctx, userID, bson.M{
		"fullName": fullName,
		"email":    email,
	})
	if err != nil {
		if db.IsNoDocs(err) {
			return nil, ErrNotFound
		}
		if db.IsDuplicateKey(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateAvatar(ctx context.Context, userID, localPath string) (*model.User, error) {
	return s.updateImage(ctx, userID, localPath, "avatarUrl")
}

func (s *UserService) UpdateCoverImage(ctx context.Context, userID, localPath string) (*model.User, error) {
	return s.updateImage(ctx, userID, localPath, "coverImageUrl")
}

func (s *UserService) updateImage(ctx context.Context, userID, localPath, field string) (*model.User, error) {
	if localPath == "" {
		return nil, ErrInvalidInput
	}

	url, err := s.media.Upload(localPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	user, err := s.store.UpdateFields(ctx, userID, bson.M{field: url})
	if err != nil {
		if db.IsNoDocs(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
