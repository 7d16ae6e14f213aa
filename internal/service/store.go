package service

import (
	"context"

	"github.com/streamtube/backend/internal/model"
	"go.mongodb.org/mongo-driver/bson"
)

// UserStore is the credential-store surface the services depend on,
// implemented by *db.Mongo.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByIdentifier(ctx context.Context, identifier string) (*model.User, error)
	GetUserByUserNameOrEmail(ctx context.Context, userName, email string) (*model.User, error)
	UpdateFields(ctx context.Context, id string, fields bson.M) (*model.User, error)
	SetRefreshTokenHash(ctx context.Context, id, hash string) error
	ClearRefreshToken(ctx context.Context, id string) error
}

// MediaUploader publishes a locally staged file and returns its public URL.
// Implementations remove the local file after the attempt.
type MediaUploader interface {
	Upload(localPath string) (string, error)
}
