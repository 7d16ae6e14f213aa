package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the account document. PasswordHash and RefreshTokenHash never
// leave the server: they are excluded from JSON serialization entirely.
type User struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserName         string             `bson:"userName" json:"userName"`
	Email            string             `bson:"email" json:"email"`
	FullName         string             `bson:"fullName" json:"fullName"`
	PasswordHash     string             `bson:"passwordHash" json:"-"`
	AvatarURL        string             `bson:"avatarUrl" json:"avatarUrl"`
	CoverImageURL    string             `bson:"coverImageUrl,omitempty" json:"coverImageUrl,omitempty"`
	RefreshTokenHash string             `bson:"refreshTokenHash,omitempty" json:"-"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// AuthUser is the identity extracted from a validated access token.
type AuthUser struct {
	ID       string
	UserName string
	Email    string
	FullName string
}
