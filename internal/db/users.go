package db

import (
	"context"
	"time"

	"github.com/streamtube/backend/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the unique indexes the account invariants rely on.
// userName is stored lowercased, so the plain unique index is effectively
// case-insensitive.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userName", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := m.users.Indexes().CreateMany(ctx, indexes)
	return err
}

func (m *Mongo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	if _, err := m.users.InsertOne(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (m *Mongo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}

	var user model.User
	if err := m.users.FindOne(ctx, bson.M{"_id": objectID}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByIdentifier looks a user up by userName or email in one query.
func (m *Mongo) GetUserByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"userName": identifier},
		bson.M{"email": identifier},
	}}

	var user model.User
	if err := m.users.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUserNameOrEmail matches either identity field, used by the
// registration duplicate check.
func (m *Mongo) GetUserByUserNameOrEmail(ctx context.Context, userName, email string) (*model.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"userName": userName},
		bson.M{"email": email},
	}}

	var user model.User
	if err := m.users.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateFields applies a partial $set update and returns the updated document.
func (m *Mongo) UpdateFields(ctx context.Context, id string, fields bson.M) (*model.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}

	set := bson.M{"updatedAt": time.Now()}
	for key, value := range fields {
		set[key] = value
	}

	result := m.users.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var updated model.User
	if err := result.Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (m *Mongo) SetRefreshTokenHash(ctx context.Context, id, hash string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	_, err = m.users.UpdateByID(ctx, objectID, bson.M{"$set": bson.M{
		"refreshTokenHash": hash,
		"updatedAt":        time.Now(),
	}})
	return err
}

func (m *Mongo) ClearRefreshToken(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	_, err = m.users.UpdateByID(ctx, objectID, bson.M{
		"$unset": bson.M{"refreshTokenHash": ""},
		"$set":   bson.M{"updatedAt": time.Now()},
	})
	return err
}
