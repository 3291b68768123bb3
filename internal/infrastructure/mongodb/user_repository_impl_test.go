package mongodb

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oksasatya/go-account-service/internal/domain/repository"
)

func TestMapError(t *testing.T) {
	assert.ErrorIs(t, mapError(mongo.ErrNoDocuments), repository.ErrNotFound)

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{
		Code:    11000,
		Message: "E11000 duplicate key error collection: accounts.users index: email_1 dup key",
	}}}
	err := mapError(dup)
	var de repository.DuplicateError
	assert.True(t, errors.As(err, &de))
	assert.Equal(t, "email", de.Field)

	dup = mongo.WriteException{WriteErrors: []mongo.WriteError{{
		Code:    11000,
		Message: `E11000 duplicate key error collection: accounts.users index: email_1 dup key: { email: "username@x.com" }`,
	}}}
	assert.ErrorAs(t, mapError(dup), &de)
	assert.Equal(t, "email", de.Field, "key values must not decide the field")

	dup = mongo.WriteException{WriteErrors: []mongo.WriteError{{
		Code:    11000,
		Message: `E11000 duplicate key error collection: accounts.users index: username_1 dup key: { username: "email" }`,
	}}}
	assert.ErrorAs(t, mapError(dup), &de)
	assert.Equal(t, "username", de.Field)

	other := errors.New("boom")
	assert.Equal(t, other, mapError(other))
}

func TestDocumentToEntity(t *testing.T) {
	oid := primitive.NewObjectID()
	now := time.Now().UTC()
	u := (&userDocument{
		ID: oid, Username: "alice", Email: "a@x.com", FullName: "Alice",
		Avatar: "http://a", CoverImage: "http://c", CreatedAt: now, UpdatedAt: now,
	}).toEntity()

	assert.Equal(t, oid.Hex(), u.ID)
	assert.Equal(t, "http://a", u.AvatarURL)
	assert.Equal(t, "http://c", u.CoverImageURL)
	assert.Empty(t, u.Password)
}
