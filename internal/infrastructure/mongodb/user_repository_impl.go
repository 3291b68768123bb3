package mongodb

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/internal/domain/repository"
)

// Collection is the name of the users collection.
const Collection = "users"

type userDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	FullName     string             `bson:"fullName"`
	Password     string             `bson:"password,omitempty"`
	Avatar       string             `bson:"avatar"`
	CoverImage   string             `bson:"coverImage"`
	RefreshToken string             `bson:"refreshToken,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

func (d *userDocument) toEntity() *entity.User {
	return &entity.User{
		ID:            d.ID.Hex(),
		Username:      d.Username,
		Email:         d.Email,
		FullName:      d.FullName,
		Password:      d.Password,
		AvatarURL:     d.Avatar,
		CoverImageURL: d.CoverImage,
		RefreshToken:  d.RefreshToken,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

var withoutCredentials = bson.M{"password": 0, "refreshToken": 0}

type UserRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(Collection), now: func() time.Time { return time.Now().UTC() }}
}

// Coll exposes the underlying collection for index management.
func (r *UserRepository) Coll() *mongo.Collection { return r.coll }

func mapError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		switch duplicateIndex(err.Error()) {
		case usernameIndex:
			return repository.DuplicateError{Field: "username"}
		case emailIndex:
			return repository.DuplicateError{Field: "email"}
		default:
			return repository.DuplicateError{}
		}
	}
	return err
}

// duplicateIndex extracts the index name from an E11000 message
// ("... index: email_1 dup key: { ... }"). The key values come after it.
func duplicateIndex(msg string) string {
	_, rest, ok := strings.Cut(msg, "index: ")
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(rest, " ")
	return name
}

func (r *UserRepository) findOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) (*entity.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		return nil, mapError(err)
	}
	return doc.toEntity(), nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	now := r.now()
	doc := userDocument{
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Password:   u.Password,
		Avatar:     u.AvatarURL,
		CoverImage: u.CoverImageURL,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return mapError(err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return errors.New("mongodb: unexpected inserted id type")
	}
	u.ID = oid.Hex()
	u.CreatedAt, u.UpdatedAt = now, now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) GetProfile(ctx context.Context, id string) (*entity.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid}, options.FindOne().SetProjection(withoutCredentials))
}

func (r *UserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*entity.User, error) {
	var or bson.A
	if username != "" {
		or = append(or, bson.M{"username": username})
	}
	if email != "" {
		or = append(or, bson.M{"email": email})
	}
	if len(or) == 0 {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"$or": or}, options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}

func (r *UserRepository) updateByID(ctx context.Context, id string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return mapError(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	if token == "" {
		return r.updateByID(ctx, id, bson.M{
			"$unset": bson.M{"refreshToken": ""},
			"$set":   bson.M{"updatedAt": r.now()},
		})
	}
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{"refreshToken": token, "updatedAt": r.now()}})
}

func (r *UserRepository) RotateRefreshToken(ctx context.Context, id, current, next string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil || current == "" {
		return false, nil
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "refreshToken": current},
		bson.M{"$set": bson.M{"refreshToken": next, "updatedAt": r.now()}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{"password": hash, "updatedAt": r.now()}})
}

func (r *UserRepository) UpdateAccount(ctx context.Context, id string, in entity.AccountUpdate) (*entity.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	set := bson.M{"updatedAt": r.now()}
	if in.FullName != nil {
		set["fullName"] = *in.FullName
	}
	if in.Email != nil {
		set["email"] = entity.NormalizeEmail(*in.Email)
	}
	if in.AvatarURL != nil {
		set["avatar"] = *in.AvatarURL
	}
	if in.CoverImageURL != nil {
		set["coverImage"] = *in.CoverImageURL
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(withoutCredentials)

	var doc userDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		return nil, mapError(err)
	}
	return doc.toEntity(), nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
