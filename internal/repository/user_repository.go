package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oakwellhq/webstarter/internal/model"
)

// UserRepo persists user documents in the users collection.
type UserRepo struct {
	coll *mongo.Collection
}

func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{coll: db.Collection("users")}
}

// EnsureIndexes creates the unique index on the normalized email field.
func (r *UserRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Create inserts a new user. The email is normalized and timestamps are
// set; the caller provides the already-hashed password. A duplicate email
// maps to ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = model.NormalizeEmail(u.Email)
	if len(u.Roles) == 0 {
		u.Roles = []string{"user"}
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailExists
		}
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = id
	}
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.coll.FindOne(ctx, bson.M{"email": model.NormalizeEmail(email)}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return u, ErrNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (model.User, error) {
	var u model.User
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return u, ErrNotFound
	}
	return u, err
}

// All returns every user with the password hash projected out.
func (r *UserRepo) All(ctx context.Context) ([]model.User, error) {
	cur, err := r.coll.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"password": 0}))
	if err != nil {
		return nil, err
	}
	users := []model.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateProfile merges the non-empty request fields into the stored
// document and returns the updated user.
func (r *UserRepo) UpdateProfile(ctx context.Context, id primitive.ObjectID, req model.UpdateProfileRequest) (model.User, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if req.Email != "" {
		set["email"] = model.NormalizeEmail(req.Email)
	}
	if req.Profile.Name != "" {
		set["profile.name"] = req.Profile.Name
	}
	if req.Profile.Gender != "" {
		set["profile.gender"] = req.Profile.Gender
	}
	if req.Profile.Location != "" {
		set["profile.location"] = req.Profile.Location
	}
	if req.Profile.Website != "" {
		set["profile.website"] = req.Profile.Website
	}

	var u model.User
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return u, ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return u, ErrEmailExists
	}
	return u, err
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"password":  hash,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetResetToken stores a password-reset token and its expiry on the user
// with the given email, returning the updated user.
func (r *UserRepo) SetResetToken(ctx context.Context, email, token string, expires time.Time) (model.User, error) {
	var u model.User
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"email": model.NormalizeEmail(email)},
		bson.M{"$set": bson.M{
			"resetPasswordToken":   token,
			"resetPasswordExpires": expires,
			"updatedAt":            time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return u, ErrNotFound
	}
	return u, err
}

// GetByResetToken fetches the user holding an unexpired reset token.
func (r *UserRepo) GetByResetToken(ctx context.Context, token string) (model.User, error) {
	var u model.User
	err := r.coll.FindOne(ctx, bson.M{
		"resetPasswordToken":   token,
		"resetPasswordExpires": bson.M{"$gt": time.Now().UTC()},
	}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return u, ErrNotFound
	}
	return u, err
}

// ResetPassword sets the new password hash and clears the reset token
// fields, returning the updated user.
func (r *UserRepo) ResetPassword(ctx context.Context, id primitive.ObjectID, hash string) (model.User, error) {
	var u model.User
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{
			"$set":   bson.M{"password": hash, "updatedAt": time.Now().UTC()},
			"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpires": ""},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return u, ErrNotFound
	}
	return u, err
}

// Delete removes the user document.
func (r *UserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
