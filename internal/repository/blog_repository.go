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

// BlogRepo persists blog posts in the blogposts collection.
type BlogRepo struct {
	coll *mongo.Collection
}

func NewBlogRepo(db *mongo.Database) *BlogRepo {
	return &BlogRepo{coll: db.Collection("blogposts")}
}

// Create inserts a post and fills in its generated id.
func (r *BlogRepo) Create(ctx context.Context, p *model.BlogPost) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	res, err := r.coll.InsertOne(ctx, p)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = id
	}
	return nil
}

// GetByID fetches one post.
func (r *BlogRepo) GetByID(ctx context.Context, id primitive.ObjectID) (model.BlogPost, error) {
	var p model.BlogPost
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return p, ErrNotFound
	}
	return p, err
}

// All returns every post, newest first.
func (r *BlogRepo) All(ctx context.Context) ([]model.BlogPost, error) {
	cur, err := r.coll.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	posts := []model.BlogPost{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Update replaces the title and content of a post and returns the result.
func (r *BlogRepo) Update(ctx context.Context, id primitive.ObjectID, req model.BlogPostRequest) (model.BlogPost, error) {
	var p model.BlogPost
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"title":     req.Title,
			"content":   req.Content,
			"updatedAt": time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return p, ErrNotFound
	}
	return p, err
}

// Delete removes a post.
func (r *BlogRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
