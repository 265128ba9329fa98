// internal/app/store/interests/intereststore.go
package intereststore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/grouphub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	// ErrAlreadyExpressed is an idempotency signal, not a true failure:
	// the caller already holds an expression on this post.
	ErrAlreadyExpressed = errors.New("interest already expressed for this post")
	ErrOwnPost          = errors.New("creators cannot express interest in their own post")
	ErrPostNotOpen      = errors.New("post is no longer open for interest")
	ErrEmptyMessage     = errors.New("message must not be empty")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("interest_expressions")}
}

// Express records a pending interest expression for user on post.
//
// Check order matters: an existing expression reports ErrAlreadyExpressed
// even when the post has since closed, so a double-submit after closing
// still reads as "already interested" rather than a hard state error.
// The (post_id, user_id) unique index backs the duplicate check, so two
// concurrent submissions race down to one insert and one duplicate-key
// error, which is translated to ErrAlreadyExpressed as well.
func (s *Store) Express(ctx context.Context, post models.NeedPost, user models.User, message string) (models.InterestExpression, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"post_id": post.ID, "user_id": user.ID})
	if err != nil {
		return models.InterestExpression{}, err
	}
	if n > 0 {
		return models.InterestExpression{}, ErrAlreadyExpressed
	}
	if post.CreatedBy == user.ID {
		return models.InterestExpression{}, ErrOwnPost
	}
	if !post.IsOpen() {
		return models.InterestExpression{}, ErrPostNotOpen
	}
	if message == "" {
		return models.InterestExpression{}, ErrEmptyMessage
	}

	ie := models.InterestExpression{
		ID:        primitive.NewObjectID(),
		PostID:    post.ID,
		UserID:    user.ID,
		Name:      user.FullName,
		Email:     user.Email,
		Message:   message,
		Status:    models.InterestPending,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, ie); err != nil {
		if wafflemongo.IsDup(err) {
			return models.InterestExpression{}, ErrAlreadyExpressed
		}
		return models.InterestExpression{}, err
	}
	return ie, nil
}

// ListByPost returns all expressions for a post, newest first. Callers
// partition by status client-side.
func (s *Store) ListByPost(ctx context.Context, postID primitive.ObjectID) ([]models.InterestExpression, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"post_id": postID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.InterestExpression
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByPost returns the number of expressions on a post. This is all a
// non-creator caller gets to see.
func (s *Store) CountByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"post_id": postID})
}

// GetByPostAndUser returns the single expression for (postID, userID).
func (s *Store) GetByPostAndUser(ctx context.Context, postID, userID primitive.ObjectID) (models.InterestExpression, error) {
	var ie models.InterestExpression
	err := s.c.FindOne(ctx, bson.M{"post_id": postID, "user_id": userID}).Decode(&ie)
	if err != nil {
		return models.InterestExpression{}, err
	}
	return ie, nil
}

// PendingForUsers returns the pending expressions on postID for the given
// users, keyed by user id. Users with no pending expression are absent.
func (s *Store) PendingForUsers(ctx context.Context, postID primitive.ObjectID, userIDs []primitive.ObjectID) (map[primitive.ObjectID]models.InterestExpression, error) {
	out := make(map[primitive.ObjectID]models.InterestExpression, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{
		"post_id": postID,
		"user_id": bson.M{"$in": userIDs},
		"status":  models.InterestPending,
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var ie models.InterestExpression
		if err := cur.Decode(&ie); err != nil {
			return nil, err
		}
		out[ie.UserID] = ie
	}
	return out, cur.Err()
}

// SetStatus transitions pending expressions for the given users to the
// target status. The filter keeps "pending" as a condition, so an
// expression that has already reached a terminal state is never touched.
// Returns the number of expressions transitioned.
func (s *Store) SetStatus(ctx context.Context, postID primitive.ObjectID, userIDs []primitive.ObjectID, to string) (int64, error) {
	if to != models.InterestApproved && to != models.InterestRejected {
		return 0, errors.New(`status must be "approved" or "rejected"`)
	}
	if len(userIDs) == 0 {
		return 0, nil
	}
	res, err := s.c.UpdateMany(ctx,
		bson.M{
			"post_id": postID,
			"user_id": bson.M{"$in": userIDs},
			"status":  models.InterestPending,
		},
		bson.M{"$set": bson.M{"status": to}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
