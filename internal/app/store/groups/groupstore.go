// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/grouphub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

var (
	// ErrCapacityExceeded means the append would push the member list past
	// max_members. The whole batch is rejected; nothing was written.
	ErrCapacityExceeded = errors.New("admitting this batch would exceed the group's capacity")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// GetByPost returns the group formed from the given post, if any.
// Returns mongo.ErrNoDocuments when no group exists yet.
func (s *Store) GetByPost(ctx context.Context, postID primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"created_from_post": postID}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// Create inserts a new group. Callers (the formation service) are
// responsible for the one-group-per-post guard; the store just writes.
func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.NameCI = text.Fold(g.Name)
	if g.Status == "" {
		g.Status = models.GroupStatusActive
	}
	if g.Members == nil {
		g.Members = []models.Member{}
	}
	g.CreatedAt = now
	g.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// AppendMembers appends the batch to the member list if and only if the
// resulting size stays within max_members. The capacity check and the
// append are one conditional update, evaluated against the stored document
// at write time, so two concurrent batches cannot both slip past a stale
// in-memory count.
//
// Returns the updated group on success, ErrCapacityExceeded when the batch
// does not fit, and mongo.ErrNoDocuments when the group does not exist.
func (s *Store) AppendMembers(ctx context.Context, groupID primitive.ObjectID, batch []models.Member) (models.Group, error) {
	if len(batch) == 0 {
		return s.GetByID(ctx, groupID)
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"_id": groupID,
			"$expr": bson.M{"$lte": bson.A{
				bson.M{"$add": bson.A{bson.M{"$size": "$members"}, len(batch)}},
				"$max_members",
			}},
		},
		bson.M{
			"$push": bson.M{"members": bson.M{"$each": batch}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return models.Group{}, err
	}
	if res.MatchedCount == 0 {
		// Either the group is gone or the batch does not fit; re-read to tell.
		if _, err := s.GetByID(ctx, groupID); err != nil {
			return models.Group{}, err // includes mongo.ErrNoDocuments
		}
		return models.Group{}, ErrCapacityExceeded
	}
	return s.GetByID(ctx, groupID)
}

// ListForUser returns the groups a user created or belongs to.
func (s *Store) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Group, error) {
	cur, err := s.c.Find(ctx, bson.M{"$or": bson.A{
		bson.M{"members.user_id": userID},
		bson.M{"created_by": userID},
	}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Group
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
