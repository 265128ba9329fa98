// internal/app/store/posts/poststore.go
package poststore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/grouphub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrBadKind        = errors.New(`kind must be "study" or "transport"`)
	ErrDetailMismatch = errors.New("post detail does not match its kind")
	ErrMaxMembers     = errors.New("max_members must be at least 2")
	ErrNotCreator     = errors.New("only the post's creator may do this")
	ErrNotOpen        = errors.New("post is not open")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("need_posts")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.NeedPost, error) {
	var p models.NeedPost
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return models.NeedPost{}, err
	}
	return p, nil
}

// Create validates the kind/detail pairing and inserts an open post.
func (s *Store) Create(ctx context.Context, p models.NeedPost) (models.NeedPost, error) {
	switch p.Kind {
	case models.PostKindStudy:
		if p.Study == nil || p.Transport != nil {
			return models.NeedPost{}, ErrDetailMismatch
		}
	case models.PostKindTransport:
		if p.Transport == nil || p.Study != nil {
			return models.NeedPost{}, ErrDetailMismatch
		}
	default:
		return models.NeedPost{}, ErrBadKind
	}
	if p.MaxMembers < 2 {
		return models.NeedPost{}, ErrMaxMembers
	}
	if p.GenderPreference == "" {
		p.GenderPreference = models.GenderAny
	}

	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.TitleCI = text.Fold(p.Title)
	p.Status = models.PostStatusOpen
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.NeedPost{}, err
	}
	return p, nil
}

// ListFilter narrows List results. Zero values mean "any".
type ListFilter struct {
	Kind   string
	Status string
	Limit  int64
}

// List returns posts newest first.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.NeedPost, error) {
	filter := bson.M{}
	if f.Kind != "" {
		filter["kind"] = f.Kind
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var posts []models.NeedPost
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Close transitions an open post to closed. The filter carries the creator
// and status conditions so the transition is a single conditional update;
// when nothing matches, the post is re-read to tell NotFound, Forbidden, and
// InvalidState apart.
func (s *Store) Close(ctx context.Context, postID, actorID primitive.ObjectID) (models.NeedPost, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": postID, "created_by": actorID, "status": models.PostStatusOpen},
		bson.M{"$set": bson.M{
			"status":     models.PostStatusClosed,
			"updated_at": time.Now().UTC(),
		}})
	if err != nil {
		return models.NeedPost{}, err
	}
	if res.MatchedCount == 0 {
		p, err := s.GetByID(ctx, postID)
		if err != nil {
			return models.NeedPost{}, err // includes mongo.ErrNoDocuments
		}
		if p.CreatedBy != actorID {
			return models.NeedPost{}, ErrNotCreator
		}
		return p, ErrNotOpen
	}
	return s.GetByID(ctx, postID)
}

// MarkFulfilled transitions an open post to fulfilled. Used by the formation
// service when the derived group reaches capacity. A post that is no longer
// open is left alone (closing wins over fulfillment).
func (s *Store) MarkFulfilled(ctx context.Context, postID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": postID, "status": models.PostStatusOpen},
		bson.M{"$set": bson.M{
			"status":     models.PostStatusFulfilled,
			"updated_at": time.Now().UTC(),
		}})
	return err
}
