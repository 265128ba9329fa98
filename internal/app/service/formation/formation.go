// Package formation orchestrates group creation and member admission,
// keeping the group's member list and the interest ledger consistent.
//
// All cross-entity invariants live here:
//   - at most one group per post (idempotent create, re-checked before insert)
//   - admission is all-or-nothing against capacity
//   - admitted users' interest expressions transition pending → approved
package formation

import (
	"context"
	"errors"
	"time"

	groupstore "github.com/dalemusser/grouphub/internal/app/store/groups"
	intereststore "github.com/dalemusser/grouphub/internal/app/store/interests"
	poststore "github.com/dalemusser/grouphub/internal/app/store/posts"
	"github.com/dalemusser/grouphub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	ErrForbidden         = errors.New("only the post's creator may manage its group")
	ErrPostNotFound      = errors.New("post not found")
	ErrGroupNotFound     = errors.New("group not found")
	ErrWrongPost         = errors.New("group was not formed from this post")
	ErrEmptyBatch        = errors.New("at least one user must be named")
	ErrNoPendingInterest = errors.New("a named user has no pending interest on this post")

	// ErrCapacityExceeded re-exported so handlers depend on one package.
	ErrCapacityExceeded = groupstore.ErrCapacityExceeded
)

// Service coordinates the post, group, and interest stores.
type Service struct {
	posts     *poststore.Store
	groups    *groupstore.Store
	interests *intereststore.Store
	users     userGetter

	// AddCreator controls whether the post's creator is added as the first
	// member when the group is created. The observed product behavior keeps
	// the group empty and requires an explicit admission even for the
	// creator, so this defaults to false.
	AddCreator bool

	log *zap.Logger
}

// userGetter is the slice of the user store the service needs.
type userGetter interface {
	GetMany(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

func New(posts *poststore.Store, groups *groupstore.Store, interests *intereststore.Store, users userGetter, logger *zap.Logger) *Service {
	return &Service{
		posts:     posts,
		groups:    groups,
		interests: interests,
		users:     users,
		log:       logger,
	}
}

// CreateGroupResult reports the outcome of CreateGroupFromPost.
type CreateGroupResult struct {
	Group   models.Group
	Created bool // false when an existing group was returned
}

// CreateGroupFromPost creates the group for a post, or returns the existing
// one. The create is idempotent by intent: the one-group-per-post rule is
// an application-level guard, so existence is re-checked immediately before
// the insert and a concurrent creator's group is returned as success.
func (s *Service) CreateGroupFromPost(ctx context.Context, postID, actorID primitive.ObjectID, name, description string) (CreateGroupResult, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err == mongo.ErrNoDocuments {
		return CreateGroupResult{}, ErrPostNotFound
	}
	if err != nil {
		return CreateGroupResult{}, err
	}
	if post.CreatedBy != actorID {
		return CreateGroupResult{}, ErrForbidden
	}

	// Narrow the duplicate window: check right before the insert.
	if g, err := s.groups.GetByPost(ctx, postID); err == nil {
		return CreateGroupResult{Group: g, Created: false}, nil
	} else if err != mongo.ErrNoDocuments {
		return CreateGroupResult{}, err
	}

	g := models.Group{
		CreatedFromPost: post.ID,
		Name:            name,
		Description:     description,
		MaxMembers:      post.MaxMembers,
		Visibility:      post.GroupVisibility(),
		CreatedBy:       actorID,
	}
	if s.AddCreator {
		creator, err := s.users.GetByID(ctx, actorID)
		if err != nil {
			return CreateGroupResult{}, err
		}
		g.Members = []models.Member{{
			UserID:   actorID,
			Name:     creator.FullName,
			JoinedAt: time.Now().UTC(),
		}}
	}

	created, err := s.groups.Create(ctx, g)
	if err != nil {
		return CreateGroupResult{}, err
	}
	s.log.Info("group created from post",
		zap.String("group_id", created.ID.Hex()),
		zap.String("post_id", post.ID.Hex()))
	return CreateGroupResult{Group: created, Created: true}, nil
}

// Admission outcomes for a single user in an AdmitMembers batch.
const (
	OutcomeAdmitted      = "admitted"
	OutcomeAlreadyMember = "already_member"
)

// MemberOutcome reports what happened to one user in an admission batch.
type MemberOutcome struct {
	UserID  primitive.ObjectID `json:"user_id"`
	Outcome string             `json:"outcome"`
}

// AdmitResult is the successful result of AdmitMembers.
type AdmitResult struct {
	Group    models.Group
	Outcomes []MemberOutcome
}

// AdmitMembers admits the named users into the group formed from postID.
//
// Every user not already in the group must hold a pending interest
// expression on the post. Users already present are skipped and reported
// as already_member rather than erroring. The batch is all-or-nothing
// against capacity: if it does not fit, nothing is appended and no
// expression changes status.
func (s *Service) AdmitMembers(ctx context.Context, groupID, postID, actorID primitive.ObjectID, userIDs []primitive.ObjectID) (AdmitResult, error) {
	if len(userIDs) == 0 {
		return AdmitResult{}, ErrEmptyBatch
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err == mongo.ErrNoDocuments {
		return AdmitResult{}, ErrPostNotFound
	}
	if err != nil {
		return AdmitResult{}, err
	}
	if post.CreatedBy != actorID {
		return AdmitResult{}, ErrForbidden
	}

	group, err := s.groups.GetByID(ctx, groupID)
	if err == mongo.ErrNoDocuments {
		return AdmitResult{}, ErrGroupNotFound
	}
	if err != nil {
		return AdmitResult{}, err
	}
	if group.CreatedFromPost != post.ID {
		return AdmitResult{}, ErrWrongPost
	}

	// Partition the batch: users already in the group are reported back,
	// not re-admitted and not errored.
	outcomes := make([]MemberOutcome, 0, len(userIDs))
	var toAdmit []primitive.ObjectID
	seen := make(map[primitive.ObjectID]bool, len(userIDs))
	for _, uid := range userIDs {
		if seen[uid] {
			continue
		}
		seen[uid] = true
		if group.HasMember(uid) {
			outcomes = append(outcomes, MemberOutcome{UserID: uid, Outcome: OutcomeAlreadyMember})
			continue
		}
		toAdmit = append(toAdmit, uid)
	}

	if len(toAdmit) == 0 {
		return AdmitResult{Group: group, Outcomes: outcomes}, nil
	}

	pending, err := s.interests.PendingForUsers(ctx, postID, toAdmit)
	if err != nil {
		return AdmitResult{}, err
	}
	for _, uid := range toAdmit {
		if _, ok := pending[uid]; !ok {
			return AdmitResult{}, ErrNoPendingInterest
		}
	}

	now := time.Now().UTC()
	batch := make([]models.Member, 0, len(toAdmit))
	for _, uid := range toAdmit {
		batch = append(batch, models.Member{
			UserID:   uid,
			Name:     pending[uid].Name,
			JoinedAt: now,
		})
	}

	// Capacity is enforced inside the append itself; a stale member count
	// here cannot overrun max_members. On rejection the ledger is untouched.
	updated, err := s.groups.AppendMembers(ctx, groupID, batch)
	if err == mongo.ErrNoDocuments {
		return AdmitResult{}, ErrGroupNotFound
	}
	if err != nil {
		return AdmitResult{}, err
	}

	if _, err := s.interests.SetStatus(ctx, postID, toAdmit, models.InterestApproved); err != nil {
		// Members are in but the ledger write failed; surface the error so
		// the caller retries. SetStatus only touches pending records, so a
		// retry cannot double-apply.
		return AdmitResult{}, err
	}

	for _, uid := range toAdmit {
		outcomes = append(outcomes, MemberOutcome{UserID: uid, Outcome: OutcomeAdmitted})
	}

	if updated.IsFull() {
		if err := s.posts.MarkFulfilled(ctx, postID); err != nil {
			s.log.Warn("mark post fulfilled failed",
				zap.String("post_id", postID.Hex()),
				zap.Error(err))
		}
	}

	s.log.Info("members admitted",
		zap.String("group_id", groupID.Hex()),
		zap.String("post_id", postID.Hex()),
		zap.Int("admitted", len(toAdmit)))

	return AdmitResult{Group: updated, Outcomes: outcomes}, nil
}

// RejectInterest transitions a pending expression to rejected. Rejected is
// terminal; re-rejecting or rejecting an approved expression reports
// ErrNoPendingInterest.
func (s *Service) RejectInterest(ctx context.Context, postID, actorID, userID primitive.ObjectID) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err == mongo.ErrNoDocuments {
		return ErrPostNotFound
	}
	if err != nil {
		return err
	}
	if post.CreatedBy != actorID {
		return ErrForbidden
	}

	n, err := s.interests.SetStatus(ctx, postID, []primitive.ObjectID{userID}, models.InterestRejected)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoPendingInterest
	}
	return nil
}
