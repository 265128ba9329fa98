package testutil

import (
	"fmt"
	"testing"

	groupstore "github.com/dalemusser/grouphub/internal/app/store/groups"
	intereststore "github.com/dalemusser/grouphub/internal/app/store/interests"
	poststore "github.com/dalemusser/grouphub/internal/app/store/posts"
	userstore "github.com/dalemusser/grouphub/internal/app/store/users"
	"github.com/dalemusser/grouphub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures seeds test data through the real stores so documents carry the
// same shape and defaults as production writes.
type Fixtures struct {
	Users     *userstore.Store
	Posts     *poststore.Store
	Interests *intereststore.Store
	Groups    *groupstore.Store

	t *testing.T
	n int
}

func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{
		Users:     userstore.New(db),
		Posts:     poststore.New(db),
		Interests: intereststore.New(db),
		Groups:    groupstore.New(db),
		t:         t,
	}
}

// CreateUser inserts a student user with a generated unique email.
func (f *Fixtures) CreateUser(name string) models.User {
	f.t.Helper()
	ctx, cancel := TestContext()
	defer cancel()

	f.n++
	u, err := f.Users.Create(ctx, models.User{
		Email:    fmt.Sprintf("user%d@test.com", f.n),
		FullName: name,
		Role:     "student",
	}, "test-password")
	if err != nil {
		f.t.Fatalf("create user %q: %v", name, err)
	}
	return u
}

// CreateStudyPost inserts an open study post owned by creator.
func (f *Fixtures) CreateStudyPost(creator models.User, maxMembers int) models.NeedPost {
	f.t.Helper()
	ctx, cancel := TestContext()
	defer cancel()

	p, err := f.Posts.Create(ctx, models.NeedPost{
		Kind:        models.PostKindStudy,
		Title:       "Calculus II study group",
		Description: "Weekly problem sessions before the midterm.",
		Study: &models.StudyDetail{
			Subject:          "Mathematics",
			CourseCode:       "MATH 2300",
			MeetingFrequency: "weekly",
		},
		MaxMembers: maxMembers,
		CreatedBy:  creator.ID,
	})
	if err != nil {
		f.t.Fatalf("create study post: %v", err)
	}
	return p
}

// CreateTransportPost inserts an open transport post owned by creator.
func (f *Fixtures) CreateTransportPost(creator models.User, maxMembers int) models.NeedPost {
	f.t.Helper()
	ctx, cancel := TestContext()
	defer cancel()

	p, err := f.Posts.Create(ctx, models.NeedPost{
		Kind:        models.PostKindTransport,
		Title:       "Carpool to north campus",
		Description: "Leaving from the commuter lot at 7:45.",
		Transport: &models.TransportDetail{
			Route:       "commuter lot to north campus",
			VehicleType: "car",
			Schedule:    "Mon/Wed/Fri 7:45",
		},
		MaxMembers: maxMembers,
		CreatedBy:  creator.ID,
	})
	if err != nil {
		f.t.Fatalf("create transport post: %v", err)
	}
	return p
}

// ExpressInterest records a pending expression from user on post.
func (f *Fixtures) ExpressInterest(post models.NeedPost, user models.User) models.InterestExpression {
	f.t.Helper()
	ctx, cancel := TestContext()
	defer cancel()

	ie, err := f.Interests.Express(ctx, post, user, "I'd like to join.")
	if err != nil {
		f.t.Fatalf("express interest for %s: %v", user.FullName, err)
	}
	return ie
}

// CreateGroup inserts an empty group formed from post.
func (f *Fixtures) CreateGroup(post models.NeedPost) models.Group {
	f.t.Helper()
	ctx, cancel := TestContext()
	defer cancel()

	g, err := f.Groups.Create(ctx, models.Group{
		CreatedFromPost: post.ID,
		Name:            post.Title,
		MaxMembers:      post.MaxMembers,
		Visibility:      post.GroupVisibility(),
		CreatedBy:       post.CreatedBy,
	})
	if err != nil {
		f.t.Fatalf("create group: %v", err)
	}
	return g
}
