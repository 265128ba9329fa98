package groupstore_test

import (
	"testing"
	"time"

	groupstore "github.com/dalemusser/grouphub/internal/app/store/groups"
	"github.com/dalemusser/grouphub/internal/domain/models"
	"github.com/dalemusser/grouphub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func member(name string) models.Member {
	return models.Member{
		UserID:   primitive.NewObjectID(),
		Name:     name,
		JoinedAt: time.Now().UTC(),
	}
}

func TestCreateDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	creator := f.CreateUser("Alice Creator")
	post := f.CreateTransportPost(creator, 3)

	g := f.CreateGroup(post)

	if g.Status != models.GroupStatusActive {
		t.Errorf("Status = %q, want %q", g.Status, models.GroupStatusActive)
	}
	if g.Visibility != models.GroupVisibilityPrivate {
		t.Errorf("Visibility = %q, want %q for a transport group", g.Visibility, models.GroupVisibilityPrivate)
	}
	if g.Members == nil {
		t.Error("Members is nil, want empty slice")
	}
	if g.NameCI == "" {
		t.Error("NameCI is empty, want folded name")
	}
}

func TestGetByPost(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	creator := f.CreateUser("Alice Creator")
	post := f.CreateStudyPost(creator, 4)
	g := f.CreateGroup(post)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := groupstore.New(db)
	got, err := store.GetByPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetByPost(): %v", err)
	}
	if got.ID != g.ID {
		t.Errorf("GetByPost() id = %s, want %s", got.ID.Hex(), g.ID.Hex())
	}

	if _, err := store.GetByPost(ctx, primitive.NewObjectID()); err != mongo.ErrNoDocuments {
		t.Errorf("GetByPost() for post without group error = %v, want %v", err, mongo.ErrNoDocuments)
	}
}

func TestAppendMembersWithinCapacity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	creator := f.CreateUser("Alice Creator")
	post := f.CreateStudyPost(creator, 3)
	g := f.CreateGroup(post)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := groupstore.New(db)
	updated, err := store.AppendMembers(ctx, g.ID, []models.Member{member("Bob"), member("Carol")})
	if err != nil {
		t.Fatalf("AppendMembers(): %v", err)
	}
	if len(updated.Members) != 2 {
		t.Errorf("len(Members) = %d, want 2", len(updated.Members))
	}

	// One more fits exactly.
	updated, err = store.AppendMembers(ctx, g.ID, []models.Member{member("Dave")})
	if err != nil {
		t.Fatalf("AppendMembers() to capacity: %v", err)
	}
	if !updated.IsFull() {
		t.Errorf("IsFull() = false with %d/%d members", len(updated.Members), updated.MaxMembers)
	}
}

func TestAppendMembersCapacityExceeded(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	creator := f.CreateUser("Alice Creator")
	post := f.CreateStudyPost(creator, 2)
	g := f.CreateGroup(post)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := groupstore.New(db)
	batch := []models.Member{member("Bob"), member("Carol"), member("Dave")}
	if _, err := store.AppendMembers(ctx, g.ID, batch); err != groupstore.ErrCapacityExceeded {
		t.Fatalf("AppendMembers() error = %v, want %v", err, groupstore.ErrCapacityExceeded)
	}

	// The rejected batch must not have written anything.
	got, err := store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID(): %v", err)
	}
	if len(got.Members) != 0 {
		t.Errorf("len(Members) = %d after rejected batch, want 0", len(got.Members))
	}
}

func TestAppendMembersMissingGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := groupstore.New(db).AppendMembers(ctx, primitive.NewObjectID(), []models.Member{member("Bob")})
	if err != mongo.ErrNoDocuments {
		t.Errorf("AppendMembers() on missing group error = %v, want %v", err, mongo.ErrNoDocuments)
	}
}

func TestAppendMembersEmptyBatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	creator := f.CreateUser("Alice Creator")
	post := f.CreateStudyPost(creator, 2)
	g := f.CreateGroup(post)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	got, err := groupstore.New(db).AppendMembers(ctx, g.ID, nil)
	if err != nil {
		t.Fatalf("AppendMembers(nil): %v", err)
	}
	if len(got.Members) != 0 {
		t.Errorf("len(Members) = %d, want 0", len(got.Members))
	}
}

func TestListForUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	creator := f.CreateUser("Alice Creator")
	bob := f.CreateUser("Bob Member")
	outsider := f.CreateUser("Carol Outsider")
	post := f.CreateStudyPost(creator, 3)
	g := f.CreateGroup(post)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := groupstore.New(db)
	if _, err := store.AppendMembers(ctx, g.ID, []models.Member{{UserID: bob.ID, Name: bob.FullName, JoinedAt: time.Now().UTC()}}); err != nil {
		t.Fatalf("AppendMembers(): %v", err)
	}

	// The creator sees the group even though they are not in the member list.
	mine, err := store.ListForUser(ctx, creator.ID)
	if err != nil {
		t.Fatalf("ListForUser(creator): %v", err)
	}
	if len(mine) != 1 {
		t.Errorf("ListForUser(creator) returned %d groups, want 1", len(mine))
	}

	bobs, err := store.ListForUser(ctx, bob.ID)
	if err != nil {
		t.Fatalf("ListForUser(member): %v", err)
	}
	if len(bobs) != 1 {
		t.Errorf("ListForUser(member) returned %d groups, want 1", len(bobs))
	}

	none, err := store.ListForUser(ctx, outsider.ID)
	if err != nil {
		t.Fatalf("ListForUser(outsider): %v", err)
	}
	if len(none) != 0 {
		t.Errorf("ListForUser(outsider) returned %d groups, want 0", len(none))
	}
}
