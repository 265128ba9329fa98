package formation_test

import (
	"testing"

	"github.com/dalemusser/grouphub/internal/app/service/formation"
	groupstore "github.com/dalemusser/grouphub/internal/app/store/groups"
	intereststore "github.com/dalemusser/grouphub/internal/app/store/interests"
	poststore "github.com/dalemusser/grouphub/internal/app/store/posts"
	userstore "github.com/dalemusser/grouphub/internal/app/store/users"
	"github.com/dalemusser/grouphub/internal/domain/models"
	"github.com/dalemusser/grouphub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newService(db *mongo.Database) *formation.Service {
	return formation.New(poststore.New(db), groupstore.New(db), intereststore.New(db), userstore.New(db), zap.NewNop())
}

func TestCreateGroupFromPost(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	creator := f.CreateUser("Alice Creator")
	post := f.CreateStudyPost(creator, 4)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	svc := newService(db)
	res, err := svc.CreateGroupFromPost(ctx, post.ID, creator.ID, "Calc crew", "midterm prep")
	if err != nil {
		t.Fatalf("CreateGroupFromPost(): %v", err)
	}
	if !res.Created {
		t.Error("Created = false on first create")
	}
	if res.Group.CreatedFromPost != post.ID {
		t.Errorf("CreatedFromPost = %s, want %s", res.Group.CreatedFromPost.Hex(), post.ID.Hex())
	}
	if res.Group.MaxMembers != post.MaxMembers {
		t.Errorf("MaxMembers = %d, want %d (inherited from post)", res.Group.MaxMembers, post.MaxMembers)
	}
	if res.Group.Visibility != models.GroupVisibilityPublic {
		t.Errorf("Visibility = %q, want %q for a study group", res.Group.Visibility, models.GroupVisibilityPublic)
	}
	if len(res.Group.Members) != 0 {
		t.Errorf("len(Members) = %d, want 0 (creator not auto-added)", len(res.Group.Members))
	}
}

func TestCreateGroupFromPostIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	creator := f.CreateUser("Alice Creator")
	post := f.CreateStudyPost(creator, 4)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	svc := newService(db)
	first, err := svc.CreateGroupFromPost(ctx, post.ID, creator.ID, "Calc crew", "")
	if err != nil {
		t.Fatalf("first CreateGroupFromPost(): %v", err)
	}

	// A repeat is not an error; the existing group comes back.
	second, err := svc.CreateGroupFromPost(ctx, post.ID, creator.ID, "Calc crew again", "")
	if err != nil {
		t.Fatalf("second CreateGroupFromPost(): %v", err)
	}
	if second.Created {
		t.Error("Created = true on repeat create")
	}
	if second.Group.ID != first.Group.ID {
		t.Errorf("repeat returned group %s, want existing %s", second.Group.ID.Hex(), first.Group.ID.Hex())
	}
}

func TestCreateGroupFromPostForbidden(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	creator := f.CreateUser("Alice Creator")
	carol := f.CreateUser("Carol Stranger")
	post := f.CreateStudyPost(creator, 4)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	svc := newService(db)
	if _, err := svc.CreateGroupFromPost(ctx, post.ID, carol.ID, "hijack", ""); err != formation.ErrForbidden {
		t.Errorf("CreateGroupFromPost() by non-creator error = %v, want %v", err, formation.ErrForbidden)
	}
	if _, err := svc.CreateGroupFromPost(ctx, primitive.NewObjectID(), creator.ID, "ghost", ""); err != formation.ErrPostNotFound {
		t.Errorf("CreateGroupFromPost() on missing post error = %v, want %v", err, formation.ErrPostNotFound)
	}
}

func TestCreateGroupAddCreator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	creator := f.CreateUser("Alice Creator")
	post := f.CreateStudyPost(creator, 4)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	svc := newService(db)
	svc.AddCreator = true
	res, err := svc.CreateGroupFromPost(ctx, post.ID, creator.ID, "Calc crew", "")
	if err != nil {
		t.Fatalf("CreateGroupFromPost(): %v", err)
	}
	if len(res.Group.Members) != 1 {
		t.Fatalf("len(Members) = %d, want 1 (creator auto-added)", len(res.Group.Members))
	}
	if res.Group.Members[0].UserID != creator.ID {
		t.Errorf("first member = %s, want creator %s", res.Group.Members[0].UserID.Hex(), creator.ID.Hex())
	}
}

func TestAdmitMembers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	creator := f.CreateUser("Alice Creator")
	bob := f.CreateUser("Bob Interested")
	carol := f.CreateUser("Carol Interested")
	post := f.CreateStudyPost(creator, 4)
	f.ExpressInterest(post, bob)
	f.ExpressInterest(post, carol)
	g := f.CreateGroup(post)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	svc := newService(db)
	res, err := svc.AdmitMembers(ctx, g.ID, post.ID, creator.ID, []primitive.ObjectID{bob.ID, carol.ID})
	if err != nil {
		t.Fatalf("AdmitMembers(): %v", err)
	}
	if len(res.Group.Members) != 2 {
		t.Errorf("len(Members) = %d, want 2", len(res.Group.Members))
	}
	for _, o := range res.Outcomes {
		if o.Outcome != formation.OutcomeAdmitted {
			t.Errorf("outcome for %s = %q, want %q", o.UserID.Hex(), o.Outcome, formation.OutcomeAdmitted)
		}
	}

	// Admission approves the ledger entries.
	for _, uid := range []primitive.ObjectID{bob.ID, carol.ID} {
		ie, err := f.Interests.GetByPostAndUser(ctx, post.ID, uid)
		if err != nil {
			t.Fatalf("GetByPostAndUser(): %v", err)
		}
		if ie.Status != models.InterestApproved {
			t.Errorf("interest status for %s = %q, want %q", uid.Hex(), ie.Status, models.InterestApproved)
		}
	}

	// 2 of 4 seats used; the post stays open.
	p, err := f.Posts.GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetByID(): %v", err)
	}
	if p.Status != models.PostStatusOpen {
		t.Errorf("post status = %q, want %q", p.Status, models.PostStatusOpen)
	}
}

func TestAdmitMembersFillsGroupAndFulfillsPost(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	creator := f.CreateUser("Alice Creator")
	bob := f.CreateUser("Bob Interested")
	carol := f.CreateUser("Carol Interested")
	post := f.CreateStudyPost(creator, 2)
	f.ExpressInterest(post, bob)
	f.ExpressInterest(post, carol)
	g := f.CreateGroup(post)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	svc := newService(db)
	res, err := svc.AdmitMembers(ctx, g.ID, post.ID, creator.ID, []primitive.ObjectID{bob.ID, carol.ID})
	if err != nil {
		t.Fatalf("AdmitMembers(): %v", err)
	}
	if !res.Group.IsFull() {
		t.Errorf("IsFull() = false with %d/%d members", len(res.Group.Members), res.Group.MaxMembers)
	}

	p, err := f.Posts.GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetByID(): %v", err)
	}
	if p.Status != models.PostStatusFulfilled {
		t.Errorf("post status = %q, want %q once the group is full", p.Status, models.PostStatusFulfilled)
	}
}

func TestAdmitMembersAllOrNothing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	creator := f.CreateUser("Alice Creator")
	bob := f.CreateUser("Bob Interested")
	carol := f.CreateUser("Carol Interested")
	dave := f.CreateUser("Dave Interested")
	post := f.CreateStudyPost(creator, 2)
	f.ExpressInterest(post, bob)
	f.ExpressInterest(post, carol)
	f.ExpressInterest(post, dave)
	g := f.CreateGroup(post)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	svc := newService(db)
	batch := []primitive.ObjectID{bob.ID, carol.ID, dave.ID}
	if _, err := svc.AdmitMembers(ctx, g.ID, post.ID, creator.ID, batch); err != formation.ErrCapacityExceeded {
		t.Fatalf("AdmitMembers() error = %v, want %v", err, formation.ErrCapacityExceeded)
	}

	// Nothing was admitted and every expression is still pending.
	got, err := f.Groups.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID(): %v", err)
	}
	if len(got.Members) != 0 {
		t.Errorf("len(Members) = %d after rejected batch, want 0", len(got.Members))
	}
	for _, uid := range batch {
		ie, err := f.Interests.GetByPostAndUser(ctx, post.ID, uid)
		if err != nil {
			t.Fatalf("GetByPostAndUser(): %v", err)
		}
		if ie.Status != models.InterestPending {
			t.Errorf("interest status for %s = %q, want %q", uid.Hex(), ie.Status, models.InterestPending)
		}
	}
}

func TestAdmitMembersAlreadyMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	creator := f.CreateUser("Alice Creator")
	bob := f.CreateUser("Bob Interested")
	carol := f.CreateUser("Carol Interested")
	post := f.CreateStudyPost(creator, 4)
	f.ExpressInterest(post, bob)
	f.ExpressInterest(post, carol)
	g := f.CreateGroup(post)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	svc := newService(db)
	if _, err := svc.AdmitMembers(ctx, g.ID, post.ID, creator.ID, []primitive.ObjectID{bob.ID}); err != nil {
		t.Fatalf("first AdmitMembers(): %v", err)
	}

	res, err := svc.AdmitMembers(ctx, g.ID, post.ID, creator.ID, []primitive.ObjectID{bob.ID, carol.ID})
	if err != nil {
		t.Fatalf("second AdmitMembers(): %v", err)
	}
	outcomes := make(map[primitive.ObjectID]string, len(res.Outcomes))
	for _, o := range res.Outcomes {
		outcomes[o.UserID] = o.Outcome
	}
	if outcomes[bob.ID] != formation.OutcomeAlreadyMember {
		t.Errorf("outcome for bob = %q, want %q", outcomes[bob.ID], formation.OutcomeAlreadyMember)
	}
	if outcomes[carol.ID] != formation.OutcomeAdmitted {
		t.Errorf("outcome for carol = %q, want %q", outcomes[carol.ID], formation.OutcomeAdmitted)
	}
	if len(res.Group.Members) != 2 {
		t.Errorf("len(Members) = %d, want 2", len(res.Group.Members))
	}
}

func TestAdmitMembersRequiresPendingInterest(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	creator := f.CreateUser("Alice Creator")
	bob := f.CreateUser("Bob Uninterested")
	post := f.CreateStudyPost(creator, 4)
	g := f.CreateGroup(post)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	svc := newService(db)
	if _, err := svc.AdmitMembers(ctx, g.ID, post.ID, creator.ID, []primitive.ObjectID{bob.ID}); err != formation.ErrNoPendingInterest {
		t.Errorf("AdmitMembers() error = %v, want %v", err, formation.ErrNoPendingInterest)
	}
}

func TestAdmitMembersForbidden(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	creator := f.CreateUser("Alice Creator")
	bob := f.CreateUser("Bob Interested")
	post := f.CreateStudyPost(creator, 4)
	f.ExpressInterest(post, bob)
	g := f.CreateGroup(post)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	svc := newService(db)
	if _, err := svc.AdmitMembers(ctx, g.ID, post.ID, bob.ID, []primitive.ObjectID{bob.ID}); err != formation.ErrForbidden {
		t.Errorf("AdmitMembers() by non-creator error = %v, want %v", err, formation.ErrForbidden)
	}
	if _, err := svc.AdmitMembers(ctx, g.ID, post.ID, creator.ID, nil); err != formation.ErrEmptyBatch {
		t.Errorf("AdmitMembers() with empty batch error = %v, want %v", err, formation.ErrEmptyBatch)
	}
}

func TestAdmitMembersWrongPost(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	creator := f.CreateUser("Alice Creator")
	bob := f.CreateUser("Bob Interested")
	post := f.CreateStudyPost(creator, 4)
	other := f.CreateStudyPost(creator, 4)
	f.ExpressInterest(post, bob)
	g := f.CreateGroup(post)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	svc := newService(db)
	if _, err := svc.AdmitMembers(ctx, g.ID, other.ID, creator.ID, []primitive.ObjectID{bob.ID}); err != formation.ErrWrongPost {
		t.Errorf("AdmitMembers() with mismatched post error = %v, want %v", err, formation.ErrWrongPost)
	}
}

func TestRejectInterest(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	creator := f.CreateUser("Alice Creator")
	bob := f.CreateUser("Bob Interested")
	post := f.CreateStudyPost(creator, 4)
	f.ExpressInterest(post, bob)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	svc := newService(db)
	if err := svc.RejectInterest(ctx, post.ID, creator.ID, bob.ID); err != nil {
		t.Fatalf("RejectInterest(): %v", err)
	}

	ie, err := f.Interests.GetByPostAndUser(ctx, post.ID, bob.ID)
	if err != nil {
		t.Fatalf("GetByPostAndUser(): %v", err)
	}
	if ie.Status != models.InterestRejected {
		t.Errorf("Status = %q, want %q", ie.Status, models.InterestRejected)
	}

	// Rejected is terminal; a repeat finds nothing pending.
	if err := svc.RejectInterest(ctx, post.ID, creator.ID, bob.ID); err != formation.ErrNoPendingInterest {
		t.Errorf("repeat RejectInterest() error = %v, want %v", err, formation.ErrNoPendingInterest)
	}

	if err := svc.RejectInterest(ctx, post.ID, bob.ID, bob.ID); err != formation.ErrForbidden {
		t.Errorf("RejectInterest() by non-creator error = %v, want %v", err, formation.ErrForbidden)
	}
}
