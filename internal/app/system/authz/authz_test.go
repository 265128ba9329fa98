package authz_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/grouphub/internal/app/system/auth"
	"github.com/dalemusser/grouphub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func reqWith(u *auth.SessionUser) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if u == nil {
		return r
	}
	return auth.WithTestUser(r, u)
}

func TestUserCtx(t *testing.T) {
	id := primitive.NewObjectID()

	role, name, uid, ok := authz.UserCtx(reqWith(&auth.SessionUser{
		ID: id.Hex(), Name: "Alice", Role: "Student",
	}))
	if !ok {
		t.Fatal("UserCtx() ok = false for valid user")
	}
	if role != "student" {
		t.Errorf("role = %q, want lowercased %q", role, "student")
	}
	if name != "Alice" {
		t.Errorf("name = %q, want %q", name, "Alice")
	}
	if uid != id {
		t.Errorf("userID = %s, want %s", uid.Hex(), id.Hex())
	}
}

func TestUserCtxFailsClosed(t *testing.T) {
	// No session user.
	if role, _, uid, ok := authz.UserCtx(reqWith(nil)); ok || role != "visitor" || uid != primitive.NilObjectID {
		t.Errorf("UserCtx(anonymous) = (%q, %s, %v), want visitor/nil/false", role, uid.Hex(), ok)
	}
	// Malformed ID in the session.
	if _, _, _, ok := authz.UserCtx(reqWith(&auth.SessionUser{ID: "not-hex", Role: "student"})); ok {
		t.Error("UserCtx() ok = true for malformed user ID")
	}
}

func TestRolePredicates(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	admin := reqWith(&auth.SessionUser{ID: id, Role: "admin"})
	student := reqWith(&auth.SessionUser{ID: id, Role: "student"})

	if !authz.IsAdmin(admin) || authz.IsAdmin(student) {
		t.Error("IsAdmin misclassified a request")
	}
	if !authz.IsStudent(student) || authz.IsStudent(admin) {
		t.Error("IsStudent misclassified a request")
	}
}

func TestUserEmail(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	r := reqWith(&auth.SessionUser{ID: id, Email: "alice@example.edu"})
	if got := authz.UserEmail(r); got != "alice@example.edu" {
		t.Errorf("UserEmail() = %q, want %q", got, "alice@example.edu")
	}
	if got := authz.UserEmail(reqWith(nil)); got != "" {
		t.Errorf("UserEmail(anonymous) = %q, want empty", got)
	}
}
