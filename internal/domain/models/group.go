// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group statuses.
const (
	GroupStatusActive   = "active"
	GroupStatusArchived = "archived"
)

// Group visibility, derived from the originating post's kind.
const (
	GroupVisibilityPublic  = "public"
	GroupVisibilityPrivate = "private"
)

// Member is a user admitted into a group. Owned exclusively by its Group;
// never referenced independently.
type Member struct {
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	Name     string             `bson:"name" json:"name"`
	JoinedAt time.Time          `bson:"joined_at" json:"joined_at"`
}

// Group is the bounded-capacity membership entity formed from a NeedPost.
//
// NOTE:
//   - CreatedFromPost is the single canonical back-reference to the
//     originating post. There is at most one group per post; the creation
//     path re-checks for an existing group immediately before insert.
//   - len(Members) <= MaxMembers at all times. Admission appends through a
//     conditional update that re-checks capacity against the stored
//     document, so concurrent batches cannot overrun it.
type Group struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedFromPost primitive.ObjectID `bson:"created_from_post" json:"created_from_post"`
	Name            string             `bson:"name" json:"name"`
	NameCI          string             `bson:"name_ci" json:"name_ci"`
	Description     string             `bson:"description" json:"description"`
	MaxMembers      int                `bson:"max_members" json:"max_members"`
	Status          string             `bson:"status" json:"status"`
	Visibility      string             `bson:"visibility" json:"visibility"`
	Members         []Member           `bson:"members" json:"members"`
	CreatedBy       primitive.ObjectID `bson:"created_by" json:"created_by"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasMember reports whether the user already appears in the member list.
func (g Group) HasMember(userID primitive.ObjectID) bool {
	for _, m := range g.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// IsFull reports whether the group has reached capacity.
func (g Group) IsFull() bool {
	return len(g.Members) >= g.MaxMembers
}
