// internal/domain/models/interest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Interest expression statuses. Pending is the only mutable state;
// approved and rejected are terminal.
const (
	InterestPending  = "pending"
	InterestApproved = "approved"
	InterestRejected = "rejected"
)

// InterestExpression is a candidate member's declared interest in joining
// a NeedPost's eventual group. Exactly one document per (post_id, user_id);
// the pair carries a unique index so a duplicate submission fails at the
// storage layer rather than creating a second record.
type InterestExpression struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PostID  primitive.ObjectID `bson:"post_id" json:"post_id"`
	UserID  primitive.ObjectID `bson:"user_id" json:"user_id"`
	Name    string             `bson:"name" json:"name"`
	Email   string             `bson:"email" json:"email"`
	Message string             `bson:"message" json:"message"`
	Status  string             `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
