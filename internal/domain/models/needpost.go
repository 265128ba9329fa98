// internal/domain/models/needpost.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post kinds. The kind selects which detail struct is populated and
// which visibility the formed group gets.
const (
	PostKindStudy     = "study"
	PostKindTransport = "transport"
)

// Post statuses.
const (
	PostStatusOpen      = "open"
	PostStatusFulfilled = "fulfilled"
	PostStatusClosed    = "closed"
)

// Gender preferences for a post.
const (
	GenderAny        = "any"
	GenderFemaleOnly = "female-only"
	GenderMaleOnly   = "male-only"
)

// StudyDetail holds the fields specific to a study-group post.
type StudyDetail struct {
	Subject          string `bson:"subject" json:"subject"`
	CourseCode       string `bson:"course_code" json:"course_code"`
	MeetingFrequency string `bson:"meeting_frequency" json:"meeting_frequency"`
}

// TransportDetail holds the fields specific to a shared-transport post.
type TransportDetail struct {
	Route       string `bson:"route" json:"route"`
	VehicleType string `bson:"vehicle_type" json:"vehicle_type"`
	Schedule    string `bson:"schedule" json:"schedule"`
}

// NeedPost is a request seeking companions for a study group or shared
// transport. Exactly one of Study/Transport is non-nil, selected by Kind.
//
// NOTE:
//   - Interest expressions are not embedded here; they live in the
//     interest_expressions collection keyed by post_id.
//   - Posts are never physically deleted; Status carries the lifecycle.
type NeedPost struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Kind        string             `bson:"kind" json:"kind"`
	Title       string             `bson:"title" json:"title"`
	TitleCI     string             `bson:"title_ci" json:"title_ci"`
	Description string             `bson:"description" json:"description"`

	Study     *StudyDetail     `bson:"study,omitempty" json:"study,omitempty"`
	Transport *TransportDetail `bson:"transport,omitempty" json:"transport,omitempty"`

	GenderPreference string             `bson:"gender_preference" json:"gender_preference"`
	MaxMembers       int                `bson:"max_members" json:"max_members"`
	Status           string             `bson:"status" json:"status"`
	CreatedBy        primitive.ObjectID `bson:"created_by" json:"created_by"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsOpen reports whether the post can still receive interest expressions.
func (p NeedPost) IsOpen() bool {
	return p.Status == PostStatusOpen
}

// GroupVisibility returns the visibility a group formed from this post gets:
// transport groups are private, study groups public.
func (p NeedPost) GroupVisibility() string {
	if p.Kind == PostKindTransport {
		return GroupVisibilityPrivate
	}
	return GroupVisibilityPublic
}
