// AngelaMos | 2026
// entity.go

// Package user holds account records. A user is created after external
// identity sign-up completes; AuthID links the record to the identity
// provider and Email is immutable once stored.
package user

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty"         json:"_id,omitempty"`
	AuthID                string             `bson:"authId,omitempty"      json:"authId,omitempty"`
	Email                 string             `bson:"email"                 json:"email"`
	FirstName             string             `bson:"firstName"             json:"firstName"`
	LastName              string             `bson:"lastName"              json:"lastName"`
	ProfileImageURL       string             `bson:"profileImageUrl,omitempty" json:"profileImageUrl,omitempty"`
	PaymentID             string             `bson:"paymentId,omitempty"   json:"paymentId,omitempty"`
	AgreePrivacy          bool               `bson:"agreePrivacy"          json:"agreePrivacy"`
	ReceiveCommunications bool               `bson:"receiveCommunications" json:"receiveCommunications"`
	Onboardings           *Onboardings       `bson:"onboardings,omitempty" json:"onboardings,omitempty"`
	CreatedAt             time.Time          `bson:"createdAt,omitempty"   json:"createdAt,omitempty"`
	UpdatedAt             time.Time          `bson:"updatedAt,omitempty"   json:"updatedAt,omitempty"`
}

// Onboardings tracks which in-app guided tours the user has finished.
type Onboardings struct {
	PageList   OnboardingState `bson:"pageList"   json:"pageList"`
	PageEditor OnboardingState `bson:"pageEditor" json:"pageEditor"`
}

type OnboardingState struct {
	Completed   bool      `bson:"completed"             json:"completed"`
	CompletedAt time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}
