// AngelaMos | 2026
// dto.go

package user

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRequest is the create/update payload.
type UserRequest struct {
	ID                    string       `json:"_id,omitempty"`
	AuthID                string       `json:"authId,omitempty"`
	Email                 string       `json:"email"     validate:"required,email"`
	FirstName             string       `json:"firstName" validate:"required,min=1"`
	LastName              string       `json:"lastName"  validate:"required,min=1"`
	ProfileImageURL       string       `json:"profileImageUrl,omitempty"`
	AgreePrivacy          *bool        `json:"agreePrivacy"          validate:"required"`
	ReceiveCommunications *bool        `json:"receiveCommunications" validate:"required"`
	Onboardings           *Onboardings `json:"onboardings,omitempty"`
}

func (r *UserRequest) ToUser() *User {
	u := &User{
		AuthID:          r.AuthID,
		Email:           r.Email,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		ProfileImageURL: r.ProfileImageURL,
		Onboardings:     r.Onboardings,
	}

	if r.AgreePrivacy != nil {
		u.AgreePrivacy = *r.AgreePrivacy
	}
	if r.ReceiveCommunications != nil {
		u.ReceiveCommunications = *r.ReceiveCommunications
	}

	if r.ID != "" {
		if id, err := primitive.ObjectIDFromHex(r.ID); err == nil {
			u.ID = id
		}
	}

	return u
}

// OnboardingEventRequest marks one guided tour as completed.
type OnboardingEventRequest struct {
	UserID string `json:"userId" validate:"required"`
	Event  string `json:"event"  validate:"required,oneof=pageList pageEditor"`
}

// PaymentIDRequest links a billing customer id to an account. Sent by the
// payments service over the system surface.
type PaymentIDRequest struct {
	Email     string `json:"email"     validate:"required,email"`
	PaymentID string `json:"paymentId" validate:"required"`
}

// DeleteResult reports what the account deletion cascade removed.
type DeleteResult struct {
	UsersDeletedCount int64 `json:"usersDeletedCount"`
	PagesDeletedCount int64 `json:"pagesDeletedCount"`
}
