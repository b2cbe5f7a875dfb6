// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

// Credential holds the login secret for an account, separate from the user
// profile document.
type Credential struct {
	ID           string    `bson:"_id"`
	AuthID       string    `bson:"authId"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"passwordHash"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

type RefreshToken struct {
	ID           string     `bson:"_id"`
	UserID       string     `bson:"userId"`
	TokenHash    string     `bson:"tokenHash"`
	FamilyID     string     `bson:"familyId"`
	ExpiresAt    time.Time  `bson:"expiresAt"`
	CreatedAt    time.Time  `bson:"createdAt"`
	IsUsed       bool       `bson:"isUsed"`
	UsedAt       *time.Time `bson:"usedAt,omitempty"`
	RevokedAt    *time.Time `bson:"revokedAt,omitempty"`
	ReplacedByID *string    `bson:"replacedById,omitempty"`
	UserAgent    string     `bson:"userAgent"`
	IPAddress    string     `bson:"ipAddress"`
}

func (t *RefreshToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

func (t *RefreshToken) IsValid() bool {
	return !t.IsExpired() && !t.IsRevoked() && !t.IsUsed
}
