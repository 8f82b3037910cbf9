package sessions

import "time"

// Session is one refresh session created on a session-established event.
// UserKey addresses the user record; Provider labels the identity source
// that authenticated this login.
type Session struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	RefreshToken string    `bson:"refreshToken" json:"refreshToken"`
	UserKey      string    `bson:"userKey" json:"userKey"`
	Provider     string    `bson:"provider,omitempty" json:"provider,omitempty"`
	ExpiresAt    time.Time `bson:"expiresAt" json:"expiresAt"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}
