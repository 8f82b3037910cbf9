package models

import "time"

// UserRecord is the persistent per-user profile document. It is keyed by a
// caller-supplied string (email when the identity provider supplies one,
// otherwise the provider-issued subject/uid).
type UserRecord struct {
	ID        string    `bson:"_id,omitempty" json:"id,omitempty"`
	Key       string    `bson:"key" json:"key"`
	Name      string    `bson:"name,omitempty" json:"name,omitempty"`
	Email     string    `bson:"email,omitempty" json:"email,omitempty"`
	Image     string    `bson:"image,omitempty" json:"image,omitempty"`
	Provider  string    `bson:"provider" json:"provider"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
