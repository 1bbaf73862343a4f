// Package model defines the persisted documents and the typed request
// payloads accepted at the HTTP boundary.
package model

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile holds the user's public profile sub-document.
type Profile struct {
	Name     string `bson:"name" json:"name"`
	Gender   string `bson:"gender,omitempty" json:"gender,omitempty"`
	Location string `bson:"location,omitempty" json:"location,omitempty"`
	Website  string `bson:"website,omitempty" json:"website,omitempty"`
}

// User is a document in the users collection. The bcrypt hash is stored
// under `password` but is never serialized to JSON.
type User struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email                string             `bson:"email" json:"email"`
	Password             string             `bson:"password" json:"-"`
	Profile              Profile            `bson:"profile" json:"profile"`
	Roles                []string           `bson:"roles" json:"roles"`
	ResetPasswordToken   string             `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetPasswordExpires time.Time          `bson:"resetPasswordExpires,omitempty" json:"-"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NormalizeEmail lowercases and trims an email address. Uniqueness in the
// users collection is enforced on the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Gravatar derives the avatar URL for the user's email.
func (u *User) Gravatar() string {
	sum := md5.Sum([]byte(NormalizeEmail(u.Email)))
	return "https://gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?s=200&d=retro"
}
