package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserJSONNeverContainsPassword(t *testing.T) {
	u := User{
		Email:              "A@B.com",
		Password:           "$2a$10$hash",
		Profile:            Profile{Name: "A"},
		Roles:              []string{"user"},
		ResetPasswordToken: "tok",
	}
	raw, err := json.Marshal(u)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.NotContains(t, out, "password")
	assert.NotContains(t, out, "resetPasswordToken")
	assert.NotContains(t, string(raw), "$2a$10$hash")
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@b.com", NormalizeEmail("  A@B.Com "))
}

func TestGravatarStableAcrossCase(t *testing.T) {
	a := (&User{Email: "a@b.com"}).Gravatar()
	b := (&User{Email: "A@B.COM"}).Gravatar()
	assert.Equal(t, a, b)
	assert.Contains(t, a, "https://gravatar.com/avatar/")
}
