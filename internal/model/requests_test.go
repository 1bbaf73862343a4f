package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSignup(t *testing.T) {
	valid := SignupRequest{
		Email:           "a@b.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Profile:         SignupProfile{Name: "A"},
	}
	require.NoError(t, Validate(&valid))

	tests := []struct {
		name   string
		mutate func(*SignupRequest)
		msg    string
	}{
		{"bad email", func(r *SignupRequest) { r.Email = "not-an-email" }, "Email is not valid"},
		{"short password", func(r *SignupRequest) { r.Password = "abc"; r.ConfirmPassword = "abc" }, "Password must be at least 6 characters long"},
		{"mismatch", func(r *SignupRequest) { r.ConfirmPassword = "other1" }, "Passwords do not match"},
		{"empty name", func(r *SignupRequest) { r.Profile.Name = "" }, "Name must not be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := Validate(&req)
			require.Error(t, err)
			verr, ok := err.(*ValidationError)
			require.True(t, ok)
			assert.Equal(t, tt.msg, verr.Msg)
		})
	}
}

func TestValidateLogin(t *testing.T) {
	require.NoError(t, Validate(&LoginRequest{Email: "a@b.com", Password: "x"}))

	err := Validate(&LoginRequest{Email: "nope", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, "Email is not valid", err.(*ValidationError).Msg)

	err = Validate(&LoginRequest{Email: "a@b.com"})
	require.Error(t, err)
	assert.Equal(t, "Password cannot be blank", err.(*ValidationError).Msg)
}

func TestValidateReset(t *testing.T) {
	require.NoError(t, Validate(&ResetPasswordRequest{Password: "abcd", ConfirmPassword: "abcd"}))

	err := Validate(&ResetPasswordRequest{Password: "abc", ConfirmPassword: "abc"})
	require.Error(t, err)
	assert.Equal(t, "Password must be at least 4 characters long.", err.(*ValidationError).Msg)

	err = Validate(&ResetPasswordRequest{Password: "abcd", ConfirmPassword: "efgh"})
	require.Error(t, err)
	assert.Equal(t, "Passwords must match.", err.(*ValidationError).Msg)
}

func TestValidateForgot(t *testing.T) {
	require.NoError(t, Validate(&ForgotPasswordRequest{Email: "a@b.com"}))

	err := Validate(&ForgotPasswordRequest{Email: ""})
	require.Error(t, err)
	assert.Equal(t, "Please enter a valid email address.", err.(*ValidationError).Msg)
}
