package model

import (
	"github.com/go-playground/validator/v10"
)

// ValidationError carries the first failing field's human-readable message.
// The central error handler maps it to a 400 response.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// SignupRequest is the payload for POST /api/signup.
type SignupRequest struct {
	Email           string        `json:"email" validate:"required,email"`
	Password        string        `json:"password" validate:"required,min=6"`
	ConfirmPassword string        `json:"confirmPassword" validate:"eqfield=Password"`
	Profile         SignupProfile `json:"profile" validate:"required"`
	Redirect        string        `json:"redirect"`
}

// SignupProfile is the profile sub-payload of a signup request.
type SignupProfile struct {
	Name string `json:"name" validate:"required"`
}

// LoginRequest is the payload for POST /api/login and POST /api/authenticate.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Redirect string `json:"redirect"`
}

// UpdateProfileRequest is the payload for PUT /api/user/profile. Empty
// fields are left untouched.
type UpdateProfileRequest struct {
	Email    string  `json:"email" validate:"omitempty,email"`
	Profile  Profile `json:"profile"`
	Redirect string  `json:"redirect"`
}

// UpdatePasswordRequest is the payload for PUT /api/user/password.
type UpdatePasswordRequest struct {
	Password        string `json:"password" validate:"required,min=4"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

// ResetPasswordRequest is the payload for POST /api/reset/:token.
type ResetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=4"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
	Redirect        string `json:"redirect"`
}

// ForgotPasswordRequest is the payload for POST /api/forgot.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// BlogPostRequest is the payload for blog create and update operations.
type BlogPostRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

var validate = validator.New()

// messages maps a validator struct namespace to the message reported for
// the first failing field. The texts match the responses clients already
// rely on.
var messages = map[string]string{
	"SignupRequest.Email":                   "Email is not valid",
	"SignupRequest.Password":                "Password must be at least 6 characters long",
	"SignupRequest.ConfirmPassword":         "Passwords do not match",
	"SignupRequest.Profile":                 "Name must not be empty",
	"SignupRequest.Profile.Name":            "Name must not be empty",
	"LoginRequest.Email":                    "Email is not valid",
	"LoginRequest.Password":                 "Password cannot be blank",
	"UpdateProfileRequest.Email":            "Email is not valid",
	"UpdatePasswordRequest.Password":        "Password must be at least 4 characters long",
	"UpdatePasswordRequest.ConfirmPassword": "Passwords do not match",
	"ResetPasswordRequest.Password":         "Password must be at least 4 characters long.",
	"ResetPasswordRequest.ConfirmPassword":  "Passwords must match.",
	"ForgotPasswordRequest.Email":           "Please enter a valid email address.",
	"BlogPostRequest.Title":                 "Title must not be empty",
	"BlogPostRequest.Content":               "Content must not be empty",
}

// Validate checks a request payload and returns a *ValidationError carrying
// the first failure's message, or nil when the payload is valid.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return &ValidationError{Msg: "invalid request"}
	}
	first := errs[0]
	if msg, ok := messages[first.StructNamespace()]; ok {
		return &ValidationError{Msg: msg}
	}
	return &ValidationError{Msg: first.StructField() + " is not valid"}
}
