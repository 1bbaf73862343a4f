// Package handler implements the HTTP controllers for users and blog
// posts. Handlers bind typed request payloads, delegate validation to the
// model layer and persistence to the repositories, and shape the JSON
// responses.
package handler

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oakwellhq/webstarter/internal/model"
)

// UserStore is the persistence surface the user handler needs. It is
// satisfied by *repository.UserRepo; tests substitute an in-memory fake.
type UserStore interface {
	All(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (model.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, req model.UpdateProfileRequest) (model.User, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error
	SetResetToken(ctx context.Context, email, token string, expires time.Time) (model.User, error)
	GetByResetToken(ctx context.Context, token string) (model.User, error)
	ResetPassword(ctx context.Context, id primitive.ObjectID, hash string) (model.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// BlogStore is the persistence surface the blog handler needs, satisfied
// by *repository.BlogRepo.
type BlogStore interface {
	All(ctx context.Context) ([]model.BlogPost, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (model.BlogPost, error)
	Create(ctx context.Context, p *model.BlogPost) error
	Update(ctx context.Context, id primitive.ObjectID, req model.BlogPostRequest) (model.BlogPost, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// SessionManager is the session surface handlers use, satisfied by
// *session.Manager.
type SessionManager interface {
	Login(c echo.Context, userID string) error
	Logout(c echo.Context) error
	UserID(c echo.Context) string
}

// reqContext bounds a handler's database work the way the rest of the
// request pipeline does.
func reqContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
