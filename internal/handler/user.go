package handler

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oakwellhq/webstarter/internal/auth"
	"github.com/oakwellhq/webstarter/internal/config"
	"github.com/oakwellhq/webstarter/internal/mail"
	"github.com/oakwellhq/webstarter/internal/middleware"
	"github.com/oakwellhq/webstarter/internal/model"
	"github.com/oakwellhq/webstarter/internal/queue"
	"github.com/oakwellhq/webstarter/internal/repository"
)

const resetTokenTTL = time.Hour

// UserHandler bundles the dependencies for the user and auth endpoints.
type UserHandler struct {
	Cfg      config.Config
	Users    UserStore
	Sessions SessionManager
	Mail     mail.Sender
	Events   queue.Publisher
}

func NewUserHandler(cfg config.Config, users UserStore, sessions SessionManager, sender mail.Sender, events queue.Publisher) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: users, Sessions: sessions, Mail: sender, Events: events}
}

// GetUsers lists every user; password hashes are projected out by the
// store.
func (h *UserHandler) GetUsers(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	users, err := h.Users.All(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// PostAuthenticate verifies credentials, establishes a session, and issues
// the signed token. Credential failures respond 200 with a failure body;
// malformed input responds 401.
func (h *UserHandler) PostAuthenticate(c echo.Context) error {
	var req model.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := model.Validate(&req); err != nil {
		var verr *model.ValidationError
		errors.As(err, &verr)
		return c.JSON(http.StatusUnauthorized, failResp{
			Msg:      verr.Msg,
			Redirect: "/signin",
		})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusOK, failResp{
			Msg:      "Authentication failed. User not found.",
			Redirect: "/signin",
		})
	}
	if err != nil {
		return err
	}
	if !auth.VerifyPassword(u.Password, req.Password) {
		return c.JSON(http.StatusOK, failResp{
			Msg:      "Authentication failed. Wrong password.",
			Redirect: "/signin",
		})
	}
	return h.loginAndRespond(c, u, req.Redirect)
}

// GetAuthenticate reflects the current session state.
func (h *UserHandler) GetAuthenticate(c echo.Context) error {
	uid := middleware.CurrentUserID(c)
	if uid == "" {
		return c.JSON(http.StatusOK, identityResp{
			User:     struct{}{},
			Redirect: false,
		})
	}
	id, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return c.JSON(http.StatusOK, identityResp{User: struct{}{}, Redirect: false})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusOK, identityResp{User: struct{}{}, Redirect: false})
	}
	if err != nil {
		return err
	}
	token, err := auth.SignToken(h.Cfg.JWTSecret, u.ID.Hex(), h.Cfg.JWTTTL)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, identityResp{
		User:          newUserPart(u),
		Token:         token,
		Success:       true,
		Authenticated: true,
		Redirect:      false,
	})
}

// PostLogin is the strict variant of PostAuthenticate: every failure is a
// 400.
func (h *UserHandler) PostLogin(c echo.Context) error {
	var req model.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := model.Validate(&req); err != nil {
		var verr *model.ValidationError
		errors.As(err, &verr)
		return c.JSON(http.StatusBadRequest, failResp{
			Msg:      verr.Msg,
			Redirect: "/signin",
		})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusBadRequest, failResp{
			Msg:      "Authentication failed. User not found.",
			Redirect: false,
		})
	}
	if err != nil {
		return err
	}
	if !auth.VerifyPassword(u.Password, req.Password) {
		return c.JSON(http.StatusBadRequest, failResp{
			Msg:      "Authentication failed. Wrong password.",
			Redirect: false,
		})
	}
	return h.loginAndRespond(c, u, req.Redirect)
}

// Logout destroys the session and expires the token cookie.
func (h *UserHandler) Logout(c echo.Context) error {
	if err := h.Sessions.Logout(c); err != nil {
		return err
	}
	clearTokenCookie(c)
	return c.String(http.StatusOK, "/")
}

// PostSignup creates an account after a uniqueness check, logs the new
// user in, and issues the signed token. The response payload never
// contains the password.
func (h *UserHandler) PostSignup(c echo.Context) error {
	var req model.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := model.Validate(&req); err != nil {
		var verr *model.ValidationError
		errors.As(err, &verr)
		return c.JSON(http.StatusBadRequest, failResp{
			Msg:      verr.Msg,
			Redirect: "/signup",
		})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if _, err := h.Users.GetByEmail(ctx, req.Email); err == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"msg": "Account with that email address already exists.",
		})
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return err
	}
	u := model.User{
		Email:    req.Email,
		Password: hash,
		Profile:  model.Profile{Name: req.Profile.Name},
	}
	if err := h.Users.Create(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"msg": "Account with that email address already exists.",
			})
		}
		return err
	}

	if h.Events != nil {
		h.Events.Publish(queue.AccountEvent{
			Kind:   queue.EventSignup,
			UserID: u.ID.Hex(),
			Email:  u.Email,
			At:     time.Now().UTC(),
		})
	}
	return h.loginAndRespond(c, u, req.Redirect)
}

// PutUpdateProfile merges the submitted profile fields into the current
// user.
func (h *UserHandler) PutUpdateProfile(c echo.Context) error {
	id, err := currentObjectID(c)
	if err != nil {
		return err
	}
	var req model.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := model.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.UpdateProfile(ctx, id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user":     u,
		"redirect": redirectValue(req.Redirect),
	})
}

// PutUpdatePassword sets a new password for the current user and re-issues
// both the session and the signed token.
func (h *UserHandler) PutUpdatePassword(c echo.Context) error {
	id, err := currentObjectID(c)
	if err != nil {
		return err
	}
	var req model.UpdatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := model.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	hash, err := auth.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return err
	}
	if err := h.Users.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}
	if err := h.reissueCredentials(c, id.Hex()); err != nil {
		return err
	}
	return c.String(http.StatusOK, "/account")
}

// DeleteAccount removes the current user and tears down the session.
func (h *UserHandler) DeleteAccount(c echo.Context) error {
	id, err := currentObjectID(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		return err
	}
	if err := h.Sessions.Logout(c); err != nil {
		return err
	}
	clearTokenCookie(c)
	return c.String(http.StatusOK, "/")
}

// GetReset validates a reset token without consuming it.
func (h *UserHandler) GetReset(c echo.Context) error {
	if middleware.CurrentUserID(c) != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"msg":   "Already authenticated",
			"valid": false,
		})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	if _, err := h.Users.GetByResetToken(ctx, c.Param("token")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"msg":   "Password reset token is invalid or has expired.",
				"valid": false,
			})
		}
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"msg":   "token is valid",
		"valid": true,
	})
}

// PostReset consumes a reset token: sets the new password, clears the
// token fields, logs the user in, and sends the confirmation mail. A mail
// failure surfaces as the request error; the completed password change is
// not rolled back.
func (h *UserHandler) PostReset(c echo.Context) error {
	var req model.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := model.Validate(&req); err != nil {
		var verr *model.ValidationError
		errors.As(err, &verr)
		return c.JSON(http.StatusBadRequest, echo.Map{"msg": verr.Msg})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.GetByResetToken(ctx, c.Param("token"))
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"msg": "Password reset token is invalid or has expired.",
		})
	}
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return err
	}
	u, err = h.Users.ResetPassword(ctx, u.ID, hash)
	if err != nil {
		return err
	}
	if err := h.Sessions.Login(c, u.ID.Hex()); err != nil {
		return err
	}
	if h.Events != nil {
		h.Events.Publish(queue.AccountEvent{
			Kind:   queue.EventPasswordReset,
			UserID: u.ID.Hex(),
			Email:  u.Email,
			At:     time.Now().UTC(),
		})
	}
	if err := h.Mail.Send(ctx, mail.ResetMessage(u.Email)); err != nil {
		return err
	}

	redirect := req.Redirect
	if redirect == "" {
		redirect = "/"
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"authenticated": true,
		"user":          newUserPart(u),
		"redirect":      redirect,
	})
}

// PostForgot generates a one-hour reset token and emails the reset link.
// Unknown addresses get the same-shaped reply so the endpoint does not
// disclose which accounts exist.
func (h *UserHandler) PostForgot(c echo.Context) error {
	var req model.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := model.Validate(&req); err != nil {
		return err
	}

	token, err := auth.NewResetToken()
	if err != nil {
		return err
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.SetResetToken(ctx, req.Email, token, time.Now().UTC().Add(resetTokenTTL))
	if errors.Is(err, repository.ErrNotFound) {
		return c.String(http.StatusOK, "/forgot")
	}
	if err != nil {
		return err
	}
	if err := h.Mail.Send(ctx, mail.ForgotMessage(u.Email, c.Request().Host, token)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"msg": "Email has been sent"})
}

// PostPhoto stores an uploaded profile photo under the uploads directory.
func (h *UserHandler) PostPhoto(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	src, err := file.Open()
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	defer func() { _ = src.Close() }()

	name := uuid.NewString() + "_" + filepath.Base(file.Filename)
	dst, err := os.Create(filepath.Join(h.Cfg.ClientDir, "uploads", name))
	if err != nil {
		return err
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, src); err != nil {
		return err
	}
	return c.NoContent(http.StatusCreated)
}

// loginAndRespond establishes the session, issues the signed token and its
// cookie, and writes the standard auth success payload.
func (h *UserHandler) loginAndRespond(c echo.Context, u model.User, redirect string) error {
	if err := h.Sessions.Login(c, u.ID.Hex()); err != nil {
		return err
	}
	token, err := auth.SignToken(h.Cfg.JWTSecret, u.ID.Hex(), h.Cfg.JWTTTL)
	if err != nil {
		return err
	}
	setTokenCookie(c, token, h.Cfg.JWTTTL)
	return c.JSON(http.StatusOK, authResp{
		Success:       true,
		Authenticated: true,
		User:          newUserPart(u),
		Token:         "JWT " + token,
		Redirect:      redirectValue(redirect),
	})
}

// reissueCredentials refreshes both the session and the token cookie after
// a credential change.
func (h *UserHandler) reissueCredentials(c echo.Context, uid string) error {
	if err := h.Sessions.Login(c, uid); err != nil {
		return err
	}
	token, err := auth.SignToken(h.Cfg.JWTSecret, uid, h.Cfg.JWTTTL)
	if err != nil {
		return err
	}
	setTokenCookie(c, token, h.Cfg.JWTTTL)
	return nil
}

// currentObjectID parses the authenticated user id from the request
// context.
func currentObjectID(c echo.Context) (primitive.ObjectID, error) {
	uid := middleware.CurrentUserID(c)
	if uid == "" {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	id, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	return id, nil
}
