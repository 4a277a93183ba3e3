package controllers

import (
	"errors"
	"net/http"

	"github.com/travlrgetaways/travlr/app/apperr"
	"github.com/travlrgetaways/travlr/app/services"
	"github.com/travlrgetaways/travlr/pkg/bind"
	"github.com/travlrgetaways/travlr/pkg/logger"
	"github.com/travlrgetaways/travlr/pkg/response"
	"github.com/travlrgetaways/travlr/pkg/session"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

type registerRequest struct {
	FName    string `json:"fName" validate:"required"`
	LName    string `json:"lName"`
	Email    string `json:"email" validate:"required|email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register handles POST /api/register. When the caller carries a guest
// session its cart moves onto the new account before the cookie rotates.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := bind.JSON(r, &req); err != nil {
		response.Message(w, http.StatusBadRequest, "All fields required")
		return
	}

	in := services.RegisterInput{
		FName:    req.FName,
		LName:    req.LName,
		Email:    req.Email,
		Password: req.Password,
	}

	// A tampered cookie reads as no session; registration proceeds
	// without migration in that case.
	if sess, err := session.Read(r); err == nil && !sess.IsRegistered {
		in.GuestID = sess.UserID
	}

	user, token, err := c.auth.Register(r.Context(), in)
	switch {
	case errors.Is(err, apperr.ErrDuplicateEmail):
		response.Message(w, http.StatusConflict, "A user with this email already exists.")
		return
	case err != nil:
		logger.WithCtx(r.Context()).Error("register failed", "error", err)
		response.Message(w, http.StatusInternalServerError, "Server error")
		return
	}

	// The fresh cookie is registered but not yet authenticated; login or
	// a two-factor verify flips that.
	if err := session.Write(w, session.Data{
		Token:        token,
		UserID:       user.ID.Hex(),
		IsRegistered: true,
	}); err != nil {
		logger.WithCtx(r.Context()).Error("register: session write failed", "error", err)
	}

	response.JSON(w, http.StatusOK, map[string]string{
		"token":   token,
		"message": "Welcome to Travlr Getaways, " + user.FullName(),
	})
}

// Login handles POST /api/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := bind.JSON(r, &req); err != nil {
		response.Message(w, http.StatusBadRequest, "All fields required")
		return
	}

	user, token, err := c.auth.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, apperr.ErrInvalidCredentials):
		response.Message(w, http.StatusUnauthorized, "Invalid credentials")
		return
	case err != nil:
		logger.WithCtx(r.Context()).Error("login failed", "error", err)
		response.Message(w, http.StatusInternalServerError, "Server error")
		return
	}

	if err := session.Write(w, session.Data{
		Token:           token,
		UserID:          user.ID.Hex(),
		IsRegistered:    true,
		IsAuthenticated: true,
	}); err != nil {
		logger.WithCtx(r.Context()).Error("login: session write failed", "error", err)
	}

	response.JSON(w, http.StatusOK, map[string]string{"token": token})
}

// RegisterGuest handles POST /api/guest.
func (c *AuthController) RegisterGuest(w http.ResponseWriter, r *http.Request) {
	guest, token, err := c.auth.RegisterGuest(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("guest registration failed", "error", err)
		response.Message(w, http.StatusInternalServerError, "Server error")
		return
	}

	if err := session.Write(w, session.Data{
		Token:        token,
		UserID:       guest.ID.Hex(),
		IsRegistered: false,
	}); err != nil {
		logger.WithCtx(r.Context()).Error("guest: session write failed", "error", err)
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"guestUser": guest,
		"token":     token,
	})
}

// CheckSession handles GET /api/checkSession. A missing or tampered
// cookie is not an error, just an empty answer.
func (c *AuthController) CheckSession(w http.ResponseWriter, r *http.Request) {
	sess, err := session.Read(r)
	if err != nil {
		response.JSON(w, http.StatusOK, map[string]any{"hasSession": false})
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"hasSession": true,
		"session":    sess,
	})
}

// Logout handles POST /api/logout.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	session.Clear(w)
	response.Message(w, http.StatusOK, "Logged out")
}
