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

// TwoFactorController runs the enrollment flow. Both endpoints key off
// the session cookie rather than the bearer token: the setup page is
// served to a logged-in browser, not to API clients.
type TwoFactorController struct {
	twofactor *services.TwoFactorService
}

func NewTwoFactorController(twofactor *services.TwoFactorService) *TwoFactorController {
	return &TwoFactorController{twofactor: twofactor}
}

type verifyRequest struct {
	Code string `json:"code" validate:"required"`
}

// Setup handles POST /api/2fa/setup.
func (c *TwoFactorController) Setup(w http.ResponseWriter, r *http.Request) {
	sess, err := session.Read(r)
	if err != nil {
		response.Message(w, http.StatusUnauthorized, "No cookie exist")
		return
	}

	enrollment, err := c.twofactor.Setup(r.Context(), sess.UserID)
	if err != nil {
		logger.WithCtx(r.Context()).Error("2fa: setup failed", "error", err)
		response.Message(w, http.StatusInternalServerError, "Server error")
		return
	}

	payload := session.TwoFactorData{
		Token:   sess.Token,
		Message: "Scan QR code with Google Authenticator",
		QRCode:  enrollment.QRCode,
		Secret:  enrollment.Secret,
	}

	// The setup cookie lives for a minute and only on the setup path, so
	// the secret is not replayable from elsewhere in the site.
	if err := session.WriteTwoFactor(w, payload); err != nil {
		logger.WithCtx(r.Context()).Error("2fa: cookie write failed", "error", err)
	}

	response.JSON(w, http.StatusOK, payload)
}

// Verify handles POST /api/2fa/verify.
func (c *TwoFactorController) Verify(w http.ResponseWriter, r *http.Request) {
	sess, err := session.Read(r)
	if err != nil {
		response.Message(w, http.StatusUnauthorized, "No cookie exist")
		return
	}

	var req verifyRequest
	if err := bind.JSON(r, &req); err != nil {
		response.Message(w, http.StatusBadRequest, "Code required")
		return
	}

	err = c.twofactor.Verify(r.Context(), sess.UserID, req.Code)
	switch {
	case errors.Is(err, apperr.ErrInvalidCode):
		response.Message(w, http.StatusUnauthorized, "Invalid verification code")
		return
	case err != nil:
		logger.WithCtx(r.Context()).Error("2fa: verify failed", "error", err)
		response.Message(w, http.StatusInternalServerError, "Server error")
		return
	}

	sess.IsAuthenticated = true
	if err := session.Write(w, sess); err != nil {
		logger.WithCtx(r.Context()).Error("2fa: session write failed", "error", err)
	}

	response.Message(w, http.StatusOK, "2FA successfully enabled")
}
