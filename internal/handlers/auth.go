package handlers

import (
	"encoding/base64"
	"net/http"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"rezepta/internal/middleware"
	"rezepta/internal/session"
	"rezepta/internal/store"
)

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	sessions  *session.Store
	userStore *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, userStore *store.UserStore) *Auth {
	return &Auth{
		sessions:  sessions,
		userStore: userStore,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login validates credentials and opens a session. The response tells the
// client whether a 2FA step is still ahead (verification or first-time
// setup); until that step completes the session cannot reach admin routes.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := a.userStore.FindByEmail(r.Context(), req.Email)
	if err != nil {
		respondInternal(w, "login lookup failed", err)
		return
	}

	if user == nil || !a.userStore.CheckPassword(user, req.Password) {
		respondErr(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	if !user.IsActive() {
		respondErr(w, http.StatusForbidden, "This account is deactivated.")
		return
	}

	// Admins and sub-admins must pass a TOTP step before the session is
	// fully authenticated. Everyone else is done after the password.
	needsVerify := user.TOTPEnabled
	needsSetup := user.Needs2FASetup()

	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.Name,
		Role:        user.Role,
		TwoFADone:   !needsVerify && !needsSetup,
	})
	if err != nil {
		respondInternal(w, "session create failed", err)
		return
	}

	respondOK(w, map[string]any{
		"user":          user,
		"two_fa_verify": needsVerify,
		"two_fa_setup":  needsSetup,
	})
}

// Me returns the authenticated user, or null for anonymous visitors.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondOK(w, nil)
		return
	}

	user, err := a.userStore.FindByID(r.Context(), sess.UserID)
	if err != nil {
		respondInternal(w, "me lookup failed", err)
		return
	}
	respondOK(w, user)
}

// TwoFASetup generates a TOTP secret for the session user and returns it
// together with a base64-encoded QR code PNG for authenticator apps.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondErr(w, http.StatusUnauthorized, "authentication required")
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "Rezepta",
		AccountName: sess.Email,
	})
	if err != nil {
		respondInternal(w, "totp generate failed", err)
		return
	}

	if err := a.userStore.SetTOTPSecret(r.Context(), sess.UserID, key.Secret()); err != nil {
		respondInternal(w, "save totp secret failed", err)
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		respondInternal(w, "qr code generation failed", err)
		return
	}

	respondOK(w, map[string]any{
		"secret":  key.Secret(),
		"qr_code": base64.StdEncoding.EncodeToString(qrPNG),
	})
}

type twoFAVerifyRequest struct {
	Code string `json:"code"`
}

// TwoFAVerify validates the TOTP code and completes authentication.
// On a first-time setup the secret is activated permanently.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondErr(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req twoFAVerifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := a.userStore.FindByID(r.Context(), sess.UserID)
	if err != nil || user == nil {
		respondInternal(w, "user lookup for 2fa failed", err)
		return
	}

	if user.TOTPSecret == nil {
		respondErr(w, http.StatusBadRequest, "2FA has not been set up yet.")
		return
	}

	if !totp.Validate(req.Code, *user.TOTPSecret) {
		respondErr(w, http.StatusUnauthorized, "Invalid code. Please try again.")
		return
	}

	// First successful verification activates the enrollment.
	if !user.TOTPEnabled {
		if err := a.userStore.EnableTOTP(r.Context(), user.ID); err != nil {
			respondInternal(w, "enable totp failed", err)
			return
		}
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		respondInternal(w, "session update failed", err)
		return
	}

	respondOK(w, map[string]any{"verified": true})
}

// Logout destroys the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.sessions.Destroy(r.Context(), w, r)
	respondOK(w, nil)
}
