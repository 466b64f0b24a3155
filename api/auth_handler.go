package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rpupo63/portfolio-site-backend/auth"
	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/forms"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authHandler struct {
	responder    Responder
	logger       zerolog.Logger
	sessions     *auth.Sessions
	secureCookie bool
}

func newAuthHandler(sessions *auth.Sessions, secureCookie bool) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()
	return authHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		sessions:     sessions,
		secureCookie: secureCookie,
	}
}

func (h authHandler) setCookie(w http.ResponseWriter, value string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// login signs the admin in and sets the session cookie
// @Summary Sign in
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Admin credentials"
// @Success 200 {object} map[string]any "Session and token"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Router /api/auth/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		session, token, err := h.sessions.SignIn(r.Context(), req.Email, req.Password)
		if err != nil {
			h.responder.WriteFailure(w, err, forms.FailureNotice(forms.CategoryRemote, err))
			return
		}

		h.setCookie(w, token, session.ExpiresAt)
		h.logger.Info().Str("sessionID", session.ID).Msg("admin signed in")
		h.responder.WriteOutcome(w, http.StatusOK, map[string]any{
			"session": session,
			"token":   token,
		}, forms.SuccessNotice("Signed in"))
	}
}

// logout revokes the current session and clears the cookie
// @Router /api/auth/logout [post]
func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.sessions.SignOut(tokenFromRequest(r))
		h.setCookie(w, "", time.Unix(0, 0))
		h.responder.WriteOutcome(w, http.StatusOK, nil, forms.SuccessNotice("Signed out"))
	}
}

// session reports whether the caller holds a live session
// @Router /api/auth/session [get]
func (h authHandler) session() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := h.sessions.Resolve(tokenFromRequest(r))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, map[string]any{"session": session})
	}
}
