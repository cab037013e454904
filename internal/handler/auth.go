package handler

import (
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/sakif/recipebox/internal/auth"
	"github.com/sakif/recipebox/internal/service"
	"github.com/sakif/recipebox/internal/validation"
)

// AuthHandler manages account registration, email/password login, the
// optional GitHub OAuth flow, and session management.
//
// Sessions are stateless JWTs delivered two ways at once: in the response
// body (for API clients that send Authorization headers) and in an HttpOnly
// cookie (for browsers). Logout just clears the cookie.
type AuthHandler struct {
	users    *service.UserService
	tokens   *auth.TokenService
	github   *auth.GitHubProvider // nil when OAuth is not configured
	validate *validation.Validator
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler. github may be nil; the server only
// mounts the OAuth routes when it isn't.
func NewAuthHandler(
	users *service.UserService,
	tokens *auth.TokenService,
	github *auth.GitHubProvider,
	validate *validation.Validator,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		users:    users,
		tokens:   tokens,
		github:   github,
		validate: validate,
		logger:   logger,
	}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required,min=5"`
	Name     string `json:"name,omitempty" validate:"max=255"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// tokenResponse is returned by login: the token for API clients, alongside
// the cookie the browser already received.
type tokenResponse struct {
	Token string `json:"token"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /api/auth/register
//
// Returns 201 with the public user representation. Duplicate emails come
// back 409 — registration is not an oracle-free endpoint, but rate limiting
// is the deployment's problem, not this handler's.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validate.Validate(req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// HandleLogin verifies credentials and issues a session.
//
// HTTP: POST /api/auth/login
//
// Every failure — unknown email, wrong password, deactivated account — is
// the same 401 with the same message. See UserService.Authenticate.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validate.Validate(req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	tokenStr, err := h.tokens.Generate(user.ID)
	if err != nil {
		h.logger.Error("login: token generation failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	setSessionCookie(w, tokenStr)
	writeJSON(w, http.StatusOK, tokenResponse{Token: tokenStr})
}

// HandleLogout clears the session cookie.
//
// HTTP: POST /api/auth/logout
//
// POST, not GET: logout changes state, and GET would be CSRF-able and
// prefetchable. The JWT itself stays valid until expiry — stateless tokens
// can't be revoked — but without the cookie the browser can't send it.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleMe returns the authenticated user's own profile.
//
// HTTP: GET /api/auth/me
// Auth: required
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, but don't bet on route wiring.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleGitHubLogin redirects the browser to GitHub's authorization page.
//
// HTTP: GET /auth/github/login
//
// A random state value goes into a short-lived HttpOnly cookie; the
// callback checks it to prove the flow started here and not on an
// attacker's page.
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10 minutes
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback completes the OAuth flow: state check, code
// exchange, local account provisioning, session cookie, redirect home.
//
// HTTP: GET /auth/github/callback?code=xxx&state=yyy
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("auth callback: state mismatch or missing")
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}

	// The state cookie is single-use.
	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("auth callback: user denied authorization", slog.String("error", errParam))
		http.Redirect(w, r, "/?auth=denied", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing OAuth code", http.StatusBadRequest)
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("auth callback: GitHub exchange failed", slog.String("error", err.Error()))
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	user, err := h.users.LoginGitHub(r.Context(), ghUser)
	if err != nil {
		h.logger.Error("auth callback: login failed",
			slog.String("login", ghUser.Login),
			slog.String("error", err.Error()),
		)
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	tokenStr, err := h.tokens.Generate(user.ID)
	if err != nil {
		h.logger.Error("auth callback: token generation failed", slog.String("error", err.Error()))
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	setSessionCookie(w, tokenStr)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// setSessionCookie stores the JWT in an HttpOnly cookie. HttpOnly keeps it
// out of reach of injected scripts; SameSite=Lax withholds it from
// cross-site POSTs. Secure is the reverse proxy's job — this server speaks
// plain HTTP in local dev.
func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.AccessTokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
