package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/diewo77/learnhub/internal/auth"
	"github.com/diewo77/learnhub/internal/config"
	"github.com/diewo77/learnhub/internal/gate"
	"github.com/diewo77/learnhub/internal/httpx"
	"github.com/diewo77/learnhub/internal/obs"
	"github.com/diewo77/learnhub/internal/services"
)

const (
	oauthStateCookie = "oauth_state"
	userinfoURL      = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// GoogleHandler implements the federated sign-in flow. First sign-in
// creates a STUDENT with onboarding incomplete; the federated path never
// elevates a role.
type GoogleHandler struct {
	oauth *oauth2.Config
	Reg   *services.RegistrationService
	Toks  *auth.TokenIssuer
}

func NewGoogleHandler(cfg config.Config, reg *services.RegistrationService, tokens *auth.TokenIssuer) *GoogleHandler {
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		return &GoogleHandler{Reg: reg, Toks: tokens}
	}
	return &GoogleHandler{
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		Reg:  reg,
		Toks: tokens,
	}
}

// Enabled reports whether provider credentials are configured.
func (h *GoogleHandler) Enabled() bool { return h.oauth != nil }

// Start handles GET /auth/google: issue a state nonce and send the browser
// to the provider's consent screen.
func (h *GoogleHandler) Start(w http.ResponseWriter, r *http.Request) {
	if !h.Enabled() {
		httpx.JSONError(w, http.StatusNotFound, "Federated sign-in is not configured", nil)
		return
	}
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(10 * time.Minute),
	})
	http.Redirect(w, r, h.oauth.AuthCodeURL(state), http.StatusSeeOther)
}

type googleUserinfo struct {
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

// Callback handles GET /auth/google/callback: validate state, exchange the
// code, read the provider profile, upsert the user and mint a session.
// Claims are always re-read from the user row here; a prior session's copy
// is never trusted because the provider carries no role or onboarding
// state.
func (h *GoogleHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if !h.Enabled() {
		httpx.JSONError(w, http.StatusNotFound, "Federated sign-in is not configured", nil)
		return
	}
	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		httpx.JSONError(w, http.StatusUnauthorized, "Invalid sign-in state", nil)
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		httpx.JSONError(w, http.StatusUnauthorized, "Missing authorization code", nil)
		return
	}

	token, err := h.oauth.Exchange(r.Context(), code)
	if err != nil {
		obs.Log("auth.oauth.exchange_error", map[string]any{"error": err.Error()})
		httpx.JSONError(w, http.StatusUnauthorized, "Sign-in failed", nil)
		return
	}

	resp, err := h.oauth.Client(r.Context(), token).Get(userinfoURL)
	if err != nil {
		obs.Log("auth.oauth.userinfo_error", map[string]any{"error": err.Error()})
		httpx.JSONError(w, http.StatusUnauthorized, "Sign-in failed", nil)
		return
	}
	defer resp.Body.Close()
	var info googleUserinfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil || info.Email == "" {
		httpx.JSONError(w, http.StatusUnauthorized, "Sign-in failed", nil)
		return
	}

	user, err := h.Reg.UpsertFederated(r.Context(), services.FederatedInput{
		Email:     info.Email,
		FirstName: info.GivenName,
		LastName:  info.FamilyName,
		Avatar:    info.Picture,
	})
	if err != nil {
		obs.Log("auth.oauth.upsert_error", map[string]any{"error": err.Error()})
		httpx.JSONError(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	if !user.IsActive {
		httpx.JSONError(w, http.StatusUnauthorized, "Invalid or inactive user", nil)
		return
	}

	signed, err := h.Toks.Issue(user)
	if err != nil {
		obs.Log("auth.token.error", map[string]any{"error": err.Error()})
		httpx.JSONError(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	auth.CreateSession(w, signed, h.Toks.TTL())
	http.Redirect(w, r, gate.Landing(user.Role), http.StatusSeeOther)
}
