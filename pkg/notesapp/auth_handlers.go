package notesapp

import (
	"encoding/json"
	"net/http"

	"github.com/suryansh924/NotesApp-AI/pkg/client"
)

// Auth handlers proxy the identity service: the server holds no credentials
// or session state of its own beyond what the provider tracks.

func (a *App) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req client.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	session, err := a.auth.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		a.respondOperationError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, client.AuthResponse{
		Token: session.AccessToken,
		User:  &session.User,
	})
}

func (a *App) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req client.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	session, err := a.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		a.respondOperationError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, client.AuthResponse{
		Token: session.AccessToken,
		User:  &session.User,
	})
}

func (a *App) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := a.auth.SignOut(r.Context()); err != nil {
		a.respondOperationError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Signed out successfully"})
}

func (a *App) handleGetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (a *App) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	session, err := a.auth.Refresh(r.Context())
	if err != nil {
		a.respondOperationError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, client.AuthResponse{
		Token: session.AccessToken,
		User:  &session.User,
	})
}

// handleOAuthURL returns the identity service URL that starts an OAuth
// sign-in. The browser follows the URL; the provider redirects back to
// redirect_to when the flow completes.
func (a *App) handleOAuthURL(w http.ResponseWriter, r *http.Request) {
	provider := r.URL.Query().Get("provider")
	if provider == "" {
		provider = "google"
	}
	redirectTo := r.URL.Query().Get("redirect_to")

	respondJSON(w, http.StatusOK, map[string]string{
		"url": a.auth.OAuthRedirectURL(provider, redirectTo),
	})
}
