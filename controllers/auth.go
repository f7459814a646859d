package controllers

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"

	"gitea.com/go-chi/session"

	"github.com/blogem/asset-registry/apperrors"
	"github.com/blogem/asset-registry/authenticator"
	"github.com/blogem/asset-registry/models"
	"github.com/blogem/asset-registry/repositories"
)

// AuthController handles the OIDC login flow and session lifecycle
type AuthController struct {
	userRepo repositories.UserRepository
}

// NewAuthController creates a new auth controller
func NewAuthController(userRepo repositories.UserRepository) *AuthController {
	return &AuthController{userRepo: userRepo}
}

// Login initiates the authentication process
func (ac *AuthController) Login(auth authenticator.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Generate random state
		state, err := generateRandomState()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		// Save the state in the session to validate in callback
		sess := session.GetSession(r)
		sess.Set("state", state)

		// Redirect to the identity provider's login page
		http.Redirect(w, r, auth.GetAuthURL(state), http.StatusTemporaryRedirect)
	}
}

// Callback handles the callback from the identity provider
func (ac *AuthController) Callback(auth authenticator.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Get session
		sess := session.GetSession(r)

		// Verify state
		storedState := sess.Get("state")
		if storedState == nil {
			http.Error(w, "State not found in session", http.StatusBadRequest)
			return
		}

		if r.URL.Query().Get("state") != storedState.(string) {
			http.Error(w, "Invalid state parameter", http.StatusBadRequest)
			return
		}

		// Exchange the code for a token
		token, err := auth.ExchangeCode(r.Context(), r.URL.Query().Get("code"))
		if err != nil {
			http.Error(w, "Failed to exchange authorization code for a token: "+err.Error(), http.StatusUnauthorized)
			return
		}

		// Verify the ID token and extract profile information
		claims, err := auth.GetClaims(r.Context(), token)
		if err != nil {
			http.Error(w, "Failed to verify ID Token: "+err.Error(), http.StatusInternalServerError)
			return
		}

		email, _ := claims["email"].(string)
		if email == "" {
			http.Error(w, "ID token is missing the email claim", http.StatusUnauthorized)
			return
		}

		name, _ := claims["name"].(string)

		// Resolve the identity to a registry user, creating one with
		// the default role on first login.
		user, err := ac.resolveUser(r, email, name)
		if err != nil {
			http.Error(w, "Failed to resolve user: "+err.Error(), http.StatusInternalServerError)
			return
		}

		// Store the user session
		sess.Set("user_id", user.ID)
		sess.Set("user_email", user.Email)

		// Clear the state from session
		sess.Delete("state")

		// Redirect to the dashboard
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// Logout clears the session
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.GetSession(r)
	sess.Delete("user_id")
	sess.Delete("user_email")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// resolveUser finds the user by email, creating a regular account on
// first login. Admin roles are assigned out of band.
func (ac *AuthController) resolveUser(r *http.Request, email, name string) (*models.User, error) {
	user, err := ac.userRepo.GetByEmail(r.Context(), email)
	if err == nil {
		return user, nil
	}

	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeNotFound {
		return nil, err
	}

	user = &models.User{
		Email: email,
		Name:  name,
		Role:  models.RoleUser,
	}
	if err := ac.userRepo.Create(r.Context(), user); err != nil {
		return nil, err
	}

	return user, nil
}

// generateRandomState generates a random state value for CSRF protection
func generateRandomState() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
