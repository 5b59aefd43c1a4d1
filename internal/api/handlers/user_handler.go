package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"timeclock-backend/internal/auth"
	"timeclock-backend/internal/services"
)

// UserHandler handles HTTP requests for registration and sessions.
type UserHandler struct {
	service services.UserServiceProvider
	tokens  *auth.TokenManager
	secure  bool
}

// NewUserHandler creates a new UserHandler. secure controls the Secure flag
// on the session cookie.
func NewUserHandler(service services.UserServiceProvider, tokens *auth.TokenManager, secure bool) *UserHandler {
	return &UserHandler{service: service, tokens: tokens, secure: secure}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// AuthPayload defines the structure for login requests.
type AuthPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles new user registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondMessage(w, http.StatusBadRequest, false, "Invalid request body")
		return
	}

	_, err := h.service.Register(r.Context(), payload.FirstName, payload.LastName, payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			respondMessage(w, http.StatusBadRequest, false, "Email already exists")
			return
		}
		if errors.Is(err, services.ErrMissingFields) {
			respondMessage(w, http.StatusBadRequest, false, "All fields are required")
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		respondMessage(w, http.StatusInternalServerError, false, "Error registering user")
		return
	}

	respondMessage(w, http.StatusCreated, true, "User registered successfully")
}

// Login handles user authentication and session token issuance. The token is
// set as an HTTP-only cookie and also returned in the body for bearer use.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondMessage(w, http.StatusBadRequest, false, "Invalid request body")
		return
	}

	user, err := h.service.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
		respondMessage(w, http.StatusUnauthorized, false, "Invalid email or password")
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate session token")
		respondMessage(w, http.StatusInternalServerError, false, "Failed to generate token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Expires:  time.Now().Add(h.tokens.TTL()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "successfully logged in",
		"token":   token,
	})
}

// Logout invalidates the session by clearing the cookie. Tokens are
// stateless; the bearer copy simply expires client-side.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Path:     "/",
	})
	respondMessage(w, http.StatusOK, true, "User logged out successfully")
}

// AuthCheck is the liveness check for the client's stored credential.
func (h *UserHandler) AuthCheck(w http.ResponseWriter, r *http.Request) {
	respondMessage(w, http.StatusOK, true, "Authorized user")
}

// FullName resolves the authenticated user's display name.
func (h *UserHandler) FullName(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusInternalServerError, false, "Could not retrieve user from token")
		return
	}

	fullName, err := h.service.FullName(r.Context(), claims.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to resolve full name")
		respondMessage(w, statusForServiceError(err), false, "Error retrieving user full name")
		return
	}

	respondData(w, http.StatusOK, map[string]string{"fullName": fullName})
}

// List returns every user's display name and email for the login selector.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		respondMessage(w, http.StatusInternalServerError, false, "Error retrieving users")
		return
	}
	respondData(w, http.StatusOK, users)
}
