package main

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

// authAPI orchestrates register/login/refresh over the credential verifier,
// the token service and the user store. Per-request only: the one shared
// piece of state is the immutable Settings it was built with.
type authAPI struct {
	cfg    Settings
	users  UserStore
	tokens *tokenService
}

func newAuthAPI(cfg Settings, users UserStore, tokens *tokenService) *authAPI {
	return &authAPI{cfg: cfg, users: users, tokens: tokens}
}

// --------- DTOs ---------

type registerReq struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenOut struct {
	AccessToken           string `json:"access_token"`
	RefreshToken          string `json:"refresh_token"`
	TokenType             string `json:"token_type"`
	AccessTokenExpiresIn  int    `json:"access_token_expires_in"`
	RefreshTokenExpiresIn int    `json:"refresh_token_expires_in"`
}

// userOut is the public user view. No password material, ever.
type userOut struct {
	ID         uint      `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	IsActive   bool      `json:"is_active"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

func toUserOut(u *User) userOut {
	return userOut{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		IsActive:   u.IsActive,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
}

func normalizeEmail(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

// --------- Handlers ---------

// POST /auth/register
func (a *authAPI) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in registerReq
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}
	in.Email = normalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if msg := validateRegister(in); msg != "" {
		errorJSON(w, http.StatusBadRequest, msg)
		return
	}

	ctx := r.Context()
	if _, err := a.users.FindByEmail(ctx, in.Email); err == nil {
		writeError(w, r, ErrUserAlreadyExists)
		return
	} else if !errors.Is(err, ErrUserNotFound) {
		writeError(w, r, err)
		return
	}

	hash, err := hashPassword(in.Password, a.cfg.BcryptCost)
	if err != nil {
		writeError(w, r, err)
		return
	}

	u := &User{
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
		IsActive:     true,
		IsVerified:   a.cfg.RegisterVerified,
	}
	// Create can still return ErrUserAlreadyExists: the unique index wins
	// races the pre-check above lost.
	if err := a.users.Create(ctx, u); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserOut(u))
}

// POST /auth/login
func (a *authAPI) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginReq
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}
	in.Email = normalizeEmail(in.Email)

	u, err := a.users.FindByEmail(r.Context(), in.Email)
	if errors.Is(err, ErrUserNotFound) {
		// Same failure as a wrong password so callers cannot probe which
		// emails are registered.
		writeError(w, r, ErrInvalidCredentials)
		return
	} else if err != nil {
		writeError(w, r, err)
		return
	}
	if !checkPassword(in.Password, u.PasswordHash) {
		writeError(w, r, ErrInvalidCredentials)
		return
	}
	if !u.IsActive {
		writeError(w, r, ErrInactiveUser)
		return
	}
	if !u.IsVerified {
		writeError(w, r, ErrUnverifiedUser)
		return
	}

	a.writeTokenPair(w, r, u.ID)
}

// POST /auth/refresh
func (a *authAPI) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var in refreshReq
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}

	claims, err := a.tokens.Parse(in.RefreshToken)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if claims.Type != tokenClassRefresh {
		writeError(w, r, ErrInvalidToken)
		return
	}
	id, err := claims.subjectID()
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Re-check the account before reissuing; a token alone should not keep
	// a deactivated or deleted user minting fresh pairs.
	u, err := a.users.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !u.IsActive {
		writeError(w, r, ErrInactiveUser)
		return
	}
	if !u.IsVerified {
		writeError(w, r, ErrUnverifiedUser)
		return
	}

	a.writeTokenPair(w, r, u.ID)
}

// GET /auth/me (behind requireAuth)
func (a *authAPI) handleMe(w http.ResponseWriter, r *http.Request) {
	u, ok := userFrom(r.Context())
	if !ok {
		writeError(w, r, ErrInvalidToken)
		return
	}
	writeJSON(w, http.StatusOK, toUserOut(u))
}

func (a *authAPI) writeTokenPair(w http.ResponseWriter, r *http.Request, userID uint) {
	access, err := a.tokens.Issue(userID, tokenClassAccess)
	if err != nil {
		writeError(w, r, err)
		return
	}
	refresh, err := a.tokens.Issue(userID, tokenClassRefresh)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenOut{
		AccessToken:           access,
		RefreshToken:          refresh,
		TokenType:             "bearer",
		AccessTokenExpiresIn:  int(a.cfg.AccessTokenTTL.Seconds()),
		RefreshTokenExpiresIn: int(a.cfg.RefreshTokenTTL.Seconds()),
	})
}

// --------- Middleware ---------

type ctxKey int

const ctxKeyUser ctxKey = iota

func userFrom(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ctxKeyUser).(*User)
	return u, ok
}

// requireAuth validates the bearer access token, re-fetches the user and
// stores it on the request context. Wrong token class is indistinguishable
// from a bad token on purpose.
func (a *authAPI) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			writeError(w, r, ErrInvalidToken)
			return
		}
		claims, err := a.tokens.Parse(raw)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if claims.Type != tokenClassAccess {
			writeError(w, r, ErrInvalidToken)
			return
		}
		id, err := claims.subjectID()
		if err != nil {
			writeError(w, r, err)
			return
		}
		u, err := a.users.FindByID(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyUser, u)))
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// --------- Validation ---------

func validateRegister(in registerReq) string {
	if _, err := mail.ParseAddress(in.Email); err != nil || in.Email == "" {
		return "invalid email"
	}
	if utf8.RuneCountInString(in.Password) < 8 {
		return "password must be at least 8 characters"
	}
	if utf8.RuneCountInString(in.FirstName) < 2 || utf8.RuneCountInString(in.LastName) < 2 {
		return "first_name and last_name must be at least 2 characters"
	}
	return ""
}
