package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

/* ---------- Fakes ---------- */

type fakeUserStore struct {
	mu        sync.Mutex
	seq       uint
	users     map[uint]*User
	createErr error // injected failure for the insert path
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uint]*User{}}
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email && !u.IsDeleted {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *fakeUserStore) FindByID(_ context.Context, id uint) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok && !u.IsDeleted {
		cp := *u
		return &cp, nil
	}
	return nil, ErrUserNotFound
}

func (s *fakeUserStore) Create(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return ErrUserAlreadyExists
		}
	}
	s.seq++
	u.ID = s.seq
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

// add seeds a user directly, bypassing the register flow.
func (s *fakeUserStore) add(t *testing.T, email, password string, active, verified bool) *User {
	t.Helper()
	hash, err := hashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	u := &User{
		Email:        email,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: hash,
		IsActive:     active,
		IsVerified:   verified,
	}
	require.NoError(t, s.Create(context.Background(), u))
	return u
}

/* ---------- Harness ---------- */

func testSettings() Settings {
	return Settings{
		SecretKey:       "test-secret",
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 168 * time.Hour,
		BcryptCost:      bcrypt.MinCost,
		CORSOrigin:      "http://localhost:4200",
	}
}

type testEnv struct {
	cfg    Settings
	users  *fakeUserStore
	tokens *tokenService
	router http.Handler
}

func newTestEnv(t *testing.T, mutate func(*Settings)) *testEnv {
	t.Helper()
	cfg := testSettings()
	if mutate != nil {
		mutate(&cfg)
	}
	users := newFakeUserStore()
	tokens := newTokenService(cfg)
	auth := newAuthAPI(cfg, users, tokens)
	catalog := newCatalogAPI(
		&fakeTeamStore{},
		&fakeMatchStore{},
		&fakePredictionStore{},
		&fakeModelStore{},
	)
	return &testEnv{
		cfg:    cfg,
		users:  users,
		tokens: tokens,
		router: newRouter(cfg, auth, catalog),
	}
}

func (e *testEnv) do(method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	var rd *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func bearer(tok string) http.Header {
	return http.Header{"Authorization": []string{"Bearer " + tok}}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

/* ---------- Register ---------- */

func TestRegister_CreatesUser(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodPost, "/auth/register", map[string]string{
		"email":      "a@x.com",
		"password":   "Abc123!@",
		"first_name": "A'la",
		"last_name":  "Bo",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "a@x.com", body["email"])
	assert.NotZero(t, body["id"])
	assert.NotContains(t, rec.Body.String(), "password")

	// stored hash is bcrypt, never the plaintext
	u, err := env.users.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "Abc123!@", u.PasswordHash)
	assert.True(t, checkPassword("Abc123!@", u.PasswordHash))
	assert.True(t, u.IsActive)
}

func TestRegister_VerifiedFollowsSettings(t *testing.T) {
	for _, verified := range []bool{true, false} {
		env := newTestEnv(t, func(s *Settings) { s.RegisterVerified = verified })
		rec := env.do(http.MethodPost, "/auth/register", map[string]string{
			"email": "v@x.com", "password": "Abc123!@", "first_name": "Vi", "last_name": "Va",
		}, nil)
		require.Equal(t, http.StatusCreated, rec.Code)

		u, err := env.users.FindByEmail(context.Background(), "v@x.com")
		require.NoError(t, err)
		assert.Equal(t, verified, u.IsVerified, "REGISTER_VERIFIED=%v", verified)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t, nil)
	env.users.add(t, "a@x.com", "Abc123!@", true, true)

	rec := env.do(http.MethodPost, "/auth/register", map[string]string{
		"email": "a@x.com", "password": "Other123!", "first_name": "AA", "last_name": "BB",
	}, nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, ErrUserAlreadyExists.Message, body["message"])
}

func TestRegister_DuplicateRace(t *testing.T) {
	// The pre-check passes, but the insert hits the unique index: still 409.
	env := newTestEnv(t, nil)
	env.users.createErr = ErrUserAlreadyExists

	rec := env.do(http.MethodPost, "/auth/register", map[string]string{
		"email": "b@x.com", "password": "Abc123!@", "first_name": "AA", "last_name": "BB",
	}, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t, nil)
	cases := []map[string]string{
		{"email": "not-an-email", "password": "Abc123!@", "first_name": "AA", "last_name": "BB"},
		{"email": "a@x.com", "password": "short", "first_name": "AA", "last_name": "BB"},
		{"email": "a@x.com", "password": "Abc123!@", "first_name": "A", "last_name": "BB"},
		{"email": "", "password": "", "first_name": "", "last_name": ""},
	}
	for i, c := range cases {
		rec := env.do(http.MethodPost, "/auth/register", c, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "case %d", i)
	}
}

/* ---------- Login ---------- */

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t, nil)
	u := env.users.add(t, "a@x.com", "Abc123!@", true, true)

	rec := env.do(http.MethodPost, "/auth/login", map[string]string{
		"email": "A@X.com ", "password": "Abc123!@",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out tokenOut
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "bearer", out.TokenType)
	assert.Equal(t, 1800, out.AccessTokenExpiresIn)
	assert.Equal(t, 604800, out.RefreshTokenExpiresIn)

	access, err := env.tokens.Parse(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, tokenClassAccess, access.Type)
	assert.Equal(t, fmt.Sprint(u.ID), access.Subject)

	refresh, err := env.tokens.Parse(out.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, tokenClassRefresh, refresh.Type)
}

func TestLogin_EnumerationResistance(t *testing.T) {
	env := newTestEnv(t, nil)
	env.users.add(t, "a@x.com", "Abc123!@", true, true)

	wrongPw := env.do(http.MethodPost, "/auth/login", map[string]string{
		"email": "a@x.com", "password": "WRONG-pass-1",
	}, nil)
	noUser := env.do(http.MethodPost, "/auth/login", map[string]string{
		"email": "nobody@x.com", "password": "Abc123!@",
	}, nil)

	require.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	require.Equal(t, http.StatusUnauthorized, noUser.Code)
	assert.Equal(t, wrongPw.Body.String(), noUser.Body.String())
}

func TestLogin_InactiveUser(t *testing.T) {
	env := newTestEnv(t, nil)
	env.users.add(t, "a@x.com", "Abc123!@", false, true)

	rec := env.do(http.MethodPost, "/auth/login", map[string]string{
		"email": "a@x.com", "password": "Abc123!@",
	}, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, ErrInactiveUser.Message, body["message"])
	assert.NotContains(t, rec.Body.String(), "access_token")
}

func TestLogin_UnverifiedUser(t *testing.T) {
	env := newTestEnv(t, nil)
	env.users.add(t, "a@x.com", "Abc123!@", true, false)

	rec := env.do(http.MethodPost, "/auth/login", map[string]string{
		"email": "a@x.com", "password": "Abc123!@",
	}, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, ErrUnverifiedUser.Message, decodeBody(t, rec)["message"])
}

/* ---------- Refresh ---------- */

func TestRefresh_Success(t *testing.T) {
	env := newTestEnv(t, nil)
	u := env.users.add(t, "a@x.com", "Abc123!@", true, true)

	refresh, err := env.tokens.Issue(u.ID, tokenClassRefresh)
	require.NoError(t, err)

	rec := env.do(http.MethodPost, "/auth/refresh", map[string]string{"refresh_token": refresh}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out tokenOut
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	claims, err := env.tokens.Parse(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, tokenClassAccess, claims.Type)
	assert.Equal(t, fmt.Sprint(u.ID), claims.Subject)
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	env := newTestEnv(t, nil)
	u := env.users.add(t, "a@x.com", "Abc123!@", true, true)

	access, err := env.tokens.Issue(u.ID, tokenClassAccess)
	require.NoError(t, err)

	rec := env.do(http.MethodPost, "/auth/refresh", map[string]string{"refresh_token": access}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, ErrInvalidToken.Message, decodeBody(t, rec)["message"])
}

func TestRefresh_ExpiredToken(t *testing.T) {
	env := newTestEnv(t, nil)
	u := env.users.add(t, "a@x.com", "Abc123!@", true, true)

	expired := newTokenService(Settings{
		SecretKey:       env.cfg.SecretKey,
		AccessTokenTTL:  -time.Minute,
		RefreshTokenTTL: -time.Minute,
	})
	tok, err := expired.Issue(u.ID, tokenClassRefresh)
	require.NoError(t, err)

	rec := env.do(http.MethodPost, "/auth/refresh", map[string]string{"refresh_token": tok}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, ErrTokenExpired.Message, decodeBody(t, rec)["message"])
}

func TestRefresh_UserGone(t *testing.T) {
	env := newTestEnv(t, nil)

	tok, err := env.tokens.Issue(999, tokenClassRefresh)
	require.NoError(t, err)

	rec := env.do(http.MethodPost, "/auth/refresh", map[string]string{"refresh_token": tok}, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ErrUserNotFound.Message, decodeBody(t, rec)["message"])
}

func TestRefresh_InactiveUser(t *testing.T) {
	env := newTestEnv(t, nil)
	u := env.users.add(t, "a@x.com", "Abc123!@", false, true)

	tok, err := env.tokens.Issue(u.ID, tokenClassRefresh)
	require.NoError(t, err)

	rec := env.do(http.MethodPost, "/auth/refresh", map[string]string{"refresh_token": tok}, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

/* ---------- /auth/me ---------- */

func TestMe(t *testing.T) {
	env := newTestEnv(t, nil)
	u := env.users.add(t, "a@x.com", "Abc123!@", true, true)

	access, err := env.tokens.Issue(u.ID, tokenClassAccess)
	require.NoError(t, err)

	rec := env.do(http.MethodGet, "/auth/me", nil, bearer(access))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "a@x.com", body["email"])
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestMe_RejectsRefreshToken(t *testing.T) {
	env := newTestEnv(t, nil)
	u := env.users.add(t, "a@x.com", "Abc123!@", true, true)

	refresh, err := env.tokens.Issue(u.ID, tokenClassRefresh)
	require.NoError(t, err)

	rec := env.do(http.MethodGet, "/auth/me", nil, bearer(refresh))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe_NoToken(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(http.MethodGet, "/auth/me", nil, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, bearerToken(req))

	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	assert.Equal(t, "abc.def.ghi", bearerToken(req))

	req.Header.Set("Authorization", "bearer abc.def.ghi")
	assert.Equal(t, "abc.def.ghi", bearerToken(req), "scheme is case-insensitive")

	req.Header.Set("Authorization", "Basic dXNlcjpwdw==")
	assert.Empty(t, bearerToken(req))
}

func TestFullFlow_RegisterLoginRefreshMe(t *testing.T) {
	env := newTestEnv(t, func(s *Settings) { s.RegisterVerified = true })

	rec := env.do(http.MethodPost, "/auth/register", map[string]string{
		"email": "flow@x.com", "password": "Abc123!@", "first_name": "Fl", "last_name": "Ow",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(http.MethodPost, "/auth/login", map[string]string{
		"email": "flow@x.com", "password": "Abc123!@",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var out tokenOut
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))

	rec = env.do(http.MethodPost, "/auth/refresh", map[string]string{"refresh_token": out.RefreshToken}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var out2 tokenOut
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out2))

	rec = env.do(http.MethodGet, "/auth/me", nil, bearer(out2.AccessToken))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "flow@x.com"))
}
