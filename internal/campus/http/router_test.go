package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/campushub/campushub/internal/campus/domain"
	"github.com/campushub/campushub/internal/campus/service"
	"github.com/campushub/campushub/internal/campus/store"
	"github.com/campushub/campushub/internal/campus/store/drivers/sqlite"
	"github.com/campushub/campushub/pkg/httpx"
	"github.com/campushub/campushub/pkg/idx"
	"github.com/campushub/campushub/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	server *httptest.Server
	store  store.Store
	signer *jwtx.Signer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	keys, err := jwtx.NewKeypair()
	require.NoError(t, err)

	signer := &jwtx.Signer{Key: keys, Issuer: "campushub-test", TTL: time.Hour}
	verifier := &jwtx.EdDSAVerifier{Key: keys.Public, Issuer: "campushub-test"}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := NewRouter(signer, verifier, "test", st, logger)
	router.AccountService = &service.AccountService{Store: st}
	router.SocietyService = &service.SocietyService{Store: st}
	router.EventService = &service.EventService{Store: st}
	router.RegistrationService = &service.RegistrationService{Store: st}
	router.BookmarkService = &service.BookmarkService{Store: st}
	router.ApplyRoutes()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testEnv{server: server, store: st, signer: signer}
}

// seedUser inserts an account directly and mints a token for it.
func (env *testEnv) seedUser(t *testing.T, name, email string, role domain.Role) (domain.Account, string) {
	t.Helper()

	account := domain.Account{
		ID:           idx.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: "hash",
		Role:         role,
	}
	require.NoError(t, env.store.Accounts().CreateAccount(context.Background(), account))

	token, err := env.signer.Mint(account.ID, string(account.Role), account.Name)
	require.NoError(t, err)
	return account, token
}

func (env *testEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, env.server.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := env.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/v1/auth/register", "", map[string]any{
		"name":     "Sam Rivera",
		"email":    "sam@campus.edu",
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	tok := decodeBody[tokenResponse](t, resp)
	require.NotEmpty(t, tok.AccessToken)
	require.Equal(t, "Bearer", tok.TokenType)
	require.Equal(t, "student", tok.Account.Role)

	t.Run("short passwords fail field validation", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/v1/auth/register", "", map[string]any{
			"name":     "X",
			"email":    "x@campus.edu",
			"password": "short",
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		body := decodeBody[httpx.ErrorResponse](t, resp)
		require.Equal(t, httpx.KindValidation, body.Error)
		require.Contains(t, body.Fields, "password")
	})

	t.Run("login returns a working token", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/v1/auth/login", "", map[string]any{
			"email":    "sam@campus.edu",
			"password": "correct horse battery",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		tok := decodeBody[tokenResponse](t, resp)

		me := env.do(t, http.MethodGet, "/v1/me", tok.AccessToken, nil)
		require.Equal(t, http.StatusOK, me.StatusCode)
		account := decodeBody[accountResponse](t, me)
		require.Equal(t, "sam@campus.edu", account.Email)
	})

	t.Run("bad credentials are unauthorized", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/v1/auth/login", "", map[string]any{
			"email":    "sam@campus.edu",
			"password": "not the password",
		})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("protected routes reject missing tokens", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/v1/me", "", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestEventAndRegistrationFlow(t *testing.T) {
	env := newTestEnv(t)

	_, organizerToken := env.seedUser(t, "Olive", "olive@campus.edu", domain.RoleOrganizer)
	_, studentToken := env.seedUser(t, "Sam", "sam@campus.edu", domain.RoleStudent)

	now := time.Now().UTC()
	eventBody := map[string]any{
		"title":                 "Hack Night",
		"category":              "technical",
		"start_at":              now.Add(48 * time.Hour),
		"end_at":                now.Add(52 * time.Hour),
		"registration_open":     true,
		"registration_start_at": now.Add(-time.Hour),
		"registration_end_at":   now.Add(24 * time.Hour),
		"fields": []map[string]any{
			{"label": "Experience", "kind": "text"},
		},
	}

	t.Run("students may not create events", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/v1/events", studentToken, eventBody)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	resp := env.do(t, http.MethodPost, "/v1/events", organizerToken, eventBody)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	event := decodeBody[eventResponse](t, resp)
	require.Equal(t, "draft", event.Status)
	require.Len(t, event.Fields, 1)

	t.Run("drafts are hidden from students", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/v1/events/"+event.ID, studentToken, nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	resp = env.do(t, http.MethodPost, "/v1/events/"+event.ID+"/publish", organizerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	t.Run("registration with answers", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/v1/events/"+event.ID+"/registrations", studentToken, map[string]any{
			"answers": []map[string]any{
				{"field_id": event.Fields[0].ID, "value": "first hackathon"},
			},
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		reg := decodeBody[registrationResponse](t, resp)
		require.Equal(t, "pending", reg.Status)
		require.Len(t, reg.Members, 1)
		require.Equal(t, "auto_added", reg.Members[0].InviteStatus)
		require.Len(t, reg.Answers, 1)
		require.Equal(t, "Experience", reg.Answers[0].Label)
	})

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/v1/events/"+event.ID+"/registrations", studentToken, map[string]any{})
		require.Equal(t, http.StatusConflict, resp.StatusCode)

		body := decodeBody[httpx.ErrorResponse](t, resp)
		require.Equal(t, httpx.KindConflict, body.Error)
	})

	t.Run("bookmarks round-trip", func(t *testing.T) {
		resp := env.do(t, http.MethodPut, fmt.Sprintf("/v1/events/%s/bookmark", event.ID), studentToken, nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = env.do(t, http.MethodGet, "/v1/bookmarks", studentToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		events := decodeBody[[]eventResponse](t, resp)
		require.Len(t, events, 1)
		require.Equal(t, event.ID, events[0].ID)

		resp = env.do(t, http.MethodDelete, fmt.Sprintf("/v1/events/%s/bookmark", event.ID), studentToken, nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("health endpoints", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/livez", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = env.do(t, http.MethodGet, "/readyz", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestTeamInvitationOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	_, organizerToken := env.seedUser(t, "Olive", "olive@campus.edu", domain.RoleOrganizer)
	_, leaderToken := env.seedUser(t, "Lena", "lena@campus.edu", domain.RoleStudent)
	mate, mateToken := env.seedUser(t, "Mia", "mia@campus.edu", domain.RoleStudent)

	now := time.Now().UTC()
	resp := env.do(t, http.MethodPost, "/v1/events", organizerToken, map[string]any{
		"title":                 "Robotics Cup",
		"category":              "technical",
		"start_at":              now.Add(48 * time.Hour),
		"end_at":                now.Add(52 * time.Hour),
		"registration_open":     true,
		"registration_start_at": now.Add(-time.Hour),
		"registration_end_at":   now.Add(24 * time.Hour),
		"team_event":            true,
		"min_team_size":         2,
		"max_team_size":         4,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	event := decodeBody[eventResponse](t, resp)

	resp = env.do(t, http.MethodPost, "/v1/events/"+event.ID+"/publish", organizerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/v1/events/"+event.ID+"/registrations", leaderToken, map[string]any{
		"team_name":  "Gearheads",
		"member_ids": []string{mate.ID},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	reg := decodeBody[registrationResponse](t, resp)
	require.Equal(t, "pending", reg.Status)

	resp = env.do(t, http.MethodPost, "/v1/registrations/"+reg.ID+"/respond", mateToken, map[string]any{
		"action": "accept",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	confirmed := decodeBody[registrationResponse](t, resp)
	require.Equal(t, "confirmed", confirmed.Status)

	t.Run("second response conflicts", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/v1/registrations/"+reg.ID+"/respond", mateToken, map[string]any{
			"action": "decline",
		})
		require.Equal(t, http.StatusConflict, resp.StatusCode)
	})
}
