package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arc-framework/seeder/internal/clients"
	"arc-framework/seeder/internal/models"
	"arc-framework/seeder/internal/orchestrator"
	"arc-framework/seeder/internal/seeding"
	"arc-framework/seeder/internal/store"
	"arc-framework/seeder/internal/testhelpers"
)

// TestSeedFlow_202ThenReady drives the full stack against an in-memory
// SQLite database:
//  1. POST /api/v1/seed: 202 Accepted
//  2. GET /ready: eventually 200 once the background bootstrap completes
//  3. GET /api/v1/seed/users: the two sample users
//  4. POST /api/v1/seed/super-admin: 201, then 409 for the same email
func TestSeedFlow_202ThenReady(t *testing.T) {
	t.Parallel()

	db := testhelpers.NewTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	svc := seeding.New(store.New(db),
		seeding.WithSecretFunc(func() string { return "s3cret" }),
		seeding.WithLogger(noopLogger()),
	)
	o := orchestrator.New(clients.NewSQLClient(sqlDB, clients.NewCircuitBreaker("it-sqlite")), nil, nil, svc)

	router := NewRouter(o, svc, time.Minute)
	srv := httptest.NewServer(router.Handler())
	defer srv.Close()

	client := srv.Client()

	// Step 1: POST /api/v1/seed
	resp, err := client.Post(srv.URL+"/api/v1/seed", "application/json", strings.NewReader(""))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusAccepted, resp.StatusCode, "seed should return 202 Accepted")

	var seedBody map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&seedBody))
	assert.Equal(t, "accepted", seedBody["status"])

	// Step 2: poll GET /ready until 200 (bootstrap runs in background goroutine)
	deadline := time.Now().Add(10 * time.Second)
	var lastCode int
	for time.Now().Before(deadline) {
		r, err := client.Get(srv.URL + "/ready")
		require.NoError(t, err)
		r.Body.Close()

		lastCode = r.StatusCode
		if lastCode == http.StatusOK {
			break
		}

		time.Sleep(50 * time.Millisecond)
	}
	require.Equal(t, http.StatusOK, lastCode, "GET /ready should return 200 after bootstrap completes")

	// Step 3: the sample users are listed.
	r, err := client.Get(srv.URL + "/api/v1/seed/users")
	require.NoError(t, err)
	defer r.Body.Close()
	require.Equal(t, http.StatusOK, r.StatusCode)

	var users UsersResponse
	require.NoError(t, json.NewDecoder(r.Body).Decode(&users))
	assert.Len(t, users.Data, 2)

	// Step 4: super-admin creation, then a conflicting retry.
	created, err := client.Post(srv.URL+"/api/v1/seed/super-admin", "application/json", strings.NewReader(validAdminBody))
	require.NoError(t, err)
	created.Body.Close()
	assert.Equal(t, http.StatusCreated, created.StatusCode)

	dup, err := client.Post(srv.URL+"/api/v1/seed/super-admin", "application/json", strings.NewReader(validAdminBody))
	require.NoError(t, err)
	defer dup.Body.Close()
	assert.Equal(t, http.StatusConflict, dup.StatusCode)
	assert.Equal(t, seeding.MsgUserExists, decodeError(t, dup.Body).Message)

	// Deep health now reports a healthy database and populated tables.
	deep, err := client.Get(srv.URL + "/health/deep")
	require.NoError(t, err)
	deep.Body.Close()
	assert.Equal(t, http.StatusOK, deep.StatusCode)
}

func TestCreateSuperAdmin_WrongSecret(t *testing.T) {
	t.Parallel()

	db := testhelpers.NewTestDB(t)
	svc := seeding.New(store.New(db),
		seeding.WithSecretFunc(func() string { return "other" }),
		seeding.WithLogger(noopLogger()),
	)
	router := NewRouter(&fakeOrchestrator{}, svc, time.Minute)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/seed/super-admin", strings.NewReader(validAdminBody))
	req.Header.Set("Content-Type", "application/json")
	router.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, seeding.MsgInvalidAdminSecret, decodeError(t, w.Body).Message)
}

func TestCreateSuperAdmin_MissingSecret(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		existing bool
		wantCode int
		wantMsg  string
	}{
		{name: "existing email reports conflict", existing: true, wantCode: http.StatusConflict, wantMsg: seeding.MsgUserExists},
		{name: "new email reports invalid secret", wantCode: http.StatusUnauthorized, wantMsg: seeding.MsgInvalidAdminSecret},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			db := testhelpers.NewTestDB(t)
			st := store.New(db)
			if tc.existing {
				require.NoError(t, st.Users.Create(context.Background(), &models.User{
					FirstName: "A", LastName: "B", Email: "a@b.com", Password: "longpass",
				}))
			}
			svc := seeding.New(st,
				seeding.WithSecretFunc(func() string { return "s3cret" }),
				seeding.WithLogger(noopLogger()),
			)
			router := NewRouter(&fakeOrchestrator{}, svc, time.Minute)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/seed/super-admin",
				strings.NewReader(`{"email":"a@b.com","first_name":"A","last_name":"B","password":"longpass"}`))
			req.Header.Set("Content-Type", "application/json")
			router.Handler().ServeHTTP(w, req)

			assert.Equal(t, tc.wantCode, w.Code)
			assert.Equal(t, tc.wantMsg, decodeError(t, w.Body).Message)
		})
	}
}
