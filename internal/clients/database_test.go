package clients

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arc-framework/seeder/internal/database"
	"arc-framework/seeder/internal/testhelpers"
)

// mockRow implements pgx.Row for use in tests.
type mockRow struct {
	scanErr error
	val     int64
}

func (r *mockRow) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = r.val
		}
	}
	return nil
}

// mockDB implements dbPinger for use in tests.
type mockDB struct {
	pingErr  error
	queryRow pgx.Row
	closed   bool
}

func (m *mockDB) Ping(_ context.Context) error { return m.pingErr }
func (m *mockDB) Close()                       { m.closed = true }
func (m *mockDB) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	return m.queryRow
}

// makeClient returns a DatabaseClient with a stubbed connect function.
func makeClient(db dbPinger, connectErr error, cb *gobreaker.CircuitBreaker) *DatabaseClient {
	return &DatabaseClient{
		name: probeName,
		cb:   cb,
		connect: func(_ context.Context) (dbPinger, error) {
			return db, connectErr
		},
	}
}

func TestProbe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		pingErr    error
		scanErr    error
		connectErr error
		wantOK     bool
		wantErrSub string
	}{
		{
			name:   "success: ping ok and users table queryable",
			wantOK: true,
		},
		{
			name:       "failure: ping error",
			pingErr:    errors.New("connection refused"),
			wantOK:     false,
			wantErrSub: "ping",
		},
		{
			name:       "failure: users table absent",
			scanErr:    errors.New(`relation "users" does not exist`),
			wantOK:     false,
			wantErrSub: "users table not queryable",
		},
		{
			name:       "failure: connect error",
			connectErr: errors.New("dial error"),
			wantOK:     false,
			wantErrSub: "dial error",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cb := NewCircuitBreaker("test-" + tc.name)

			var client *DatabaseClient
			var db *mockDB
			if tc.connectErr != nil {
				client = makeClient(nil, tc.connectErr, cb)
			} else {
				db = &mockDB{
					pingErr:  tc.pingErr,
					queryRow: &mockRow{scanErr: tc.scanErr, val: 2},
				}
				client = makeClient(db, nil, cb)
			}

			result := client.Probe(context.Background())

			assert.Equal(t, "arc-oracle", result.Name)
			assert.Equal(t, tc.wantOK, result.OK)
			if tc.wantErrSub != "" {
				assert.Contains(t, result.Error, tc.wantErrSub)
			}
			if tc.wantOK {
				assert.Empty(t, result.Error)
			}
			if db != nil {
				assert.True(t, db.closed, "pool must be closed after each probe")
			}
		})
	}
}

func TestProbeCircuitBreaker_OpensAfterThreeFailures(t *testing.T) {
	t.Parallel()

	cb := NewCircuitBreaker("cb-open-test")

	client := makeClient(&mockDB{
		pingErr:  errors.New("connection refused"),
		queryRow: &mockRow{},
	}, nil, cb)

	// Three consecutive failures should trip the breaker.
	for i := range 3 {
		result := client.Probe(context.Background())
		assert.False(t, result.OK, "probe %d should fail", i+1)
		assert.NotEqual(t, "circuit open", result.Error,
			"probe %d should not be circuit-open yet", i+1)
	}

	// The 4th call must be rejected immediately by the open breaker.
	result := client.Probe(context.Background())
	assert.False(t, result.OK)
	assert.Equal(t, "circuit open", result.Error)
}

func TestSQLClientProbe(t *testing.T) {
	t.Parallel()

	db := testhelpers.NewTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	client := NewSQLClient(sqlDB, NewCircuitBreaker("sqlite-probe"))

	result := client.Probe(context.Background())
	assert.True(t, result.OK, result.Error)
	assert.Equal(t, sqliteProbeName, result.Name)

	// The shared pool stays open after probing.
	assert.NoError(t, sqlDB.Ping())
}

func TestSQLClientProbe_Unmigrated(t *testing.T) {
	t.Parallel()

	sqlDB, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	result := NewSQLClient(sqlDB, NewCircuitBreaker("sqlite-unmigrated")).Probe(context.Background())
	assert.False(t, result.OK)
	assert.Contains(t, result.Error, "users table not queryable")
}

func TestNewCircuitBreaker(t *testing.T) {
	t.Parallel()

	cb := NewCircuitBreaker("unit-test")
	assert.NotNil(t, cb)
	assert.Equal(t, "unit-test", cb.Name())
}
