package eventstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB attempts to connect to a PostgreSQL database for testing.
// It skips the test if the connection cannot be established.
func setupTestDB(t testing.TB) *sql.DB {
	t.Helper()

	pgUser := os.Getenv("PGUSER")
	pgPassword := os.Getenv("PGPASSWORD")
	pgHost := os.Getenv("PGHOST")
	pgPort := os.Getenv("PGPORT")
	pgDB := os.Getenv("PGDATABASE")

	if pgUser == "" {
		pgUser = "user"
	}
	if pgPassword == "" {
		pgPassword = "password"
	}
	if pgHost == "" {
		pgHost = "localhost"
	}
	if pgPort == "" {
		pgPort = "5432"
	}
	if pgDB == "" {
		pgDB = "testdb"
	}

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		pgHost, pgPort, pgUser, pgPassword, pgDB)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("failed to open database connection: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Ping(); err != nil {
		t.Skipf("skipping event store tests: could not connect to postgres: %v", err)
	}

	require.NoError(t, NewEventStore(db).EnsureSchema(context.Background()))
	return db
}

func newEvent(group, key string) Event {
	return Event{
		EventID:  uuid.New(),
		Name:     "book_checkout",
		Group:    group,
		Key:      key,
		Kind:     "Added",
		Data:     json.RawMessage(`{"checkout_id":"c1"}`),
		Metadata: map[string]string{"branch_id": "main"},
	}
}

func TestValidate(t *testing.T) {
	ok := newEvent("checkout", "c1")
	assert.NoError(t, ok.validate())

	missingID := ok
	missingID.EventID = uuid.Nil
	assert.ErrorIs(t, missingID.validate(), ErrInvalidEvent)

	noGroup := ok
	noGroup.Group = ""
	assert.ErrorIs(t, noGroup.validate(), ErrInvalidEvent)

	badData := ok
	badData.Data = json.RawMessage(`{not json`)
	assert.ErrorIs(t, badData.validate(), ErrInvalidEvent)
}

func TestAppendRejectsInvalidEventsBeforeTouchingTheDatabase(t *testing.T) {
	es := NewEventStore(nil)
	err := es.Append(context.Background(), Event{})
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestAppendAndLoad(t *testing.T) {
	db := setupTestDB(t)
	es := NewEventStore(db)
	ctx := context.Background()
	key := uuid.NewString()

	first, second := newEvent("checkout", key), newEvent("checkout", key)
	second.Name = "book_returned"
	second.Kind = "Deleted"
	require.NoError(t, es.Append(ctx, first, second))

	events, err := es.LoadEvents(ctx, "checkout", key)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, first.EventID, events[0].EventID)
	assert.Equal(t, "book_returned", events[1].Name)
	assert.Equal(t, "main", events[1].Metadata["branch_id"])
	assert.JSONEq(t, `{"checkout_id":"c1"}`, string(events[0].Data))

	err = es.Append(ctx, first)
	assert.True(t, errors.Is(err, ErrDuplicateEvent), "got %v", err)
}

func TestStreamEvents(t *testing.T) {
	db := setupTestDB(t)
	es := NewEventStore(db)
	ctx := context.Background()
	key := uuid.NewString()

	for i := 0; i < 5; i++ {
		require.NoError(t, es.Append(ctx, newEvent("book_hold", key)))
	}
	loaded, err := es.LoadEvents(ctx, "book_hold", key)
	require.NoError(t, err)
	require.Len(t, loaded, 5)

	batch, err := es.StreamEvents(ctx, loaded[1].ID, 2)
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Greater(t, batch[0].ID, loaded[1].ID)
	assert.Less(t, batch[0].ID, batch[1].ID)
}

func BenchmarkAppend(b *testing.B) {
	db := setupTestDB(b)
	es := NewEventStore(db)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := es.Append(ctx, newEvent("bench", uuid.NewString())); err != nil {
			b.Fatalf("append: %v", err)
		}
	}
}
