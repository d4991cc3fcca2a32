// Package storetest is the behavioral contract every store.Backend must
// satisfy. Backend packages call Run from their own tests.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"libranexus/internal/library"
	"libranexus/internal/store"
)

// Widget is a throwaway entity with the same shape as the domain records.
type Widget struct {
	WidgetID  string             `json:"widget_id"`
	Version   int64              `json:"version"`
	Status    string             `json:"status"`
	Owner     string             `json:"owner"`
	Count     int                `json:"count"`
	DueAt     library.Timestamp  `json:"due_at"`
	ClosedAt  *library.Timestamp `json:"closed_at"`
	CreatedAt library.Timestamp  `json:"created_at"`
	UpdatedAt library.Timestamp  `json:"updated_at"`
}

func (w *Widget) GetID() string { return w.WidgetID }
func (w *Widget) GetVersion() int64 { return w.Version }

// Factory returns a backend on which table is ready for use.
type Factory func(t *testing.T, table store.Table) store.Backend

// NewTable returns a widget table with a unique name.
func NewTable() store.Table {
	return store.Table{
		Name:             "widgets_" + uuid.NewString()[:8],
		IDAttr:           "widget_id",
		PartitionAttr:    "status",
		SortAttr:         "owner",
		DefaultPartition: "Active",
	}
}

func newWidget(status, owner string, count int) *Widget {
	now := library.Now()
	return &Widget{
		WidgetID:  uuid.NewString(),
		Status:    status,
		Owner:     owner,
		Count:     count,
		DueAt:     now.AddDays(count),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Run executes the full contract against backends built by factory.
func Run(t *testing.T, factory Factory) {
	t.Run("CreateThenGet", func(t *testing.T) { testCreateThenGet(t, factory) })
	t.Run("CreateDuplicate", func(t *testing.T) { testCreateDuplicate(t, factory) })
	t.Run("UpdateVersioning", func(t *testing.T) { testUpdateVersioning(t, factory) })
	t.Run("ConcurrentUpdates", func(t *testing.T) { testConcurrentUpdates(t, factory) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, factory) })
	t.Run("QueryPartitionAndSort", func(t *testing.T) { testQueryPartitionAndSort(t, factory) })
	t.Run("QueryFilters", func(t *testing.T) { testQueryFilters(t, factory) })
	t.Run("QueryDigitStrings", func(t *testing.T) { testQueryDigitStrings(t, factory) })
	t.Run("QueryPagination", func(t *testing.T) { testQueryPagination(t, factory) })
	t.Run("QueryPaginationProperty", func(t *testing.T) { testQueryPaginationProperty(t, factory) })
	t.Run("QueryRejectsBadInput", func(t *testing.T) { testQueryRejectsBadInput(t, factory) })
}

func testCreateThenGet(t *testing.T, factory Factory) {
	table := NewTable()
	repo := store.NewRepository[*Widget](factory(t, table), table)
	ctx := context.Background()

	rapid.Check(t, func(rt *rapid.T) {
		w := newWidget(
			rapid.SampledFrom([]string{"Active", "Closed"}).Draw(rt, "status"),
			rapid.StringMatching(`[a-z]{1,12}`).Draw(rt, "owner"),
			rapid.IntRange(-1000, 1000).Draw(rt, "count"),
		)
		if rapid.Bool().Draw(rt, "closed") {
			closed := library.Now()
			w.ClosedAt = &closed
		}

		n, err := repo.Create(ctx, w)
		if err != nil || n != 1 {
			rt.Fatalf("create: n=%d err=%v", n, err)
		}
		got, err := repo.Get(ctx, w.WidgetID)
		if err != nil {
			rt.Fatalf("get: %v", err)
		}
		if got.Version != 0 {
			rt.Fatalf("version = %d, want 0", got.Version)
		}
		assert.Equal(rt, w, got)
	})
}

func testCreateDuplicate(t *testing.T, factory Factory) {
	table := NewTable()
	repo := store.NewRepository[*Widget](factory(t, table), table)
	ctx := context.Background()

	w := newWidget("Active", "ann", 1)
	_, err := repo.Create(ctx, w)
	require.NoError(t, err)

	dup := *w
	dup.Owner = "bob"
	n, err := repo.Create(ctx, &dup)
	assert.Zero(t, n)
	assert.True(t, library.IsKind(err, library.KindDuplicateKey), "got %v", err)

	got, err := repo.Get(ctx, w.WidgetID)
	require.NoError(t, err)
	assert.Equal(t, "ann", got.Owner)
}

func testUpdateVersioning(t *testing.T, factory Factory) {
	table := NewTable()
	repo := store.NewRepository[*Widget](factory(t, table), table)
	ctx := context.Background()

	w := newWidget("Active", "ann", 1)
	_, err := repo.Create(ctx, w)
	require.NoError(t, err)

	w.Count = 2
	n, err := repo.Update(ctx, w)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := repo.Get(ctx, w.WidgetID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version)
	assert.Equal(t, 2, got.Count)
	assert.False(t, got.UpdatedAt.Before(w.UpdatedAt.Time))

	stale := *w
	stale.Count = 3
	_, err = repo.Update(ctx, &stale)
	require.Error(t, err)
	assert.True(t, library.IsVersionConflict(err), "got %v", err)
	assert.False(t, library.IsRetryable(err))

	got, err = repo.Get(ctx, w.WidgetID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version)
	assert.Equal(t, 2, got.Count)

	_, err = repo.Update(ctx, newWidget("Active", "ghost", 0))
	assert.True(t, library.IsVersionConflict(err), "update of missing record: %v", err)
}

func testConcurrentUpdates(t *testing.T, factory Factory) {
	table := NewTable()
	repo := store.NewRepository[*Widget](factory(t, table), table)
	ctx := context.Background()

	w := newWidget("Active", "ann", 0)
	_, err := repo.Create(ctx, w)
	require.NoError(t, err)

	const writers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(count int) {
			defer wg.Done()
			mine := *w
			mine.Count = count
			_, err := repo.Update(ctx, &mine)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case library.IsVersionConflict(err):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i + 1)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, writers-1, conflicts)

	got, err := repo.Get(ctx, w.WidgetID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version)
}

func testDelete(t *testing.T, factory Factory) {
	table := NewTable()
	repo := store.NewRepository[*Widget](factory(t, table), table)
	ctx := context.Background()

	w := newWidget("Active", "ann", 1)
	_, err := repo.Create(ctx, w)
	require.NoError(t, err)

	n, err := repo.Delete(ctx, w.WidgetID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = repo.Get(ctx, w.WidgetID)
	assert.True(t, library.IsKind(err, library.KindNotFound), "got %v", err)

	_, err = repo.Delete(ctx, w.WidgetID)
	assert.NoError(t, err)

	res, err := repo.Query(ctx, map[string]string{"owner": "ann"}, "", 10)
	require.NoError(t, err)
	assert.Empty(t, res.Records)
}

func testQueryPartitionAndSort(t *testing.T, factory Factory) {
	table := NewTable()
	repo := store.NewRepository[*Widget](factory(t, table), table)
	ctx := context.Background()

	for _, w := range []*Widget{
		newWidget("Active", "ann", 1),
		newWidget("Active", "bob", 2),
		newWidget("Active", "ann", 3),
		newWidget("Closed", "ann", 4),
	} {
		_, err := repo.Create(ctx, w)
		require.NoError(t, err)
	}

	res, err := repo.Query(ctx, map[string]string{"owner": "ann"}, "", 10)
	require.NoError(t, err)
	require.Len(t, res.Records, 2, "default partition applies")
	for _, w := range res.Records {
		assert.Equal(t, "Active", w.Status)
		assert.Equal(t, "ann", w.Owner)
	}
	assert.Empty(t, res.NextPage)

	res, err = repo.Query(ctx, map[string]string{"status": "Closed", "owner": "ann"}, "", 10)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, 4, res.Records[0].Count)

	res, err = repo.Query(ctx, map[string]string{}, "", 10)
	require.NoError(t, err)
	assert.Len(t, res.Records, 3)
	assert.Equal(t, "ann", res.Records[0].Owner, "index order within a partition")
	assert.Equal(t, "bob", res.Records[2].Owner)
}

func testQueryFilters(t *testing.T, factory Factory) {
	table := NewTable()
	repo := store.NewRepository[*Widget](factory(t, table), table)
	ctx := context.Background()

	for i := -3; i <= 3; i++ {
		_, err := repo.Create(ctx, newWidget("Active", fmt.Sprintf("owner-%d", i+3), i))
		require.NoError(t, err)
	}

	res, err := repo.Query(ctx, map[string]string{"count:>=": "1"}, "", 100)
	require.NoError(t, err)
	assert.Len(t, res.Records, 3)

	res, err = repo.Query(ctx, map[string]string{"count:<": "0", "count:>=": "-2"}, "", 100)
	require.NoError(t, err)
	assert.Len(t, res.Records, 2)

	cutoff := library.Now().String()
	res, err = repo.Query(ctx, map[string]string{"due_at:<=": cutoff}, "", 100)
	require.NoError(t, err)
	require.Len(t, res.Records, 4)
	for _, w := range res.Records {
		assert.True(t, w.DueAt.String() <= cutoff)
	}

	res, err = repo.Query(ctx, map[string]string{"count:<>": "0", "owner:<=": "owner-3"}, "", 100)
	require.NoError(t, err)
	assert.Len(t, res.Records, 3)

	res, err = repo.Query(ctx, map[string]string{"closed_at": "2023-07-17T17:17:17"}, "", 100)
	require.NoError(t, err)
	assert.Empty(t, res.Records)
}

func testQueryDigitStrings(t *testing.T, factory Factory) {
	table := NewTable()
	repo := store.NewRepository[*Widget](factory(t, table), table)
	ctx := context.Background()

	owners := []string{"0306406152", "306406152", "12345678901234567", "12345678901234568"}
	for _, owner := range owners {
		_, err := repo.Create(ctx, newWidget("Active", owner, 1))
		require.NoError(t, err)
	}

	for _, owner := range owners {
		res, err := repo.Query(ctx, map[string]string{"owner:>=": owner, "owner:<=": owner}, "", 100)
		require.NoError(t, err)
		require.Len(t, res.Records, 1, owner)
		assert.Equal(t, owner, res.Records[0].Owner)

		res, err = repo.Query(ctx, map[string]string{"owner:<>": owner}, "", 100)
		require.NoError(t, err)
		assert.Len(t, res.Records, len(owners)-1, owner)
	}

	res, err := repo.Query(ctx, map[string]string{"owner:<": "1"}, "", 100)
	require.NoError(t, err)
	require.Len(t, res.Records, 1, "strings order bytewise")
	assert.Equal(t, "0306406152", res.Records[0].Owner)
}

func testQueryPagination(t *testing.T, factory Factory) {
	table := NewTable()
	repo := store.NewRepository[*Widget](factory(t, table), table)
	ctx := context.Background()

	want := map[string]bool{}
	for i := 0; i < 50; i++ {
		w := newWidget("Active", fmt.Sprintf("owner-%02d", i%7), i)
		_, err := repo.Create(ctx, w)
		require.NoError(t, err)
		want[w.WidgetID] = true
	}
	for i := 0; i < 5; i++ {
		_, err := repo.Create(ctx, newWidget("Closed", "other", i))
		require.NoError(t, err)
	}

	seen := map[string]bool{}
	page, pages := "", 0
	for {
		res, err := repo.Query(ctx, map[string]string{"status": "Active"}, page, 10)
		require.NoError(t, err)
		pages++
		require.LessOrEqual(t, len(res.Records), 10)
		for _, w := range res.Records {
			assert.False(t, seen[w.WidgetID], "record %s returned twice", w.WidgetID)
			seen[w.WidgetID] = true
		}
		if res.NextPage == "" {
			break
		}
		page = res.NextPage
		require.Less(t, pages, 10, "pagination does not terminate")
	}
	assert.Equal(t, 5, pages)
	assert.Equal(t, want, seen)

	filtered := 0
	page = ""
	for {
		res, err := repo.Query(ctx, map[string]string{"count:>=": "25"}, page, 7)
		require.NoError(t, err)
		filtered += len(res.Records)
		if res.NextPage == "" {
			break
		}
		assert.Len(t, res.Records, 7, "non-final filtered pages are full")
		page = res.NextPage
	}
	assert.Equal(t, 25, filtered)
}

func testQueryPaginationProperty(t *testing.T, factory Factory) {
	table := NewTable()
	repo := store.NewRepository[*Widget](factory(t, table), table)
	ctx := context.Background()

	rapid.Check(t, func(rt *rapid.T) {
		partition := uuid.NewString()
		n := rapid.IntRange(0, 30).Draw(rt, "records")
		size := rapid.IntRange(1, 12).Draw(rt, "page_size")

		var want []string
		for i := 0; i < n; i++ {
			w := newWidget(partition, rapid.StringMatching(`[a-c]{1,2}`).Draw(rt, "owner"), i)
			if _, err := repo.Create(ctx, w); err != nil {
				rt.Fatalf("create: %v", err)
			}
			want = append(want, w.Owner+"\x00"+w.WidgetID)
		}
		sort.Strings(want)

		var got []string
		page := ""
		for i := 0; ; i++ {
			if i > n+1 {
				rt.Fatalf("pagination did not terminate")
			}
			res, err := repo.Query(ctx, map[string]string{"status": partition}, page, size)
			if err != nil {
				rt.Fatalf("query: %v", err)
			}
			for _, w := range res.Records {
				got = append(got, w.Owner+"\x00"+w.WidgetID)
			}
			if res.NextPage == "" {
				break
			}
			if len(res.Records) != size {
				rt.Fatalf("short page %d with a next cursor", len(res.Records))
			}
			page = res.NextPage
		}
		if want == nil {
			want = []string{}
		}
		if got == nil {
			got = []string{}
		}
		assert.Equal(rt, want, got)
	})
}

func testQueryRejectsBadInput(t *testing.T, factory Factory) {
	table := NewTable()
	repo := store.NewRepository[*Widget](factory(t, table), table)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := repo.Query(ctx, map[string]string{"count:~": "1"}, "", 10)
	assert.True(t, library.IsKind(err, library.KindValidation), "got %v", err)

	_, err = repo.Query(ctx, nil, "%%%not-a-cursor", 10)
	assert.True(t, library.IsKind(err, library.KindValidation), "got %v", err)
}
