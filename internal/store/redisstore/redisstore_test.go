package redisstore

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libranexus/internal/store"
	"libranexus/internal/store/storetest"
)

func newTestStore(t *testing.T) (*Store, *redis.Client) {
	t.Helper()
	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/15"
	}
	client, err := Connect(context.Background(), url)
	if err != nil {
		t.Skipf("skipping redis tests: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	prefix := "libranexus-test-" + uuid.NewString()[:8]
	t.Cleanup(func() {
		ctx := context.Background()
		iter := client.Scan(ctx, 0, prefix+":*", 500).Iterator()
		for iter.Next(ctx) {
			client.Del(ctx, iter.Val())
		}
	})
	return New(client, WithPrefix(prefix)), client
}

func TestRedisContract(t *testing.T) {
	s, _ := newTestStore(t)
	storetest.Run(t, func(t *testing.T, _ store.Table) store.Backend { return s })
}

func TestScanRefillsAfterDeletedRecords(t *testing.T) {
	s, client := newTestStore(t)
	table := storetest.NewTable()
	repo := store.NewRepository[*storetest.Widget](s, table)
	ctx := context.Background()

	for _, owner := range []string{"m", "n", "o", "p", "q"} {
		_, err := repo.Create(ctx, &storetest.Widget{WidgetID: uuid.NewString(), Status: "Active", Owner: owner})
		require.NoError(t, err)
	}
	// index members left behind by deletes racing a range read
	for _, owner := range []string{"a", "b", "c"} {
		dangling := member(store.Key{ID: uuid.NewString(), Partition: "Active", Sort: owner})
		require.NoError(t, client.ZAdd(ctx, s.indexKey(table), redis.Z{Member: dangling}).Err())
	}

	items, err := s.Scan(ctx, table, store.IndexScan{Limit: 3})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "m", items[0]["owner"])

	res, err := repo.Query(ctx, map[string]string{}, "", 2)
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.NotEmpty(t, res.NextPage)

	var owners []string
	page := ""
	for {
		res, err := repo.Query(ctx, map[string]string{}, page, 2)
		require.NoError(t, err)
		for _, w := range res.Records {
			owners = append(owners, w.Owner)
		}
		if res.NextPage == "" {
			break
		}
		page = res.NextPage
	}
	assert.Equal(t, []string{"m", "n", "o", "p", "q"}, owners)
}

func TestBounds(t *testing.T) {
	active, ann := "Active", "ann"

	lo, hi := bounds(store.IndexScan{})
	assert.Equal(t, "-", lo)
	assert.Equal(t, "+", hi)

	lo, hi = bounds(store.IndexScan{Partition: &active})
	assert.Equal(t, "[Active\x00", lo)
	assert.Equal(t, "[Active\x00\xff", hi)

	lo, hi = bounds(store.IndexScan{Partition: &active, Sort: &ann})
	assert.Equal(t, "[Active\x00ann\x00", lo)
	assert.Equal(t, "[Active\x00ann\x00\xff", hi)

	after := store.Key{ID: "w1", Partition: "Active", Sort: "ann"}
	lo, _ = bounds(store.IndexScan{Partition: &active, After: &after})
	assert.Equal(t, "(Active\x00ann\x00w1", lo)

	before := store.Key{ID: "w1", Partition: "Aardvark", Sort: "ann"}
	lo, _ = bounds(store.IndexScan{Partition: &active, After: &before})
	assert.Equal(t, "[Active\x00", lo, "cursor before the partition is ignored")
}

func TestMemberOrderMatchesKeyOrder(t *testing.T) {
	a := store.Key{ID: "z", Partition: "A", Sort: "x"}
	b := store.Key{ID: "a", Partition: "A", Sort: "xy"}
	assert.True(t, a.Less(b))
	assert.Less(t, member(a), member(b))
	assert.Equal(t, "z", idOf(member(a)))
}
