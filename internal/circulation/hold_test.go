package circulation_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"libranexus/internal/library"
)

func TestHoldThenCancel(t *testing.T) {
	f := newFixture(t)
	book := f.book(t, library.BookAvailable, false)
	patron := f.patron(t)

	hold, err := f.holds.Hold(f.ctx, patron.PartyID, book.BookID)
	require.NoError(t, err)
	assert.Equal(t, library.HoldOnHold, hold.Status)
	assert.Equal(t, hold.HoldAt.AddDays(15).String(), hold.ExpiresAt.String())
	assert.Nil(t, hold.CanceledAt)
	assert.Nil(t, hold.CheckedOutAt)

	canceled, err := f.holds.Cancel(f.ctx, patron.PartyID, book.BookID)
	require.NoError(t, err)
	assert.Equal(t, hold.HoldID, canceled.HoldID)
	assert.Equal(t, library.HoldCanceled, canceled.Status)
	assert.NotNil(t, canceled.CanceledAt)
	assert.Nil(t, canceled.CheckedOutAt)
	assert.Equal(t, int64(1), canceled.Version)

	_, err = f.holds.Cancel(f.ctx, patron.PartyID, book.BookID)
	assert.True(t, library.IsKind(err, library.KindNotFound), "second cancel: got %v", err)

	placed := f.eventsFor(t, "book_hold", hold.HoldID)
	require.Len(t, placed, 1)
	assert.Equal(t, library.EventAdded, placed[0].Kind)
	assert.Equal(t, "main", placed[0].Metadata["branch_id"])

	closed := f.eventsFor(t, "book_hold_cancel", hold.HoldID)
	require.Len(t, closed, 1)
	assert.Equal(t, "book_hold_cancel", closed[0].Name)
	assert.Equal(t, library.EventDeleted, closed[0].Kind)
}

func TestHoldThenCheckout(t *testing.T) {
	f := newFixture(t)
	book := f.book(t, library.BookAvailable, false)
	patron := f.patron(t)

	hold, err := f.holds.Hold(f.ctx, patron.PartyID, book.BookID)
	require.NoError(t, err)

	out, err := f.holds.Checkout(f.ctx, patron.PartyID, book.BookID)
	require.NoError(t, err)
	assert.Equal(t, library.HoldCheckedOut, out.Status)
	assert.NotNil(t, out.CheckedOutAt)
	assert.Nil(t, out.CanceledAt)

	stored, err := f.holds.FindHold(f.ctx, hold.HoldID)
	require.NoError(t, err)
	assert.Equal(t, library.HoldCheckedOut, stored.Status)
	assert.Equal(t, int64(1), stored.Version)
	assert.Equal(t, out.UpdatedAt.String(), stored.UpdatedAt.String())

	_, err = f.holds.Cancel(f.ctx, patron.PartyID, book.BookID)
	assert.True(t, library.IsKind(err, library.KindNotFound))

	events := f.eventsFor(t, "book_hold_checkout", hold.HoldID)
	require.Len(t, events, 1)
	assert.Equal(t, library.EventDeleted, events[0].Kind)
}

func TestHoldFollowsCheckoutRules(t *testing.T) {
	f := newFixture(t)
	patron := f.patron(t)

	lent := f.book(t, library.BookCheckedOut, false)
	_, err := f.holds.Hold(f.ctx, patron.PartyID, lent.BookID)
	assert.True(t, library.IsKind(err, library.KindValidation))
	assert.Equal(t, "400", reasonOf(err))

	restricted := f.book(t, library.BookAvailable, true)
	_, err = f.holds.Hold(f.ctx, patron.PartyID, restricted.BookID)
	assert.True(t, library.IsKind(err, library.KindValidation))

	librarian := f.patron(t, library.RoleLibrarian)
	_, err = f.holds.Hold(f.ctx, librarian.PartyID, restricted.BookID)
	assert.NoError(t, err)

	_, err = f.holds.Hold(f.ctx, "nobody", restricted.BookID)
	assert.True(t, library.IsKind(err, library.KindNotFound))

	assert.Empty(t, f.eventsIn(t, "book_hold_cancel"))
}

func TestConcurrentHoldsOnOneBookBothSucceed(t *testing.T) {
	f := newFixture(t)
	book := f.book(t, library.BookAvailable, false)
	first := f.patron(t)
	second := f.patron(t)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{first.PartyID, second.PartyID} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.holds.Hold(f.ctx, id, book.BookID)
		}()
	}
	wg.Wait()

	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])
	assert.Len(t, f.eventsIn(t, "book_hold"), 2)
}

func TestQueryExpired(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := newFixture(t)
		book := f.book(t, library.BookAvailable, false)
		patron := f.patron(t)
		now := time.Now().UTC()

		ages := rapid.SliceOfN(rapid.IntRange(0, 40), 1, 12).Draw(rt, "ages")
		cancel := rapid.Bool().Draw(rt, "cancel")
		for _, days := range ages {
			f.clock.Set(now.AddDate(0, 0, -days))
			_, err := f.holds.Hold(f.ctx, patron.PartyID, book.BookID)
			require.NoError(rt, err)
		}
		f.clock.Set(now)
		if cancel {
			_, err := f.holds.Cancel(f.ctx, patron.PartyID, book.BookID)
			require.NoError(rt, err)
		}

		res, err := f.holds.QueryExpired(f.ctx, nil, "", 100)
		require.NoError(rt, err)
		cutoff := library.At(now).String()
		for _, h := range res.Records {
			if h.ExpiresAt.String() > cutoff {
				rt.Fatalf("hold expiring %s listed as expired at %s", h.ExpiresAt, cutoff)
			}
			if h.Status != library.HoldOnHold {
				rt.Fatalf("closed hold %s listed as expired", h.HoldID)
			}
		}
	})
}

func TestQueryExpiredCallerPredicateWins(t *testing.T) {
	f := newFixture(t)
	book := f.book(t, library.BookAvailable, false)
	patron := f.patron(t)

	_, err := f.holds.Hold(f.ctx, patron.PartyID, book.BookID)
	require.NoError(t, err)
	_, err = f.holds.Cancel(f.ctx, patron.PartyID, book.BookID)
	require.NoError(t, err)

	res, err := f.holds.QueryExpired(f.ctx, map[string]string{
		"hold_status":   string(library.HoldCanceled),
		"expires_at:<=": library.Now().AddDays(30).String(),
	}, "", 10)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, library.HoldCanceled, res.Records[0].Status)
}
