package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"bid-admission/internal/biddingerrors"
	model "bid-admission/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PostgresRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepo(db), mock
}

func TestPostgresRepo_WithItemLock(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("commits_locked_section", func(t *testing.T) {
		t.Parallel()
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`select id from items where id=\$1 for update`).WithArgs("item1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("item1"))
		mock.ExpectExec(`update items set current_price=\$2, bid_count=bid_count\+1 where id=\$1`).
			WithArgs("item1", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.WithItemLock(ctx, "item1", func(ctx context.Context, tx Store) error {
			return tx.ApplyBid(ctx, "item1", decimal.NewFromInt(120))
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing_item", func(t *testing.T) {
		t.Parallel()
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`select id from items where id=\$1 for update`).WithArgs("nope").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		err := repo.WithItemLock(ctx, "nope", func(context.Context, Store) error {
			t.Fatal("fn must not run for a missing item")
			return nil
		})
		require.ErrorIs(t, err, biddingerrors.ErrItemNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fn_error_rolls_back", func(t *testing.T) {
		t.Parallel()
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`select id from items where id=\$1 for update`).WithArgs("item1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("item1"))
		mock.ExpectExec(`delete from bids where id=\$1`).WithArgs("bid1").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectRollback()

		boom := errors.New("fraud says no")
		err := repo.WithItemLock(ctx, "item1", func(ctx context.Context, tx Store) error {
			require.NoError(t, tx.DeleteBid(ctx, "bid1"))
			return boom
		})
		require.ErrorIs(t, err, boom)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresRepo_BuyNow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "first_buyer_wins", affected: 1, want: true},
		{name: "already_sold", affected: 0, want: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			repo, mock := newMockRepo(t)

			mock.ExpectExec(`(?s)update items set status='sold'.*where id=\$1 and status='active' and winner_id is null`).
				WithArgs("item1", "buyer", sqlmock.AnyArg()).
				WillReturnResult(sqlmock.NewResult(0, tc.affected))

			ok, err := repo.BuyNow(context.Background(), "item1", "buyer", decimal.NewFromInt(500))
			require.NoError(t, err)
			require.Equal(t, tc.want, ok)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresRepo_CreateAlertsAtomic(t *testing.T) {
	t.Parallel()
	alerts := []model.FraudAlert{
		{AlertID: "a1", UserID: "u", Type: model.AlertSelfBidding, Severity: model.SeverityCritical, Data: map[string]any{"seller": "u"}},
		{AlertID: "a2", UserID: "u", Type: model.AlertRapidBidding, Severity: model.SeverityHigh},
	}
	args := make([]driver.Value, 11)
	for i := range args {
		args[i] = sqlmock.AnyArg()
	}

	t.Run("commit", func(t *testing.T) {
		t.Parallel()
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(`insert into fraud_alerts`).WithArgs(args...).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(`insert into fraud_alerts`).WithArgs(args...).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.CreateAlerts(context.Background(), alerts))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback_on_failure", func(t *testing.T) {
		t.Parallel()
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(`insert into fraud_alerts`).WithArgs(args...).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(`insert into fraud_alerts`).WithArgs(args...).WillReturnError(errors.New("duplicate key"))
		mock.ExpectRollback()

		require.Error(t, repo.CreateAlerts(context.Background(), alerts))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresRepo_ListBidsLimitOldestFirst(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "item_id", "user_id", "amount", "price_before", "is_winning", "created_at"}).
		AddRow("b3", "item1", "alice", "13.00", "12.00", true, now).
		AddRow("b2", "item1", "alice", "12.00", "11.00", false, now.Add(-time.Minute))
	mock.ExpectQuery(`select .* from bids where user_id=\$1 and created_at>=\$2 order by created_at desc limit 2`).
		WithArgs("alice", now.Add(-time.Hour)).WillReturnRows(rows)

	bids, err := repo.ListBids(context.Background(), BidQuery{UserID: "alice", Since: now.Add(-time.Hour), Limit: 2})
	require.NoError(t, err)
	require.Len(t, bids, 2)
	require.Equal(t, "b2", bids[0].BidID)
	require.Equal(t, "b3", bids[1].BidID)
	require.True(t, bids[1].Increment().Equal(decimal.NewFromInt(1)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_FindCooldownsScope(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "user_id", "item_id", "kind", "reason", "created_at", "expires_at",
		"is_active", "captcha_required", "captcha_passed", "failed_attempts"}).
		AddRow("c1", "u", "", "hard_cooldown", "Excessive bidding", now, now.Add(5*time.Minute), true, false, false, 0)
	mock.ExpectQuery(`from cooldowns where user_id=\$1 and item_id in \(\$2,\$3\) and is_active order by created_at desc`).
		WithArgs("u", "item1", "").WillReturnRows(rows)

	got, err := repo.FindCooldowns(context.Background(), CooldownQuery{UserID: "u", ItemIDs: []string{"item1", ""}, ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.True(t, got[0].IsGlobal())
	require.Equal(t, model.HardCooldown, got[0].Kind)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_DeactivateExpired(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(`update cooldowns set is_active=false where is_active and expires_at<=\$1`).
		WithArgs(now).WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeactivateExpired(context.Background(), now)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_GetItemNotFound(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`from items where id=\$1`).WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetItem(context.Background(), "missing")
	require.ErrorIs(t, err, biddingerrors.ErrItemNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_ResolveAlertsSkipsResolved(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(`update fraud_alerts set is_resolved=true, resolved_by=\$1, resolved_at=\$2 where not is_resolved and id in \(\$3,\$4\)`).
		WithArgs("admin", now, "a1", "a2").WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.ResolveAlerts(context.Background(), []string{"a1", "a2"}, "admin", now)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.NoError(t, mock.ExpectationsWereMet())
}
