package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"bid-admission/internal/biddingerrors"
	model "bid-admission/internal/models"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"
)

//go:embed schema.sql
var schema string

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// pgStore runs every Store operation against a querier, so the same code
// serves plain connections and item-locked transactions.
type pgStore struct {
	q querier
}

var _ Store = (*pgStore)(nil)

// PostgresRepo is the PostgreSQL implementation of AuctionDB
type PostgresRepo struct {
	*pgStore
	db *sql.DB
}

var _ AuctionDB = (*PostgresRepo)(nil)

// OpenPostgres connects through the pgx database/sql driver.
func OpenPostgres(dsn string) (*PostgresRepo, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return NewPostgresRepo(db), nil
}

// NewPostgresRepo wraps an existing connection pool.
func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{pgStore: &pgStore{q: db}, db: db}
}

func (r *PostgresRepo) Close() error { return r.db.Close() }

func (r *PostgresRepo) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

// EnsureSchema creates missing tables and indexes.
func (r *PostgresRepo) EnsureSchema(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";\n") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// WithItemLock runs fn inside a transaction holding the item's row lock.
func (r *PostgresRepo) WithItemLock(ctx context.Context, itemID string, fn func(ctx context.Context, tx Store) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var id string
	err = tx.QueryRowContext(ctx, `select id from items where id=$1 for update`, itemID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("lock item %s: %w", itemID, biddingerrors.ErrItemNotFound)
	}
	if err != nil {
		return err
	}

	if err := fn(ctx, &pgStore{q: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

// atomically runs fn in a transaction unless the store is already inside one.
func (s *pgStore) atomically(ctx context.Context, fn func(q querier) error) error {
	db, ok := s.q.(*sql.DB)
	if !ok {
		return fn(s.q)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// where accumulates numbered conditions
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, v any) {
	w.args = append(w.args, v)
	w.conds = append(w.conds, fmt.Sprintf(cond, len(w.args)))
}

func (w *where) in(column string, vs []string) {
	ph := make([]string, len(vs))
	for i, v := range vs {
		w.args = append(w.args, v)
		ph[i] = fmt.Sprintf("$%d", len(w.args))
	}
	w.conds = append(w.conds, fmt.Sprintf("%s in (%s)", column, strings.Join(ph, ",")))
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " where " + strings.Join(w.conds, " and ")
}

// ---- items ----

const itemColumns = `id, seller_id, title, description, starting_price, current_price, min_increment,
	buy_now_price, status, winner_id, bid_count, created_at, end_time`

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (model.Item, error) {
	var it model.Item
	var winner sql.NullString
	err := row.Scan(&it.ItemID, &it.SellerID, &it.Title, &it.Description, &it.StartingPrice, &it.CurrentPrice,
		&it.MinIncrement, &it.BuyNowPrice, &it.Status, &winner, &it.BidCount, &it.CreatedAt, &it.EndTime)
	it.WinnerID = winner.String
	return it, err
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *pgStore) CreateItem(ctx context.Context, item model.Item) error {
	_, err := s.q.ExecContext(ctx, `insert into items(`+itemColumns+`)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		item.ItemID, item.SellerID, item.Title, item.Description, item.StartingPrice, item.CurrentPrice,
		item.MinIncrement, item.BuyNowPrice, item.Status, nullable(item.WinnerID), item.BidCount, item.CreatedAt, item.EndTime)
	if err != nil {
		return fmt.Errorf("create item %s: %w", item.ItemID, err)
	}
	return nil
}

func (s *pgStore) GetItem(ctx context.Context, itemID string) (model.Item, error) {
	it, err := scanItem(s.q.QueryRowContext(ctx, `select `+itemColumns+` from items where id=$1`, itemID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Item{}, fmt.Errorf("get item %s: %w", itemID, biddingerrors.ErrItemNotFound)
	}
	return it, err
}

func (s *pgStore) queryItems(ctx context.Context, query string, args ...any) ([]model.Item, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *pgStore) ListItemsBySeller(ctx context.Context, sellerID string) ([]model.Item, error) {
	return s.queryItems(ctx, `select `+itemColumns+` from items where seller_id=$1 order by created_at`, sellerID)
}

func (s *pgStore) CountWonItems(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.q.QueryRowContext(ctx, `select count(*) from items where status='sold' and winner_id=$1`, userID).Scan(&n)
	return n, err
}

func (s *pgStore) ApplyBid(ctx context.Context, itemID string, price decimal.Decimal) error {
	res, err := s.q.ExecContext(ctx, `update items set current_price=$2, bid_count=bid_count+1 where id=$1`, itemID, price)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("apply bid to item %s: %w", itemID, biddingerrors.ErrItemNotFound)
	}
	return nil
}

func (s *pgStore) BuyNow(ctx context.Context, itemID, buyerID string, price decimal.Decimal) (bool, error) {
	res, err := s.q.ExecContext(ctx, `
		update items set status='sold', winner_id=$2, current_price=$3
		where id=$1 and status='active' and winner_id is null
	`, itemID, buyerID, price)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *pgStore) UpdateItemStatus(ctx context.Context, itemID string, status model.ItemStatus) error {
	res, err := s.q.ExecContext(ctx, `update items set status=$2 where id=$1`, itemID, status)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update status of item %s: %w", itemID, biddingerrors.ErrItemNotFound)
	}
	return nil
}

// ---- bids ----

const bidColumns = `id, item_id, user_id, amount, price_before, is_winning, created_at`

func scanBid(row scanner) (model.Bid, error) {
	var b model.Bid
	err := row.Scan(&b.BidID, &b.ItemID, &b.UserID, &b.Amount, &b.PriceBefore, &b.IsWinning, &b.CreatedAt)
	return b, err
}

func bidWhere(q BidQuery) *where {
	w := &where{}
	if q.UserID != "" {
		w.add("user_id=$%d", q.UserID)
	}
	if q.ItemID != "" {
		w.add("item_id=$%d", q.ItemID)
	}
	if !q.Since.IsZero() {
		w.add("created_at>=$%d", q.Since)
	}
	return w
}

func (s *pgStore) CreateBid(ctx context.Context, bid model.Bid) error {
	_, err := s.q.ExecContext(ctx, `insert into bids(`+bidColumns+`) values ($1,$2,$3,$4,$5,$6,$7)`,
		bid.BidID, bid.ItemID, bid.UserID, bid.Amount, bid.PriceBefore, bid.IsWinning, bid.CreatedAt)
	if err != nil {
		return fmt.Errorf("record bid for item %s: %w", bid.ItemID, err)
	}
	return nil
}

func (s *pgStore) DeleteBid(ctx context.Context, bidID string) error {
	res, err := s.q.ExecContext(ctx, `delete from bids where id=$1`, bidID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete bid %s: %w", bidID, biddingerrors.ErrBidNotFound)
	}
	return nil
}

func (s *pgStore) ListBids(ctx context.Context, q BidQuery) ([]model.Bid, error) {
	w := bidWhere(q)
	query := `select ` + bidColumns + ` from bids` + w.String() + ` order by created_at desc`
	if q.Limit > 0 {
		query += fmt.Sprintf(" limit %d", q.Limit)
	}
	rows, err := s.q.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Bid{}
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (s *pgStore) CountBids(ctx context.Context, q BidQuery) (int, error) {
	w := bidWhere(q)
	var n int
	err := s.q.QueryRowContext(ctx, `select count(*) from bids`+w.String(), w.args...).Scan(&n)
	return n, err
}

func (s *pgStore) CountDistinctItems(ctx context.Context, q BidQuery) (int, error) {
	w := bidWhere(q)
	var n int
	err := s.q.QueryRowContext(ctx, `select count(distinct item_id) from bids`+w.String(), w.args...).Scan(&n)
	return n, err
}

func (s *pgStore) ListUserBidItems(ctx context.Context, userID string, since time.Time, limit int) ([]BidWithItem, error) {
	bids, err := s.ListBids(ctx, BidQuery{UserID: userID, Since: since, Limit: limit})
	if err != nil {
		return nil, err
	}
	items := make(map[string]model.Item)
	out := make([]BidWithItem, 0, len(bids))
	for _, b := range bids {
		it, ok := items[b.ItemID]
		if !ok {
			if it, err = s.GetItem(ctx, b.ItemID); err != nil {
				return nil, err
			}
			items[b.ItemID] = it
		}
		out = append(out, BidWithItem{Bid: b, Item: it})
	}
	return out, nil
}

func (s *pgStore) CountBidsOnSeller(ctx context.Context, userID, sellerID string) (int, error) {
	var n int
	err := s.q.QueryRowContext(ctx, `
		select count(*) from bids b join items i on i.id=b.item_id
		where b.user_id=$1 and i.seller_id=$2
	`, userID, sellerID).Scan(&n)
	return n, err
}

func (s *pgStore) CountSellerItemsBidOn(ctx context.Context, userID, sellerID string) (int, error) {
	var n int
	err := s.q.QueryRowContext(ctx, `
		select count(distinct b.item_id) from bids b join items i on i.id=b.item_id
		where b.user_id=$1 and i.seller_id=$2
	`, userID, sellerID).Scan(&n)
	return n, err
}

func (s *pgStore) ListBidders(ctx context.Context, itemID string) ([]string, error) {
	rows, err := s.q.QueryContext(ctx, `
		select user_id from bids where item_id=$1 group by user_id order by min(created_at)
	`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *pgStore) CountCommonItems(ctx context.Context, userA, userB string) (int, error) {
	var n int
	err := s.q.QueryRowContext(ctx, `
		select count(*) from (
			select item_id from bids where user_id=$1
			intersect
			select item_id from bids where user_id=$2
		) common
	`, userA, userB).Scan(&n)
	return n, err
}

func (s *pgStore) MarkWinningBid(ctx context.Context, itemID string) (model.Bid, error) {
	if _, err := s.q.ExecContext(ctx, `update bids set is_winning=false where item_id=$1 and is_winning`, itemID); err != nil {
		return model.Bid{}, err
	}
	b, err := scanBid(s.q.QueryRowContext(ctx, `
		select `+bidColumns+` from bids where item_id=$1
		order by amount desc, created_at asc limit 1
	`, itemID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Bid{}, fmt.Errorf("mark winning bid for item %s: %w", itemID, biddingerrors.ErrNoBids)
	}
	if err != nil {
		return model.Bid{}, err
	}
	if _, err := s.q.ExecContext(ctx, `update bids set is_winning=true where id=$1`, b.BidID); err != nil {
		return model.Bid{}, err
	}
	b.IsWinning = true
	return b, nil
}

func (s *pgStore) GetWinningBid(ctx context.Context, itemID string) (model.Bid, error) {
	b, err := scanBid(s.q.QueryRowContext(ctx, `
		select `+bidColumns+` from bids where item_id=$1 and is_winning limit 1
	`, itemID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Bid{}, fmt.Errorf("get winning bid for item %s: %w", itemID, biddingerrors.ErrNoBids)
	}
	return b, err
}

func (s *pgStore) GetItemsByUser(ctx context.Context, userID string) ([]model.Item, error) {
	items, err := s.queryItems(ctx, `
		select `+prefixed("i", itemColumns)+` from items i
		join (select item_id, min(created_at) first_bid from bids where user_id=$1 group by item_id) b
		on b.item_id=i.id
		order by b.first_bid
	`, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("get items for user %s: %w", userID, biddingerrors.ErrUserNoBids)
	}
	return items, nil
}

func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

// ---- users ----

func (s *pgStore) CreateUser(ctx context.Context, u model.User) error {
	_, err := s.q.ExecContext(ctx, `
		insert into users(id, username, joined_at, is_superuser, bypass_rapid_bidding, bypass_account_age, bypass_fraud, bypass_all)
		values ($1,$2,$3,$4,$5,$6,$7,$8)
	`, u.UserID, u.Username, u.JoinedAt, u.IsSuperuser, u.BypassRapidBidding, u.BypassAccountAge, u.BypassFraud, u.BypassAll)
	if err != nil {
		return fmt.Errorf("create user %s: %w", u.UserID, err)
	}
	return nil
}

func (s *pgStore) GetUser(ctx context.Context, userID string) (model.User, error) {
	var u model.User
	err := s.q.QueryRowContext(ctx, `
		select id, username, joined_at, is_superuser, bypass_rapid_bidding, bypass_account_age, bypass_fraud, bypass_all
		from users where id=$1
	`, userID).Scan(&u.UserID, &u.Username, &u.JoinedAt, &u.IsSuperuser, &u.BypassRapidBidding, &u.BypassAccountAge, &u.BypassFraud, &u.BypassAll)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, fmt.Errorf("get user %s: %w", userID, biddingerrors.ErrUserNotFound)
	}
	return u, err
}

// ---- cooldowns ----

const cooldownColumns = `id, user_id, item_id, kind, reason, created_at, expires_at, is_active,
	captcha_required, captcha_passed, failed_attempts`

func (s *pgStore) CreateCooldown(ctx context.Context, c model.Cooldown) error {
	_, err := s.q.ExecContext(ctx, `insert into cooldowns(`+cooldownColumns+`)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		c.CooldownID, c.UserID, c.ItemID, c.Kind, c.Reason, c.CreatedAt, c.ExpiresAt, c.IsActive,
		c.CaptchaRequired, c.CaptchaPassed, c.FailedAttempts)
	return err
}

func (s *pgStore) UpdateCooldown(ctx context.Context, c model.Cooldown) error {
	res, err := s.q.ExecContext(ctx, `
		update cooldowns set expires_at=$2, is_active=$3, captcha_passed=$4, failed_attempts=$5
		where id=$1
	`, c.CooldownID, c.ExpiresAt, c.IsActive, c.CaptchaPassed, c.FailedAttempts)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update cooldown %s: %w", c.CooldownID, biddingerrors.ErrCooldownNotFound)
	}
	return nil
}

func (s *pgStore) FindCooldowns(ctx context.Context, q CooldownQuery) ([]model.Cooldown, error) {
	w := &where{}
	if q.UserID != "" {
		w.add("user_id=$%d", q.UserID)
	}
	if len(q.ItemIDs) > 0 {
		w.in("item_id", q.ItemIDs)
	}
	if q.Kind != "" {
		w.add("kind=$%d", q.Kind)
	}
	if q.ActiveOnly {
		w.conds = append(w.conds, "is_active")
	}
	if !q.CreatedSince.IsZero() {
		w.add("created_at>=$%d", q.CreatedSince)
	}

	rows, err := s.q.QueryContext(ctx, `select `+cooldownColumns+` from cooldowns`+w.String()+` order by created_at desc`, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Cooldown
	for rows.Next() {
		var c model.Cooldown
		if err := rows.Scan(&c.CooldownID, &c.UserID, &c.ItemID, &c.Kind, &c.Reason, &c.CreatedAt, &c.ExpiresAt,
			&c.IsActive, &c.CaptchaRequired, &c.CaptchaPassed, &c.FailedAttempts); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *pgStore) DeactivateExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := s.q.ExecContext(ctx, `update cooldowns set is_active=false where is_active and expires_at<=$1`, now)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// ---- fraud alerts ----

const alertColumns = `id, user_id, item_id, alert_type, severity, description, data, is_resolved,
	resolved_by, resolved_at, created_at`

func scanAlert(row scanner) (model.FraudAlert, error) {
	var a model.FraudAlert
	var data []byte
	var resolvedAt sql.NullTime
	if err := row.Scan(&a.AlertID, &a.UserID, &a.ItemID, &a.Type, &a.Severity, &a.Description, &data,
		&a.IsResolved, &a.ResolvedBy, &resolvedAt, &a.CreatedAt); err != nil {
		return a, err
	}
	if resolvedAt.Valid {
		t := resolvedAt.Time
		a.ResolvedAt = &t
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &a.Data); err != nil {
			return a, fmt.Errorf("decode alert %s data: %w", a.AlertID, err)
		}
	}
	return a, nil
}

func alertArgs(a model.FraudAlert) ([]any, error) {
	data, err := json.Marshal(a.Data)
	if err != nil {
		return nil, fmt.Errorf("encode alert %s data: %w", a.AlertID, err)
	}
	var resolvedAt sql.NullTime
	if a.ResolvedAt != nil {
		resolvedAt = sql.NullTime{Time: *a.ResolvedAt, Valid: true}
	}
	return []any{a.AlertID, a.UserID, a.ItemID, a.Type, a.Severity, a.Description, data,
		a.IsResolved, a.ResolvedBy, resolvedAt, a.CreatedAt}, nil
}

func (s *pgStore) CreateAlerts(ctx context.Context, alerts []model.FraudAlert) error {
	if len(alerts) == 0 {
		return nil
	}
	return s.atomically(ctx, func(q querier) error {
		for _, a := range alerts {
			args, err := alertArgs(a)
			if err != nil {
				return err
			}
			if _, err := q.ExecContext(ctx, `insert into fraud_alerts(`+alertColumns+`)
				values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`, args...); err != nil {
				return fmt.Errorf("create alert %s: %w", a.AlertID, err)
			}
		}
		return nil
	})
}

func (s *pgStore) GetAlert(ctx context.Context, alertID string) (model.FraudAlert, error) {
	a, err := scanAlert(s.q.QueryRowContext(ctx, `select `+alertColumns+` from fraud_alerts where id=$1`, alertID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.FraudAlert{}, fmt.Errorf("get alert %s: %w", alertID, biddingerrors.ErrAlertNotFound)
	}
	return a, err
}

func (s *pgStore) UpdateAlert(ctx context.Context, a model.FraudAlert) error {
	args, err := alertArgs(a)
	if err != nil {
		return err
	}
	res, err := s.q.ExecContext(ctx, `
		update fraud_alerts set user_id=$2, item_id=$3, alert_type=$4, severity=$5, description=$6, data=$7,
			is_resolved=$8, resolved_by=$9, resolved_at=$10, created_at=$11
		where id=$1
	`, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update alert %s: %w", a.AlertID, biddingerrors.ErrAlertNotFound)
	}
	return nil
}

func (s *pgStore) DeleteAlert(ctx context.Context, alertID string) error {
	res, err := s.q.ExecContext(ctx, `delete from fraud_alerts where id=$1`, alertID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete alert %s: %w", alertID, biddingerrors.ErrAlertNotFound)
	}
	return nil
}

func (s *pgStore) ListAlerts(ctx context.Context, f model.AlertFilter) ([]model.FraudAlert, error) {
	w := &where{}
	if f.UserID != "" {
		w.add("user_id=$%d", f.UserID)
	}
	if f.Resolved != nil {
		w.add("is_resolved=$%d", *f.Resolved)
	}
	if f.Severity != "" {
		w.add("severity=$%d", f.Severity)
	}
	query := `select ` + alertColumns + ` from fraud_alerts` + w.String() + ` order by id desc`
	if f.Limit > 0 {
		query += fmt.Sprintf(" limit %d", f.Limit)
	}

	rows, err := s.q.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.FraudAlert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *pgStore) ResolveAlerts(ctx context.Context, ids []string, resolvedBy string, at time.Time) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	w := &where{args: []any{resolvedBy, at}}
	w.conds = append(w.conds, "not is_resolved")
	w.in("id", ids)
	res, err := s.q.ExecContext(ctx, `update fraud_alerts set is_resolved=true, resolved_by=$1, resolved_at=$2`+w.String(), w.args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// ---- payments ----

func (s *pgStore) CreatePayment(ctx context.Context, p model.Payment) error {
	_, err := s.q.ExecContext(ctx, `
		insert into payments(id, user_id, item_id, amount, method, status, reference, created_at)
		values ($1,$2,$3,$4,$5,$6,$7,$8)
	`, p.PaymentID, p.UserID, p.ItemID, p.Amount, p.Method, p.Status, p.Reference, p.CreatedAt)
	return err
}

func (s *pgStore) ListPayments(ctx context.Context, q PaymentQuery) ([]model.Payment, error) {
	w := &where{}
	if q.UserID != "" {
		w.add("user_id=$%d", q.UserID)
	}
	if q.Status != "" {
		w.add("status=$%d", q.Status)
	}
	if !q.Since.IsZero() {
		w.add("created_at>=$%d", q.Since)
	}
	rows, err := s.q.QueryContext(ctx, `
		select id, user_id, item_id, amount, method, status, reference, created_at
		from payments`+w.String()+` order by created_at`, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Payment
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.PaymentID, &p.UserID, &p.ItemID, &p.Amount, &p.Method, &p.Status, &p.Reference, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ---- transaction log ----

const txColumns = `id, transaction_id, transaction_type, item_id, user_id, amount, payment_method, ts,
	data, previous_hash, current_hash`

func scanTx(row scanner) (model.TransactionLog, error) {
	var e model.TransactionLog
	var data []byte
	if err := row.Scan(&e.ID, &e.TransactionID, &e.Type, &e.ItemID, &e.UserID, &e.Amount, &e.PaymentMethod,
		&e.Timestamp, &data, &e.PreviousHash, &e.CurrentHash); err != nil {
		return e, err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &e.Data); err != nil {
			return e, fmt.Errorf("decode transaction %s data: %w", e.ID, err)
		}
	}
	return e, nil
}

func (s *pgStore) AppendTransaction(ctx context.Context, e model.TransactionLog) error {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return err
	}
	_, err = s.q.ExecContext(ctx, `insert into transaction_log(`+txColumns+`)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		e.ID, e.TransactionID, e.Type, e.ItemID, e.UserID, e.Amount, e.PaymentMethod, e.Timestamp,
		data, e.PreviousHash, e.CurrentHash)
	return err
}

func (s *pgStore) LastTransaction(ctx context.Context) (model.TransactionLog, bool, error) {
	e, err := scanTx(s.q.QueryRowContext(ctx, `select `+txColumns+` from transaction_log order by seq desc limit 1`))
	if errors.Is(err, sql.ErrNoRows) {
		return model.TransactionLog{}, false, nil
	}
	if err != nil {
		return model.TransactionLog{}, false, err
	}
	return e, true, nil
}

func (s *pgStore) ListTransactions(ctx context.Context) ([]model.TransactionLog, error) {
	rows, err := s.q.QueryContext(ctx, `select `+txColumns+` from transaction_log order by seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TransactionLog
	for rows.Next() {
		e, err := scanTx(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
