package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/model"
)

// SQLiteRepository хранит все коллекции в одном файле sqlite.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// Один писатель: исключает SQLITE_BUSY при параллельных сессиях.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// tableFor сопоставляет вид записи таблице. Имя таблицы никогда не
// приходит из пользовательского ввода.
func tableFor(kind model.Kind) string {
	if kind == model.KindIncome {
		return "incomes"
	}
	return "expenses"
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, kind model.Kind, t *model.Transaction) (int64, error) {
	query := fmt.Sprintf(
		`INSERT INTO %s (user_id, amount, category, description, date) VALUES (?, ?, ?, ?, ?)`,
		tableFor(kind))
	res, err := r.db.ExecContext(ctx, query,
		t.UserID, t.Amount.String(), t.Category, t.Description, t.Date.Format(model.DateLayout))
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", kind, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	t.ID = id
	return id, nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, kind model.Kind, userID, id int64) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ? AND user_id = ?`, tableFor(kind))
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete from %s: %w", tableFor(kind), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) DeleteAllTransactions(ctx context.Context, userID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("reset expenses: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM incomes WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("reset incomes: %w", err)
	}
	return tx.Commit()
}

func (r *SQLiteRepository) TransactionsSince(ctx context.Context, kind model.Kind, userID int64, since time.Time) ([]model.Transaction, error) {
	query := fmt.Sprintf(
		`SELECT id, user_id, amount, category, description, date FROM %s
		 WHERE user_id = ? AND date >= ? ORDER BY date, id`,
		tableFor(kind))
	rows, err := r.db.QueryContext(ctx, query, userID, since.Format(model.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("query %s since: %w", tableFor(kind), err)
	}
	defer rows.Close()
	return scanTransactions(rows, since.Location())
}

func (r *SQLiteRepository) AllTransactions(ctx context.Context, kind model.Kind, userID int64, loc *time.Location) ([]model.Transaction, error) {
	query := fmt.Sprintf(
		`SELECT id, user_id, amount, category, description, date FROM %s
		 WHERE user_id = ? ORDER BY id`,
		tableFor(kind))
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", tableFor(kind), err)
	}
	defer rows.Close()
	return scanTransactions(rows, loc)
}

func scanTransactions(rows *sql.Rows, loc *time.Location) ([]model.Transaction, error) {
	var out []model.Transaction
	for rows.Next() {
		var (
			t      model.Transaction
			amount string
			date   string
		)
		if err := rows.Scan(&t.ID, &t.UserID, &amount, &t.Category, &t.Description, &date); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		a, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parse amount %q: %w", amount, err)
		}
		t.Amount = a
		d, err := time.ParseInLocation(model.DateLayout, date, loc)
		if err != nil {
			return nil, fmt.Errorf("parse date %q: %w", date, err)
		}
		t.Date = d
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) Categories(ctx context.Context) ([]model.Category, error) {
	// rowid сохраняет порядок вставки между перезапусками.
	rows, err := r.db.QueryContext(ctx, `SELECT category, type FROM categories ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.Name, &c.Kind); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) SeedCategories(ctx context.Context, categories []model.Category) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	for _, c := range categories {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO categories (category, type) VALUES (?, ?)`,
			c.Name, c.Kind); err != nil {
			return fmt.Errorf("seed category %s: %w", c.Name, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRepository) Timezone(ctx context.Context, userID int64) (string, error) {
	var zone string
	err := r.db.QueryRowContext(ctx,
		`SELECT timezone FROM user_settings WHERE user_id = ?`, userID).Scan(&zone)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query timezone: %w", err)
	}
	return zone, nil
}

func (r *SQLiteRepository) SetTimezone(ctx context.Context, userID int64, zone string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO user_settings (user_id, timezone) VALUES (?, ?)`, userID, zone)
	if err != nil {
		return fmt.Errorf("set timezone: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) InternalID(ctx context.Context, externalID int64) (int64, bool, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`SELECT simple_id FROM user_id_mapping WHERE telegram_id = ?`, externalID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("query mapping: %w", err)
	}
	return id, true, nil
}

// CreateInternalID выделяет следующий внутренний идентификатор в одной
// транзакции. Повторный вызов для уже известного внешнего id возвращает
// существующее значение.
func (r *SQLiteRepository) CreateInternalID(ctx context.Context, externalID int64) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin mapping: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx,
		`SELECT simple_id FROM user_id_mapping WHERE telegram_id = ?`, externalID).Scan(&id)
	if err == nil {
		return id, tx.Commit()
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("query mapping: %w", err)
	}

	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(simple_id), 0) + 1 FROM user_id_mapping`).Scan(&id); err != nil {
		return 0, fmt.Errorf("next simple id: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO user_id_mapping (telegram_id, simple_id) VALUES (?, ?)`, externalID, id); err != nil {
		return 0, fmt.Errorf("insert mapping: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit mapping: %w", err)
	}
	return id, nil
}

// BackfillInternalIDs переводит записи, у которых user_id всё ещё содержит
// внешний идентификатор, на внутренние. Идемпотентно: user_id, уже
// являющийся чьим-то simple_id, не трогается.
func (r *SQLiteRepository) BackfillInternalIDs(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin backfill: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT DISTINCT user_id FROM expenses UNION SELECT DISTINCT user_id FROM incomes`)
	if err != nil {
		return fmt.Errorf("collect user ids: %w", err)
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("collect user ids: %w", err)
	}

	for _, uid := range ids {
		var already bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM user_id_mapping WHERE simple_id = ?)`, uid).Scan(&already); err != nil {
			return fmt.Errorf("check simple id: %w", err)
		}
		if already {
			continue
		}

		var simple int64
		err = tx.QueryRowContext(ctx,
			`SELECT simple_id FROM user_id_mapping WHERE telegram_id = ?`, uid).Scan(&simple)
		if errors.Is(err, sql.ErrNoRows) {
			if err := tx.QueryRowContext(ctx,
				`SELECT COALESCE(MAX(simple_id), 0) + 1 FROM user_id_mapping`).Scan(&simple); err != nil {
				return fmt.Errorf("next simple id: %w", err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO user_id_mapping (telegram_id, simple_id) VALUES (?, ?)`, uid, simple); err != nil {
				return fmt.Errorf("insert mapping: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("query mapping: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE expenses SET user_id = ? WHERE user_id = ?`, simple, uid); err != nil {
			return fmt.Errorf("remap expenses: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE incomes SET user_id = ? WHERE user_id = ?`, simple, uid); err != nil {
			return fmt.Errorf("remap incomes: %w", err)
		}
	}
	return tx.Commit()
}
