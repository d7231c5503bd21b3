package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mailhub/internal/model"
	"mailhub/pkg/metrics"
)

type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `
    id, user_id, name, kind, server_address, username, email_address,
    password_sealed, created_at
`

func scanAccount(row pgx.Row) (*model.EmailAccount, error) {
	var a model.EmailAccount
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.Name,
		&a.Kind,
		&a.ServerAddress,
		&a.Username,
		&a.EmailAddress,
		&a.PasswordSealed,
		&a.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts an account and fills in the generated id.
func (r *AccountRepository) Create(ctx context.Context, a *model.EmailAccount) error {
	query := `
        INSERT INTO email_accounts
            (user_id, name, kind, server_address, username, email_address, password_sealed, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
        RETURNING id, created_at
    `
	return r.db.QueryRow(ctx, query,
		a.UserID, a.Name, a.Kind, a.ServerAddress, a.Username, a.EmailAddress, a.PasswordSealed,
	).Scan(&a.ID, &a.CreatedAt)
}

// FindForUser returns the account only if userID owns it.
func (r *AccountRepository) FindForUser(ctx context.Context, id, userID int64) (*model.EmailAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM email_accounts WHERE id = $1 AND user_id = $2`
	return scanAccount(r.db.QueryRow(ctx, query, id, userID))
}

// FindByID returns the account regardless of owner. Used by the sync
// worker, which acts on behalf of the owner recorded in the job.
func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*model.EmailAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM email_accounts WHERE id = $1`
	return scanAccount(r.db.QueryRow(ctx, query, id))
}

// ListForUser returns every account owned by userID.
func (r *AccountRepository) ListForUser(ctx context.Context, userID int64) ([]model.EmailAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM email_accounts WHERE user_id = $1 ORDER BY id`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []model.EmailAccount{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

// Delete removes the account if userID owns it. Folders go with it via
// the cascade; emails lose their folder reference but survive.
func (r *AccountRepository) Delete(ctx context.Context, id, userID int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM email_accounts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// Stats counts folders and emails across the whole account: all folder
// depths, summed flatly.
func (r *AccountRepository) Stats(ctx context.Context, accountID int64) (*model.AccountStats, error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQueryDuration("stats", "email_accounts", time.Since(start))
	}()

	query := `
        SELECT
            (SELECT COUNT(*) FROM email_folders WHERE account_id = $1),
            (SELECT COUNT(*) FROM emails e
             JOIN email_folders f ON e.folder_id = f.id
             WHERE f.account_id = $1)
    `
	var s model.AccountStats
	if err := r.db.QueryRow(ctx, query, accountID).Scan(&s.FolderCount, &s.EmailCount); err != nil {
		return nil, err
	}
	return &s, nil
}
