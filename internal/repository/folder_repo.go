package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mailhub/internal/model"
	"mailhub/pkg/metrics"
)

type FolderRepository struct {
	db *pgxpool.Pool
}

func NewFolderRepository(db *pgxpool.Pool) *FolderRepository {
	return &FolderRepository{db: db}
}

// FolderFilter narrows folder listings. ParentNull selects top-level
// folders; it wins over ParentID.
type FolderFilter struct {
	AccountID  *int64
	ParentID   *int64
	ParentNull bool
	Search     string
}

// ListForUser returns folders across all of userID's accounts, filtered.
func (r *FolderRepository) ListForUser(ctx context.Context, userID int64, filter FolderFilter) ([]model.Folder, error) {
	query := `
        SELECT f.id, f.account_id, f.base_name, f.parent_id
        FROM email_folders f
        JOIN email_accounts a ON f.account_id = a.id
        WHERE a.user_id = $1
    `
	args := []any{userID}

	if filter.AccountID != nil {
		args = append(args, *filter.AccountID)
		query += fmt.Sprintf(" AND f.account_id = $%d", len(args))
	}
	if filter.ParentNull {
		query += " AND f.parent_id IS NULL"
	} else if filter.ParentID != nil {
		args = append(args, *filter.ParentID)
		query += fmt.Sprintf(" AND f.parent_id = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND f.base_name ILIKE $%d", len(args))
	}
	query += " ORDER BY f.base_name"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFolders(rows)
}

// ListByAccount returns the flat folder snapshot for one account, the
// input shape the tree engine works on.
func (r *FolderRepository) ListByAccount(ctx context.Context, accountID int64) ([]model.Folder, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, account_id, base_name, parent_id
        FROM email_folders
        WHERE account_id = $1
        ORDER BY base_name
    `, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFolders(rows)
}

func collectFolders(rows pgx.Rows) ([]model.Folder, error) {
	folders := []model.Folder{}
	for rows.Next() {
		var f model.Folder
		if err := rows.Scan(&f.ID, &f.AccountID, &f.BaseName, &f.ParentID); err != nil {
			return nil, err
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

// FindForUser returns the folder only if userID owns its account.
func (r *FolderRepository) FindForUser(ctx context.Context, id, userID int64) (*model.Folder, error) {
	query := `
        SELECT f.id, f.account_id, f.base_name, f.parent_id
        FROM email_folders f
        JOIN email_accounts a ON f.account_id = a.id
        WHERE f.id = $1 AND a.user_id = $2
    `
	var f model.Folder
	err := r.db.QueryRow(ctx, query, id, userID).Scan(&f.ID, &f.AccountID, &f.BaseName, &f.ParentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Stats counts the folder's own emails, unread emails, and direct
// subfolders. Nothing recurses: emails in subfolders are not included.
func (r *FolderRepository) Stats(ctx context.Context, folderID int64) (*model.FolderStats, error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQueryDuration("stats", "email_folders", time.Since(start))
	}()

	query := `
        SELECT
            (SELECT COUNT(*) FROM emails WHERE folder_id = $1),
            (SELECT COUNT(*) FROM emails WHERE folder_id = $1 AND is_read = FALSE),
            (SELECT COUNT(*) FROM email_folders WHERE parent_id = $1)
    `
	var s model.FolderStats
	if err := r.db.QueryRow(ctx, query, folderID).Scan(&s.EmailCount, &s.UnreadCount, &s.SubfolderCount); err != nil {
		return nil, err
	}
	return &s, nil
}

// Upsert creates or refreshes a synced folder keyed by (account,
// base_name) and clears the parent link. Parents are re-established by
// SetParent once every folder of the sync run exists.
func (r *FolderRepository) Upsert(ctx context.Context, accountID int64, baseName string) (*model.Folder, error) {
	query := `
        INSERT INTO email_folders (account_id, base_name, parent_id)
        VALUES ($1, $2, NULL)
        ON CONFLICT (account_id, base_name)
        DO UPDATE SET parent_id = NULL
        RETURNING id, account_id, base_name, parent_id
    `
	var f model.Folder
	err := r.db.QueryRow(ctx, query, accountID, baseName).Scan(&f.ID, &f.AccountID, &f.BaseName, &f.ParentID)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// SetParent links a folder under a parent of the same account.
func (r *FolderRepository) SetParent(ctx context.Context, folderID, parentID int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE email_folders SET parent_id = $2 WHERE id = $1`, folderID, parentID)
	return err
}
