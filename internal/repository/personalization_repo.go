package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mailhub/internal/colors"
	"mailhub/internal/model"
)

// PersonalizationRepository stores user-private metadata for emails and
// folders. The owning reference (message id / folder id) is written at
// creation and never updated: re-pointing a personalization means
// deleting it and creating a new one.
type PersonalizationRepository struct {
	db *pgxpool.Pool
}

func NewPersonalizationRepository(db *pgxpool.Pool) *PersonalizationRepository {
	return &PersonalizationRepository{db: db}
}

// email personalization ownership runs email -> folder -> account -> user.
const ownedEmailPersJoin = `
    JOIN emails e ON p.message_id = e.message_id
    JOIN email_folders f ON e.folder_id = f.id
    JOIN email_accounts a ON f.account_id = a.id
`

const ownedFolderPersJoin = `
    JOIN email_folders f ON p.folder_id = f.id
    JOIN email_accounts a ON f.account_id = a.id
`

// CreateEmail inserts an email personalization. A second one for the
// same email is a conflict, not an overwrite.
func (r *PersonalizationRepository) CreateEmail(ctx context.Context, p *model.EmailPersonalization) error {
	query := `
        INSERT INTO email_personalizations (message_id, notes, importance_level)
        VALUES ($1, $2, $3)
        ON CONFLICT (message_id) DO NOTHING
        RETURNING id
    `
	err := r.db.QueryRow(ctx, query, p.MessageID, p.Notes, p.ImportanceLevel).Scan(&p.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrDuplicate
	}
	return err
}

// FindEmailForUser returns the personalization only when the email it
// annotates belongs to the user.
func (r *PersonalizationRepository) FindEmailForUser(ctx context.Context, id, userID int64) (*model.EmailPersonalization, error) {
	query := `
        SELECT p.id, p.message_id, p.notes, p.importance_level
        FROM email_personalizations p ` + ownedEmailPersJoin + `
        WHERE p.id = $1 AND a.user_id = $2
    `
	var p model.EmailPersonalization
	err := r.db.QueryRow(ctx, query, id, userID).Scan(&p.ID, &p.MessageID, &p.Notes, &p.ImportanceLevel)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListEmailForUser lists the user's email personalizations, filtered.
func (r *PersonalizationRepository) ListEmailForUser(ctx context.Context, userID int64, filter model.PersonalizationFilter) ([]model.EmailPersonalization, error) {
	query := `
        SELECT p.id, p.message_id, p.notes, p.importance_level
        FROM email_personalizations p ` + ownedEmailPersJoin + `
        WHERE a.user_id = $1
    `
	args := []any{userID}

	if filter.MessageID != "" {
		args = append(args, filter.MessageID)
		query += fmt.Sprintf(" AND p.message_id = $%d", len(args))
	}
	if filter.HasNotes != nil {
		if *filter.HasNotes {
			query += " AND p.notes <> ''"
		} else {
			query += " AND p.notes = ''"
		}
	}
	if filter.MinImportance != nil {
		args = append(args, *filter.MinImportance)
		query += fmt.Sprintf(" AND p.importance_level >= $%d", len(args))
	}
	for _, tag := range filter.Tags {
		args = append(args, tag)
		query += fmt.Sprintf(` AND EXISTS (
            SELECT 1 FROM email_personalization_tags pt
            JOIN user_tags t ON pt.tag_id = t.id
            WHERE pt.personalization_id = p.id AND t.user_id = $1 AND t.name = $%d
        )`, len(args))
	}
	query += " ORDER BY p.id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.EmailPersonalization{}
	for rows.Next() {
		var p model.EmailPersonalization
		if err := rows.Scan(&p.ID, &p.MessageID, &p.Notes, &p.ImportanceLevel); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// UpdateEmail rewrites the mutable fields. The message id is not a
// parameter on purpose.
func (r *PersonalizationRepository) UpdateEmail(ctx context.Context, id, userID int64, notes string, importance *int) error {
	query := `
        UPDATE email_personalizations p
        SET notes = $3, importance_level = $4
        FROM emails e
        JOIN email_folders f ON e.folder_id = f.id
        JOIN email_accounts a ON f.account_id = a.id
        WHERE p.message_id = e.message_id AND p.id = $1 AND a.user_id = $2
    `
	tag, err := r.db.Exec(ctx, query, id, userID, notes, importance)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// DeleteEmail removes notes and tags; the email itself is untouched.
func (r *PersonalizationRepository) DeleteEmail(ctx context.Context, id, userID int64) error {
	query := `
        DELETE FROM email_personalizations p
        USING emails e, email_folders f, email_accounts a
        WHERE p.message_id = e.message_id
          AND e.folder_id = f.id
          AND f.account_id = a.id
          AND p.id = $1 AND a.user_id = $2
    `
	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// CreateFolder inserts a folder personalization. The display color is
// validated and normalized here so nothing unvalidated can reach the
// table regardless of which caller writes.
func (r *PersonalizationRepository) CreateFolder(ctx context.Context, p *model.FolderPersonalization) error {
	normalized, err := colors.Parse(p.DisplayColor)
	if err != nil {
		return err
	}
	p.DisplayColor = normalized

	query := `
        INSERT INTO folder_personalizations (folder_id, display_name, display_color)
        VALUES ($1, $2, $3)
        ON CONFLICT (folder_id) DO NOTHING
        RETURNING id
    `
	err = r.db.QueryRow(ctx, query, p.FolderID, p.DisplayName, p.DisplayColor).Scan(&p.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrDuplicate
	}
	return err
}

// FindFolderForUser returns the personalization only when the folder it
// annotates belongs to the user.
func (r *PersonalizationRepository) FindFolderForUser(ctx context.Context, id, userID int64) (*model.FolderPersonalization, error) {
	query := `
        SELECT p.id, p.folder_id, p.display_name, p.display_color
        FROM folder_personalizations p ` + ownedFolderPersJoin + `
        WHERE p.id = $1 AND a.user_id = $2
    `
	var p model.FolderPersonalization
	err := r.db.QueryRow(ctx, query, id, userID).Scan(&p.ID, &p.FolderID, &p.DisplayName, &p.DisplayColor)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListFolderForUser lists the user's folder personalizations, filtered.
func (r *PersonalizationRepository) ListFolderForUser(ctx context.Context, userID int64, filter model.PersonalizationFilter) ([]model.FolderPersonalization, error) {
	query := `
        SELECT p.id, p.folder_id, p.display_name, p.display_color
        FROM folder_personalizations p ` + ownedFolderPersJoin + `
        WHERE a.user_id = $1
    `
	args := []any{userID}

	if filter.FolderID != nil {
		args = append(args, *filter.FolderID)
		query += fmt.Sprintf(" AND p.folder_id = $%d", len(args))
	}
	for _, tag := range filter.Tags {
		args = append(args, tag)
		query += fmt.Sprintf(` AND EXISTS (
            SELECT 1 FROM folder_personalization_tags pt
            JOIN user_tags t ON pt.tag_id = t.id
            WHERE pt.personalization_id = p.id AND t.user_id = $1 AND t.name = $%d
        )`, len(args))
	}
	query += " ORDER BY p.id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.FolderPersonalization{}
	for rows.Next() {
		var p model.FolderPersonalization
		if err := rows.Scan(&p.ID, &p.FolderID, &p.DisplayName, &p.DisplayColor); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// UpdateFolder rewrites the mutable fields; the folder id stays fixed.
// The color passes through the same validation as creation.
func (r *PersonalizationRepository) UpdateFolder(ctx context.Context, id, userID int64, displayName, displayColor string) error {
	normalized, err := colors.Parse(displayColor)
	if err != nil {
		return err
	}

	query := `
        UPDATE folder_personalizations p
        SET display_name = $3, display_color = $4
        FROM email_folders f
        JOIN email_accounts a ON f.account_id = a.id
        WHERE p.folder_id = f.id AND p.id = $1 AND a.user_id = $2
    `
	tag, err := r.db.Exec(ctx, query, id, userID, displayName, normalized)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// DeleteFolder removes the personalization; the folder is untouched.
func (r *PersonalizationRepository) DeleteFolder(ctx context.Context, id, userID int64) error {
	query := `
        DELETE FROM folder_personalizations p
        USING email_folders f, email_accounts a
        WHERE p.folder_id = f.id
          AND f.account_id = a.id
          AND p.id = $1 AND a.user_id = $2
    `
	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
