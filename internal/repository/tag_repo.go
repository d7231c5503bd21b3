package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"mailhub/internal/model"
)

// TagRepository manages user-scoped tags. Tag names are only unique per
// user, so every lookup carries the acting user's id.
type TagRepository struct {
	db *pgxpool.Pool
}

func NewTagRepository(db *pgxpool.Pool) *TagRepository {
	return &TagRepository{db: db}
}

// GetOrCreate resolves a tag name within the user's namespace.
func (r *TagRepository) GetOrCreate(ctx context.Context, userID int64, name string) (*model.Tag, error) {
	query := `
        INSERT INTO user_tags (user_id, name)
        VALUES ($1, $2)
        ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
        RETURNING id, user_id, name
    `
	var t model.Tag
	if err := r.db.QueryRow(ctx, query, userID, name).Scan(&t.ID, &t.UserID, &t.Name); err != nil {
		return nil, err
	}
	return &t, nil
}

// tag join tables share a layout; the table name picks the target.
const (
	emailTagTable  = "email_personalization_tags"
	folderTagTable = "folder_personalization_tags"
)

// ReplaceEmailTags swaps the tag set of an email personalization.
func (r *TagRepository) ReplaceEmailTags(ctx context.Context, personalizationID int64, userID int64, names []string) error {
	return r.replace(ctx, emailTagTable, personalizationID, userID, names)
}

// ReplaceFolderTags swaps the tag set of a folder personalization.
func (r *TagRepository) ReplaceFolderTags(ctx context.Context, personalizationID int64, userID int64, names []string) error {
	return r.replace(ctx, folderTagTable, personalizationID, userID, names)
}

func (r *TagRepository) replace(ctx context.Context, table string, personalizationID, userID int64, names []string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM `+table+` WHERE personalization_id = $1`, personalizationID); err != nil {
		return err
	}

	for _, name := range names {
		var tagID int64
		err := tx.QueryRow(ctx, `
            INSERT INTO user_tags (user_id, name)
            VALUES ($1, $2)
            ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
            RETURNING id
        `, userID, name).Scan(&tagID)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `
            INSERT INTO `+table+` (personalization_id, tag_id)
            VALUES ($1, $2)
            ON CONFLICT DO NOTHING
        `, personalizationID, tagID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// EmailTags returns the tag names on an email personalization, sorted.
func (r *TagRepository) EmailTags(ctx context.Context, personalizationID int64) ([]string, error) {
	return r.names(ctx, emailTagTable, personalizationID)
}

// FolderTags returns the tag names on a folder personalization, sorted.
func (r *TagRepository) FolderTags(ctx context.Context, personalizationID int64) ([]string, error) {
	return r.names(ctx, folderTagTable, personalizationID)
}

func (r *TagRepository) names(ctx context.Context, table string, personalizationID int64) ([]string, error) {
	rows, err := r.db.Query(ctx, `
        SELECT t.name
        FROM user_tags t
        JOIN `+table+` pt ON pt.tag_id = t.id
        WHERE pt.personalization_id = $1
        ORDER BY t.name
    `, personalizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
