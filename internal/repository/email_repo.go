package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mailhub/internal/model"
)

type EmailRepository struct {
	db *pgxpool.Pool
}

func NewEmailRepository(db *pgxpool.Pool) *EmailRepository {
	return &EmailRepository{db: db}
}

const emailColumns = `
    e.message_id, e.subject, e.from_address_id, e.reply_to_address_id,
    e.in_reply_to, e.folder_id, e.date_sent, e.date_received,
    e.body_text, e.body_html, e.is_read, e.priority, e.raw_json
`

// ownership: an email belongs to the user whose account owns its
// folder. Folderless emails are invisible through the API.
const ownedEmailJoin = `
    JOIN email_folders f ON e.folder_id = f.id
    JOIN email_accounts a ON f.account_id = a.id
`

func scanEmail(row pgx.Row) (*model.Email, error) {
	var e model.Email
	err := row.Scan(
		&e.MessageID,
		&e.Subject,
		&e.FromAddressID,
		&e.ReplyToAddressID,
		&e.InReplyTo,
		&e.FolderID,
		&e.DateSent,
		&e.DateReceived,
		&e.BodyText,
		&e.BodyHTML,
		&e.IsRead,
		&e.Priority,
		&e.RawJSON,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// orderings accepted by ListForUser. Anything else falls back to the
// default, matching how unknown query values are ignored elsewhere.
var emailOrderings = map[string]string{
	"date_sent":      "e.date_sent ASC",
	"-date_sent":     "e.date_sent DESC",
	"date_received":  "e.date_received ASC",
	"-date_received": "e.date_received DESC",
	"subject":        "e.subject ASC",
	"-subject":       "e.subject DESC",
}

// ListForUser returns the user's emails filtered and ordered. The
// default ordering is newest received first.
// appendPaging adds LIMIT/OFFSET clauses. The two are independent: an
// offset without a limit still skips rows.
func appendPaging(query string, args []any, limit, offset int) (string, []any) {
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return query, args
}

func (r *EmailRepository) ListForUser(ctx context.Context, userID int64, filter model.EmailFilter) ([]model.Email, error) {
	query := `SELECT ` + emailColumns + ` FROM emails e ` + ownedEmailJoin + ` WHERE a.user_id = $1`
	args := []any{userID}

	if filter.FolderID != nil {
		args = append(args, *filter.FolderID)
		query += fmt.Sprintf(" AND e.folder_id = $%d", len(args))
	}
	if filter.IsRead != nil {
		args = append(args, *filter.IsRead)
		query += fmt.Sprintf(" AND e.is_read = $%d", len(args))
	}
	if filter.FromAddressID != nil {
		args = append(args, *filter.FromAddressID)
		query += fmt.Sprintf(" AND e.from_address_id = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		query += fmt.Sprintf(
			" AND (e.subject ILIKE $%d OR e.body_text ILIKE $%d OR e.body_html ILIKE $%d)", n, n, n)
	}

	orderBy, ok := emailOrderings[filter.Ordering]
	if !ok {
		orderBy = "e.date_received DESC"
	}
	query += " ORDER BY " + orderBy

	query, args = appendPaging(query, args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	emails := []model.Email{}
	for rows.Next() {
		e, err := scanEmail(rows)
		if err != nil {
			return nil, err
		}
		emails = append(emails, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachRecipients(ctx, emails); err != nil {
		return nil, err
	}
	return emails, nil
}

// FindForUser looks an email up by its protocol message id, scoped to
// the owner.
func (r *EmailRepository) FindForUser(ctx context.Context, messageID string, userID int64) (*model.Email, error) {
	query := `SELECT ` + emailColumns + ` FROM emails e ` + ownedEmailJoin + `
        WHERE e.message_id = $1 AND a.user_id = $2`
	e, err := scanEmail(r.db.QueryRow(ctx, query, messageID, userID))
	if err != nil {
		return nil, err
	}

	single := []model.Email{*e}
	if err := r.attachRecipients(ctx, single); err != nil {
		return nil, err
	}
	return &single[0], nil
}

// RepliesCount counts direct replies only. Replies to replies belong to
// their own thread views.
func (r *EmailRepository) RepliesCount(ctx context.Context, messageID string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM emails WHERE in_reply_to = $1`, messageID).Scan(&count)
	return count, err
}

// Upsert writes a synced email keyed by message id.
func (r *EmailRepository) Upsert(ctx context.Context, e *model.Email) error {
	query := `
        INSERT INTO emails (
            message_id, subject, from_address_id, reply_to_address_id,
            in_reply_to, folder_id, date_sent, date_received,
            body_text, body_html, is_read, priority, raw_json
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        ON CONFLICT (message_id) DO UPDATE SET
            subject = EXCLUDED.subject,
            from_address_id = EXCLUDED.from_address_id,
            reply_to_address_id = EXCLUDED.reply_to_address_id,
            in_reply_to = EXCLUDED.in_reply_to,
            folder_id = EXCLUDED.folder_id,
            date_sent = EXCLUDED.date_sent,
            date_received = EXCLUDED.date_received,
            body_text = EXCLUDED.body_text,
            body_html = EXCLUDED.body_html,
            is_read = EXCLUDED.is_read,
            priority = EXCLUDED.priority,
            raw_json = EXCLUDED.raw_json
    `
	raw := e.RawJSON
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	_, err := r.db.Exec(ctx, query,
		e.MessageID, e.Subject, e.FromAddressID, e.ReplyToAddressID,
		e.InReplyTo, e.FolderID, e.DateSent, e.DateReceived,
		e.BodyText, e.BodyHTML, e.IsRead, e.Priority, raw,
	)
	return err
}

// SetRecipients replaces the email's recipient set. The join table's
// primary key keeps the set free of duplicates.
func (r *EmailRepository) SetRecipients(ctx context.Context, messageID string, addressIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM email_recipients WHERE message_id = $1`, messageID); err != nil {
		return err
	}
	for _, addrID := range addressIDs {
		if _, err := tx.Exec(ctx, `
            INSERT INTO email_recipients (message_id, address_id)
            VALUES ($1, $2)
            ON CONFLICT DO NOTHING
        `, messageID, addrID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *EmailRepository) attachRecipients(ctx context.Context, emails []model.Email) error {
	if len(emails) == 0 {
		return nil
	}

	ids := make([]string, 0, len(emails))
	index := make(map[string]int, len(emails))
	for i := range emails {
		emails[i].ToAddressIDs = []int64{}
		ids = append(ids, emails[i].MessageID)
		index[emails[i].MessageID] = i
	}

	rows, err := r.db.Query(ctx, `
        SELECT message_id, address_id
        FROM email_recipients
        WHERE message_id = ANY($1)
        ORDER BY address_id
    `, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var messageID string
		var addressID int64
		if err := rows.Scan(&messageID, &addressID); err != nil {
			return err
		}
		if i, ok := index[messageID]; ok {
			emails[i].ToAddressIDs = append(emails[i].ToAddressIDs, addressID)
		}
	}
	return rows.Err()
}
