package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mailhub/internal/model"
)

type AddressRepository struct {
	db *pgxpool.Pool
}

func NewAddressRepository(db *pgxpool.Pool) *AddressRepository {
	return &AddressRepository{db: db}
}

// GetOrCreate returns the address row for the string, creating it the
// first time sync encounters it.
func (r *AddressRepository) GetOrCreate(ctx context.Context, address string) (*model.EmailAddress, error) {
	query := `
        INSERT INTO email_addresses (address)
        VALUES ($1)
        ON CONFLICT (address) DO UPDATE SET address = EXCLUDED.address
        RETURNING id, address
    `
	var a model.EmailAddress
	if err := r.db.QueryRow(ctx, query, address).Scan(&a.ID, &a.Address); err != nil {
		return nil, err
	}
	return &a, nil
}

// ownedAddressFilter restricts addresses to ones appearing in the
// user's mail in any role.
const ownedAddressFilter = `
    EXISTS (
        SELECT 1 FROM emails e
        JOIN email_folders f ON e.folder_id = f.id
        JOIN email_accounts acc ON f.account_id = acc.id
        LEFT JOIN email_recipients rcpt ON rcpt.message_id = e.message_id
        WHERE acc.user_id = $1
          AND (e.from_address_id = ea.id
               OR e.reply_to_address_id = ea.id
               OR rcpt.address_id = ea.id)
    )
`

// ListForUser returns addresses appearing in the user's mail, optionally
// filtered by substring and capped for autocomplete use.
func (r *AddressRepository) ListForUser(ctx context.Context, userID int64, search string, limit int) ([]model.EmailAddress, error) {
	query := `SELECT ea.id, ea.address FROM email_addresses ea WHERE ` + ownedAddressFilter
	args := []any{userID}

	if search != "" {
		args = append(args, "%"+search+"%")
		query += fmt.Sprintf(" AND ea.address ILIKE $%d", len(args))
	}
	query += " ORDER BY ea.address"
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	addresses := []model.EmailAddress{}
	for rows.Next() {
		var a model.EmailAddress
		if err := rows.Scan(&a.ID, &a.Address); err != nil {
			return nil, err
		}
		addresses = append(addresses, a)
	}
	return addresses, rows.Err()
}

// FindForUser returns the address only if it appears in the user's mail.
func (r *AddressRepository) FindForUser(ctx context.Context, id, userID int64) (*model.EmailAddress, error) {
	query := `SELECT ea.id, ea.address FROM email_addresses ea WHERE ea.id = $2 AND ` + ownedAddressFilter
	var a model.EmailAddress
	err := r.db.QueryRow(ctx, query, userID, id).Scan(&a.ID, &a.Address)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Usage counts the three roles independently. The recipient count is per
// email: the join table's primary key already collapses duplicates.
func (r *AddressRepository) Usage(ctx context.Context, id int64) (*model.AddressUsage, error) {
	query := `
        SELECT
            (SELECT COUNT(*) FROM emails WHERE from_address_id = $1),
            (SELECT COUNT(DISTINCT message_id) FROM email_recipients WHERE address_id = $1),
            (SELECT COUNT(*) FROM emails WHERE reply_to_address_id = $1)
    `
	var u model.AddressUsage
	if err := r.db.QueryRow(ctx, query, id).Scan(&u.FromCount, &u.ToCount, &u.ReplyToCount); err != nil {
		return nil, err
	}
	return &u, nil
}
