package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied at startup and must stay idempotent.
//
// Deletion behavior is encoded in the foreign keys: deleting an account
// cascades to its folders, deleting a folder orphans its emails
// (folder_id set null) but keeps them, and deleting a personalization
// never touches the underlying email or folder.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            BIGSERIAL PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS email_accounts (
    id              BIGSERIAL PRIMARY KEY,
    user_id         BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name            TEXT NOT NULL,
    kind            TEXT NOT NULL,
    server_address  TEXT NOT NULL DEFAULT '',
    username        TEXT NOT NULL DEFAULT '',
    email_address   TEXT NOT NULL DEFAULT '',
    password_sealed BYTEA,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS email_folders (
    id         BIGSERIAL PRIMARY KEY,
    account_id BIGINT NOT NULL REFERENCES email_accounts(id) ON DELETE CASCADE,
    base_name  TEXT NOT NULL,
    parent_id  BIGINT REFERENCES email_folders(id) ON DELETE CASCADE,
    UNIQUE (account_id, base_name)
);
CREATE INDEX IF NOT EXISTS idx_email_folders_account ON email_folders(account_id);
CREATE INDEX IF NOT EXISTS idx_email_folders_parent ON email_folders(parent_id);

CREATE TABLE IF NOT EXISTS email_addresses (
    id      BIGSERIAL PRIMARY KEY,
    address TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS emails (
    message_id          TEXT PRIMARY KEY,
    folder_id           BIGINT REFERENCES email_folders(id) ON DELETE SET NULL,
    from_address_id     BIGINT REFERENCES email_addresses(id) ON DELETE SET NULL,
    reply_to_address_id BIGINT REFERENCES email_addresses(id) ON DELETE SET NULL,
    in_reply_to         TEXT REFERENCES emails(message_id) ON DELETE SET NULL,
    subject             TEXT NOT NULL DEFAULT '',
    body_text           TEXT NOT NULL DEFAULT '',
    body_html           TEXT NOT NULL DEFAULT '',
    date_sent           TIMESTAMPTZ NOT NULL,
    date_received       TIMESTAMPTZ NOT NULL,
    is_read             BOOLEAN NOT NULL DEFAULT FALSE,
    priority            INT,
    raw_json            JSONB NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_emails_folder ON emails(folder_id);
CREATE INDEX IF NOT EXISTS idx_emails_in_reply_to ON emails(in_reply_to);
CREATE INDEX IF NOT EXISTS idx_emails_from_address ON emails(from_address_id);

CREATE TABLE IF NOT EXISTS email_recipients (
    message_id TEXT NOT NULL REFERENCES emails(message_id) ON DELETE CASCADE,
    address_id BIGINT NOT NULL REFERENCES email_addresses(id) ON DELETE CASCADE,
    PRIMARY KEY (message_id, address_id)
);

CREATE TABLE IF NOT EXISTS email_personalizations (
    id               BIGSERIAL PRIMARY KEY,
    message_id       TEXT NOT NULL UNIQUE REFERENCES emails(message_id) ON DELETE CASCADE,
    notes            TEXT NOT NULL DEFAULT '',
    importance_level INT
);

CREATE TABLE IF NOT EXISTS folder_personalizations (
    id            BIGSERIAL PRIMARY KEY,
    folder_id     BIGINT NOT NULL UNIQUE REFERENCES email_folders(id) ON DELETE CASCADE,
    display_name  TEXT NOT NULL DEFAULT '',
    display_color TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS user_tags (
    id      BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name    TEXT NOT NULL,
    UNIQUE (user_id, name)
);

CREATE TABLE IF NOT EXISTS email_personalization_tags (
    personalization_id BIGINT NOT NULL REFERENCES email_personalizations(id) ON DELETE CASCADE,
    tag_id             BIGINT NOT NULL REFERENCES user_tags(id) ON DELETE CASCADE,
    PRIMARY KEY (personalization_id, tag_id)
);

CREATE TABLE IF NOT EXISTS folder_personalization_tags (
    personalization_id BIGINT NOT NULL REFERENCES folder_personalizations(id) ON DELETE CASCADE,
    tag_id             BIGINT NOT NULL REFERENCES user_tags(id) ON DELETE CASCADE,
    PRIMARY KEY (personalization_id, tag_id)
);
`

// ApplySchema creates any missing tables and indexes.
func ApplySchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
