package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
)

const schema = `
CREATE TABLE IF NOT EXISTS employees (
	id             UUID PRIMARY KEY,
	badge_id       TEXT NOT NULL,
	name           TEXT NOT NULL,
	email          TEXT NOT NULL,
	employee_code  TEXT NOT NULL DEFAULT '',
	designation    TEXT NOT NULL DEFAULT '',
	department     TEXT NOT NULL DEFAULT '',
	mobile         TEXT NOT NULL DEFAULT '',
	gender         TEXT NOT NULL DEFAULT '',
	marital_status TEXT NOT NULL DEFAULT '',
	date_of_birth  DATE NOT NULL,
	joining_date   DATE NOT NULL,
	address        TEXT NOT NULL DEFAULT '',
	photo_url      TEXT NOT NULL DEFAULT '',
	sick_leave     INTEGER NOT NULL DEFAULT 12,
	personal_leave INTEGER NOT NULL DEFAULT 0,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT employees_badge_id_key UNIQUE (badge_id)
);
CREATE UNIQUE INDEX IF NOT EXISTS employees_email_key ON employees (LOWER(email));

CREATE TABLE IF NOT EXISTS attendances (
	id          UUID PRIMARY KEY,
	employee_id TEXT NOT NULL DEFAULT '',
	badge_id    TEXT NOT NULL,
	date        DATE NOT NULL,
	check_in    TIMESTAMPTZ,
	check_out   TIMESTAMPTZ,
	status      TEXT NOT NULL,
	was_late    BOOLEAN NOT NULL DEFAULT FALSE,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT attendances_badge_date_key UNIQUE (badge_id, date)
);
CREATE INDEX IF NOT EXISTS attendances_date_idx ON attendances (date);

CREATE TABLE IF NOT EXISTS leaves (
	id          UUID PRIMARY KEY,
	employee_id TEXT NOT NULL,
	leave_type  TEXT NOT NULL,
	from_date   TIMESTAMPTZ,
	to_date     TIMESTAMPTZ,
	reason      TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	decided_at  TIMESTAMPTZ,
	decided_by  TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS leaves_employee_idx ON leaves (employee_id, from_date);
CREATE INDEX IF NOT EXISTS leaves_created_idx ON leaves (created_at DESC);

CREATE TABLE IF NOT EXISTS users (
	id             UUID PRIMARY KEY,
	name           TEXT NOT NULL,
	email          TEXT NOT NULL,
	password_hash  TEXT NOT NULL,
	push_endpoint  TEXT,
	push_p256dh    TEXT,
	push_auth      TEXT,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (LOWER(email));

CREATE TABLE IF NOT EXISTS chat_groups (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL,
	admin_id   TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS chat_groups_name_key ON chat_groups (LOWER(name));

CREATE TABLE IF NOT EXISTS chat_group_members (
	group_id UUID NOT NULL REFERENCES chat_groups (id) ON DELETE CASCADE,
	user_id  TEXT NOT NULL,
	position SERIAL,
	PRIMARY KEY (group_id, user_id)
);

CREATE TABLE IF NOT EXISTS chat_messages (
	id          UUID PRIMARY KEY,
	group_id    UUID NOT NULL,
	sender_id   TEXT NOT NULL,
	sender_name TEXT NOT NULL,
	content     TEXT NOT NULL DEFAULT '',
	file        TEXT NOT NULL DEFAULT '',
	temp_id     TEXT NOT NULL DEFAULT '',
	sent_at     TIMESTAMPTZ NOT NULL,
	seen_by     TEXT[] NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS chat_messages_group_idx ON chat_messages (group_id, sent_at);
`

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db *database.DB) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
