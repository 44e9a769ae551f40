// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Accounts
CREATE TABLE IF NOT EXISTS account (
    email TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    photo_url TEXT,
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'participant' CHECK (role IN ('participant', 'contestCreator', 'admin')),
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_account_role ON account(role);

-- Contests
CREATE TABLE IF NOT EXISTS contest (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT,
    category TEXT NOT NULL,
    image_url TEXT,
    entry_fee INTEGER NOT NULL CHECK (entry_fee >= 0),
    prize_money INTEGER NOT NULL CHECK (prize_money > 0),
    capacity INTEGER NOT NULL CHECK (capacity > 0),
    deadline TIMESTAMP NOT NULL,
    status TEXT NOT NULL DEFAULT 'Pending' CHECK (status IN ('Pending', 'Confirmed', 'Rejected', 'Completed')),
    creator_email TEXT NOT NULL REFERENCES account(email),
    creator_name TEXT NOT NULL,
    creator_photo TEXT,
    winner_name TEXT,
    winner_email TEXT,
    winner_photo TEXT,
    winner_declared_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_contest_status ON contest(status);
CREATE INDEX IF NOT EXISTS idx_contest_creator ON contest(creator_email);
CREATE INDEX IF NOT EXISTS idx_contest_category ON contest(category);

-- Registrations (paid entries; rows are only ever inserted)
CREATE TABLE IF NOT EXISTS registration (
    contest_id TEXT NOT NULL REFERENCES contest(id) ON DELETE CASCADE,
    participant_email TEXT NOT NULL REFERENCES account(email),
    session_id TEXT NOT NULL,
    paid_at TIMESTAMP NOT NULL DEFAULT NOW(),
    PRIMARY KEY (contest_id, participant_email)
);

CREATE INDEX IF NOT EXISTS idx_registration_participant ON registration(participant_email);

-- Submissions
CREATE TABLE IF NOT EXISTS submission (
    id TEXT PRIMARY KEY,
    contest_id TEXT NOT NULL REFERENCES contest(id) ON DELETE CASCADE,
    participant_email TEXT NOT NULL REFERENCES account(email),
    participant_name TEXT NOT NULL,
    participant_photo TEXT,
    task TEXT NOT NULL,
    submitted_at TIMESTAMP NOT NULL DEFAULT NOW(),
    UNIQUE (contest_id, participant_email)
);

CREATE INDEX IF NOT EXISTS idx_submission_contest ON submission(contest_id);
CREATE INDEX IF NOT EXISTS idx_submission_participant ON submission(participant_email);

-- Creator upgrade requests
CREATE TABLE IF NOT EXISTS creator_request (
    email TEXT PRIMARY KEY REFERENCES account(email),
    requested_at TIMESTAMP NOT NULL DEFAULT NOW()
);

-- Checkout sessions
CREATE TABLE IF NOT EXISTS checkout_session (
    id TEXT PRIMARY KEY,
    contest_id TEXT NOT NULL REFERENCES contest(id) ON DELETE CASCADE,
    participant_email TEXT NOT NULL REFERENCES account(email),
    amount INTEGER NOT NULL CHECK (amount >= 0),
    status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'paid')),
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    paid_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_checkout_session_participant ON checkout_session(participant_email);
CREATE INDEX IF NOT EXISTS idx_checkout_session_contest ON checkout_session(contest_id);
`
