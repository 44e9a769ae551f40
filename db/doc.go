// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation for ContestHub.

# Schema

The schema consists of six tables:

  - account: user identity keyed by email, with role
  - contest: contest records with lifecycle status and denormalized
    creator/winner snapshots
  - registration: paid contest entries (insert-only)
  - submission: one task per participant per contest
  - creator_request: pending role-upgrade asks
  - checkout_session: payment sessions (pending → paid)

# Usage

Call CreateSchema once at startup:

	if err := db.CreateSchema(dbConn); err != nil {
	    log.Fatal(err)
	}

All statements use IF NOT EXISTS, so repeated calls are safe.

# Lifecycle constraints

Contest status is constrained at the database level to
Pending/Confirmed/Rejected/Completed; the transition rules between those
states live in the models package and are enforced by the handlers.
The UNIQUE (contest_id, participant_email) constraint on submission backs
the one-submission-per-participant rule even under concurrent requests.
*/
package db
