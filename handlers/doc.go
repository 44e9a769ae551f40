// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the ContestHub API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - UserHandler: accounts, login, roles, creator requests
  - ContestHandler: contest lifecycle (create, moderate, edit, delete)
  - SubmissionHandler: task submission for registered participants
  - WinnerHandler: submission listing and winner declaration
  - PaymentHandler: checkout sessions and payment recording
  - StatsHandler: role-scoped statistics

Handlers are created via constructor functions that accept *sql.DB and Config:

	contestHandler := handlers.NewContestHandler(db, cfg)

# Contest Lifecycle

Contests progress through the state machine in the models package:

	POST /contests                   → Create (always Pending)
	PATCH /contests/{id}/status      → UpdateStatus (admin: Confirmed/Rejected)
	PATCH /contests/{id}/winner      → DeclareWinner (creator: → Completed)

Editing and creator deletion are Pending-only; Rejected and Completed are
terminal. Every guard is enforced here even though clients also hide the
corresponding controls.

# Winner Declaration

DeclareWinner is irreversible and race-safe: the status change and winner
snapshot happen in one UPDATE guarded on status and winner_email, so when
two declarations race, the second affects zero rows and gets 409. Clients
treat that as "already completed" and re-fetch.

# Payment Flow

Participants pay to enter:

	POST /checkout-sessions → CreateCheckoutSession (pending session)
	POST /payments/success  → PaymentSuccess (marks paid + registers)

PaymentSuccess is idempotent. Submitting a task requires a recorded
registration.
*/
package handlers
