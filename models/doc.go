// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain types, request/response shapes, and the
contest lifecycle for the ContestHub API.

# Lifecycle

Contests move through a fixed state machine:

	Pending → Confirmed → Completed
	        ↘ Rejected

Rejected and Completed are terminal. Status and Role are closed string
types; ParseStatus and ParseRole reject anything outside the known set so
handlers never branch on raw strings.

Guard predicates (Editable, Deletable, AcceptsRegistrations,
AcceptsSubmissions, PubliclyVisible) encode which operations each state
permits. Handlers consult these instead of comparing statuses inline.

# Winner invariant

A contest's winner fields are populated exactly when its status is
Completed. The declare-winner handler sets both in a single UPDATE guarded
on status, so the invariant holds even under concurrent declarations.
*/
package models
