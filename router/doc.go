// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the ContestHub API.

# Routing

Routes use Go 1.22+ method-and-pattern syntax on the standard ServeMux:

	mux.HandleFunc("PATCH /contests/{id}/winner", ...)

Every route is wrapped in request logging. Protected routes additionally
get RequireAuth (any signed-in account) or RequireRole (exact role):

  - public: browse/detail of Confirmed contests, register, login
  - participant: checkout, payment recording, task submission, own stats
  - contestCreator: contest CRUD, inventory, submissions list, winner declaration
  - admin: user list, role updates, creator requests, contest moderation

GET /contests/{id} uses OptionalAuth: Pending/Rejected contests resolve
only for their creator and admins, everyone else sees 404.
*/
package router
