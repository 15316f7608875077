package constants

import "time"

// Session / context keys
const (
	ContextKeyUserID  = "user_id"
	SessionCookieName = "cf_session"
)

// Validation limits
const (
	MinPasswordLength = 8
)

// Pagination
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Invitation and invoice lifecycle
const (
	InvitationTTL      = 7 * 24 * time.Hour
	InvoiceDueInterval = 30 * 24 * time.Hour
)
