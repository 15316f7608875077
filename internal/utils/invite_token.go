package utils

import "github.com/google/uuid"

// GenerateInvitationToken returns an opaque token for invitation links.
func GenerateInvitationToken() string {
	return uuid.NewString()
}
