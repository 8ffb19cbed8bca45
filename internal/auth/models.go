package auth

import "strings"

// Clerk webhook event types handled by the identity sync endpoint.
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// ClerkEvent is the envelope Clerk posts to the webhook endpoint.
type ClerkEvent struct {
	Type string        `json:"type"`
	Data ClerkUserData `json:"data"`
}

// ClerkUserData carries the user fields of an identity event. Deletion
// events only populate ID.
type ClerkUserData struct {
	ID             string              `json:"id"`
	FirstName      string              `json:"first_name"`
	LastName       string              `json:"last_name"`
	ImageURL       string              `json:"image_url"`
	EmailAddresses []ClerkEmailAddress `json:"email_addresses"`
}

type ClerkEmailAddress struct {
	EmailAddress string `json:"email_address"`
}

// FullName joins the name parts, tolerating either being empty.
func (d ClerkUserData) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(d.FirstName) + " " + strings.TrimSpace(d.LastName))
}

// PrimaryEmail returns the first email address, matching how the upstream
// directory orders them.
func (d ClerkUserData) PrimaryEmail() string {
	if len(d.EmailAddresses) == 0 {
		return ""
	}
	return d.EmailAddresses[0].EmailAddress
}
