package notifications

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRenderBookingConfirmed(t *testing.T) {
	renderer := NewTemplateRenderer("CineBook")

	notification := NewNotificationBuilder().
		WithType(NotificationTypeBookingConfirmed).
		WithRecipient("user_2abc", "ravi@example.com", "Ravi Kapoor").
		WithPayload(BookingConfirmedData{
			UserName:     "Ravi Kapoor",
			MovieTitle:   "In the Lost Lands",
			ShowDateTime: time.Date(2026, 9, 1, 19, 30, 0, 0, time.UTC),
			Seats:        []string{"A1", "A2"},
			Venue:        "CineBook Cinemas",
			BookingRef:   "CIN-20260829-4F7KQZ",
			Amount:       25.0,
		}).
		Build()

	htmlBody, textBody, err := renderer.Render(notification)

	assert.NoError(t, err)
	assert.Contains(t, htmlBody, "Ravi Kapoor")
	assert.Contains(t, htmlBody, "In the Lost Lands")
	assert.Contains(t, htmlBody, "A1, A2")
	assert.Contains(t, htmlBody, "Venue: <strong>CineBook Cinemas</strong>")
	assert.Contains(t, htmlBody, "CIN-20260829-4F7KQZ")
	assert.Contains(t, htmlBody, "$25.00")
	assert.Contains(t, textBody, "Booking Ref: CIN-20260829-4F7KQZ")
	assert.Contains(t, textBody, "Seats: A1, A2")
	assert.Contains(t, textBody, "Venue: CineBook Cinemas")
}

func TestRenderShowReminder(t *testing.T) {
	renderer := NewTemplateRenderer("CineBook")

	notification := NewNotificationBuilder().
		WithType(NotificationTypeShowReminder).
		WithRecipient("user_2def", "emma@example.com", "Emma Clarke").
		WithPayload(ShowReminderData{
			UserName:     "Emma Clarke",
			MovieTitle:   "Until Dawn",
			ShowDateTime: time.Date(2026, 9, 1, 21, 0, 0, 0, time.UTC),
			Seats:        []string{"B5"},
		}).
		Build()

	htmlBody, textBody, err := renderer.Render(notification)

	assert.NoError(t, err)
	assert.Contains(t, htmlBody, "Emma Clarke")
	assert.Contains(t, htmlBody, "Until Dawn")
	assert.Contains(t, htmlBody, "B5")
	assert.Contains(t, textBody, "Until Dawn")
}

func TestRenderNewShowAdded(t *testing.T) {
	renderer := NewTemplateRenderer("CineBook")

	notification := NewNotificationBuilder().
		WithType(NotificationTypeNewShowAdded).
		WithRecipient("user_2abc", "ravi@example.com", "Ravi Kapoor").
		WithPayload(NewShowAddedData{
			UserName:   "Ravi Kapoor",
			MovieTitle: "Lilo & Stitch",
		}).
		Build()

	htmlBody, textBody, err := renderer.Render(notification)

	assert.NoError(t, err)
	assert.Contains(t, htmlBody, "Lilo &amp; Stitch")
	assert.Contains(t, textBody, "Lilo & Stitch")
}

func TestRenderRejectsEmptyPayload(t *testing.T) {
	renderer := NewTemplateRenderer("CineBook")

	notification := NewNotificationBuilder().
		WithType(NotificationTypeBookingConfirmed).
		WithRecipient("user_2abc", "ravi@example.com", "Ravi Kapoor").
		Build()

	_, _, err := renderer.Render(notification)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no payload")
}

func TestRenderRejectsUnknownType(t *testing.T) {
	renderer := NewTemplateRenderer("CineBook")

	notification := NewNotificationBuilder().
		WithRecipient("user_2abc", "ravi@example.com", "Ravi Kapoor").
		WithPayload(map[string]string{"k": "v"}).
		Build()
	notification.Type = NotificationType("SOMETHING_ELSE")

	_, _, err := renderer.Render(notification)

	assert.Error(t, err)
}

func TestSubjectLines(t *testing.T) {
	renderer := NewTemplateRenderer("CineBook")

	assert.Equal(t, "Booking Confirmed for Until Dawn", renderer.Subject(NotificationTypeBookingConfirmed, "Until Dawn"))
	assert.Equal(t, "Your booking is confirmed!", renderer.Subject(NotificationTypeBookingConfirmed, ""))
	assert.Equal(t, "Reminder: Until Dawn starts soon", renderer.Subject(NotificationTypeShowReminder, "Until Dawn"))
	assert.Equal(t, "Now Showing: Until Dawn", renderer.Subject(NotificationTypeNewShowAdded, "Until Dawn"))
}

func TestDefaultPriorities(t *testing.T) {
	assert.Equal(t, NotificationPriorityHigh, GetDefaultPriority(NotificationTypeBookingConfirmed))
	assert.Equal(t, NotificationPriorityMedium, GetDefaultPriority(NotificationTypeShowReminder))
	assert.Equal(t, NotificationPriorityLow, GetDefaultPriority(NotificationTypeNewShowAdded))
}
