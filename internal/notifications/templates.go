package notifications

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"time"
)

// Typed template payloads, one per notification type. Producers marshal
// these into EmailNotification.Payload and the renderer decodes them back,
// so templates never dig through untyped maps.

type BookingConfirmedData struct {
	UserName     string    `json:"user_name"`
	MovieTitle   string    `json:"movie_title"`
	ShowDateTime time.Time `json:"show_date_time"`
	Seats        []string  `json:"seats"`
	Venue        string    `json:"venue"`
	BookingRef   string    `json:"booking_ref"`
	Amount       float64   `json:"amount"`
}

type ShowReminderData struct {
	UserName     string    `json:"user_name"`
	MovieTitle   string    `json:"movie_title"`
	ShowDateTime time.Time `json:"show_date_time"`
	Seats        []string  `json:"seats"`
}

type NewShowAddedData struct {
	UserName   string `json:"user_name"`
	MovieTitle string `json:"movie_title"`
}

// TemplateRenderer turns a notification into the HTML and plain-text bodies
// for its email. Rendering is separated from delivery so the SMTP layer
// never needs to know about notification types.
type TemplateRenderer interface {
	Render(notification *EmailNotification) (htmlBody, textBody string, err error)
	Subject(notType NotificationType, movieTitle string) string
}

type htmlTemplateRenderer struct {
	fromName  string
	templates map[NotificationType]*template.Template
}

func NewTemplateRenderer(fromName string) TemplateRenderer {
	r := &htmlTemplateRenderer{
		fromName:  fromName,
		templates: make(map[NotificationType]*template.Template),
	}
	r.templates[NotificationTypeBookingConfirmed] = template.Must(
		template.New(string(NotificationTypeBookingConfirmed)).Parse(bookingConfirmedHTML))
	r.templates[NotificationTypeShowReminder] = template.Must(
		template.New(string(NotificationTypeShowReminder)).Parse(showReminderHTML))
	r.templates[NotificationTypeNewShowAdded] = template.Must(
		template.New(string(NotificationTypeNewShowAdded)).Parse(newShowAddedHTML))
	return r
}

func (r *htmlTemplateRenderer) Render(notification *EmailNotification) (string, string, error) {
	if len(notification.Payload) == 0 {
		return "", "", fmt.Errorf("notification %s has no payload", notification.ID)
	}

	tmpl, exists := r.templates[notification.Type]
	if !exists {
		return "", "", fmt.Errorf("no template for notification type %s", notification.Type)
	}

	switch notification.Type {
	case NotificationTypeBookingConfirmed:
		var data BookingConfirmedData
		if err := json.Unmarshal(notification.Payload, &data); err != nil {
			return "", "", fmt.Errorf("failed to decode booking confirmation payload: %w", err)
		}
		htmlBody, err := r.execute(tmpl, templateContext{FromName: r.fromName, Booking: &data})
		if err != nil {
			return "", "", err
		}
		textBody := fmt.Sprintf(
			"Hi %s,\n\nYour booking for %s is confirmed!\nShowtime: %s\nSeats: %s\nVenue: %s\nBooking Ref: %s\nTotal Amount: $%.2f\n\nBest regards,\n%s Team",
			data.UserName, data.MovieTitle, formatShowTime(data.ShowDateTime),
			joinSeats(data.Seats), data.Venue, data.BookingRef, data.Amount, r.fromName,
		)
		return htmlBody, textBody, nil

	case NotificationTypeShowReminder:
		var data ShowReminderData
		if err := json.Unmarshal(notification.Payload, &data); err != nil {
			return "", "", fmt.Errorf("failed to decode reminder payload: %w", err)
		}
		htmlBody, err := r.execute(tmpl, templateContext{FromName: r.fromName, Reminder: &data})
		if err != nil {
			return "", "", err
		}
		textBody := fmt.Sprintf(
			"Hi %s,\n\nThis is a reminder: %s starts at %s.\nYour seats: %s\n\nBest regards,\n%s Team",
			data.UserName, data.MovieTitle, formatShowTime(data.ShowDateTime),
			joinSeats(data.Seats), r.fromName,
		)
		return htmlBody, textBody, nil

	case NotificationTypeNewShowAdded:
		var data NewShowAddedData
		if err := json.Unmarshal(notification.Payload, &data); err != nil {
			return "", "", fmt.Errorf("failed to decode new-show payload: %w", err)
		}
		htmlBody, err := r.execute(tmpl, templateContext{FromName: r.fromName, NewShow: &data})
		if err != nil {
			return "", "", err
		}
		textBody := fmt.Sprintf(
			"Hi %s,\n\n%s has just been added to our catalog. Book your seats before they fill up!\n\nBest regards,\n%s Team",
			data.UserName, data.MovieTitle, r.fromName,
		)
		return htmlBody, textBody, nil

	default:
		return "", "", fmt.Errorf("unsupported notification type %s", notification.Type)
	}
}

func (r *htmlTemplateRenderer) Subject(notType NotificationType, movieTitle string) string {
	switch notType {
	case NotificationTypeBookingConfirmed:
		if movieTitle != "" {
			return fmt.Sprintf("Booking Confirmed for %s", movieTitle)
		}
		return "Your booking is confirmed!"
	case NotificationTypeShowReminder:
		if movieTitle != "" {
			return fmt.Sprintf("Reminder: %s starts soon", movieTitle)
		}
		return "Your show starts soon"
	case NotificationTypeNewShowAdded:
		if movieTitle != "" {
			return fmt.Sprintf("Now Showing: %s", movieTitle)
		}
		return "A new show has been added"
	default:
		return fmt.Sprintf("Notification from %s", r.fromName)
	}
}

type templateContext struct {
	FromName string
	Booking  *BookingConfirmedData
	Reminder *ShowReminderData
	NewShow  *NewShowAddedData
}

func (c templateContext) FormatTime(t time.Time) string {
	return formatShowTime(t)
}

func (r *htmlTemplateRenderer) execute(tmpl *template.Template, ctx templateContext) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

func formatShowTime(t time.Time) string {
	return t.Format("Mon, Jan 2 2006 at 3:04 PM")
}

func joinSeats(seats []string) string {
	out := ""
	for i, s := range seats {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}

const bookingConfirmedHTML = `
<h2>Booking Confirmed</h2>
<p>Hi {{.Booking.UserName}},</p>
<p>Your booking for <strong>{{.Booking.MovieTitle}}</strong> is confirmed!</p>
<p>Showtime: <strong>{{.FormatTime .Booking.ShowDateTime}}</strong></p>
<p>Seats: <strong>{{range $i, $s := .Booking.Seats}}{{if $i}}, {{end}}{{$s}}{{end}}</strong></p>
<p>Venue: <strong>{{.Booking.Venue}}</strong></p>
<p>Booking Ref: <strong>{{.Booking.BookingRef}}</strong></p>
<p>Total Amount: <strong>${{printf "%.2f" .Booking.Amount}}</strong></p>
<p>Best regards,<br>{{.FromName}} Team</p>
`

const showReminderHTML = `
<h2>Your show starts soon</h2>
<p>Hi {{.Reminder.UserName}},</p>
<p>This is a reminder that <strong>{{.Reminder.MovieTitle}}</strong> starts at <strong>{{.FormatTime .Reminder.ShowDateTime}}</strong>.</p>
<p>Your seats: <strong>{{range $i, $s := .Reminder.Seats}}{{if $i}}, {{end}}{{$s}}{{end}}</strong></p>
<p>See you there!</p>
<p>Best regards,<br>{{.FromName}} Team</p>
`

const newShowAddedHTML = `
<h2>New show added</h2>
<p>Hi {{.NewShow.UserName}},</p>
<p><strong>{{.NewShow.MovieTitle}}</strong> has just been added to our catalog.</p>
<p>Book your seats before they fill up!</p>
<p>Best regards,<br>{{.FromName}} Team</p>
`
