package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"cinebook/internal/bookings"
	"cinebook/internal/users"
)

// Publisher turns domain events into fully addressed notifications. It
// satisfies the event publisher interfaces the shows and bookings services
// declare, which keeps the dependency arrow pointing this way.
type Publisher struct {
	producer    NotificationProducer
	renderer    TemplateRenderer
	bookingRepo bookings.Repository
	userService users.Service
	cinemaName  string
}

func NewPublisher(producer NotificationProducer, renderer TemplateRenderer,
	bookingRepo bookings.Repository, userService users.Service, cinemaName string) *Publisher {
	return &Publisher{
		producer:    producer,
		renderer:    renderer,
		bookingRepo: bookingRepo,
		userService: userService,
		cinemaName:  cinemaName,
	}
}

// PublishBookingConfirmed loads the paid booking with its show and movie,
// resolves the recipient and queues the confirmation email.
func (p *Publisher) PublishBookingConfirmed(ctx context.Context, bookingID string) error {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return fmt.Errorf("invalid booking id %q: %w", bookingID, err)
	}

	booking, err := p.bookingRepo.GetByIDWithShow(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load booking %s: %w", bookingID, err)
	}

	user, err := p.userService.GetByID(ctx, booking.UserID)
	if err != nil {
		return fmt.Errorf("failed to load booking recipient %s: %w", booking.UserID, err)
	}

	data := BookingConfirmedData{
		UserName:     user.Name,
		MovieTitle:   booking.Show.Movie.Title,
		ShowDateTime: booking.Show.ShowDateTime,
		Seats:        booking.BookedSeats,
		Venue:        p.cinemaName,
		BookingRef:   booking.BookingRef,
		Amount:       booking.Amount,
	}

	notification := NewNotificationBuilder().
		WithType(NotificationTypeBookingConfirmed).
		WithRecipient(user.ID, user.Email, user.Name).
		WithSubject(p.renderer.Subject(NotificationTypeBookingConfirmed, data.MovieTitle)).
		WithPayload(data).
		WithBookingContext(booking.ID).
		WithShowContext(booking.ShowID).
		Build()

	return p.producer.PublishNotification(ctx, notification)
}

// PublishShowAdded broadcasts the new-show announcement to every user in
// the directory, one email per user.
func (p *Publisher) PublishShowAdded(ctx context.Context, movieID, movieTitle string) error {
	recipients, err := p.userService.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load broadcast recipients: %w", err)
	}

	if len(recipients) == 0 {
		return nil
	}

	subject := p.renderer.Subject(NotificationTypeNewShowAdded, movieTitle)
	notifications := make([]*EmailNotification, 0, len(recipients))
	for _, user := range recipients {
		data := NewShowAddedData{
			UserName:   user.Name,
			MovieTitle: movieTitle,
		}

		notifications = append(notifications, NewNotificationBuilder().
			WithType(NotificationTypeNewShowAdded).
			WithRecipient(user.ID, user.Email, user.Name).
			WithSubject(subject).
			WithPayload(data).
			Build())
	}

	return p.producer.PublishBatchNotifications(ctx, notifications)
}
