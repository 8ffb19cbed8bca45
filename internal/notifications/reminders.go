package notifications

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"cinebook/internal/shared/config"
	"cinebook/internal/shows"
	"cinebook/internal/users"
	"cinebook/pkg/logger"
)

// ReminderScheduler periodically emails everyone holding seats for a show
// that starts one reminder interval from now. The lookback window makes the
// sweep tolerant of ticker drift without double-sending: a show is picked
// up by exactly one sweep as long as drift stays under the window.
type ReminderScheduler struct {
	showService shows.Service
	userService users.Service
	producer    NotificationProducer
	renderer    TemplateRenderer
	interval    time.Duration
	window      time.Duration
	logger      *logger.Logger

	done chan struct{}
	once sync.Once
}

func NewReminderScheduler(showService shows.Service, userService users.Service,
	producer NotificationProducer, renderer TemplateRenderer, cfg config.KafkaConfig) *ReminderScheduler {
	return &ReminderScheduler{
		showService: showService,
		userService: userService,
		producer:    producer,
		renderer:    renderer,
		interval:    cfg.ReminderInterval,
		window:      cfg.ReminderWindow,
		logger:      logger.GetDefault(),
		done:        make(chan struct{}),
	}
}

func (rs *ReminderScheduler) Start(ctx context.Context) {
	go rs.run(ctx)
	rs.logger.InfoContext(ctx, "Reminder scheduler started",
		"interval", rs.interval.String(),
		"window", rs.window.String(),
	)
}

func (rs *ReminderScheduler) Stop() {
	rs.once.Do(func() {
		close(rs.done)
	})
}

func (rs *ReminderScheduler) run(ctx context.Context) {
	ticker := time.NewTicker(rs.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sent, failed := rs.SweepOnce(ctx, time.Now())
			if sent > 0 || failed > 0 {
				rs.logger.InfoContext(ctx, "Reminder sweep completed", "sent", sent, "failed", failed)
			}
		case <-rs.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// SweepOnce queues reminders for every show starting inside
// [now+interval-window, now+interval], both bounds inclusive, and returns
// how many were queued and how many failed.
func (rs *ReminderScheduler) SweepOnce(ctx context.Context, now time.Time) (sent int64, failed int64) {
	to := now.Add(rs.interval)
	from := to.Add(-rs.window)

	upcoming, err := rs.showService.GetByTimeWindow(ctx, from, to)
	if err != nil {
		rs.logger.ErrorContext(ctx, "Reminder sweep failed to load shows", "error", err)
		return 0, 0
	}

	var wg sync.WaitGroup
	for i := range upcoming {
		show := &upcoming[i]
		if !show.StartsWithin(from, to) {
			continue
		}
		seatsByUser := groupSeatsByHolder(show.OccupiedSeats)
		if len(seatsByUser) == 0 {
			continue
		}

		holders, err := rs.userService.GetByIDs(ctx, holderIDs(seatsByUser))
		if err != nil {
			rs.logger.ErrorContext(ctx, "Reminder sweep failed to resolve recipients",
				"show_id", show.ID.String(), "error", err)
			atomic.AddInt64(&failed, int64(len(seatsByUser)))
			continue
		}

		for j := range holders {
			user := holders[j]
			wg.Add(1)
			go func() {
				defer wg.Done()

				data := ShowReminderData{
					UserName:     user.Name,
					MovieTitle:   show.Movie.Title,
					ShowDateTime: show.ShowDateTime,
					Seats:        seatsByUser[user.ID],
				}

				notification := NewNotificationBuilder().
					WithType(NotificationTypeShowReminder).
					WithRecipient(user.ID, user.Email, user.Name).
					WithSubject(rs.renderer.Subject(NotificationTypeShowReminder, data.MovieTitle)).
					WithPayload(data).
					WithShowContext(show.ID).
					WithExpiration(&show.ShowDateTime).
					Build()

				if err := rs.producer.PublishNotification(ctx, notification); err != nil {
					rs.logger.ErrorContext(ctx, "Failed to queue reminder",
						"show_id", show.ID.String(), "user_id", user.ID, "error", err)
					atomic.AddInt64(&failed, 1)
					return
				}
				atomic.AddInt64(&sent, 1)
			}()
		}
	}
	wg.Wait()

	return atomic.LoadInt64(&sent), atomic.LoadInt64(&failed)
}

// groupSeatsByHolder inverts a seat-label to user-id mapping, sorting each
// holder's labels for stable email content.
func groupSeatsByHolder(occupied shows.SeatMap) map[string][]string {
	byUser := make(map[string][]string)
	for label, userID := range occupied {
		byUser[userID] = append(byUser[userID], label)
	}
	for _, labels := range byUser {
		sort.Strings(labels)
	}
	return byUser
}

func holderIDs(seatsByUser map[string][]string) []string {
	ids := make([]string, 0, len(seatsByUser))
	for id := range seatsByUser {
		ids = append(ids, id)
	}
	return ids
}
