package shows

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"cinebook/internal/movies"
	"cinebook/internal/shared/constants"
	"cinebook/pkg/cache"
	"cinebook/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrShowInPast      = errors.New("show time must be in the future")
	ErrInvalidSeat     = errors.New("invalid seat label")
	ErrShowAlreadyOver = errors.New("show has already started")
)

// seat labels are a row letter followed by a 1-2 digit seat number
var seatLabelPattern = regexp.MustCompile(`^[A-Z][1-9][0-9]?$`)

// EventPublisher emits the show.added event consumed by the notification
// pipeline. Kept as a local interface to avoid a dependency cycle.
type EventPublisher interface {
	PublishShowAdded(ctx context.Context, movieID, movieTitle string) error
}

type Service interface {
	SetCacheService(cacheService cache.Service)
	SetEventPublisher(publisher EventPublisher)

	AddShows(ctx context.Context, req AddShowRequest) ([]ShowResponse, error)
	GetAllMovies(ctx context.Context) ([]movies.Movie, error)
	GetMovie(ctx context.Context, movieID string) (*movies.Movie, error)
	GetShow(ctx context.Context, id uuid.UUID) (*ShowResponse, error)
	GetShowsByMovie(ctx context.Context, movieID string) (*MovieShowsResponse, error)
	GetSeatLayout(ctx context.Context, id uuid.UUID) (*SeatLayoutResponse, error)
	GetUpcoming(ctx context.Context) ([]ShowResponse, error)
	GetByTimeWindow(ctx context.Context, from, to time.Time) ([]Show, error)

	// Seat lifecycle, called by the booking flow
	ReserveSeats(ctx context.Context, showID uuid.UUID, seats []string, userID string, ttl time.Duration) error
	ReleaseSeats(ctx context.Context, showID uuid.UUID, seats []string, userID string) (int, error)
}

// SeatReserver is the reserve-if-absent hold primitive backing the booking
// flow. AtomicSeatReserver implements it on Redis.
type SeatReserver interface {
	ReserveSeats(ctx context.Context, showID string, seats []string, userID string, ttl time.Duration) (string, error)
	ReleaseSeats(ctx context.Context, showID string, seats []string) (int, error)
}

type service struct {
	repo      Repository
	movieRepo movies.Repository
	reserver  SeatReserver
	cache     cache.Service
	publisher EventPublisher
	logger    *logger.Logger
}

func NewService(repo Repository, movieRepo movies.Repository, reserver SeatReserver) Service {
	return &service{
		repo:      repo,
		movieRepo: movieRepo,
		reserver:  reserver,
		logger:    logger.GetDefault(),
	}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cache = cacheService
}

func (s *service) SetEventPublisher(publisher EventPublisher) {
	s.publisher = publisher
}

// AddShows catalogues the movie if it is new and schedules one show per
// requested showtime, each starting with an empty seat map.
func (s *service) AddShows(ctx context.Context, req AddShowRequest) ([]ShowResponse, error) {
	now := time.Now().UTC()
	for _, showtime := range req.Showtimes {
		if !showtime.After(now) {
			return nil, fmt.Errorf("%w: %s", ErrShowInPast, showtime.Format(time.RFC3339))
		}
	}

	movie := &movies.Movie{
		ID:               req.Movie.ID,
		Title:            req.Movie.Title,
		Overview:         req.Movie.Overview,
		PosterPath:       req.Movie.PosterPath,
		BackdropPath:     req.Movie.BackdropPath,
		ReleaseDate:      req.Movie.ReleaseDate,
		OriginalLanguage: req.Movie.OriginalLanguage,
		Tagline:          req.Movie.Tagline,
		Genres:           req.Movie.Genres,
		Casts:            req.Movie.Casts,
		VoteAverage:      req.Movie.VoteAverage,
		Runtime:          req.Movie.Runtime,
	}
	if err := s.movieRepo.Upsert(ctx, movie); err != nil {
		return nil, fmt.Errorf("failed to catalogue movie: %w", err)
	}

	batch := make([]Show, 0, len(req.Showtimes))
	for _, showtime := range req.Showtimes {
		batch = append(batch, Show{
			ID:            uuid.New(),
			MovieID:       movie.ID,
			ShowDateTime:  showtime.UTC(),
			ShowPrice:     req.ShowPrice,
			OccupiedSeats: SeatMap{},
		})
	}
	if err := s.repo.CreateBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to create shows: %w", err)
	}

	s.invalidateShowCache(ctx, movie.ID)

	if s.publisher != nil {
		if err := s.publisher.PublishShowAdded(ctx, movie.ID, movie.Title); err != nil {
			// the shows exist; notification delivery failure is not fatal
			s.logger.ErrorWithContext(ctx, "failed to publish show added event", err, map[string]interface{}{
				"movie_id": movie.ID,
			})
		}
	}

	responses := make([]ShowResponse, 0, len(batch))
	for i := range batch {
		s.logger.LogShowCreated(ctx, batch[i].ID.String(), movie.ID)
		responses = append(responses, batch[i].ToResponse(false))
	}
	return responses, nil
}

// GetAllMovies lists every catalogued movie, newest first.
func (s *service) GetAllMovies(ctx context.Context) ([]movies.Movie, error) {
	if s.cache != nil {
		var cached []movies.Movie
		err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_MOVIES_LIST, constants.TTL_MOVIES_LIST, func() (interface{}, error) {
			return s.movieRepo.GetAll(ctx)
		}, &cached)
		if err != nil {
			return nil, err
		}
		return cached, nil
	}
	return s.movieRepo.GetAll(ctx)
}

func (s *service) GetMovie(ctx context.Context, movieID string) (*movies.Movie, error) {
	if s.cache != nil {
		var cached movies.Movie
		key := constants.BuildMovieDetailKey(movieID)
		err := s.cache.GetOrSet(ctx, key, constants.TTL_MOVIE_DETAIL, func() (interface{}, error) {
			return s.movieRepo.GetByID(ctx, movieID)
		}, &cached)
		if err != nil {
			return nil, err
		}
		return &cached, nil
	}
	return s.movieRepo.GetByID(ctx, movieID)
}

func (s *service) GetShow(ctx context.Context, id uuid.UUID) (*ShowResponse, error) {
	show, err := s.repo.GetByIDWithMovie(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := show.ToResponse(true)
	return &resp, nil
}

// GetShowsByMovie lists the upcoming shows of one movie. Cached; adding
// shows for the movie invalidates the entry.
func (s *service) GetShowsByMovie(ctx context.Context, movieID string) (*MovieShowsResponse, error) {
	if s.cache != nil {
		var cached MovieShowsResponse
		key := constants.BuildMovieShowsKey(movieID)
		err := s.cache.GetOrSet(ctx, key, constants.TTL_MOVIE_SHOWS, func() (interface{}, error) {
			return s.loadShowsByMovie(ctx, movieID)
		}, &cached)
		if err != nil {
			return nil, err
		}
		return &cached, nil
	}
	return s.loadShowsByMovie(ctx, movieID)
}

func (s *service) loadShowsByMovie(ctx context.Context, movieID string) (*MovieShowsResponse, error) {
	movie, err := s.movieRepo.GetByID(ctx, movieID)
	if err != nil {
		return nil, err
	}

	shows, err := s.repo.GetUpcomingByMovie(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shows: %w", err)
	}

	resp := &MovieShowsResponse{
		Movie: *movie,
		Shows: make([]ShowResponse, 0, len(shows)),
	}
	for i := range shows {
		resp.Shows = append(resp.Shows, shows[i].ToResponse(false))
	}
	return resp, nil
}

// GetSeatLayout returns the taken seat labels for one show. Cached with a
// short TTL; every seat assignment and release invalidates the entry.
func (s *service) GetSeatLayout(ctx context.Context, id uuid.UUID) (*SeatLayoutResponse, error) {
	if s.cache != nil {
		var cached SeatLayoutResponse
		key := constants.BuildShowSeatsKey(id.String())
		err := s.cache.GetOrSet(ctx, key, constants.TTL_SHOW_SEATS, func() (interface{}, error) {
			return s.loadSeatLayout(ctx, id)
		}, &cached)
		if err != nil {
			return nil, err
		}
		return &cached, nil
	}
	return s.loadSeatLayout(ctx, id)
}

func (s *service) loadSeatLayout(ctx context.Context, id uuid.UUID) (*SeatLayoutResponse, error) {
	show, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := show.ToResponse(false)
	return &SeatLayoutResponse{
		ShowID:        resp.ID,
		ShowDateTime:  resp.ShowDateTime,
		ShowPrice:     resp.ShowPrice,
		OccupiedSeats: resp.OccupiedSeats,
	}, nil
}

func (s *service) GetUpcoming(ctx context.Context) ([]ShowResponse, error) {
	shows, err := s.repo.GetUpcoming(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]ShowResponse, 0, len(shows))
	for i := range shows {
		responses = append(responses, shows[i].ToResponse(true))
	}
	return responses, nil
}

func (s *service) GetByTimeWindow(ctx context.Context, from, to time.Time) ([]Show, error) {
	return s.repo.GetByTimeWindow(ctx, from, to)
}

// ReserveSeats is the write path for seat assignment. Redis arbitrates
// concurrent requests for the same labels first; the winner is then
// persisted into the show row. A database failure rolls the Redis
// reservation back so the seats do not stay blocked for the hold TTL.
func (s *service) ReserveSeats(ctx context.Context, showID uuid.UUID, seats []string, userID string, ttl time.Duration) error {
	if len(seats) == 0 {
		return fmt.Errorf("%w: no seats requested", ErrInvalidSeat)
	}

	seen := make(map[string]struct{}, len(seats))
	for _, seat := range seats {
		if !seatLabelPattern.MatchString(seat) {
			return fmt.Errorf("%w: %s", ErrInvalidSeat, seat)
		}
		if _, dup := seen[seat]; dup {
			return fmt.Errorf("%w: duplicate seat %s", ErrInvalidSeat, seat)
		}
		seen[seat] = struct{}{}
	}

	show, err := s.repo.GetByID(ctx, showID)
	if err != nil {
		return err
	}
	if !show.ShowDateTime.After(time.Now().UTC()) {
		return ErrShowAlreadyOver
	}
	for _, seat := range seats {
		if _, taken := show.OccupiedSeats[seat]; taken {
			return fmt.Errorf("%w: %s", ErrSeatTaken, seat)
		}
	}

	if conflictSeat, err := s.reserver.ReserveSeats(ctx, showID.String(), seats, userID, ttl); err != nil {
		if errors.Is(err, ErrSeatTaken) && conflictSeat != "" {
			return fmt.Errorf("%w: %s", ErrSeatTaken, conflictSeat)
		}
		return err
	}

	if err := s.repo.AssignSeats(ctx, showID, seats, userID); err != nil {
		if _, releaseErr := s.reserver.ReleaseSeats(ctx, showID.String(), seats); releaseErr != nil {
			s.logger.ErrorWithContext(ctx, "failed to roll back seat reservation", releaseErr, map[string]interface{}{
				"show_id": showID.String(),
			})
		}
		return err
	}

	s.invalidateSeatCache(ctx, showID)
	return nil
}

// ReleaseSeats frees the seats both in the show row and in Redis.
func (s *service) ReleaseSeats(ctx context.Context, showID uuid.UUID, seats []string, userID string) (int, error) {
	released, err := s.repo.ReleaseSeats(ctx, showID, seats, userID)
	if err != nil {
		return 0, err
	}

	if _, err := s.reserver.ReleaseSeats(ctx, showID.String(), seats); err != nil {
		// reservation keys expire on their own; log and continue
		s.logger.ErrorWithContext(ctx, "failed to clear seat reservation keys", err, map[string]interface{}{
			"show_id": showID.String(),
		})
	}

	s.invalidateSeatCache(ctx, showID)
	return released, nil
}

func (s *service) invalidateShowCache(ctx context.Context, movieID string) {
	if s.cache == nil {
		return
	}
	keys := []string{
		constants.CACHE_KEY_MOVIES_LIST,
		constants.BuildMovieShowsKey(movieID),
	}
	for _, key := range keys {
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.WarnContext(ctx, "failed to invalidate show cache", "key", key, "error", err)
		}
	}
}

func (s *service) invalidateSeatCache(ctx context.Context, showID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, constants.BuildShowSeatsKey(showID.String())); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate seat cache", "show_id", showID.String(), "error", err)
	}
}
