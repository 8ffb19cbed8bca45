package constants

import (
	"fmt"
	"time"
)

// Redis Cache Configuration
// This file centralizes all Redis cache keys and TTL values for the CineBook application
// Pattern: cinebook:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

// Static Data (Long TTL: rarely changes)
const (
	TTL_STATIC_LONG  = 24 * time.Hour // 24 hours - for movie metadata
	TTL_STATIC_SHORT = 6 * time.Hour  // 6 hours - for user profiles
)

// Semi-Static Data (Medium TTL: changes occasionally)
const (
	TTL_SEMI_STATIC_SHORT = 1 * time.Hour    // 1 hour - for show listings
	TTL_SEMI_STATIC_QUICK = 15 * time.Minute // 15 minutes - for upcoming shows
)

// Dynamic Data (Short TTL: changes frequently)
const (
	TTL_DYNAMIC_MEDIUM = 10 * time.Minute // 10 minutes - for dashboard metrics
	TTL_DYNAMIC_SHORT  = 5 * time.Minute  // 5 minutes - for user bookings
	TTL_DYNAMIC_QUICK  = 2 * time.Minute  // 2 minutes - for seat maps
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "cinebook"
)

// ================== MOVIES MODULE ==================

// Movie Cache Keys
const (
	CACHE_KEY_MOVIES_LIST  = CACHE_PREFIX + ":movies:list"       // all movies listing
	CACHE_KEY_MOVIE_DETAIL = CACHE_PREFIX + ":movies:detail:id:" // + movie-id
	CACHE_KEY_MOVIE_SHOWS  = CACHE_PREFIX + ":movies:shows:id:"  // + movie-id
)

// Movie Cache TTLs
const (
	TTL_MOVIES_LIST  = TTL_SEMI_STATIC_SHORT // 1 hour
	TTL_MOVIE_DETAIL = TTL_STATIC_LONG       // 24 hours
	TTL_MOVIE_SHOWS  = TTL_SEMI_STATIC_QUICK // 15 minutes
)

// ================== SHOWS MODULE ==================

// Show Cache Keys
const (
	CACHE_KEY_SHOW_SEATS = CACHE_PREFIX + ":shows:seats:id:" // + show-id
)

// Show Cache TTLs
const (
	TTL_SHOW_SEATS = TTL_DYNAMIC_QUICK // 2 minutes
)

// ================== BOOKINGS MODULE ==================

// Booking Cache Keys
const (
	CACHE_KEY_USER_BOOKINGS = CACHE_PREFIX + ":bookings:user:id:" // + user-id
)

// Booking Cache TTLs
const (
	TTL_USER_BOOKINGS = TTL_DYNAMIC_SHORT // 5 minutes
)

// ================== USERS MODULE ==================

// User Cache Keys
const (
	CACHE_KEY_USER_PROFILE = CACHE_PREFIX + ":users:profile:id:" // + clerk user-id
)

// User Cache TTLs
const (
	TTL_USER_PROFILE = TTL_STATIC_SHORT // 6 hours
)

// ================== ADMIN MODULE ==================

// Admin Cache Keys
const (
	CACHE_KEY_ADMIN_DASHBOARD = CACHE_PREFIX + ":admin:dashboard"
)

// Admin Cache TTLs
const (
	TTL_ADMIN_DASHBOARD = TTL_DYNAMIC_MEDIUM // 10 minutes
)

// ================== SEAT RESERVATION KEYS ==================

// Seat reservation keys are not cache entries; they are the source of truth
// for in-flight holds between booking creation and payment confirmation.
const (
	RESERVE_KEY_PREFIX = CACHE_PREFIX + ":reserve:show:" // + show-id + :seat: + seat-label
)

// ================== HELPER FUNCTIONS ==================

func BuildMovieDetailKey(movieID string) string {
	return CACHE_KEY_MOVIE_DETAIL + movieID
}

func BuildMovieShowsKey(movieID string) string {
	return CACHE_KEY_MOVIE_SHOWS + movieID
}

func BuildShowSeatsKey(showID string) string {
	return CACHE_KEY_SHOW_SEATS + showID
}

func BuildUserBookingsKey(userID string) string {
	return CACHE_KEY_USER_BOOKINGS + userID
}

func BuildUserProfileKey(userID string) string {
	return CACHE_KEY_USER_PROFILE + userID
}

// BuildSeatReserveKey constructs the reservation key for one seat of one show.
func BuildSeatReserveKey(showID string, seatLabel string) string {
	return fmt.Sprintf("%s%s:seat:%s", RESERVE_KEY_PREFIX, showID, seatLabel)
}
