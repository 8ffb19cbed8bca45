package shows

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"cinebook/internal/shared/constants"
)

// AtomicSeatReserver handles atomic seat reservation in Redis. A seat is
// reserved with reserve-if-absent semantics: the whole request succeeds
// only if every requested seat is free, otherwise nothing is written.
type AtomicSeatReserver struct {
	redis *redis.Client
}

// NewAtomicSeatReserver creates a new atomic seat reservation handler
func NewAtomicSeatReserver(redisClient *redis.Client) *AtomicSeatReserver {
	return &AtomicSeatReserver{
		redis: redisClient,
	}
}

// Lua script for atomic all-or-nothing seat reservation. The reservation
// keys are built in Go so the key layout has a single source of truth.
var luaReserveSeats = redis.NewScript(`
-- KEYS[1..N] = seat reservation keys
-- ARGV[1] = user_id
-- ARGV[2] = ttl_seconds

-- Check that every requested seat is free
for i = 1, #KEYS do
    if redis.call("EXISTS", KEYS[i]) == 1 then
        -- Seat is already reserved, return failure with its position
        return {0, i}
    end
end

-- All seats are free, reserve them atomically
for i = 1, #KEYS do
    redis.call("SETEX", KEYS[i], tonumber(ARGV[2]), ARGV[1])
end

return {1, 0}
`)

// Lua script for releasing a set of reservations
var luaReleaseSeats = redis.NewScript(`
-- KEYS[1..N] = seat reservation keys

local released = 0
for i = 1, #KEYS do
    released = released + redis.call("DEL", KEYS[i])
end

return released
`)

// ReserveSeats atomically reserves the given seat labels for one show.
// Returns the conflicting seat label when the reservation fails.
func (a *AtomicSeatReserver) ReserveSeats(ctx context.Context, showID string, seats []string, userID string, ttl time.Duration) (string, error) {
	if a.redis == nil {
		return "", fmt.Errorf("redis client not available")
	}

	keys := make([]string, len(seats))
	for i, seat := range seats {
		keys[i] = constants.BuildSeatReserveKey(showID, seat)
	}

	// Run uses EVALSHA and falls back to EVAL when the script is not cached
	result, err := luaReserveSeats.Run(ctx, a.redis, keys,
		userID, strconv.Itoa(int(ttl.Seconds()))).Result()
	if err != nil {
		return "", fmt.Errorf("failed to execute atomic seat reservation: %w", err)
	}

	resultArray, ok := result.([]interface{})
	if !ok || len(resultArray) != 2 {
		return "", fmt.Errorf("unexpected result format from Lua script")
	}

	success, ok := resultArray[0].(int64)
	if !ok {
		return "", fmt.Errorf("invalid success flag in Lua script result")
	}

	if success == 0 {
		idx, ok := resultArray[1].(int64)
		if !ok || idx < 1 || int(idx) > len(seats) {
			return "", ErrSeatTaken
		}
		return seats[idx-1], ErrSeatTaken
	}

	return "", nil
}

// ReleaseSeats removes the reservation keys for the given seat labels.
// Releasing a seat that was never reserved is not an error.
func (a *AtomicSeatReserver) ReleaseSeats(ctx context.Context, showID string, seats []string) (int, error) {
	if a.redis == nil {
		return 0, fmt.Errorf("redis client not available")
	}

	keys := make([]string, len(seats))
	for i, seat := range seats {
		keys[i] = constants.BuildSeatReserveKey(showID, seat)
	}

	result, err := luaReleaseSeats.Run(ctx, a.redis, keys).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to execute atomic seat release: %w", err)
	}

	releasedCount, ok := result.(int64)
	if !ok {
		return 0, fmt.Errorf("invalid released count in Lua script result")
	}

	return int(releasedCount), nil
}

// PreloadScripts loads Lua scripts into Redis for better performance
func (a *AtomicSeatReserver) PreloadScripts(ctx context.Context) error {
	if a.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	if err := luaReserveSeats.Load(ctx, a.redis).Err(); err != nil {
		return fmt.Errorf("failed to load seat reservation script: %w", err)
	}

	if err := luaReleaseSeats.Load(ctx, a.redis).Err(); err != nil {
		return fmt.Errorf("failed to load seat release script: %w", err)
	}

	return nil
}
