package seatlock

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the seat-inventory primitive the coordinator drives: atomic
// all-or-nothing acquisition and holder-aware release over
// (trip, seat code) pairs. Tests substitute an in-memory implementation.
type Store interface {
	AcquireSeats(ctx context.Context, tripID string, seatCodes []string, holder Holder, ttl time.Duration) error
	ReleaseSeats(ctx context.Context, tripID string, seatCodes []string, holder Holder) (int, error)
}

// RedisStore implements Store with Redis Lua scripts so multi-seat
// acquisition can never leave a partial hold behind.
type RedisStore struct {
	redis *redis.Client
}

// NewRedisStore creates a Redis-backed seat lock store.
func NewRedisStore(redisClient *redis.Client) *RedisStore {
	return &RedisStore{redis: redisClient}
}

// Lua script for atomic seat acquisition - prevents race conditions
const luaAtomicSeatAcquire = `
-- ARGV[1] = trip_id
-- ARGV[2] = session_id
-- ARGV[3] = ttl_seconds
-- ARGV[4..N] = seat_codes

local trip_id = ARGV[1]
local session_id = ARGV[2]
local ttl = tonumber(ARGV[3])

-- Check if all seats are free before touching anything
for i = 4, #ARGV do
    local seat_key = "seatlock:" .. trip_id .. ":" .. ARGV[i]

    if redis.call("EXISTS", seat_key) == 1 then
        -- Seat is already held, return failure with the conflicting seat
        return {0, ARGV[i]}
    end
end

-- All seats are free, hold them atomically
for i = 4, #ARGV do
    local seat_key = "seatlock:" .. trip_id .. ":" .. ARGV[i]
    redis.call("SETEX", seat_key, ttl, session_id)
end

return {1, "success"}
`

// Lua script for idempotent seat release. Authenticated holders only delete
// locks whose stored session matches theirs; guest releases delete whatever
// is there. Missing keys count as already released.
const luaAtomicSeatRelease = `
-- ARGV[1] = trip_id
-- ARGV[2] = session_id
-- ARGV[3] = is_guest ("1" or "0")
-- ARGV[4..N] = seat_codes

local trip_id = ARGV[1]
local session_id = ARGV[2]
local is_guest = ARGV[3]
local released = 0

for i = 4, #ARGV do
    local seat_key = "seatlock:" .. trip_id .. ":" .. ARGV[i]

    if is_guest == "1" then
        released = released + redis.call("DEL", seat_key)
    else
        local held_by = redis.call("GET", seat_key)
        if held_by == session_id then
            released = released + redis.call("DEL", seat_key)
        end
    end
end

return released
`

// AcquireSeats atomically holds all requested seats or none of them.
func (s *RedisStore) AcquireSeats(ctx context.Context, tripID string, seatCodes []string, holder Holder, ttl time.Duration) error {
	if s.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	args := []interface{}{
		tripID,
		holder.SessionID(),
		strconv.Itoa(int(ttl.Seconds())),
	}
	for _, code := range seatCodes {
		args = append(args, code)
	}

	result, err := s.redis.EvalSha(ctx, luaAtomicSeatAcquire, nil, args...).Result()
	if err != nil {
		// If script is not loaded, try to load and execute
		result, err = s.redis.Eval(ctx, luaAtomicSeatAcquire, nil, args...).Result()
		if err != nil {
			return fmt.Errorf("failed to execute atomic seat acquire: %w", err)
		}
	}

	resultArray, ok := result.([]interface{})
	if !ok || len(resultArray) != 2 {
		return fmt.Errorf("unexpected result format from Lua script")
	}

	success, ok := resultArray[0].(int64)
	if !ok {
		return fmt.Errorf("invalid success flag in Lua script result")
	}

	if success == 0 {
		conflictSeat, ok := resultArray[1].(string)
		if ok {
			return &ConflictError{TripID: tripID, SeatCode: conflictSeat}
		}
		return fmt.Errorf("failed to acquire seats")
	}

	return nil
}

// ReleaseSeats releases the given seats for the holder and returns how many
// locks were actually deleted. Releasing expired or absent locks is not an
// error.
func (s *RedisStore) ReleaseSeats(ctx context.Context, tripID string, seatCodes []string, holder Holder) (int, error) {
	if s.redis == nil {
		return 0, fmt.Errorf("redis client not available")
	}

	isGuest := "0"
	if holder.IsGuest() {
		isGuest = "1"
	}

	args := []interface{}{tripID, holder.SessionID(), isGuest}
	for _, code := range seatCodes {
		args = append(args, code)
	}

	result, err := s.redis.EvalSha(ctx, luaAtomicSeatRelease, nil, args...).Result()
	if err != nil {
		result, err = s.redis.Eval(ctx, luaAtomicSeatRelease, nil, args...).Result()
		if err != nil {
			return 0, fmt.Errorf("failed to execute atomic seat release: %w", err)
		}
	}

	released, ok := result.(int64)
	if !ok {
		return 0, fmt.Errorf("invalid released count in Lua script result")
	}

	return int(released), nil
}

// PreloadScripts loads Lua scripts into Redis for better performance
func (s *RedisStore) PreloadScripts(ctx context.Context) error {
	if s.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	if _, err := s.redis.ScriptLoad(ctx, luaAtomicSeatAcquire).Result(); err != nil {
		return fmt.Errorf("failed to load seat acquire script: %w", err)
	}

	if _, err := s.redis.ScriptLoad(ctx, luaAtomicSeatRelease).Result(); err != nil {
		return fmt.Errorf("failed to load seat release script: %w", err)
	}

	return nil
}
