// -----------------------------------------------------------------------------
// Seat Inventory
// -----------------------------------------------------------------------------
// RedisInventory is the Redis backed SeatReservationService for a single
// screening. It keeps two keys:
//
//	seating:<screening>:reserved   total seats reserved (string counter)
//	seating:<screening>:accounts   seats reserved per account (hash)
//
// Both are updated in one MULTI/EXEC block. Requests that cannot fit are
// refused before touching the counters; when a concurrent reservation still
// pushes the counter above capacity, it is rolled back the same way.
// -----------------------------------------------------------------------------

package seating

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/biyonik/cinema-ticket-service/pkg/logger"
)

var (
	ErrNotEnoughSeats   = errors.New("not enough seats available")
	ErrInvalidSeatCount = errors.New("seat count must be positive")
)

type RedisInventory struct {
	client      redis.Cmdable
	reservedKey string
	accountsKey string
	capacity    int
	logger      *logger.Logger
}

// NewRedisInventory builds an inventory for screening. A capacity of zero or
// less means unlimited.
func NewRedisInventory(client redis.Cmdable, screening string, capacity int, log *logger.Logger) *RedisInventory {
	prefix := "seating:" + screening
	return &RedisInventory{
		client:      client,
		reservedKey: prefix + ":reserved",
		accountsKey: prefix + ":accounts",
		capacity:    capacity,
		logger:      log,
	}
}

// ReserveSeat reserves seats for accountID.
func (i *RedisInventory) ReserveSeat(ctx context.Context, accountID int64, seats int) error {
	if seats <= 0 {
		return ErrInvalidSeatCount
	}

	available, err := i.Available(ctx)
	if err != nil {
		return fmt.Errorf("read seat count: %w", err)
	}
	if available >= 0 && seats > available {
		return fmt.Errorf("%w: requested %d, available %d", ErrNotEnoughSeats, seats, available)
	}

	reserved, err := i.adjust(ctx, accountID, int64(seats))
	if err != nil {
		return fmt.Errorf("reserve seats: %w", err)
	}

	if i.capacity > 0 && reserved > int64(i.capacity) {
		if _, err := i.adjust(ctx, accountID, -int64(seats)); err != nil {
			i.logger.Error("Seat rollback failed", "account_id", accountID, "seats", seats, "error", err)
			return fmt.Errorf("roll back seats: %w", err)
		}
		available := int64(i.capacity) - (reserved - int64(seats))
		if available < 0 {
			available = 0
		}
		return fmt.Errorf("%w: requested %d, available %d", ErrNotEnoughSeats, seats, available)
	}

	i.logger.Debug("Seats reserved", "account_id", accountID, "seats", seats, "reserved_total", reserved)
	return nil
}

// adjust moves the counters by delta and returns the new total.
func (i *RedisInventory) adjust(ctx context.Context, accountID int64, delta int64) (int64, error) {
	var total *redis.IntCmd
	_, err := i.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		total = pipe.IncrBy(ctx, i.reservedKey, delta)
		pipe.HIncrBy(ctx, i.accountsKey, strconv.FormatInt(accountID, 10), delta)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total.Val(), nil
}

// Reserved returns the number of seats reserved so far.
func (i *RedisInventory) Reserved(ctx context.Context) (int, error) {
	n, err := i.client.Get(ctx, i.reservedKey).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// Available returns the remaining seats, or -1 when capacity is unlimited.
func (i *RedisInventory) Available(ctx context.Context) (int, error) {
	if i.capacity <= 0 {
		return -1, nil
	}
	reserved, err := i.Reserved(ctx)
	if err != nil {
		return 0, err
	}
	if reserved >= i.capacity {
		return 0, nil
	}
	return i.capacity - reserved, nil
}
