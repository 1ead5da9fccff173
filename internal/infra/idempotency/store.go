package idempotency

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrKeyConflict возвращается, когда ключ уже занят, но результат еще не записан
	// (параллельный запрос с тем же ключом в полете)
	ErrKeyConflict = errors.New("idempotency: key is already in flight")

	// ErrUnavailable возвращается при недоступности Redis
	ErrUnavailable = errors.New("idempotency: store unavailable")
)

// pendingMarker значение-заглушка, пока создание записи не завершилось
const pendingMarker = "pending"

// Store Redis-хранилище ключей идемпотентности для создания записей
// Повтор запроса с тем же Idempotency-Key возвращает id ранее созданной
// записи вместо второго бронирования (ретраи без двойного бронирования)
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore создает хранилище ключей идемпотентности
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Begin резервирует ключ перед созданием записи
// Возвращает (0, nil) если ключ свободен и успешно зарезервирован,
// (id, nil) если по ключу уже есть созданная запись,
// ErrKeyConflict если параллельный запрос с этим ключом еще выполняется
func (s *Store) Begin(ctx context.Context, key string) (int64, error) {
	ok, err := s.rdb.SetNX(ctx, s.redisKey(key), pendingMarker, s.ttl).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if ok {
		return 0, nil
	}

	val, err := s.rdb.Get(ctx, s.redisKey(key)).Result()
	if err == redis.Nil {
		// Ключ истек между SetNX и Get - считаем свободным
		return s.Begin(ctx, key)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if val == pendingMarker {
		return 0, ErrKeyConflict
	}

	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: corrupted value %q", ErrUnavailable, val)
	}

	return id, nil
}

// Complete записывает id созданной записи по ключу
func (s *Store) Complete(ctx context.Context, key string, appointmentID int64) error {
	if err := s.rdb.Set(ctx, s.redisKey(key), strconv.FormatInt(appointmentID, 10), s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Release освобождает ключ после неудачного создания,
// чтобы клиент мог повторить запрос
func (s *Store) Release(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *Store) redisKey(key string) string {
	return "appointments:idemp:" + key
}
