package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLockTimeout = errors.New("day lock: timed out waiting for holder")

// DayLocker serializes summary recomputation for one (user, date).
// The returned unlock func must be called exactly once.
type DayLocker interface {
	Lock(ctx context.Context, userID, date string) (unlock func(), err error)
}

func dayLockKey(userID, date string) string {
	return "lock:summary:" + userID + ":" + date
}

// LocalDayLocker is a keyed mutex for single-process deployments.
type LocalDayLocker struct {
	mu    sync.Mutex
	locks map[string]*dayLock
}

type dayLock struct {
	sem  chan struct{}
	refs int
}

func NewLocalDayLocker() *LocalDayLocker {
	return &LocalDayLocker{locks: map[string]*dayLock{}}
}

func (l *LocalDayLocker) Lock(ctx context.Context, userID, date string) (func(), error) {
	key := dayLockKey(userID, date)

	l.mu.Lock()
	dl, ok := l.locks[key]
	if !ok {
		dl = &dayLock{sem: make(chan struct{}, 1)}
		l.locks[key] = dl
	}
	dl.refs++
	l.mu.Unlock()

	select {
	case dl.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(key, dl)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-dl.sem
			l.release(key, dl)
		})
	}, nil
}

func (l *LocalDayLocker) release(key string, dl *dayLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	dl.refs--
	if dl.refs == 0 {
		delete(l.locks, key)
	}
}

// size is the number of keys currently tracked.
func (l *LocalDayLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisDayLocker is a SET NX lease shared by every API instance.
type RedisDayLocker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
}

func NewRedisDayLocker(client *redis.Client, prefix string) *RedisDayLocker {
	return &RedisDayLocker{
		client: client,
		prefix: strings.TrimSpace(prefix),
		ttl:    10 * time.Second,
		wait:   2 * time.Second,
		retry:  50 * time.Millisecond,
	}
}

func (l *RedisDayLocker) Lock(ctx context.Context, userID, date string) (func(), error) {
	key := dayLockKey(userID, date)
	if l.prefix != "" {
		key = l.prefix + ":" + key
	}
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire day lock: %w", err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
			defer cancel()
			_ = releaseLockScript.Run(rctx, l.client, []string{key}, token).Err()
		})
	}, nil
}
