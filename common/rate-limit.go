package common

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// InMemoryRateLimiter is a sliding window limiter keyed by caller.
// Idle keys are evicted by the cache after the expiration duration.
type InMemoryRateLimiter struct {
	store              *cache.Cache
	mutex              sync.Mutex
	expirationDuration time.Duration
	now                func() int64
}

func (l *InMemoryRateLimiter) Init(expirationDuration time.Duration) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if l.store != nil {
		return
	}
	l.expirationDuration = expirationDuration
	l.store = cache.New(expirationDuration, expirationDuration)
	if l.now == nil {
		l.now = func() int64 { return time.Now().Unix() }
	}
}

// Request records one request for key and reports whether it is within
// maxRequestNum requests per duration seconds.
func (l *InMemoryRateLimiter) Request(key string, maxRequestNum int, duration int64) bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	// [old <-- new]
	now := l.now()
	item, ok := l.store.Get(key)
	if !ok {
		queue := make([]int64, 0, maxRequestNum)
		queue = append(queue, now)
		l.store.Set(key, queue, l.expirationDuration)
		return true
	}
	queue := item.([]int64)
	if len(queue) < maxRequestNum {
		queue = append(queue, now)
		l.store.Set(key, queue, l.expirationDuration)
		return true
	}
	if now-queue[0] >= duration {
		queue = append(queue[1:], now)
		l.store.Set(key, queue, l.expirationDuration)
		return true
	}
	return false
}
