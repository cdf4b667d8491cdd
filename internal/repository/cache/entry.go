// Package cache holds the value envelope shared by the redis caches.
package cache

import (
	"encoding/json"
	"time"
)

// HardExpireFactor 物理过期时间是逻辑过期时间的倍数，重建期间仍可返回旧值
const HardExpireFactor = 3

// Entry is a cached value with a logical expiry
type Entry[T any] struct {
	Data T `json:"data"`
	// Missing 空值缓存，记录数据库中不存在的key，防止缓存穿透
	Missing  bool      `json:"missing,omitempty"`
	ExpireAt time.Time `json:"expire_at"` // 逻辑过期时间
}

func NewEntry[T any](data T, ttl time.Duration) Entry[T] {
	return Entry[T]{
		Data:     data,
		ExpireAt: time.Now().Add(ttl),
	}
}

// NewMissing records that the key has no value in the database
func NewMissing[T any](ttl time.Duration) Entry[T] {
	var zero T
	e := NewEntry(zero, ttl)
	e.Missing = true
	return e
}

// Expired reports whether the entry should be rebuilt. It stays readable until HardTTL.
func (e Entry[T]) Expired() bool {
	return time.Now().After(e.ExpireAt)
}

// HardTTL is the redis TTL for an entry with logical ttl
func HardTTL(ttl time.Duration) time.Duration {
	return HardExpireFactor * ttl
}

func Encode[T any](e Entry[T]) ([]byte, error) {
	return json.Marshal(e)
}

func Decode[T any](raw string) (Entry[T], error) {
	var e Entry[T]
	err := json.Unmarshal([]byte(raw), &e)
	return e, err
}
