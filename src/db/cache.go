package db

import (
	"log"
	"sync"

	"github.com/dgraph-io/ristretto"
)

// Storing cache keys in concurrent data structures to allow for clearing all
// caches of a certain type (e.g. after an admin cache clear).
var (
	Cache                *ristretto.Cache
	AccountCacheKeys     = struct {
		sync.RWMutex
		m map[string]struct{}
	}{m: make(map[string]struct{})}
	TransactionCacheKeys = struct {
		sync.RWMutex
		m map[string]struct{}
	}{m: make(map[string]struct{})}
)

func InitCache() {
	var err error
	Cache, err = ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     10000,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		log.Fatalf("failed to initialize cache: %v", err)
	}
}

// Account Cache Functions
func SetAccountCache(cacheKey string, value interface{}) {
	AccountCacheKeys.Lock()
	AccountCacheKeys.m[cacheKey] = struct{}{}
	AccountCacheKeys.Unlock()
	Cache.Set(cacheKey, value, 1)
}

func DelAccountCache(cacheKey string) {
	AccountCacheKeys.Lock()
	delete(AccountCacheKeys.m, cacheKey)
	AccountCacheKeys.Unlock()
	Cache.Del(cacheKey)
}

func ClearAllAccountCaches() {
	AccountCacheKeys.Lock()
	for key := range AccountCacheKeys.m {
		Cache.Del(key)
	}
	AccountCacheKeys.m = make(map[string]struct{})
	AccountCacheKeys.Unlock()
}

// Transaction Cache Functions
func SetTransactionCache(cacheKey string, value interface{}) {
	TransactionCacheKeys.Lock()
	TransactionCacheKeys.m[cacheKey] = struct{}{}
	TransactionCacheKeys.Unlock()
	Cache.Set(cacheKey, value, 1)
}

func DelTransactionCache(cacheKey string) {
	TransactionCacheKeys.Lock()
	delete(TransactionCacheKeys.m, cacheKey)
	TransactionCacheKeys.Unlock()
	Cache.Del(cacheKey)
}

func ClearAllTransactionCaches() {
	TransactionCacheKeys.Lock()
	for key := range TransactionCacheKeys.m {
		Cache.Del(key)
	}
	TransactionCacheKeys.m = make(map[string]struct{})
	TransactionCacheKeys.Unlock()
}
