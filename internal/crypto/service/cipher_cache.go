package service

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"golang.org/x/sync/singleflight"

	cryptoDomain "github.com/MASITH-developpement/Azalscore-sub013/internal/crypto/domain"
)

// CipherCacheService memoizes derived AEAD handles per (tenant, salt) pair so
// the expensive key derivation runs once per pair instead of on every call.
//
// Entries are keyed by a SHA-256 hash of tenantID and salt, never by the
// derived key itself, so no key material can appear in a debug dump of the
// cache key space. Two tenants never share an entry: the tenant ID is part of
// the hashed key.
//
// Concurrent GetCipher calls for the same pair are coalesced through
// singleflight: exactly one caller derives, the rest wait for and reuse that
// result. The cache is size-capped; when full, the oldest-inserted entry is
// evicted. Key derivation is deterministic, so an evicted entry is only a
// latency cost, never a correctness one.
type CipherCacheService struct {
	deriver     KeyDeriver
	aeadManager AEADManager
	algorithm   cryptoDomain.Algorithm
	maxEntries  int

	mu      sync.Mutex
	entries map[string]*cacheEntry
	order   []string
	group   singleflight.Group
}

type cacheEntry struct {
	tenantID string
	aead     AEAD
}

// DefaultCacheMaxEntries is the cache cap used when none is configured.
// Tenant counts per process are typically small; the cap is a backstop.
const DefaultCacheMaxEntries = 1024

// NewCipherCache creates a CipherCacheService producing ciphers for the given algorithm.
func NewCipherCache(
	deriver KeyDeriver,
	aeadManager AEADManager,
	algorithm cryptoDomain.Algorithm,
	maxEntries int,
) *CipherCacheService {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheMaxEntries
	}
	return &CipherCacheService{
		deriver:     deriver,
		aeadManager: aeadManager,
		algorithm:   algorithm,
		maxEntries:  maxEntries,
		entries:     make(map[string]*cacheEntry),
	}
}

// GetCipher returns the AEAD handle for (tenantID, salt), deriving it on a miss.
func (c *CipherCacheService) GetCipher(tenantID string, salt []byte) (AEAD, error) {
	key := cacheKey(tenantID, salt)

	c.mu.Lock()
	if entry, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return entry.aead, nil
	}
	c.mu.Unlock()

	// Single-flight the derivation: concurrent callers for the same pair get
	// one derivation, not one each.
	v, err, _ := c.group.Do(key, func() (any, error) {
		c.mu.Lock()
		if entry, ok := c.entries[key]; ok {
			c.mu.Unlock()
			return entry.aead, nil
		}
		c.mu.Unlock()

		derived, err := c.deriver.Derive(tenantID, salt)
		if err != nil {
			return nil, err
		}
		defer cryptoDomain.Zero(derived)

		aead, err := c.aeadManager.CreateCipher(derived, c.algorithm)
		if err != nil {
			return nil, err
		}

		c.store(key, tenantID, aead)
		return aead, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(AEAD), nil
}

// ClearTenant drops every cached cipher belonging to tenantID.
// Used after key rotation so stale ciphers for the old salt cannot be reused.
func (c *CipherCacheService) ClearTenant(tenantID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	remaining := c.order[:0]
	for _, key := range c.order {
		if entry, ok := c.entries[key]; ok && entry.tenantID == tenantID {
			delete(c.entries, key)
			continue
		}
		remaining = append(remaining, key)
	}
	c.order = remaining
}

// Clear wipes the entire cache. Used on suspected master secret compromise;
// every subsequent call re-derives.
func (c *CipherCacheService) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.order = nil
}

// Len returns the number of cached entries.
func (c *CipherCacheService) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *CipherCacheService) store(key, tenantID string, aead AEAD) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		return
	}

	// Evict oldest-inserted entries to stay within the cap.
	for len(c.entries) >= c.maxEntries && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = &cacheEntry{tenantID: tenantID, aead: aead}
	c.order = append(c.order, key)
}

// cacheKey is a non-reversible digest of tenantID and salt.
func cacheKey(tenantID string, salt []byte) string {
	h := sha256.New()
	h.Write([]byte(tenantID))
	h.Write([]byte{0x1f})
	h.Write(salt)
	return hex.EncodeToString(h.Sum(nil))
}
