package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"
)

var (
	// ErrKeyNotFound means the key id is absent even after a refresh.
	ErrKeyNotFound = errors.New("signing key not found")

	// ErrKeySetUnavailable means the remote key set could not be fetched or parsed.
	ErrKeySetUnavailable = errors.New("key set unavailable")
)

// KeySet caches the identity provider's public signing keys, keyed by kid.
// The map is replaced wholesale on refresh so concurrent readers never see a
// partially rotated set. Constructed once per process and injected into the
// Verifier.
type KeySet struct {
	url     string
	refresh time.Duration
	client  *http.Client
	now     func() time.Time

	mu        sync.RWMutex
	keys      map[string]SigningKey
	fetchedAt time.Time
}

// NewKeySet builds an empty cache for the JWKS at url. The set is populated
// on first lookup; refresh controls how long a fetched set is trusted.
func NewKeySet(url string, refresh time.Duration, client *http.Client) *KeySet {
	if client == nil {
		client = http.DefaultClient
	}
	return &KeySet{
		url:     url,
		refresh: refresh,
		client:  client,
		now:     time.Now,
		keys:    map[string]SigningKey{},
	}
}

// Lookup returns the key for kid. A fresh cache hit costs no I/O; otherwise
// exactly one synchronous refresh is attempted before giving up, so a flood
// of tokens with bogus kids cannot trigger unbounded fetching.
func (s *KeySet) Lookup(ctx context.Context, kid string) (SigningKey, error) {
	if key, ok := s.cached(kid); ok {
		return key, nil
	}

	if err := s.Refresh(ctx); err != nil {
		return SigningKey{}, err
	}

	s.mu.RLock()
	key, ok := s.keys[kid]
	s.mu.RUnlock()
	if !ok {
		return SigningKey{}, fmt.Errorf("%w: kid %q", ErrKeyNotFound, kid)
	}
	return key, nil
}

// cached returns the key only when the set has been fetched at least once and
// is not older than the refresh interval.
func (s *KeySet) cached(kid string) (SigningKey, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.fetchedAt.IsZero() || s.now().Sub(s.fetchedAt) > s.refresh {
		return SigningKey{}, false
	}
	key, ok := s.keys[kid]
	return key, ok
}

// Refresh fetches the JWKS document and atomically replaces the cached set.
// Concurrent callers may each fetch; the last replacement wins, which is
// harmless because every fetch returns the provider's current set.
func (s *KeySet) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrKeySetUnavailable, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: fetch %s: %v", ErrKeySetUnavailable, s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: fetch %s: status %d", ErrKeySetUnavailable, s.url, resp.StatusCode)
	}

	var doc JWKS
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return fmt.Errorf("%w: decode document: %v", ErrKeySetUnavailable, err)
	}

	keys := make(map[string]SigningKey, len(doc.Keys))
	for _, jwk := range doc.Keys {
		if jwk.Kid == "" {
			continue
		}
		key, err := jwk.SigningKey()
		if err != nil {
			// An unsupported key type elsewhere in the set (e.g. an EC key
			// during a provider migration) must not break verification for
			// the keys we do understand.
			continue
		}
		keys[jwk.Kid] = key
	}

	s.mu.Lock()
	s.keys = keys
	s.fetchedAt = s.now()
	s.mu.Unlock()
	return nil
}
