package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var ErrKeyNotFound = errors.New("jwks: key not found")

// KeySource resolves the RSA key a token was signed with
type KeySource interface {
	Get(kid string) (*rsa.PublicKey, error)
}

type jwkKey struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwksJSON struct {
	Keys []jwkKey `json:"keys"`
}

// JWKS caches RSA public keys by kid.
type JWKS struct {
	url    string
	client *http.Client
	log    zerolog.Logger

	mu   sync.RWMutex
	keys map[string]*rsa.PublicKey

	ticker *time.Ticker
	quit   chan struct{}
	once   sync.Once
}

// NewJWKS creates a JWKS instance and loads keys immediately. It also starts
// a background refresh every refreshInterval. Pass 0 to use default 15m.
func NewJWKS(url string, refreshInterval time.Duration, log zerolog.Logger) (*JWKS, error) {
	if refreshInterval <= 0 {
		refreshInterval = 15 * time.Minute
	}
	j := &JWKS{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
		keys:   map[string]*rsa.PublicKey{},
		ticker: time.NewTicker(refreshInterval),
		quit:   make(chan struct{}),
	}
	if err := j.refresh(context.Background()); err != nil {
		j.ticker.Stop()
		return nil, err
	}
	go j.loop()
	return j, nil
}

// StaticJWKS serves a fixed key set and never refreshes
func StaticJWKS(keys map[string]*rsa.PublicKey) *JWKS {
	return &JWKS{keys: keys}
}

func (j *JWKS) loop() {
	for {
		select {
		case <-j.ticker.C:
			if err := j.refresh(context.Background()); err != nil {
				j.log.Warn().Err(err).Str("url", j.url).Msg("jwks refresh failed; keeping cached keys")
			}
		case <-j.quit:
			return
		}
	}
}

// Close stops background refresh.
func (j *JWKS) Close() {
	if j.ticker == nil {
		return
	}
	j.once.Do(func() {
		close(j.quit)
		j.ticker.Stop()
	})
}

func (j *JWKS) refresh(ctx context.Context) error {
	if j.url == "" {
		return errors.New("jwks: no url configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, j.url, nil)
	if err != nil {
		return err
	}
	resp, err := j.client.Do(req)
	if err != nil {
		return fmt.Errorf("jwks: fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jwks: unexpected status %d", resp.StatusCode)
	}

	var raw jwksJSON
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return fmt.Errorf("jwks: decode failed: %w", err)
	}

	newKeys := make(map[string]*rsa.PublicKey)
	for _, k := range raw.Keys {
		if k.Kty != "RSA" || (k.Use != "" && k.Use != "sig") {
			continue
		}
		pub, err := parseRSAKey(k)
		if err != nil {
			return err
		}
		newKeys[k.Kid] = pub
	}

	j.mu.Lock()
	j.keys = newKeys
	j.mu.Unlock()
	return nil
}

func parseRSAKey(k jwkKey) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("jwks: bad modulus for %s: %w", k.Kid, err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("jwks: bad exponent for %s: %w", k.Kid, err)
	}

	e := 0
	for _, b := range eBytes {
		e = e<<8 | int(b)
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(nBytes), E: e}, nil
}

// Get returns the key for kid, refreshing once when it is unknown.
func (j *JWKS) Get(kid string) (*rsa.PublicKey, error) {
	j.mu.RLock()
	p := j.keys[kid]
	j.mu.RUnlock()
	if p != nil {
		return p, nil
	}
	if j.url == "" {
		return nil, ErrKeyNotFound
	}

	// key rotation
	if err := j.refresh(context.Background()); err != nil {
		return nil, err
	}
	j.mu.RLock()
	defer j.mu.RUnlock()
	p = j.keys[kid]
	if p == nil {
		return nil, ErrKeyNotFound
	}
	return p, nil
}
