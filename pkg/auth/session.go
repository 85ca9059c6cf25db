// Package auth provides the owner session used by the "mine" catalog routes.
//
// Session keys should be 32 or 64 bytes for HMAC authentication,
// and 16, 24, or 32 bytes for AES encryption. Production deployments
// must use cryptographically random keys generated with:
//
//	openssl rand -base64 32
package auth

import (
	"context"
	"encoding/base32"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

// DefaultSessionKeyPrefix namespaces session hashes in a shared Redis.
const DefaultSessionKeyPrefix = "livery:session:"

// DefaultSessionTTL is how long an idle owner session survives.
const DefaultSessionTTL = 7 * 24 * time.Hour

// ErrUnsupportedValue is returned by Save when a session holds a non-string
// key or value. Sessions only carry identifiers.
var ErrUnsupportedValue = errors.New("session values must be strings")

// SessionOptions configures NewSessionStore and NewCookieStore.
type SessionOptions struct {
	AuthKey       []byte
	EncryptionKey []byte
	// Secure restricts the cookie to HTTPS (production).
	Secure bool
	// TTL is both the cookie MaxAge and the idle expiry of the Redis hash.
	TTL time.Duration
	// KeyPrefix defaults to DefaultSessionKeyPrefix.
	KeyPrefix string
}

func (o SessionOptions) cookieOptions() *sessions.Options {
	ttl := o.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &sessions.Options{
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// NewCookieStore returns a cookie-only store with the same cookie options as
// the Redis store. Used by the memory backend and tests.
func NewCookieStore(opts SessionOptions) *sessions.CookieStore {
	store := sessions.NewCookieStore(opts.AuthKey, opts.EncryptionKey)
	store.Options = opts.cookieOptions()
	return store
}

// RedisStore is a sessions.Store backed by Redis hashes.
// Only an encrypted session ID travels in the client cookie; the values live
// in "<prefix><id>" as hash fields. Every successful load slides the expiry
// forward, so an active browser never loses its collection mid-scroll.
type RedisStore struct {
	client  *redis.Client
	codecs  []securecookie.Codec
	options *sessions.Options
	prefix  string
}

// NewSessionStore creates a Redis-backed session store.
//
// Example:
//
//	store := auth.NewSessionStore(redisClient.Client(), auth.SessionOptions{
//	    AuthKey:       []byte(cfg.SessionAuthKey),
//	    EncryptionKey: []byte(cfg.SessionEncryptionKey),
//	    Secure:        cfg.Environment == config.EnvProduction,
//	    TTL:           cfg.SessionTTL,
//	})
func NewSessionStore(client *redis.Client, opts SessionOptions) *RedisStore {
	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = DefaultSessionKeyPrefix
	}
	return &RedisStore{
		client:  client,
		codecs:  securecookie.CodecsFromPairs(opts.AuthKey, opts.EncryptionKey),
		options: opts.cookieOptions(),
		prefix:  prefix,
	}
}

// Get returns a session for the given name, loading from Redis if a valid
// session cookie exists.
func (s *RedisStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New creates a session. A missing, tampered or expired cookie, or a hash
// that has already expired, yields a fresh session without error.
func (s *RedisStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.options
	session.Options = &opts
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}

	var id string
	if err := securecookie.DecodeMulti(name, c.Value, &id, s.codecs...); err != nil {
		return session, nil
	}

	found, err := s.load(r.Context(), id, session)
	if err != nil {
		return session, err
	}
	if found {
		session.ID = id
		session.IsNew = false
	}
	return session, nil
}

// Save persists the session to Redis and writes the encrypted session cookie.
// If MaxAge < 0, the session and its Redis key are deleted.
func (s *RedisStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.client.Del(r.Context(), s.key(session.ID)).Err(); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = strings.TrimRight(
			base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)),
			"=",
		)
	}

	if err := s.save(r.Context(), session); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.codecs...)
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisStore) ttl(session *sessions.Session) time.Duration {
	return time.Duration(session.Options.MaxAge) * time.Second
}

// save replaces the hash atomically so removed values do not linger.
func (s *RedisStore) save(ctx context.Context, session *sessions.Session) error {
	fields, err := encodeValues(session.Values)
	if err != nil {
		return err
	}
	key := s.key(session.ID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(fields) > 0 {
			pipe.HSet(ctx, key, fields)
			pipe.Expire(ctx, key, s.ttl(session))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("write session hash: %w", err)
	}
	return nil
}

// load reads the hash for id into session and slides its expiry. found is
// false when the hash does not exist.
func (s *RedisStore) load(ctx context.Context, id string, session *sessions.Session) (bool, error) {
	key := s.key(id)
	var values *redis.MapStringStringCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		values = pipe.HGetAll(ctx, key)
		pipe.Expire(ctx, key, s.ttl(session))
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("read session hash: %w", err)
	}
	fields := values.Val()
	if len(fields) == 0 {
		return false, nil
	}
	for k, v := range fields {
		session.Values[k] = v
	}
	return true, nil
}

func encodeValues(values map[any]any) (map[string]any, error) {
	out := make(map[string]any, len(values))
	for k, v := range values {
		ks, ok := k.(string)
		if !ok {
			return nil, fmt.Errorf("%w: key %v", ErrUnsupportedValue, k)
		}
		vs, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedValue, ks)
		}
		out[ks] = vs
	}
	return out, nil
}
