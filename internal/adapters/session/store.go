package session

import (
	"context"
	crand "crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"
)

const cookieName = "sid"

// Store keeps per-visitor bookmark sets in Redis. Each session holds a
// JSON-encoded, ascending-sorted list of business IDs under
// session:<sid>:bookmarks; the key expires with the session TTL.
type Store struct {
	c   *redis.Client
	ttl time.Duration
}

func NewStore(c *redis.Client, ttl time.Duration) *Store {
	return &Store{c: c, ttl: ttl}
}

func key(sid string) string { return fmt.Sprintf("session:%s:bookmarks", sid) }

func (s *Store) List(ctx context.Context, sid string) ([]int64, error) {
	if sid == "" {
		return nil, nil
	}
	v, err := s.c.Get(ctx, key(sid)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ids []int64
	if err := json.Unmarshal(v, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Toggle flips membership of businessID in the session's bookmark set
// and persists the set sorted. It reports whether the ID was added.
// Two concurrent toggles of the same key race last-writer-wins, which
// is acceptable for a per-visitor set.
func (s *Store) Toggle(ctx context.Context, sid string, businessID int64) (bool, error) {
	ids, err := s.List(ctx, sid)
	if err != nil {
		return false, err
	}

	added := true
	if i := slices.Index(ids, businessID); i >= 0 {
		ids = slices.Delete(ids, i, i+1)
		added = false
	} else {
		ids = append(ids, businessID)
	}
	slices.Sort(ids)

	b, _ := json.Marshal(ids)
	if err := s.c.Set(ctx, key(sid), b, s.ttl).Err(); err != nil {
		return false, err
	}
	return added, nil
}

// EnsureCookie returns the request's session ID, minting a new one and
// setting the cookie when absent.
func (s *Store) EnsureCookie(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	sid := newSID()
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    sid,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sid
}

// SID reads the session ID without creating one; read-only pages use
// this so anonymous visitors don't accumulate empty sessions.
func SID(r *http.Request) string {
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

func newSID() string {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		// crypto/rand failing is unrecoverable for session minting
		panic(err)
	}
	return hex.EncodeToString(b[:])
}
