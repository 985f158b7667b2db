package server

import (
	"context"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/matzehuels/sitegraph/pkg/errors"
	"github.com/matzehuels/sitegraph/pkg/observability"
	"github.com/matzehuels/sitegraph/pkg/view"
)

// sessionEntry guards one view session. view.Session has a single owner;
// handlers take mu for every access.
type sessionEntry struct {
	mu   sync.Mutex
	sess *view.Session
}

// sessionTable maps ids to sessions, evicting the least recently used.
type sessionTable struct {
	cache *lru.Cache[string, *sessionEntry]
}

func newSessionTable(size int) (*sessionTable, error) {
	c, err := lru.New[string, *sessionEntry](size)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "session table size %d", size)
	}
	return &sessionTable{cache: c}, nil
}

// add stores sess under a fresh id.
func (t *sessionTable) add(ctx context.Context, sess *view.Session) string {
	id := uuid.NewString()
	t.cache.Add(id, &sessionEntry{sess: sess})
	observability.HTTP().OnSessions(ctx, t.cache.Len())
	return id
}

// with runs fn holding the session's lock.
func (t *sessionTable) with(id string, fn func(*view.Session) error) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	e, ok := t.cache.Get(id)
	if !ok {
		return errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.sess)
}

func (t *sessionTable) remove(ctx context.Context, id string) bool {
	ok := t.cache.Remove(id)
	observability.HTTP().OnSessions(ctx, t.cache.Len())
	return ok
}

func (t *sessionTable) len() int { return t.cache.Len() }
