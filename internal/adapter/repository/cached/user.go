package cached

import (
	"context"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"user-directory-service/internal/adapter/cache"
	domain "user-directory-service/internal/domain/user"
	"user-directory-service/internal/usecase/user"
)

// UserRepository decorates a persistent repository with a read-through
// profile cache for lookups by ID. Writes go to the backend first and then
// evict the cached entry. Cache failures never fail a request.
//
// Cached users carry no credential hash.
type UserRepository struct {
	backend user.Repository
	cache   cache.UserCache
	log     *zap.Logger
	group   singleflight.Group
	gens    sync.Map // int64 -> *generation
}

// generation counts the writes to one user ID. A loader only fills the cache
// if no write happened since it started reading the backend.
type generation struct {
	mu sync.Mutex
	n  uint64
}

func (r *UserRepository) generationFor(id int64) *generation {
	g, _ := r.gens.LoadOrStore(id, &generation{})
	return g.(*generation)
}

func (g *generation) current() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.n
}

// NewUserRepository wraps backend with c.
func NewUserRepository(backend user.Repository, c cache.UserCache, log *zap.Logger) *UserRepository {
	return &UserRepository{
		backend: backend,
		cache:   c,
		log:     log,
	}
}

// Create delegates to the backend.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) (int64, error) {
	return r.backend.Create(ctx, u)
}

// GetByID serves from cache when possible. Concurrent misses for the same ID
// share one backend read.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if u, err := r.cache.Get(ctx, id); err != nil {
		r.log.Warn("cache get error, falling back to backend", zap.Int64("id", id), zap.Error(err))
	} else if u != nil {
		return u, nil
	}

	result, err, _ := r.group.Do(flightKey(id), func() (any, error) {
		gen := r.generationFor(id)
		started := gen.current()

		u, err := r.backend.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		// Holding the lock keeps an eviction from running between the check and the Set.
		gen.mu.Lock()
		defer gen.mu.Unlock()
		if gen.n != started {
			r.log.Debug("user changed during read, not caching", zap.Int64("id", id))
			return u, nil
		}
		if err := r.cache.Set(ctx, u); err != nil {
			r.log.Warn("failed to cache user", zap.Int64("id", id), zap.Error(err))
		}
		return u, nil
	})
	if err != nil {
		return nil, err
	}

	// Callers of a shared flight must not see each other's mutations.
	u := *result.(*domain.User)
	return &u, nil
}

// GetByEmail delegates to the backend.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.backend.GetByEmail(ctx, email)
}

// Update writes to the backend and evicts the cached profile.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	if err := r.backend.Update(ctx, u); err != nil {
		return err
	}
	r.evict(ctx, u.ID)
	return nil
}

// Delete removes the user from the backend and evicts the cached profile.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	if err := r.backend.Delete(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}

// List delegates to the backend.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.backend.List(ctx)
}

// evict drops the cached entry after a write. Reads already in flight will
// not repopulate it, and later reads start a new flight.
func (r *UserRepository) evict(ctx context.Context, id int64) {
	gen := r.generationFor(id)
	gen.mu.Lock()
	defer gen.mu.Unlock()

	gen.n++
	r.group.Forget(flightKey(id))
	if err := r.cache.Delete(ctx, id); err != nil {
		r.log.Warn("failed to invalidate cached user", zap.Int64("id", id), zap.Error(err))
	}
}

func flightKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
