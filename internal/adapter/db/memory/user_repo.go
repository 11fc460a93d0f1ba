package memory

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"user-directory-service/internal/domain/user"
	apperrors "user-directory-service/pkg/errors"
)

// UserRepo keeps user records in process memory. Contents are lost on restart.
// All operations are serialized by a single mutex, which also makes the
// email check and the write of Create and Update one atomic step.
type UserRepo struct {
	mu      sync.RWMutex
	users   []user.User      // insertion order
	byEmail map[string]int64 // email -> id, emulates a unique index
	nextID  int64
	log     *zap.Logger
}

// NewUserRepo creates an empty in-memory repository. IDs start at 1 and are
// never reused, even after deletes.
func NewUserRepo(log *zap.Logger) *UserRepo {
	return &UserRepo{
		byEmail: make(map[string]int64),
		nextID:  1,
		log:     log,
	}
}

func (r *UserRepo) indexOf(id int64) int {
	for i := range r.users {
		if r.users[i].ID == id {
			return i
		}
	}
	return -1
}

// Create inserts a new user and returns its assigned ID.
func (r *UserRepo) Create(ctx context.Context, u *user.User) (int64, error) {
	if u == nil {
		return 0, errors.New("user cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[u.Email]; taken {
		return 0, apperrors.EmailConflict(nil)
	}

	record := *u
	record.ID = r.nextID
	r.nextID++

	r.users = append(r.users, record)
	r.byEmail[record.Email] = record.ID

	r.log.Debug("user created in memory", zap.Int64("id", record.ID))
	return record.ID, nil
}

// GetByID returns a copy of the user with the given ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, apperrors.UserNotFound()
	}
	u := r.users[i]
	return &u, nil
}

// GetByEmail returns a copy of the user holding email, or nil when none does.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	u := r.users[r.indexOf(id)]
	return &u, nil
}

// Update overwrites name, email and credential hash of an existing user.
func (r *UserRepo) Update(ctx context.Context, u *user.User) error {
	if u == nil {
		return errors.New("user cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(u.ID)
	if i < 0 {
		return apperrors.UserNotFound()
	}
	if owner, taken := r.byEmail[u.Email]; taken && owner != u.ID {
		return apperrors.EmailConflict(nil)
	}

	delete(r.byEmail, r.users[i].Email)
	r.users[i].Name = u.Name
	r.users[i].Email = u.Email
	r.users[i].CredentialHash = u.CredentialHash
	r.byEmail[u.Email] = u.ID

	r.log.Debug("user updated in memory", zap.Int64("id", u.ID))
	return nil
}

// Delete removes the user with the given ID.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return apperrors.UserNotFound()
	}

	delete(r.byEmail, r.users[i].Email)
	r.users = append(r.users[:i], r.users[i+1:]...)

	r.log.Debug("user deleted from memory", zap.Int64("id", id))
	return nil
}

// List returns copies of all users in insertion order.
func (r *UserRepo) List(ctx context.Context) ([]user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]user.User, len(r.users))
	copy(users, r.users)
	return users, nil
}

// Ping always succeeds.
func (r *UserRepo) Ping(context.Context) error {
	return nil
}

// Close is a no-op.
func (r *UserRepo) Close() error {
	return nil
}
