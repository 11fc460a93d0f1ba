package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "user-directory-service/internal/domain/user"
	apperrors "user-directory-service/pkg/errors"
	"user-directory-service/pkg/logger"
	"user-directory-service/pkg/security"
)

// MsgUserDeleted confirms a successful deletion.
const MsgUserDeleted = "User deleted successfully"

// Repository defines the persistence operations the Store depends on.
// Implementations must enforce email uniqueness themselves (unique index or
// equivalent) and report a violation as *apperrors.ConflictError.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (int64, error)          // Insert and assign a new ID
	GetByID(ctx context.Context, id int64) (*domain.User, error)        // *apperrors.NotFoundError when absent
	GetByEmail(ctx context.Context, email string) (*domain.User, error) // nil, nil when absent
	Update(ctx context.Context, u *domain.User) error                   // Overwrite name, email and credential
	Delete(ctx context.Context, id int64) error                         // *apperrors.NotFoundError when absent
	List(ctx context.Context) ([]domain.User, error)                    // All records in insertion order
}

// Store implements the user record operations on top of a Repository.
type Store struct {
	repo     Repository
	hasher   security.PasswordHasher
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a Store backed by r.
func New(r Repository, h security.PasswordHasher, log *zap.Logger) *Store {
	return &Store{repo: r, hasher: h, log: log, validate: validator.New()}
}

// formatValidationError converts validator.ValidationErrors into a ValidationError.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperrors.NewValidationError("", err.Error())
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return apperrors.NewValidationError("", strings.Join(messages, ", "))
}

func (s *Store) validateInput(in any, password string) error {
	if err := s.validate.Struct(in); err != nil {
		return formatValidationError(err)
	}
	if len(password) > security.MaxPasswordBytes {
		return apperrors.NewValidationError("Password", fmt.Sprintf("must be at most %d bytes", security.MaxPasswordBytes))
	}
	return nil
}

// storageError passes classified errors through and treats anything else
// coming out of the repository as a backend failure.
func storageError(err error) error {
	var (
		notFound    *apperrors.NotFoundError
		conflict    *apperrors.ConflictError
		unavailable *apperrors.UnavailableError
		internal    *apperrors.InternalError
	)
	switch {
	case errors.As(err, &notFound), errors.As(err, &conflict),
		errors.As(err, &unavailable), errors.As(err, &internal):
		return err
	default:
		return apperrors.NewUnavailableError("storage backend unavailable", err)
	}
}

func toResponse(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}

// CreateUser registers a new user. The email must not be held by any record.
func (s *Store) CreateUser(ctx context.Context, in CreateUserRequest) (*UserResponse, error) {
	log := logger.WithContext(ctx, s.log)
	log.Info("creating user", zap.String("name", in.Name), zap.String("email", in.Email))

	if err := s.validateInput(in, in.Password); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, err
	}

	existing, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		log.Error("failed to check existing email", zap.String("email", in.Email), zap.Error(err))
		return nil, storageError(err)
	}
	if existing != nil {
		log.Warn("email already registered", zap.String("email", in.Email), zap.Int64("existing_id", existing.ID))
		return nil, apperrors.EmailConflict(nil)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	u := &domain.User{
		Name:           in.Name,
		Email:          in.Email,
		CredentialHash: hash,
	}

	// The backend's uniqueness guard is authoritative: a concurrent create
	// may have claimed the email since the check above.
	id, err := s.repo.Create(ctx, u)
	if err != nil {
		log.Warn("failed to create user", zap.String("email", in.Email), zap.Error(err))
		return nil, storageError(err)
	}
	u.ID = id

	log.Info("user created", zap.Int64("id", id))
	return toResponse(u), nil
}

// UpdateUser overwrites the name, email and credential of an existing user.
func (s *Store) UpdateUser(ctx context.Context, in UpdateUserRequest) (*UserResponse, error) {
	log := logger.WithContext(ctx, s.log)
	log.Info("updating user", zap.Int64("id", in.ID), zap.String("name", in.Name), zap.String("email", in.Email))

	if in.ID <= 0 {
		return nil, apperrors.UserNotFound()
	}

	if err := s.validateInput(in, in.Password); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		log.Warn("failed to load user for update", zap.Int64("id", in.ID), zap.Error(err))
		return nil, storageError(err)
	}

	if in.Email != current.Email {
		existing, err := s.repo.GetByEmail(ctx, in.Email)
		if err != nil {
			log.Error("failed to check existing email", zap.String("email", in.Email), zap.Error(err))
			return nil, storageError(err)
		}
		if existing != nil && existing.ID != in.ID {
			log.Warn("email already registered", zap.String("email", in.Email), zap.Int64("existing_id", existing.ID))
			return nil, apperrors.EmailConflict(nil)
		}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	u := &domain.User{
		ID:             in.ID,
		Name:           in.Name,
		Email:          in.Email,
		CredentialHash: hash,
	}
	if err := s.repo.Update(ctx, u); err != nil {
		log.Warn("failed to update user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, storageError(err)
	}

	return toResponse(u), nil
}

// DeleteUser physically removes a user.
func (s *Store) DeleteUser(ctx context.Context, in DeleteUserRequest) (*DeleteUserResponse, error) {
	log := logger.WithContext(ctx, s.log)
	log.Info("deleting user", zap.Int64("id", in.ID))

	if in.ID <= 0 {
		return nil, apperrors.UserNotFound()
	}

	if err := s.repo.Delete(ctx, in.ID); err != nil {
		log.Warn("failed to delete user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, storageError(err)
	}

	return &DeleteUserResponse{ID: in.ID, Message: MsgUserDeleted}, nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, in GetUserRequest) (*UserResponse, error) {
	if in.ID <= 0 {
		return nil, apperrors.UserNotFound()
	}

	u, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		logger.WithContext(ctx, s.log).Debug("failed to get user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, storageError(err)
	}

	return toResponse(u), nil
}

// GetUserByEmail retrieves a user by exact, case-sensitive email match.
func (s *Store) GetUserByEmail(ctx context.Context, in GetUserByEmailRequest) (*UserResponse, error) {
	u, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		logger.WithContext(ctx, s.log).Error("failed to get user by email", zap.String("email", in.Email), zap.Error(err))
		return nil, storageError(err)
	}
	if u == nil {
		return nil, apperrors.UserNotFound()
	}

	return toResponse(u), nil
}

// ListUsers returns every user in insertion order.
func (s *Store) ListUsers(ctx context.Context) (*ListUsersResponse, error) {
	domainUsers, err := s.repo.List(ctx)
	if err != nil {
		logger.WithContext(ctx, s.log).Error("failed to list users", zap.Error(err))
		return nil, storageError(err)
	}

	users := make([]UserResponse, len(domainUsers))
	for i := range domainUsers {
		users[i] = *toResponse(&domainUsers[i])
	}

	return &ListUsersResponse{Users: users}, nil
}
