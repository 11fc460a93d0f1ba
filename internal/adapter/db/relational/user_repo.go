package relational

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-directory-service/internal/domain/user"
	apperrors "user-directory-service/pkg/errors"
)

// UserRepo implements the user repository on a relational database through GORM.
// The unique index on email is the authority on email uniqueness.
type UserRepo struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewUserRepo creates a new instance of UserRepo.
func NewUserRepo(db *gorm.DB, log *zap.Logger) *UserRepo {
	return &UserRepo{db: db, log: log}
}

func toDomain(m *UserSchema) *user.User {
	return &user.User{
		ID:             m.ID,
		Name:           m.Name,
		Email:          m.Email,
		CredentialHash: m.HashedPassword,
	}
}

// Create inserts a new user into the database.
func (r *UserRepo) Create(ctx context.Context, u *user.User) (int64, error) {
	if u == nil {
		return 0, errors.New("user cannot be nil")
	}

	model := UserSchema{
		Name:           u.Name,
		Email:          u.Email,
		HashedPassword: u.CredentialHash,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		mapped := mapError(err)
		r.log.Warn("failed to create user in db", zap.Error(err), zap.String("email", u.Email))
		return 0, mapped
	}

	r.log.Info("user created in db", zap.Int64("id", model.ID))
	return model.ID, nil
}

// Update overwrites name, email and hashed password of an existing user.
func (r *UserRepo) Update(ctx context.Context, u *user.User) error {
	if u == nil {
		return errors.New("user cannot be nil")
	}

	result := r.db.WithContext(ctx).
		Model(&UserSchema{}).
		Where("id = ?", u.ID).
		Updates(map[string]any{
			"name":            u.Name,
			"email":           u.Email,
			"hashed_password": u.CredentialHash,
		})
	if result.Error != nil {
		r.log.Warn("failed to update user in db", zap.Error(result.Error), zap.Int64("id", u.ID))
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.UserNotFound()
	}

	r.log.Info("user updated in db", zap.Int64("id", u.ID))
	return nil
}

// Delete removes a user from the database by ID.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&UserSchema{}, id)
	if result.Error != nil {
		r.log.Error("failed to delete user in db", zap.Error(result.Error), zap.Int64("id", id))
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.UserNotFound()
	}

	r.log.Info("user deleted in db", zap.Int64("id", id))
	return nil
}

// GetByID retrieves a user from the database by their unique ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found", zap.Int64("id", id))
			return nil, apperrors.UserNotFound()
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.Int64("id", id))
		return nil, mapError(err)
	}

	return toDomain(&model), nil
}

// GetByEmail retrieves a user by exact email match. It returns nil, nil when
// no user holds the email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found by email", zap.String("email", email))
			return nil, nil
		}
		r.log.Error("failed to get user by email from db", zap.Error(err), zap.String("email", email))
		return nil, mapError(err)
	}

	return toDomain(&model), nil
}

// List retrieves all users ordered by ID, which is insertion order.
func (r *UserRepo) List(ctx context.Context) ([]user.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err))
		return nil, mapError(err)
	}

	users := make([]user.User, len(models))
	for i := range models {
		users[i] = *toDomain(&models[i])
	}

	return users, nil
}

// Ping verifies the database is reachable.
func (r *UserRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return mapError(err)
	}
	return nil
}

// Close closes the database connection.
func (r *UserRepo) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
