package grpc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"user-directory-service/internal/usecase/user"
	apperrors "user-directory-service/pkg/errors"
	"user-directory-service/pkg/logger"
)

// UserService implements UserServiceServer on top of the record store.
type UserService struct {
	uc       user.Usecase
	log      *zap.Logger
	validate *validator.Validate
}

// NewUserService creates a new gRPC user service
func NewUserService(uc user.Usecase, log *zap.Logger) *UserService {
	return &UserService{uc: uc, log: log, validate: validator.New()}
}

func (s *UserService) validateRequest(req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError("", err.Error())
	}
	msgs := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		msgs[i] = fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
	}
	return apperrors.NewValidationError("", strings.Join(msgs, ", "))
}

// toStatus keeps classified errors and hides everything else behind Internal.
func (s *UserService) toStatus(ctx context.Context, err error) error {
	var statuser apperrors.GRPCStatuser
	if errors.As(err, &statuser) {
		return statuser.GRPCStatus().Err()
	}
	logger.WithContext(ctx, s.log).Error("unhandled error", zap.Error(err))
	return status.Error(codes.Internal, "internal error")
}

func toUser(u *user.UserResponse) *User {
	return &User{Id: u.ID, Name: u.Name, Email: u.Email}
}

// CreateUser handles the CreateUser RPC
func (s *UserService) CreateUser(ctx context.Context, req *CreateUserRequest) (*User, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	resp, err := s.uc.CreateUser(ctx, user.CreateUserRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toUser(resp), nil
}

// GetUser handles the GetUser RPC
func (s *UserService) GetUser(ctx context.Context, req *GetUserRequest) (*User, error) {
	resp, err := s.uc.GetUser(ctx, user.GetUserRequest{ID: req.Id})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toUser(resp), nil
}

// UpdateUser handles the UpdateUser RPC
func (s *UserService) UpdateUser(ctx context.Context, req *UpdateUserRequest) (*User, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	resp, err := s.uc.UpdateUser(ctx, user.UpdateUserRequest{
		ID:       req.Id,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toUser(resp), nil
}

// DeleteUser handles the DeleteUser RPC
func (s *UserService) DeleteUser(ctx context.Context, req *DeleteUserRequest) (*DeleteUserResponse, error) {
	resp, err := s.uc.DeleteUser(ctx, user.DeleteUserRequest{ID: req.Id})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &DeleteUserResponse{Id: resp.ID, Message: resp.Message}, nil
}

// ListUsers handles the ListUsers RPC
func (s *UserService) ListUsers(ctx context.Context, _ *ListUsersRequest) (*ListUsersResponse, error) {
	resp, err := s.uc.ListUsers(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	users := make([]*User, len(resp.Users))
	for i := range resp.Users {
		users[i] = toUser(&resp.Users[i])
	}
	return &ListUsersResponse{Users: users}, nil
}
