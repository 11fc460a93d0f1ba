package user

import "context"

// Usecase defines the interface for user record operations.
type Usecase interface {
	CreateUser(ctx context.Context, in CreateUserRequest) (*UserResponse, error)
	UpdateUser(ctx context.Context, in UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, in DeleteUserRequest) (*DeleteUserResponse, error)
	GetUser(ctx context.Context, in GetUserRequest) (*UserResponse, error)
	GetUserByEmail(ctx context.Context, in GetUserByEmailRequest) (*UserResponse, error)
	ListUsers(ctx context.Context) (*ListUsersResponse, error)
}
