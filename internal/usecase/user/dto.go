package user

// CreateUserRequest represents the request payload for creating a new user.
type CreateUserRequest struct {
	Name     string `validate:"required,max=100"`
	Email    string `validate:"required,max=254"`
	Password string `validate:"required"`
}

// UpdateUserRequest represents the request payload for replacing an existing user's fields.
// All three fields are overwritten; the ID is preserved.
type UpdateUserRequest struct {
	ID       int64
	Name     string `validate:"required,max=100"`
	Email    string `validate:"required,max=254"`
	Password string `validate:"required"`
}

// DeleteUserRequest represents the request payload for deleting a user.
type DeleteUserRequest struct {
	ID int64
}

// DeleteUserResponse confirms a deletion.
type DeleteUserResponse struct {
	ID      int64
	Message string
}

// GetUserRequest represents the request payload for retrieving a user.
type GetUserRequest struct {
	ID int64
}

// GetUserByEmailRequest represents the request payload for retrieving a user by email.
type GetUserByEmailRequest struct {
	Email string
}

// ListUsersResponse represents the response payload for user listing.
type ListUsersResponse struct {
	Users []UserResponse
}

// UserResponse is the projection of a user record returned to callers.
// It deliberately has no credential field.
type UserResponse struct {
	ID    int64
	Name  string
	Email string
}
