package grpc

import (
	"context"

	gogrpc "google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "userdir.v1.UserService"

// Full method names, usable in interceptors.
const (
	CreateUserMethod = "/" + ServiceName + "/CreateUser"
	GetUserMethod    = "/" + ServiceName + "/GetUser"
	UpdateUserMethod = "/" + ServiceName + "/UpdateUser"
	DeleteUserMethod = "/" + ServiceName + "/DeleteUser"
	ListUsersMethod  = "/" + ServiceName + "/ListUsers"
)

// UserServiceServer is the server API for the user directory service.
type UserServiceServer interface {
	CreateUser(context.Context, *CreateUserRequest) (*User, error)
	GetUser(context.Context, *GetUserRequest) (*User, error)
	UpdateUser(context.Context, *UpdateUserRequest) (*User, error)
	DeleteUser(context.Context, *DeleteUserRequest) (*DeleteUserResponse, error)
	ListUsers(context.Context, *ListUsersRequest) (*ListUsersResponse, error)
}

// unaryHandler adapts a typed server method to grpc.MethodHandler.
func unaryHandler[Req, Resp any](fullMethod string, call func(UserServiceServer, context.Context, *Req) (*Resp, error)) gogrpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor gogrpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(UserServiceServer), ctx, in)
		}
		info := &gogrpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(UserServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// UserServiceDesc describes the service for grpc.Server.RegisterService.
var UserServiceDesc = gogrpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*UserServiceServer)(nil),
	Methods: []gogrpc.MethodDesc{
		{MethodName: "CreateUser", Handler: unaryHandler(CreateUserMethod, UserServiceServer.CreateUser)},
		{MethodName: "GetUser", Handler: unaryHandler(GetUserMethod, UserServiceServer.GetUser)},
		{MethodName: "UpdateUser", Handler: unaryHandler(UpdateUserMethod, UserServiceServer.UpdateUser)},
		{MethodName: "DeleteUser", Handler: unaryHandler(DeleteUserMethod, UserServiceServer.DeleteUser)},
		{MethodName: "ListUsers", Handler: unaryHandler(ListUsersMethod, UserServiceServer.ListUsers)},
	},
	Streams:  []gogrpc.StreamDesc{},
	Metadata: "userdir/v1/user.json",
}

// RegisterUserServiceServer registers srv on s.
func RegisterUserServiceServer(s gogrpc.ServiceRegistrar, srv UserServiceServer) {
	s.RegisterService(&UserServiceDesc, srv)
}

// UserServiceClient is the client API for the user directory service.
type UserServiceClient struct {
	cc gogrpc.ClientConnInterface
}

// NewUserServiceClient creates a client that speaks the JSON codec over cc.
func NewUserServiceClient(cc gogrpc.ClientConnInterface) *UserServiceClient {
	return &UserServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc gogrpc.ClientConnInterface, method string, in any, opts []gogrpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]gogrpc.CallOption{gogrpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *UserServiceClient) CreateUser(ctx context.Context, in *CreateUserRequest, opts ...gogrpc.CallOption) (*User, error) {
	return invoke[User](ctx, c.cc, CreateUserMethod, in, opts)
}

func (c *UserServiceClient) GetUser(ctx context.Context, in *GetUserRequest, opts ...gogrpc.CallOption) (*User, error) {
	return invoke[User](ctx, c.cc, GetUserMethod, in, opts)
}

func (c *UserServiceClient) UpdateUser(ctx context.Context, in *UpdateUserRequest, opts ...gogrpc.CallOption) (*User, error) {
	return invoke[User](ctx, c.cc, UpdateUserMethod, in, opts)
}

func (c *UserServiceClient) DeleteUser(ctx context.Context, in *DeleteUserRequest, opts ...gogrpc.CallOption) (*DeleteUserResponse, error) {
	return invoke[DeleteUserResponse](ctx, c.cc, DeleteUserMethod, in, opts)
}

func (c *UserServiceClient) ListUsers(ctx context.Context, in *ListUsersRequest, opts ...gogrpc.CallOption) (*ListUsersResponse, error) {
	return invoke[ListUsersResponse](ctx, c.cc, ListUsersMethod, in, opts)
}
