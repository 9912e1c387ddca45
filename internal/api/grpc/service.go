package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified name of the migration service
const ServiceName = "jts.v1.MigrationService"

const (
	cloneIssueMethod      = "/" + ServiceName + "/CloneIssue"
	listIssuesMethod      = "/" + ServiceName + "/ListIssues"
	checkConnectionMethod = "/" + ServiceName + "/CheckConnection"
)

// MigrationServiceServer is the server API for the migration service.
// Requests and responses are free-form structs keyed by snake_case names.
type MigrationServiceServer interface {
	CloneIssue(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListIssues(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	CheckConnection(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// RegisterMigrationServiceServer registers srv with s
func RegisterMigrationServiceServer(s grpc.ServiceRegistrar, srv MigrationServiceServer) {
	s.RegisterService(&migrationServiceDesc, srv)
}

var migrationServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MigrationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CloneIssue",
			Handler: unaryHandler(cloneIssueMethod, func(srv MigrationServiceServer) unaryFunc {
				return srv.CloneIssue
			}),
		},
		{
			MethodName: "ListIssues",
			Handler: unaryHandler(listIssuesMethod, func(srv MigrationServiceServer) unaryFunc {
				return srv.ListIssues
			}),
		},
		{
			MethodName: "CheckConnection",
			Handler: unaryHandler(checkConnectionMethod, func(srv MigrationServiceServer) unaryFunc {
				return srv.CheckConnection
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "jts/v1/migration.proto",
}

type unaryFunc func(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, method func(MigrationServiceServer) unaryFunc) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}

		call := method(srv.(MigrationServiceServer))
		if interceptor == nil {
			return call(ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// MigrationServiceClient is the client API for the migration service
type MigrationServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewMigrationServiceClient creates a client over cc
func NewMigrationServiceClient(cc grpc.ClientConnInterface) *MigrationServiceClient {
	return &MigrationServiceClient{cc: cc}
}

// CloneIssue clones source_key into project_key
func (c *MigrationServiceClient) CloneIssue(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, cloneIssueMethod, req, opts...)
}

// ListIssues lists the issues assigned to the configured user
func (c *MigrationServiceClient) ListIssues(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, listIssuesMethod, req, opts...)
}

// CheckConnection reports whether Jira accepts the configured credentials
func (c *MigrationServiceClient) CheckConnection(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, checkConnectionMethod, req, opts...)
}

func (c *MigrationServiceClient) invoke(ctx context.Context, method string, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if req == nil {
		req = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
