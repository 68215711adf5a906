// Package v1alpha1 serves the dungeon gRPC service. Messages are
// google.protobuf.Struct values so the service needs no generated code.
package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "dungeon.v1alpha1.DungeonService"

// Full method names
const (
	CreateDungeonMethod = "/" + ServiceName + "/CreateDungeon"
	GetDungeonMethod    = "/" + ServiceName + "/GetDungeon"
	ListDungeonsMethod  = "/" + ServiceName + "/ListDungeons"
	DeleteDungeonMethod = "/" + ServiceName + "/DeleteDungeon"
	SubmitCommandMethod = "/" + ServiceName + "/SubmitCommand"
)

// DungeonServiceServer is the server API for the dungeon service
type DungeonServiceServer interface {
	CreateDungeon(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetDungeon(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListDungeons(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteDungeon(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SubmitCommand(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterDungeonServiceServer registers the dungeon service on a gRPC server
func RegisterDungeonServiceServer(s grpc.ServiceRegistrar, srv DungeonServiceServer) {
	s.RegisterService(&DungeonServiceDesc, srv)
}

type unaryMethod func(DungeonServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DungeonServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(DungeonServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// DungeonServiceDesc is the grpc.ServiceDesc for the dungeon service
var DungeonServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DungeonServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateDungeon",
			Handler:    unaryHandler(CreateDungeonMethod, DungeonServiceServer.CreateDungeon),
		},
		{
			MethodName: "GetDungeon",
			Handler:    unaryHandler(GetDungeonMethod, DungeonServiceServer.GetDungeon),
		},
		{
			MethodName: "ListDungeons",
			Handler:    unaryHandler(ListDungeonsMethod, DungeonServiceServer.ListDungeons),
		},
		{
			MethodName: "DeleteDungeon",
			Handler:    unaryHandler(DeleteDungeonMethod, DungeonServiceServer.DeleteDungeon),
		},
		{
			MethodName: "SubmitCommand",
			Handler:    unaryHandler(SubmitCommandMethod, DungeonServiceServer.SubmitCommand),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dungeon/v1alpha1/dungeon.proto",
}
