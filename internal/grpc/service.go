package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Сообщения сервиса - стандартные типы protobuf (Empty, Struct), дескриптор задачи
// передается как Struct целиком, вместе с неизвестными полями
const (
	ServiceName              = "workload.v1.TaskService"
	getTaskFullMethod        = "/" + ServiceName + "/GetTask"
	sendTaskResultFullMethod = "/" + ServiceName + "/SendTaskResult"
)

// TaskServiceServer реализуется координатором
type TaskServiceServer interface {
	// GetTask возвращает {"has_task": bool, "task": {...дескриптор}}
	GetTask(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	// SendTaskResult принимает результат и возвращает {"success": bool, "error": string}
	SendTaskResult(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterTaskServiceServer регистрирует реализацию сервиса на сервере
func RegisterTaskServiceServer(s grpc.ServiceRegistrar, srv TaskServiceServer) {
	s.RegisterService(&TaskServiceDesc, srv)
}

func getTaskHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TaskServiceServer).GetTask(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: getTaskFullMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TaskServiceServer).GetTask(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func sendTaskResultHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TaskServiceServer).SendTaskResult(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: sendTaskResultFullMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TaskServiceServer).SendTaskResult(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var TaskServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TaskServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetTask",
			Handler:    getTaskHandler,
		},
		{
			MethodName: "SendTaskResult",
			Handler:    sendTaskResultHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "workload/v1/task_service.proto",
}
