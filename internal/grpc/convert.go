package grpc

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"workload-node/internal/workload"
)

var ErrMalformedMessage = errors.New("malformed message")

// TaskResult - результат задачи в том виде, в котором он уходит координатору
type TaskResult struct {
	TaskID      string
	NodeID      string
	OutputHash  string
	OutputValue string
	Error       string
}

// TaskToStruct кодирует дескриптор задачи, включая неизвестные поля
func TaskToStruct(task workload.Task) (*structpb.Struct, error) {
	data, err := task.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode task: %w", err)
	}
	s := &structpb.Struct{}
	if err := s.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("encode task: %w", err)
	}
	return s, nil
}

// TaskFromStruct декодирует дескриптор теми же правилами, что и workload.ParseTask
func TaskFromStruct(s *structpb.Struct) (workload.Task, error) {
	if s == nil {
		return workload.Task{}, fmt.Errorf("%w: empty task", ErrMalformedMessage)
	}
	data, err := s.MarshalJSON()
	if err != nil {
		return workload.Task{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return workload.ParseTask(data)
}

// TaskResponse собирает ответ GetTask; nil означает отсутствие задачи
func TaskResponse(task *workload.Task) (*structpb.Struct, error) {
	if task == nil {
		return &structpb.Struct{Fields: map[string]*structpb.Value{
			"has_task": structpb.NewBoolValue(false),
		}}, nil
	}
	ts, err := TaskToStruct(*task)
	if err != nil {
		return nil, err
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"has_task": structpb.NewBoolValue(true),
		"task":     structpb.NewStructValue(ts),
	}}, nil
}

// taskFromResponse разбирает ответ GetTask
func taskFromResponse(resp *structpb.Struct) (*workload.Task, error) {
	fields := resp.GetFields()
	if !fields["has_task"].GetBoolValue() {
		return nil, nil
	}
	ts := fields["task"].GetStructValue()
	if ts == nil {
		return nil, fmt.Errorf("%w: has_task without task", ErrMalformedMessage)
	}
	task, err := TaskFromStruct(ts)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func ResultToStruct(r TaskResult) *structpb.Struct {
	fields := map[string]*structpb.Value{
		"task_id":     structpb.NewStringValue(r.TaskID),
		"output_hash": structpb.NewStringValue(r.OutputHash),
	}
	if r.NodeID != "" {
		fields["node_id"] = structpb.NewStringValue(r.NodeID)
	}
	if r.OutputValue != "" {
		fields["output_value"] = structpb.NewStringValue(r.OutputValue)
	}
	if r.Error != "" {
		fields["error"] = structpb.NewStringValue(r.Error)
	}
	return &structpb.Struct{Fields: fields}
}

func ResultFromStruct(s *structpb.Struct) (TaskResult, error) {
	fields := s.GetFields()
	id, ok := fields["task_id"]
	if !ok {
		return TaskResult{}, fmt.Errorf("%w: task_id is missing", ErrMalformedMessage)
	}
	if _, isString := id.GetKind().(*structpb.Value_StringValue); !isString {
		return TaskResult{}, fmt.Errorf("%w: task_id is not a string", ErrMalformedMessage)
	}
	return TaskResult{
		TaskID:      id.GetStringValue(),
		NodeID:      fields["node_id"].GetStringValue(),
		OutputHash:  fields["output_hash"].GetStringValue(),
		OutputValue: fields["output_value"].GetStringValue(),
		Error:       fields["error"].GetStringValue(),
	}, nil
}

// Ack собирает ответ SendTaskResult
func Ack(err error) *structpb.Struct {
	fields := map[string]*structpb.Value{
		"success": structpb.NewBoolValue(err == nil),
	}
	if err != nil {
		fields["error"] = structpb.NewStringValue(err.Error())
	}
	return &structpb.Struct{Fields: fields}
}
