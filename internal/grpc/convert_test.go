package grpc

import (
	"encoding/json"
	"errors"
	"testing"

	"google.golang.org/protobuf/types/known/structpb"

	"workload-node/internal/workload"
)

func TestTaskStructRoundTrip(t *testing.T) {
	idx := 2
	original := workload.Task{
		TaskID:        "t-9",
		TaskType:      workload.TypeMonteCarlo,
		Seed:          "seed",
		ShardSize:     1048576,
		ConsensusMode: workload.ModeVerify,
		Phase:         workload.PhaseVerify,
		Candidate:     "00ff",
		Responses:     []workload.Response{{OutputHash: "h", OutputValue: "PERIODIC", Index: &idx}},
		Extra:         map[string]json.RawMessage{"region": json.RawMessage(`"eu"`)},
	}

	s, err := TaskToStruct(original)
	if err != nil {
		t.Fatalf("TaskToStruct() error = %v", err)
	}
	decoded, err := TaskFromStruct(s)
	if err != nil {
		t.Fatalf("TaskFromStruct() error = %v", err)
	}

	if decoded.TaskID != original.TaskID || decoded.ShardSize != original.ShardSize || decoded.Candidate != original.Candidate {
		t.Errorf("Decoded task differs: %+v", decoded)
	}
	if len(decoded.Responses) != 1 || decoded.Responses[0].Index == nil || *decoded.Responses[0].Index != 2 {
		t.Errorf("Responses lost in transport: %+v", decoded.Responses)
	}
	if string(decoded.Extra["region"]) != `"eu"` {
		t.Errorf("Extra lost in transport: %v", decoded.Extra)
	}
}

func TestTaskFromStructInvalid(t *testing.T) {
	if _, err := TaskFromStruct(nil); !errors.Is(err, ErrMalformedMessage) {
		t.Errorf("Expected ErrMalformedMessage, got %v", err)
	}

	s, _ := structpb.NewStruct(map[string]interface{}{"seed": 5.0})
	if _, err := TaskFromStruct(s); !errors.Is(err, workload.ErrInvalidTask) {
		t.Errorf("Expected ErrInvalidTask, got %v", err)
	}

	resp := &structpb.Struct{Fields: map[string]*structpb.Value{"has_task": structpb.NewBoolValue(true)}}
	if _, err := taskFromResponse(resp); !errors.Is(err, ErrMalformedMessage) {
		t.Errorf("Expected ErrMalformedMessage, got %v", err)
	}
}

func TestResultStruct(t *testing.T) {
	tests := []struct {
		name    string
		in      *structpb.Struct
		want    TaskResult
		wantErr error
	}{
		{
			name: "Full result",
			in:   ResultToStruct(TaskResult{TaskID: "a", NodeID: "n", OutputHash: "h", OutputValue: "v", Error: "e"}),
			want: TaskResult{TaskID: "a", NodeID: "n", OutputHash: "h", OutputValue: "v", Error: "e"},
		},
		{
			name: "Hash only",
			in:   ResultToStruct(TaskResult{TaskID: "a", OutputHash: "h"}),
			want: TaskResult{TaskID: "a", OutputHash: "h"},
		},
		{
			name:    "Missing task id",
			in:      &structpb.Struct{Fields: map[string]*structpb.Value{"output_hash": structpb.NewStringValue("h")}},
			wantErr: ErrMalformedMessage,
		},
		{
			name:    "Numeric task id",
			in:      &structpb.Struct{Fields: map[string]*structpb.Value{"task_id": structpb.NewNumberValue(1)}},
			wantErr: ErrMalformedMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResultFromStruct(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ResultFromStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResultFromStruct() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAck(t *testing.T) {
	ok := Ack(nil)
	if !ok.GetFields()["success"].GetBoolValue() {
		t.Error("Expected success")
	}

	failed := Ack(errors.New("boom"))
	if failed.GetFields()["success"].GetBoolValue() || failed.GetFields()["error"].GetStringValue() != "boom" {
		t.Errorf("Unexpected ack: %v", failed)
	}
}
