package workload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ParseTask разбирает JSON-дескриптор задачи.
// Неизвестные ключи сохраняются в Extra, отсутствующие получают нулевые значения.
// Ошибка возвращается только для дескриптора, который нельзя разобрать.
func ParseTask(data []byte) (Task, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Task{}, fmt.Errorf("%w: %v", ErrInvalidTask, err)
	}
	if fields == nil {
		return Task{}, fmt.Errorf("%w: descriptor is not an object", ErrInvalidTask)
	}

	var task Task
	for key, raw := range fields {
		var err error
		switch key {
		case "task_id":
			task.TaskID, err = decodeID(raw)
		case "task_type":
			err = decodeString(raw, &task.TaskType)
		case "seed":
			err = decodeString(raw, &task.Seed)
		case "shard_size":
			task.ShardSize, err = decodeShardSize(raw)
		case "consensus_mode":
			err = decodeString(raw, &task.ConsensusMode)
		case "phase":
			err = decodeString(raw, &task.Phase)
		case "candidate":
			err = decodeString(raw, &task.Candidate)
		case "responses":
			err = json.Unmarshal(raw, &task.Responses)
		default:
			if task.Extra == nil {
				task.Extra = make(map[string]json.RawMessage)
			}
			task.Extra[key] = raw
		}
		if err != nil {
			return Task{}, fmt.Errorf("%w: field %q: %v", ErrInvalidTask, key, err)
		}
	}

	return task, nil
}

// MarshalJSON собирает дескриптор обратно, включая неизвестные ключи.
func (t Task) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(t.Extra)+8)
	for key, raw := range t.Extra {
		out[key] = raw
	}

	out["task_id"] = t.TaskID
	out["task_type"] = t.TaskType
	out["seed"] = t.Seed
	out["shard_size"] = t.ShardSize
	out["consensus_mode"] = t.ConsensusMode
	out["phase"] = t.Phase
	if t.Candidate != "" {
		out["candidate"] = t.Candidate
	}
	if t.Responses != nil {
		out["responses"] = t.Responses
	}

	return json.Marshal(out)
}

func (t *Task) UnmarshalJSON(data []byte) error {
	parsed, err := ParseTask(data)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func decodeString(raw json.RawMessage, target *string) error {
	if isNull(raw) {
		return nil
	}
	return json.Unmarshal(raw, target)
}

// decodeID принимает идентификатор как строку или число
func decodeID(raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return "", fmt.Errorf("task_id must be a string or a number")
	}
	return n.String(), nil
}

func decodeShardSize(raw json.RawMessage) (int, error) {
	if isNull(raw) {
		return 0, nil
	}

	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return 0, err
	}

	size, err := strconv.ParseInt(n.String(), 10, 0)
	if err != nil {
		// допускаем целые числа, записанные как 16.0
		f, ferr := n.Float64()
		if ferr != nil || f != float64(int64(f)) {
			return 0, fmt.Errorf("shard_size must be an integer")
		}
		size = int64(f)
	}
	if size < 0 {
		return 0, fmt.Errorf("shard_size must not be negative")
	}
	return int(size), nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
