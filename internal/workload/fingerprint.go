package workload

import "encoding/json"

// fingerprintInput - все, от чего зависит результат выбранного ядра
type fingerprintInput struct {
	Kind      Kind       `json:"kind"`
	Seed      string     `json:"seed"`
	ShardSize int        `json:"shard_size"`
	Candidate string     `json:"candidate"`
	Responses []Response `json:"responses"`
}

// Fingerprint возвращает SHA-256 входных данных задачи после маршрутизации.
// Две задачи с одинаковым отпечатком дают одинаковый Result, поэтому отпечаток
// годится для сверки записи журнала с задачей, пришедшей под тем же task_id.
// TaskID и Extra в отпечаток не входят.
func Fingerprint(task Task) string {
	in := fingerprintInput{
		Kind:      Route(task),
		Seed:      task.Seed,
		ShardSize: task.ShardSize,
		Candidate: task.Candidate,
		Responses: task.Responses,
	}
	// структура из строк, чисел и срезов всегда сериализуется
	data, _ := json.Marshal(in)
	return Hash(string(data))
}
