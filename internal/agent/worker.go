package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"workload-node/internal/db"
	"workload-node/internal/logger"
	"workload-node/internal/workload"
)

var ErrShardTooLarge = errors.New("shard_size exceeds node limit")

// Worker обрабатывает поступающие задачи из канала до его закрытия
func (a *Agent) Worker(ctx context.Context, tasksChan <-chan workload.Task, workerID int) {
	for task := range tasksChan {
		logger.LogINFO(fmt.Sprintf("Worker %d received task %s (%s)", workerID, task.TaskID, workload.Route(task)))

		result := a.Process(task)

		if err := a.client.SendTaskResult(ctx, result); err != nil {
			// результат остается в журнале и уйдет повторно, если задачу выдадут снова
			logger.LogERROR(fmt.Sprintf("Worker %d: ошибка отправки результата %s: %v", workerID, task.TaskID, err))
			continue
		}
	}
}

// Process возвращает результат задачи: из журнала, если там есть запись с тем же
// отпечатком входных данных, иначе считает его и записывает в журнал.
// Под одним task_id координатор может выдать несколько фаз консенсуса, поэтому
// одного совпадения id для повтора недостаточно.
func (a *Agent) Process(task workload.Task) TaskResult {
	fingerprint := workload.Fingerprint(task)

	if task.TaskID != "" && a.store != nil {
		rec, err := a.store.GetResult(task.TaskID)
		switch {
		case err == nil && rec.Fingerprint == fingerprint:
			logger.LogINFO("Task " + task.TaskID + " found in journal, resending")
			return TaskResult{
				TaskID: rec.TaskID,
				Result: workload.Result{OutputHash: rec.OutputHash, OutputValue: rec.OutputValue},
				Error:  rec.Error,
			}
		case err == nil:
			logger.LogINFO(fmt.Sprintf("Task %s in journal has other inputs (%s), recomputing", task.TaskID, rec.Kind))
		case !errors.Is(err, db.ErrResultNotFound):
			logger.LogERROR("Journal lookup " + task.TaskID + ": " + err.Error())
		}
	}

	result, final := a.compute(task)

	if final && task.TaskID != "" && a.store != nil {
		rec := db.ResultRecord{
			TaskID:      task.TaskID,
			Kind:        string(workload.Route(task)),
			Fingerprint: fingerprint,
			OutputHash:  result.Result.OutputHash,
			OutputValue: result.Result.OutputValue,
			Error:       result.Error,
			ComputedAt:  time.Now(),
		}
		if err := a.store.SaveResult(rec); err != nil {
			logger.LogERROR("Journal save " + task.TaskID + ": " + err.Error())
		}
	}

	return result
}

// compute считает результат. final = false для отказа по лимиту узла: такой
// ответ зависит от настроек, а не от задачи, и в журнал не попадает.
func (a *Agent) compute(task workload.Task) (TaskResult, bool) {
	if a.maxShardSize > 0 && task.ShardSize > a.maxShardSize {
		err := fmt.Errorf("%w: %d > %d", ErrShardTooLarge, task.ShardSize, a.maxShardSize)
		logger.LogERROR("Task " + task.TaskID + ": " + err.Error())
		return TaskResult{TaskID: task.TaskID, Error: err.Error()}, false
	}

	res, err := workload.Dispatch(task)
	if err != nil {
		logger.LogERROR("Task " + task.TaskID + ": " + err.Error())
		return TaskResult{TaskID: task.TaskID, Error: err.Error()}, true
	}
	return TaskResult{TaskID: task.TaskID, Result: res}, true
}
