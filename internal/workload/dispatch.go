package workload

// Route выбирает вычислительное ядро для задачи.
//
// Правила проверяются строго по порядку, срабатывает первое подходящее. Задача,
// которой не хватает обязательного поля (например, verify/verify без кандидата),
// проваливается к следующим правилам, а в конце к цепочке SHA.
func Route(task Task) Kind {
	switch {
	case task.ConsensusMode == ModeVerify && task.Phase == PhaseSearch:
		return KindHashSearch
	case task.ConsensusMode == ModeVerify && task.Phase == PhaseVerify && task.Candidate != "":
		return KindVerifyCandidate
	case task.ConsensusMode == ModeVote && task.Phase == PhaseProduce:
		return KindClassify
	case task.ConsensusMode == ModeVote && task.Phase == PhaseJudge && task.Responses != nil:
		return KindJudge
	case task.ConsensusMode == ModeNumericTolerance:
		return KindSimulation
	case task.TaskType == TypeFFT || task.TaskType == TypeSpectral:
		return KindSpectral
	case task.TaskType == TypeMonteCarlo:
		return KindMonteCarlo
	default:
		// sha_chain и все неизвестные типы
		return KindSHAChain
	}
}

// Dispatch считает результат задачи выбранным ядром.
// Единственная возможная ошибка - ErrInvalidShardSize: Monte Carlo без выборки
// или спектр, длина которого не помещается в int.
func Dispatch(task Task) (Result, error) {
	switch Route(task) {
	case KindHashSearch:
		return HashSearch(task.Seed, task.ShardSize), nil
	case KindVerifyCandidate:
		return VerifyCandidate(task.Seed, task.ShardSize, task.Candidate), nil
	case KindClassify:
		return Classify(task.Seed, task.ShardSize)
	case KindJudge:
		return Judge(task.Seed, task.ShardSize, task.Responses)
	case KindSimulation:
		return Simulation(task.Seed, task.ShardSize)
	case KindSpectral:
		return Spectral(task.Seed, task.ShardSize)
	case KindMonteCarlo:
		return MonteCarlo(task.Seed, task.ShardSize)
	default:
		return SHAChain(task.Seed, task.ShardSize), nil
	}
}

// Compute разбирает дескриптор и считает результат
func Compute(descriptor []byte) (Result, error) {
	task, err := ParseTask(descriptor)
	if err != nil {
		return Result{}, err
	}
	return Dispatch(task)
}
