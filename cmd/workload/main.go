// Command workload считает результат одной задачи: дескриптор читается из файла
// (первый аргумент) или из stdin, результат печатается в stdout в JSON.
//
// Размер шарда ограничен переменной MAX_SHARD_SIZE (по умолчанию 8192, 0 - без
// ограничения), как и у агента.
//
// Коды выхода: 0 - успех, 1 - ошибка вычисления, 2 - некорректный дескриптор или
// шард больше допустимого.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/caarlos0/env/v11"

	"workload-node/internal/workload"
)

const (
	exitOK           = 0
	exitComputeError = 1
	exitBadInput     = 2
)

type limits struct {
	MaxShardSize int `env:"MAX_SHARD_SIZE" envDefault:"8192"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) > 1 {
		fmt.Fprintln(stderr, "usage: workload [descriptor.json]")
		return exitBadInput
	}

	var data []byte
	var err error
	if len(args) == 1 && args[0] != "-" {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(stdin)
	}
	if err != nil {
		fmt.Fprintln(stderr, "read descriptor:", err)
		return exitBadInput
	}

	var lim limits
	if err := env.Parse(&lim); err != nil {
		fmt.Fprintln(stderr, "parse env:", err)
		return exitBadInput
	}

	task, err := workload.ParseTask(data)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitBadInput
	}
	if lim.MaxShardSize > 0 && task.ShardSize > lim.MaxShardSize {
		fmt.Fprintf(stderr, "shard_size %d exceeds MAX_SHARD_SIZE %d\n", task.ShardSize, lim.MaxShardSize)
		return exitBadInput
	}

	result, err := workload.Dispatch(task)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitComputeError
	}

	if err := json.NewEncoder(stdout).Encode(result); err != nil {
		fmt.Fprintln(stderr, "write result:", err)
		return exitComputeError
	}
	return exitOK
}
