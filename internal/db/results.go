package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Ошибки
var (
	ErrNotInitialized = errors.New("database is not initialized")
	ErrResultNotFound = errors.New("result not found")
	ErrEmptyTaskID    = errors.New("task id is empty")
)

// фиксированная ширина дробной части, чтобы строки сортировались как время
const timeLayout = "2006-01-02 15:04:05.000000000"

const defaultListLimit = 100

// ResultRecord - запись журнала о вычисленной задаче
type ResultRecord struct {
	TaskID      string    `json:"task_id"`
	Kind        string    `json:"kind"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	OutputHash  string    `json:"output_hash"`
	OutputValue string    `json:"output_value,omitempty"`
	Error       string    `json:"error,omitempty"`
	ComputedAt  time.Time `json:"computed_at"`
}

// SaveResult записывает результат; повторная запись с тем же task_id заменяет предыдущую
func SaveResult(rec ResultRecord) error {
	if DB == nil {
		return ErrNotInitialized
	}
	if rec.TaskID == "" {
		return ErrEmptyTaskID
	}
	if rec.ComputedAt.IsZero() {
		rec.ComputedAt = time.Now()
	}

	_, err := DB.Exec(`
		INSERT INTO results (task_id, kind, fingerprint, output_hash, output_value, error, computed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(task_id) DO UPDATE SET
			kind = excluded.kind,
			fingerprint = excluded.fingerprint,
			output_hash = excluded.output_hash,
			output_value = excluded.output_value,
			error = excluded.error,
			computed_at = excluded.computed_at`,
		rec.TaskID, rec.Kind, rec.Fingerprint, rec.OutputHash, rec.OutputValue, rec.Error,
		rec.ComputedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("save result %s: %w", rec.TaskID, err)
	}
	return nil
}

// GetResult возвращает запись по task_id или ErrResultNotFound
func GetResult(taskID string) (*ResultRecord, error) {
	if DB == nil {
		return nil, ErrNotInitialized
	}

	row := DB.QueryRow(
		"SELECT task_id, kind, fingerprint, output_hash, output_value, error, computed_at FROM results WHERE task_id = ?",
		taskID,
	)
	rec, err := scanResult(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("get result %s: %w", taskID, err)
	}
	return rec, nil
}

// ListResults возвращает последние записи, новые первыми
func ListResults(limit int) ([]ResultRecord, error) {
	if DB == nil {
		return nil, ErrNotInitialized
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := DB.Query(
		"SELECT task_id, kind, fingerprint, output_hash, output_value, error, computed_at FROM results ORDER BY computed_at DESC, task_id LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	records := []ResultRecord{}
	for rows.Next() {
		rec, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("list results: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(s scanner) (*ResultRecord, error) {
	var rec ResultRecord
	var computedAt string
	if err := s.Scan(&rec.TaskID, &rec.Kind, &rec.Fingerprint, &rec.OutputHash, &rec.OutputValue, &rec.Error, &computedAt); err != nil {
		return nil, err
	}

	t, err := time.ParseInLocation(timeLayout, computedAt, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parse computed_at %q: %w", computedAt, err)
	}
	rec.ComputedAt = t
	return &rec, nil
}

// Journal дает доступ к журналу через методы, для тех, кто принимает интерфейс хранилища
type Journal struct{}

func (Journal) SaveResult(rec ResultRecord) error {
	return SaveResult(rec)
}

func (Journal) GetResult(taskID string) (*ResultRecord, error) {
	return GetResult(taskID)
}

func (Journal) ListResults(limit int) ([]ResultRecord, error) {
	return ListResults(limit)
}
