package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"workload-node/internal/auth"
	"workload-node/internal/config"
	"workload-node/internal/db"
	"workload-node/internal/logger"
	"workload-node/internal/workload"
)

const maxBodyBytes = 1 << 20

// NewRouter собирает маршруты операторского HTTP API узла
func NewRouter() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", HandleHealth).Methods("GET")

	protected := r.PathPrefix("/api/v1").Subrouter()
	protected.Use(auth.AuthMiddleware)
	protected.HandleFunc("/compute", HandleCompute).Methods("POST")
	protected.HandleFunc("/results", HandleGetResults).Methods("GET")
	protected.HandleFunc("/results/{id}", HandleGetResultByID).Methods("GET")

	return r
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	nodeID := ""
	if config.AppConfig != nil {
		nodeID = config.AppConfig.NodeID
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "node_id": nodeID})
}

// HandleCompute считает результат для дескриптора задачи из тела запроса
func HandleCompute(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	}

	task, err := workload.ParseTask(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if limit := maxShardSize(); limit > 0 && task.ShardSize > limit {
		http.Error(w, fmt.Sprintf("shard_size %d exceeds limit %d", task.ShardSize, limit), http.StatusRequestEntityTooLarge)
		return
	}

	kind := workload.Route(task)
	logger.LogINFO(fmt.Sprintf("Received compute request %q routed to %s", task.TaskID, kind))

	result, err := workload.Dispatch(task)
	if err != nil {
		if errors.Is(err, workload.ErrInvalidShardSize) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if task.TaskID != "" && db.DB != nil {
		rec := db.ResultRecord{
			TaskID:      task.TaskID,
			Kind:        string(kind),
			Fingerprint: workload.Fingerprint(task),
			OutputHash:  result.OutputHash,
			OutputValue: result.OutputValue,
			ComputedAt:  time.Now(),
		}
		if err := db.SaveResult(rec); err != nil {
			logger.LogERROR("Journal save " + task.TaskID + ": " + err.Error())
		}
	}

	writeJSON(w, http.StatusOK, result)
}

func HandleGetResults(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	records, err := db.ListResults(limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]db.ResultRecord{"results": records})
}

func HandleGetResultByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rec, err := db.GetResult(id)
	if err != nil {
		if errors.Is(err, db.ErrResultNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func maxShardSize() int {
	if config.AppConfig == nil {
		return 0
	}
	return config.AppConfig.MaxShardSize
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.LogERROR("Failed to encode response: " + err.Error())
	}
}
