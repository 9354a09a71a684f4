package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"planning-api/database"
	"planning-api/models"
	"planning-api/utilities"

	"github.com/gorilla/mux"
)

const (
	welcomePage = "<h1>Welcome to the planning server</h1>"

	msgServerError    = "server error"
	msgTaskDeleted    = "task deleted"
	msgInvalidBody    = "invalid request body"
	msgNotFound       = "not found"
	msgMethodNotAllow = "method not allowed"

	maxBodyBytes = 1 << 20
)

// TaskStore é o acesso à tabela planning usado pelos handlers.
type TaskStore interface {
	List(ctx context.Context) ([]models.Task, error)
	Create(ctx context.Context, in models.TaskInput) (int64, error)
	Update(ctx context.Context, id string, in models.TaskInput) error
	Delete(ctx context.Context, id string) error
}

type PlanningHandler struct {
	store TaskStore
}

func NewPlanningHandler(store TaskStore) *PlanningHandler {
	return &PlanningHandler{store: store}
}

// Welcome devolve a página inicial
func (h *PlanningHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(welcomePage))
}

// ListTasks lista todas as tarefas
func (h *PlanningHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	utilities.LogDebug("Iniciando listagem de tarefas")

	tasks, err := h.store.List(r.Context())
	if err != nil {
		serverError(w, r, err, "Erro ao listar tarefas")
		return
	}

	utilities.LogDebug("Tarefas listadas com sucesso - total: %d", len(tasks))
	writeJSON(w, http.StatusOK, tasks)
}

// CreateTask cria uma nova tarefa; created_at e updated_at são definidos pelo banco
func (h *PlanningHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	utilities.LogDebug("Iniciando criação de nova tarefa")

	in, ok := decodeTaskInput(w, r)
	if !ok {
		return
	}

	id, err := h.store.Create(r.Context(), in)
	if err != nil {
		serverError(w, r, err, "Erro ao inserir tarefa no banco de dados")
		return
	}

	utilities.LogInfo("Tarefa criada com sucesso (ID: %d)", id)
	writeJSON(w, http.StatusOK, models.CreatedTask{ID: id, TaskInput: in})
}

// UpdateTask atualiza uma tarefa. Responde 200 mesmo que nenhuma linha tenha o id informado.
func (h *PlanningHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["id"]
	utilities.LogDebug("Iniciando atualização da tarefa %s", taskID)

	in, ok := decodeTaskInput(w, r)
	if !ok {
		return
	}

	if err := h.store.Update(r.Context(), taskID, in); err != nil {
		serverError(w, r, err, "Erro ao atualizar tarefa "+taskID)
		return
	}

	utilities.LogInfo("Tarefa atualizada: %s", taskID)
	writeJSON(w, http.StatusOK, models.UpdatedTask{ID: taskID, TaskInput: in})
}

// DeleteTask remove uma tarefa. Responde 200 mesmo que nenhuma linha tenha o id informado.
func (h *PlanningHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["id"]
	utilities.LogDebug("Iniciando exclusão da tarefa %s", taskID)

	if err := h.store.Delete(r.Context(), taskID); err != nil {
		serverError(w, r, err, "Erro ao excluir tarefa "+taskID)
		return
	}

	utilities.LogInfo("Tarefa excluída: %s", taskID)
	writeJSON(w, http.StatusOK, models.Message{Message: msgTaskDeleted})
}

// NotFoundHandler responde rotas inexistentes em JSON
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, models.Message{Message: msgNotFound})
}

func MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, models.Message{Message: msgMethodNotAllow})
}

func decodeTaskInput(w http.ResponseWriter, r *http.Request) (models.TaskInput, bool) {
	var in models.TaskInput

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(&in)
	if err == nil {
		// o corpo deve conter um único valor JSON
		if extra := dec.Decode(&struct{}{}); !errors.Is(extra, io.EOF) {
			err = errors.New("unexpected data after JSON body")
		}
	}
	if err != nil {
		utilities.LogError(err, "["+RequestID(r.Context())+"] Erro ao decodificar JSON da tarefa")
		writeJSON(w, http.StatusBadRequest, models.Message{Message: msgInvalidBody})
		return models.TaskInput{}, false
	}
	return in, true
}

// serverError registra o erro com o tipo (conexão ou comando) e responde 500 sem detalhes.
func serverError(w http.ResponseWriter, r *http.Request, err error, action string) {
	kind := "erro"
	var connErr *database.ConnectionError
	var queryErr *database.QueryError
	switch {
	case errors.As(err, &connErr):
		kind = "conexão"
	case errors.As(err, &queryErr):
		kind = "comando"
	}

	utilities.LogError(err, "["+RequestID(r.Context())+"] "+action+" ("+kind+")")
	writeJSON(w, http.StatusInternalServerError, models.Message{Message: msgServerError})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utilities.LogError(err, "Erro ao escrever resposta JSON")
	}
}
