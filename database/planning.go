package database

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"planning-api/models"
)

const (
	listTasksQuery = `
		SELECT id, name, description, created_at, updated_at, status
		FROM planning
		ORDER BY id`

	createTaskQuery = `
		INSERT INTO planning (name, description, created_at, updated_at, status)
		VALUES ($1, $2, CURRENT_DATE, CURRENT_DATE, $3)
		RETURNING id`

	updateTaskQuery = `
		UPDATE planning
		SET name = $1, description = $2, updated_at = CURRENT_DATE, status = $3
		WHERE id = $4`

	deleteTaskQuery = `DELETE FROM planning WHERE id = $1`
)

// PlanningStore executa os comandos da tabela planning, um por chamada,
// sempre com uma conexão emprestada do pool.
type PlanningStore struct {
	pool *Pool
}

func NewPlanningStore(pool *Pool) *PlanningStore {
	return &PlanningStore{pool: pool}
}

// List retorna todas as tarefas. Sem linhas, devolve slice vazio.
func (s *PlanningStore) List(ctx context.Context) ([]models.Task, error) {
	tasks := []models.Task{}

	err := s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, listTasksQuery)
		if err != nil {
			return &QueryError{Statement: "list", Err: err}
		}
		defer rows.Close()

		for rows.Next() {
			var task models.Task
			var createdAt, updatedAt time.Time
			if err := rows.Scan(&task.ID, &task.Name, &task.Description, &createdAt, &updatedAt, &task.Status); err != nil {
				return &QueryError{Statement: "list", Err: err}
			}
			task.CreatedAt = models.NewDate(createdAt)
			task.UpdatedAt = models.NewDate(updatedAt)
			tasks = append(tasks, task)
		}
		if err := rows.Err(); err != nil {
			return &QueryError{Statement: "list", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Create insere a tarefa e retorna o id gerado pelo banco.
func (s *PlanningStore) Create(ctx context.Context, in models.TaskInput) (int64, error) {
	var id int64
	err := s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		if err := conn.QueryRowContext(ctx, createTaskQuery, in.Name, in.Description, in.Status).Scan(&id); err != nil {
			return &QueryError{Statement: "create", Err: err}
		}
		return nil
	})
	return id, err
}

// Update não verifica se alguma linha foi afetada.
func (s *PlanningStore) Update(ctx context.Context, id string, in models.TaskInput) error {
	taskID, err := parseID("update", id)
	if err != nil {
		return err
	}

	return s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		if _, err := conn.ExecContext(ctx, updateTaskQuery, in.Name, in.Description, in.Status, taskID); err != nil {
			return &QueryError{Statement: "update", Err: err}
		}
		return nil
	})
}

// Delete não verifica se alguma linha foi removida.
func (s *PlanningStore) Delete(ctx context.Context, id string) error {
	taskID, err := parseID("delete", id)
	if err != nil {
		return err
	}

	return s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		if _, err := conn.ExecContext(ctx, deleteTaskQuery, taskID); err != nil {
			return &QueryError{Statement: "delete", Err: err}
		}
		return nil
	})
}

// parseID converte o id da rota; um valor não numérico é tratado como falha do comando.
func parseID(statement, id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, &QueryError{Statement: statement, Err: err}
	}
	return n, nil
}
