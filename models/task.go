package models

import (
	"encoding/json"
	"time"
)

const dateLayout = "2006-01-02"

// Date é uma data sem horário, serializada como "YYYY-MM-DD".
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Task é uma linha da tabela planning.
type Task struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   Date   `json:"created_at"`
	UpdatedAt   Date   `json:"updated_at"`
	Status      string `json:"status"`
}

// TaskInput é o corpo aceito por POST e PUT. Campos ausentes chegam ao banco como NULL.
type TaskInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// CreatedTask é a resposta do POST: o id gerado mais os campos enviados.
type CreatedTask struct {
	ID int64 `json:"id"`
	TaskInput
}

// UpdatedTask é a resposta do PUT; o id é devolvido como veio na rota.
type UpdatedTask struct {
	ID string `json:"id"`
	TaskInput
}

type Message struct {
	Message string `json:"message"`
}
