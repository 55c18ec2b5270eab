package model

import "time"

type Case struct {
	UUID        string    `db:"uuid" json:"id"`
	ClientUUID  string    `db:"client_uuid" json:"client_id"`
	Title       string    `db:"title" json:"title"`
	Category    string    `db:"category" json:"category"`
	ServiceType string    `db:"service_type" json:"service_type"`
	Status      string    `db:"status" json:"status"`
	Progress    int       `db:"progress" json:"progress"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Статусы дела. Новое дело всегда создаётся в StatusPending,
// дальше статус меняют внешние процессы ведения дела.
const (
	StatusActive   = "active"
	StatusPending  = "pending"
	StatusInReview = "in_review"
	StatusClosed   = "closed"
)

type Document struct {
	UUID      string    `db:"uuid" json:"uuid"`
	CaseUUID  string    `db:"case_uuid" json:"case_id"`
	Name      string    `db:"name" json:"name"`
	FilePath  string    `db:"file_path" json:"file_path"`
	FileType  string    `db:"file_type" json:"file_type"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
