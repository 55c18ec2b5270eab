package model

import "time"

// GuestDocument : загрузка анонимного посетителя до входа.
// Не принадлежит пользователю, ключ — session_id браузера.
// Удаляется либо явно, либо при переносе в дело (ассоциации).
type GuestDocument struct {
	UUID      string    `db:"uuid" json:"uuid"`
	SessionID string    `db:"session_id" json:"session_id"`
	Name      string    `db:"name" json:"name"`
	FilePath  string    `db:"file_path" json:"file_path"`
	FileType  string    `db:"file_type" json:"file_type"`
	CaseType  string    `db:"case_type" json:"case_type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
