package model

import "time"

type User struct {
	UUID         string    `db:"uuid" json:"uuid"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Profile : профиль клиента, заполняется при регистрации и из Google OAuth
type Profile struct {
	UUID      string    `db:"uuid" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	AvatarURL string    `db:"avatar_url" json:"avatar_url,omitempty"`
	Role      string    `db:"role" json:"role"`
	State     string    `db:"state" json:"state"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

const (
	RoleClient = "client"
	RoleLawyer = "lawyer"
	RoleAdmin  = "admin"
)
