package entities

import "time"

type Admin struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
