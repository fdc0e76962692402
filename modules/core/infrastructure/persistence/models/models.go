package models

import "time"

type User struct {
	ID        int64
	Name      string
	Email     string
	Role      string
	Category  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
