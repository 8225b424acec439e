package model

import "time"

// User represents a staff member within a tenant. User CRUD lives
// outside this core; assignment resolution only needs ID and name.
type User struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
