package domain

import "time"

type User struct {
	ID        int64     `json:"id"         db:"id"`
	Name      string    `json:"name"       db:"name"`
	LastName  string    `json:"last_name"  db:"last_name"`
	Email     string    `json:"email"      db:"email"`
	Age       int       `json:"age"        db:"age"`
	Address   string    `json:"address"    db:"address"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (u User) FullName() string { return u.Name + " " + u.LastName }

// AuditFields is the snapshot recorded in audit logs.
func (u User) AuditFields() map[string]any {
	return map[string]any{
		"id":        u.ID,
		"name":      u.Name,
		"last_name": u.LastName,
		"email":     u.Email,
		"age":       u.Age,
		"address":   u.Address,
	}
}
