package models

// User is an administrative account. Role decides what the account can see
// and mutate; ownership checks additionally apply for team leads and
// coordinators.
type User struct {
	ID           int64
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Role         string
	Status       string
	CreatedAt    string
	UpdatedAt    string
}
