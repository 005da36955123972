package models

// Venue can host at most one bookable per date. Capacity 0 means unknown.
type Venue struct {
	ID       int64
	Name     string
	Capacity int
	IsActive bool
}
