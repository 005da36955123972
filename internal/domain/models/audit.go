package models

// AuditEntry is an append-only trail row for sensitive mutations such as
// venue assignment and status transitions.
type AuditEntry struct {
	ID        string `json:"id"`
	ActorID   int64  `json:"actorId"`
	Entity    string `json:"entity"`
	EntityID  int64  `json:"entityId"`
	Action    string `json:"action"`
	Detail    string `json:"detail,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}
