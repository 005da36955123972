package repositories

import (
	"context"

	"github.com/google/uuid"

	"eventadmin/internal/db"
	"eventadmin/internal/domain/models"
)

// AuditRepository appends trail rows. Entries are never updated or deleted.
type AuditRepository struct {
	DB db.Queryer
}

func (r AuditRepository) Insert(ctx context.Context, e models.AuditEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO audit_logs (id, actor_id, entity, entity_id, action, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, NOW())`,
		e.ID, e.ActorID, e.Entity, e.EntityID, e.Action, e.Detail)
	return err
}

func (r AuditRepository) ListByEntity(ctx context.Context, entity string, entityID int64) ([]models.AuditEntry, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, actor_id, entity, entity_id, action, COALESCE(detail,''), COALESCE(created_at,'')
		FROM audit_logs
		WHERE entity=? AND entity_id=?
		ORDER BY created_at ASC, id ASC`, entity, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.AuditEntry{}
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Entity, &e.EntityID, &e.Action, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
