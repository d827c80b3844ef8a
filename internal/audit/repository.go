package audit

import (
	"context"
	"database/sql"
)

// Repo is the Postgres-backed append-only audit store. The table carries an
// INSERT-only policy; updates and deletes are rejected by a trigger.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Append(ctx context.Context, e Event) error {
	const q = `
INSERT INTO audit_events (
	id, type, actor_user_id, actor_role, actor_phone, ip_address,
	task_id, message_id, message, metadata, created_at
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
`
	_, err := r.db.ExecContext(ctx, q,
		e.ID, e.Type, e.ActorUserID, e.ActorRole, e.ActorPhone, e.IPAddress,
		e.TaskID, e.MessageID, e.Message, e.Metadata, e.CreatedAt,
	)
	return err
}
