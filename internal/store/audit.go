package store

import (
	"context"
	"database/sql"
	"time"
)

// Origin of a successful mutation: which side actually took the write.
const (
	OriginRemote = "remote"
	OriginLocal  = "local"
)

type AuditEntry struct {
	ID        int64  `json:"id"`
	At        string `json:"at"`
	RequestID string `json:"requestId,omitempty"`
	Resource  string `json:"resource"`
	Op        string `json:"op"` // create | update | delete
	RecordID  string `json:"recordId"`
	Origin    string `json:"origin"`
}

func AppendAudit(ctx context.Context, db *sql.DB, e AuditEntry) error {
	if e.At == "" {
		e.At = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := db.ExecContext(ctx, `
INSERT INTO audit_log(at, request_id, resource, op, record_id, origin)
VALUES(?,?,?,?,?,?);`,
		e.At, e.RequestID, e.Resource, e.Op, e.RecordID, e.Origin)
	return err
}

func ListAudit(ctx context.Context, db *sql.DB, limit int) ([]AuditEntry, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	rows, err := db.QueryContext(ctx, `
SELECT id, at, request_id, resource, op, record_id, origin
FROM audit_log
ORDER BY id DESC
LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.ID, &e.At, &e.RequestID, &e.Resource, &e.Op, &e.RecordID, &e.Origin); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
