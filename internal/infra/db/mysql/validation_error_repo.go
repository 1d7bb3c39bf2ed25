package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	domain "github.com/bryanwahyu/twin-verify/internal/domain/validationerrors"
)

type ValidationErrorRepository struct {
	db *sql.DB
}

func NewValidationErrorRepository(db *sql.DB) *ValidationErrorRepository {
	return &ValidationErrorRepository{db: db}
}

func (r *ValidationErrorRepository) Save(ctx context.Context, e *domain.ValidationError) error {
	const q = `
INSERT INTO twin_validation_errors
  (tenant_id, validation_id, check_type, phase, message, details_json, created_at)
VALUES (?,?,?,?,?,?,?)
`
	tenant := stringOrDash(e.TenantID)
	validation := stringOrDash(e.ValidationID)
	check := stringOrDash(e.Check)
	phase := stringOrDash(e.Phase)
	msg := e.Message
	if strings.TrimSpace(msg) == "" {
		msg = "-"
	}
	details := e.DetailsJSON
	if strings.TrimSpace(details) == "" {
		details = "{}"
	} else {
		// ensure valid json; if invalid, wrap as string field
		var js any
		if json.Unmarshal([]byte(details), &js) != nil {
			b, _ := json.Marshal(map[string]string{"raw": details})
			details = string(b)
		}
	}
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q, tenant, validation, check, phase, msg, details, created)
	return err
}

func (r *ValidationErrorRepository) ListByValidation(ctx context.Context, tenant string, validationID string, limit int) ([]*domain.ValidationError, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, tenant_id, validation_id, check_type, phase, message, details_json, created_at
FROM twin_validation_errors
WHERE tenant_id = ? AND validation_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?;`
	rows, err := r.db.QueryContext(ctx, q, tenant, validationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.ValidationError
	for rows.Next() {
		var e domain.ValidationError
		if err := rows.Scan(
			&e.ID, &e.TenantID, &e.ValidationID, &e.Check, &e.Phase,
			&e.Message, &e.DetailsJSON, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
