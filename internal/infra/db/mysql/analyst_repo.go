package mysql

import (
	"context"
	"database/sql"
	"strings"
	"time"

	domain "github.com/bryanwahyu/twin-verify/internal/domain/analyst"
)

type AnalystRepository struct {
	db *sql.DB
}

func NewAnalystRepository(db *sql.DB) *AnalystRepository {
	return &AnalystRepository{db: db}
}

// Save inserts an analysis record
func (r *AnalystRepository) Save(ctx context.Context, a *domain.Analysis) error {
	const q = `
INSERT INTO twin_analyses
  (id, tenant_id, validation_id, report_url, result_json, created_at)
VALUES (?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  tenant_id=VALUES(tenant_id), validation_id=VALUES(validation_id), report_url=VALUES(report_url), result_json=VALUES(result_json);
`
	tenant := stringOrDash(a.TenantID)
	reportURL := stringOrDash(a.ReportURL)
	result := a.Result
	if strings.TrimSpace(result) == "" {
		// result_json column requires valid JSON; use empty object
		result = "{}"
	}
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q, a.ID, tenant, a.ValidationID, reportURL, result, createdAt)
	return err
}

// Paginate returns a page of analysis records ordered by created_at desc
func (r *AnalystRepository) Paginate(ctx context.Context, tenant string, page, pageSize int) ([]*domain.Analysis, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT id, tenant_id, validation_id, report_url, result_json, created_at
FROM twin_analyses
WHERE tenant_id=?
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?;`
	rows, err := r.db.QueryContext(ctx, q, tenant, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Analysis
	for rows.Next() {
		var a domain.Analysis
		if err := rows.Scan(
			&a.ID, &a.TenantID, &a.ValidationID, &a.ReportURL, &a.Result, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// LatestByValidation returns the newest analysis for one validation run
func (r *AnalystRepository) LatestByValidation(ctx context.Context, tenant string, validationID string) (*domain.Analysis, error) {
	const q = `
SELECT id, tenant_id, validation_id, report_url, result_json, created_at
FROM twin_analyses
WHERE tenant_id=? AND validation_id=?
ORDER BY created_at DESC, id DESC
LIMIT 1;`
	var a domain.Analysis
	if err := r.db.QueryRowContext(ctx, q, tenant, validationID).Scan(
		&a.ID, &a.TenantID, &a.ValidationID, &a.ReportURL, &a.Result, &a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}
