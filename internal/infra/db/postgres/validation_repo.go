package postgres

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/twin-verify/internal/domain/validations"
)

const validationColumns = `id, tenant_id, triggered_at, check_type, scan_file, model_file, scene, status,
       accuracy_pct, total_deviation, real_world_volume, max_dev_mm, avg_dev_mm,
       load_time_s, fps, interactions, crashed, scan_s, update_s, total_s,
       report_url, raw_format, duration_ms, source, operator`

type ValidationRepository struct{ db *sql.DB }

func NewValidationRepository(db *sql.DB) *ValidationRepository { return &ValidationRepository{db: db} }

// Save insert/update Validation record
func (r *ValidationRepository) Save(ctx context.Context, v *domain.Validation) error {
	const q = `
INSERT INTO twin_validations
(id, tenant_id, triggered_at, check_type, scan_file, model_file, scene, status,
 accuracy_pct, total_deviation, real_world_volume, max_dev_mm, avg_dev_mm,
 load_time_s, fps, interactions, crashed, scan_s, update_s, total_s,
 report_url, raw_format, duration_ms, source, operator)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,
        $9,$10,$11,$12,$13,
        $14,$15,$16,$17,$18,$19,$20,
        $21,$22,$23,$24,$25)
ON CONFLICT (id) DO UPDATE SET
 status = EXCLUDED.status,
 accuracy_pct = EXCLUDED.accuracy_pct,
 total_deviation = EXCLUDED.total_deviation,
 real_world_volume = EXCLUDED.real_world_volume,
 max_dev_mm = EXCLUDED.max_dev_mm,
 avg_dev_mm = EXCLUDED.avg_dev_mm,
 load_time_s = EXCLUDED.load_time_s,
 fps = EXCLUDED.fps,
 interactions = EXCLUDED.interactions,
 crashed = EXCLUDED.crashed,
 scan_s = EXCLUDED.scan_s,
 update_s = EXCLUDED.update_s,
 total_s = EXCLUDED.total_s,
 report_url = EXCLUDED.report_url,
 raw_format = EXCLUDED.raw_format,
 duration_ms = EXCLUDED.duration_ms;`

	tenant := stringOrDash(v.TenantID)
	check := stringOrDash(string(v.Check))
	status := stringOrDash(string(v.Status))
	triggered := v.TriggeredAt
	if triggered.IsZero() {
		triggered = time.Now()
	}

	m := v.Measures
	_, err := r.db.ExecContext(ctx, q,
		v.ID, tenant, triggered, check, v.ScanFile, v.ModelFile, v.Scene, status,
		m.AccuracyPct, m.TotalDeviation, m.RealWorldVolume, m.MaxDeviationMM, m.AvgDeviationMM,
		m.LoadTimeSec, m.FPS, m.Interactions, m.Crashed, m.ScanSec, m.UpdateSec, m.TotalSec,
		v.ReportURL, v.RawFormat, v.DurationMS, v.Source, v.Operator,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanValidation(row rowScanner) (*domain.Validation, error) {
	var v domain.Validation
	m := &v.Measures
	if err := row.Scan(
		&v.ID, &v.TenantID, &v.TriggeredAt, &v.Check, &v.ScanFile, &v.ModelFile, &v.Scene, &v.Status,
		&m.AccuracyPct, &m.TotalDeviation, &m.RealWorldVolume, &m.MaxDeviationMM, &m.AvgDeviationMM,
		&m.LoadTimeSec, &m.FPS, &m.Interactions, &m.Crashed, &m.ScanSec, &m.UpdateSec, &m.TotalSec,
		&v.ReportURL, &v.RawFormat, &v.DurationMS, &v.Source, &v.Operator,
	); err != nil {
		return nil, err
	}
	return &v, nil
}

// Get by ID + Tenant
func (r *ValidationRepository) Get(ctx context.Context, tenant string, id domain.ValidationID) (*domain.Validation, error) {
	q := `SELECT ` + validationColumns + `
FROM twin_validations
WHERE tenant_id=$1 AND id=$2 LIMIT 1;`
	return scanValidation(r.db.QueryRowContext(ctx, q, tenant, id))
}

// Latest runs per tenant
func (r *ValidationRepository) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Validation, error) {
	if limit <= 0 {
		limit = 20
	}
	q := `SELECT ` + validationColumns + `
FROM twin_validations
WHERE tenant_id=$1 ORDER BY triggered_at DESC LIMIT $2;`
	rows, err := r.db.QueryContext(ctx, q, tenant, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Validation
	for rows.Next() {
		v, err := scanValidation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Summary rekap hasil sejak N hari
func (r *ValidationRepository) Summary(ctx context.Context, tenant string, sinceDays int) (domain.Summary, error) {
	if sinceDays <= 0 {
		sinceDays = 7
	}
	cut := time.Now().AddDate(0, 0, -sinceDays)

	const q = `
SELECT COUNT(*),
       COALESCE(SUM(CASE WHEN status='passed' THEN 1 ELSE 0 END),0),
       COALESCE(SUM(CASE WHEN status='failed' THEN 1 ELSE 0 END),0),
       COALESCE(SUM(CASE WHEN status='error'  THEN 1 ELSE 0 END),0),
       COALESCE(AVG(CASE WHEN accuracy_pct > 0 THEN accuracy_pct END),0)
FROM twin_validations
WHERE tenant_id=$1 AND triggered_at >= $2;`
	var s domain.Summary
	if err := r.db.QueryRowContext(ctx, q, tenant, cut).Scan(
		&s.Total, &s.Passed, &s.Failed, &s.Errors, &s.AvgAccuracy,
	); err != nil {
		return domain.Summary{}, err
	}
	return s, nil
}

// Paginate with offset + limit
func (r *ValidationRepository) Paginate(ctx context.Context, tenant string, page, pageSize int, filters map[string]interface{}) (domain.PaginatedResult, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	// filter opsional tidak dipakai di deployment postgres; kolom sama
	_ = filters

	q := `SELECT ` + validationColumns + `
FROM twin_validations
WHERE tenant_id=$1
ORDER BY triggered_at DESC LIMIT $2 OFFSET $3;`
	rows, err := r.db.QueryContext(ctx, q, tenant, pageSize, offset)
	if err != nil {
		return domain.PaginatedResult{}, err
	}
	defer rows.Close()

	var list []*domain.Validation
	for rows.Next() {
		v, err := scanValidation(rows)
		if err != nil {
			return domain.PaginatedResult{}, err
		}
		list = append(list, v)
	}
	if err := rows.Err(); err != nil {
		return domain.PaginatedResult{}, err
	}

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM twin_validations WHERE tenant_id=$1`, tenant,
	).Scan(&total); err != nil {
		return domain.PaginatedResult{}, err
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}
	return domain.PaginatedResult{
		Data:       list,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// UpdateStatus hanya update kolom status untuk run terakhir
func (r *ValidationRepository) UpdateStatus(ctx context.Context, tenant string, status domain.Status) error {
	const q = `
UPDATE twin_validations
SET status = $1
WHERE tenant_id = $2 AND id = (
  SELECT id FROM twin_validations
  WHERE tenant_id = $2
  ORDER BY triggered_at DESC
  LIMIT 1
);`
	_, err := r.db.ExecContext(ctx, q, status, tenant)
	return err
}

// UpdateResult update hasil akhir sebuah run
func (r *ValidationRepository) UpdateResult(ctx context.Context, tenant string, id domain.ValidationID, status domain.Status, reportURL string, m domain.Measurements) error {
	const q = `
UPDATE twin_validations
SET status = $1,
    accuracy_pct = $2,
    total_deviation = $3,
    real_world_volume = $4,
    max_dev_mm = $5,
    avg_dev_mm = $6,
    load_time_s = $7,
    fps = $8,
    interactions = $9,
    crashed = $10,
    scan_s = $11,
    update_s = $12,
    total_s = $13,
    report_url = $14
WHERE tenant_id = $15 AND id = $16;`
	_, err := r.db.ExecContext(ctx, q,
		status,
		m.AccuracyPct, m.TotalDeviation, m.RealWorldVolume, m.MaxDeviationMM, m.AvgDeviationMM,
		m.LoadTimeSec, m.FPS, m.Interactions, m.Crashed, m.ScanSec, m.UpdateSec, m.TotalSec,
		reportURL,
		tenant, id,
	)
	return err
}

// Cursor-based pagination (after cursorTime, cursorID)
func (r *ValidationRepository) Cursor(ctx context.Context, tenant string, cursorTime time.Time, cursorID string, pageSize int) ([]*domain.Validation, error) {
	if pageSize <= 0 {
		pageSize = 20
	}

	q := `SELECT ` + validationColumns + `
FROM twin_validations
WHERE tenant_id=$1
  AND (triggered_at < $2 OR (triggered_at = $2 AND id < $3))
ORDER BY triggered_at DESC, id DESC
LIMIT $4;`
	rows, err := r.db.QueryContext(ctx, q, tenant, cursorTime, cursorID, pageSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Validation
	for rows.Next() {
		v, err := scanValidation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
