package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	domain "github.com/bryanwahyu/twin-verify/internal/domain/validations"
)

const validationColumns = `id, tenant_id, triggered_at, check_type, scan_file, model_file, scene, status,
       accuracy_pct, total_deviation, real_world_volume, max_dev_mm, avg_dev_mm,
       load_time_s, fps, interactions, crashed, scan_s, update_s, total_s,
       report_url, raw_format, duration_ms, source, operator`

type ValidationRepository struct {
	db *sql.DB
}

func NewValidationRepository(db *sql.DB) *ValidationRepository {
	return &ValidationRepository{db: db}
}

// Save insert/update Validation record
func (r *ValidationRepository) Save(ctx context.Context, v *domain.Validation) error {
	const q = `
INSERT INTO twin_validations
(id, tenant_id, triggered_at, check_type, scan_file, model_file, scene, status,
 accuracy_pct, total_deviation, real_world_volume, max_dev_mm, avg_dev_mm,
 load_time_s, fps, interactions, crashed, scan_s, update_s, total_s,
 report_url, raw_format, duration_ms, source, operator)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 status=VALUES(status),
 accuracy_pct=VALUES(accuracy_pct), total_deviation=VALUES(total_deviation),
 real_world_volume=VALUES(real_world_volume), max_dev_mm=VALUES(max_dev_mm),
 avg_dev_mm=VALUES(avg_dev_mm), load_time_s=VALUES(load_time_s), fps=VALUES(fps),
 interactions=VALUES(interactions), crashed=VALUES(crashed),
 scan_s=VALUES(scan_s), update_s=VALUES(update_s), total_s=VALUES(total_s),
 report_url=VALUES(report_url), raw_format=VALUES(raw_format), duration_ms=VALUES(duration_ms);
`
	// Ensure non-nullable string fields have safe defaults
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
WHERE tenant_id=? AND id=? LIMIT 1;`
	return scanValidation(r.db.QueryRowContext(ctx, q, tenant, id))
}

// Latest runs per tenant
func (r *ValidationRepository) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Validation, error) {
	if limit <= 0 {
		limit = 20
	}
	q := `SELECT ` + validationColumns + `
FROM twin_validations
WHERE tenant_id=? ORDER BY triggered_at DESC LIMIT ?;`
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
SELECT COUNT(*) AS total_validations,
       COALESCE(SUM(CASE WHEN status='passed' THEN 1 ELSE 0 END),0) AS passed,
       COALESCE(SUM(CASE WHEN status='failed' THEN 1 ELSE 0 END),0) AS failed,
       COALESCE(SUM(CASE WHEN status='error'  THEN 1 ELSE 0 END),0) AS errors,
       COALESCE(AVG(CASE WHEN accuracy_pct > 0 THEN accuracy_pct END),0) AS avg_accuracy
FROM twin_validations
WHERE tenant_id=? AND triggered_at >= ?;
`
	var s domain.Summary
	if err := r.db.QueryRowContext(ctx, q, tenant, cut).Scan(
		&s.Total, &s.Passed, &s.Failed, &s.Errors, &s.AvgAccuracy,
	); err != nil {
		return domain.Summary{}, err
	}
	return s, nil
}

// Paginate with offset + limit (classic pagination)
func (r *ValidationRepository) Paginate(ctx context.Context, tenant string, page, pageSize int, filters map[string]interface{}) (domain.PaginatedResult, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query := `SELECT ` + validationColumns + `
FROM twin_validations
WHERE tenant_id=?`
	args := []interface{}{tenant}
	query, args = applyFilters(query, args, filters)

	query += "\nORDER BY triggered_at DESC LIMIT ? OFFSET ?"
	args = append(args, pageSize, offset)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("querying validations: %w", err)
	}
	defer rows.Close()

	var list []*domain.Validation
	for rows.Next() {
		v, err := scanValidation(rows)
		if err != nil {
			return domain.PaginatedResult{}, fmt.Errorf("scanning row: %w", err)
		}
		list = append(list, v)
	}
	if err = rows.Err(); err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("iterating rows: %w", err)
	}

	total, err := r.Count(ctx, tenant, filters)
	if err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("getting total count: %w", err)
	}

	return domain.PaginatedResult{
		Data:       list,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

func applyFilters(query string, args []interface{}, filters map[string]interface{}) (string, []interface{}) {
	if filters == nil {
		return query, args
	}
	for key, value := range filters {
		switch key {
		case "check":
			query += " AND check_type = ?"
			args = append(args, value)
		case "status":
			query += " AND status = ?"
			args = append(args, value)
		case "scene":
			// LIKE dengan wildcard; escape dulu biar aman
			query += " AND scene LIKE ?"
			term := escapeLikePattern(value.(string))
			args = append(args, "%"+term+"%")
		case "operator":
			query += " AND operator = ?"
			args = append(args, value)
		}
	}
	return query, args
}

// UpdateStatus hanya update kolom status untuk run terakhir
func (r *ValidationRepository) UpdateStatus(ctx context.Context, tenant string, status domain.Status) error {
	const q = `
UPDATE twin_validations
SET status = ?
WHERE tenant_id = ?
ORDER BY triggered_at DESC
LIMIT 1;`
	_, err := r.db.ExecContext(ctx, q, status, tenant)
	return err
}

// UpdateResult update hasil akhir sebuah run (status, report_url, measurements)
func (r *ValidationRepository) UpdateResult(ctx context.Context, tenant string, id domain.ValidationID, status domain.Status, reportURL string, m domain.Measurements) error {
	const q = `
UPDATE twin_validations
SET status = ?,
    accuracy_pct = ?,
    total_deviation = ?,
    real_world_volume = ?,
    max_dev_mm = ?,
    avg_dev_mm = ?,
    load_time_s = ?,
    fps = ?,
    interactions = ?,
    crashed = ?,
    scan_s = ?,
    update_s = ?,
    total_s = ?,
    report_url = ?
WHERE tenant_id = ? AND id = ?;`
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
WHERE tenant_id=?
  AND (triggered_at < ? OR (triggered_at = ? AND id < ?))
ORDER BY triggered_at DESC, id DESC
LIMIT ?;`
	rows, err := r.db.QueryContext(ctx, q, tenant, cursorTime, cursorTime, cursorID, pageSize)
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

// Count returns the total number of records matching the given filters
func (r *ValidationRepository) Count(ctx context.Context, tenant string, filters map[string]interface{}) (int64, error) {
	query := "SELECT COUNT(*) FROM twin_validations WHERE tenant_id = ?"
	args := []interface{}{tenant}
	query, args = applyFilters(query, args, filters)

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
