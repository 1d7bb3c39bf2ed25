package validations

import "time"
import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, v *Validation) error
	Get(ctx context.Context, tenant string, id ValidationID) (*Validation, error)
	Latest(ctx context.Context, tenant string, limit int) ([]*Validation, error)
	Summary(ctx context.Context, tenant string, sinceDays int) (Summary, error)
	UpdateStatus(ctx context.Context, tenant string, status Status) error
	UpdateResult(ctx context.Context, tenant string, id ValidationID, status Status, reportURL string, m Measurements) error

	// tambahan paginate
	Paginate(ctx context.Context, tenant string, page, pageSize int, filters map[string]interface{}) (PaginatedResult, error)
	Cursor(ctx context.Context, tenant string, cursorTime time.Time, cursorID string, pageSize int) ([]*Validation, error)
}

// Summary rekap hasil validasi selama N hari
type Summary struct {
	Total       int     `json:"total_validations"`
	Passed      int     `json:"passed"`
	Failed      int     `json:"failed"`
	Errors      int     `json:"errors"`
	AvgAccuracy float64 `json:"avg_accuracy_pct"`
}

// Runner port (interface untuk eksekusi check via tool eksternal)
type Runner interface {
	Run(ctx context.Context, req RunRequest) (RunResult, error)
}

// ArtifactStore port (interface untuk penyimpanan laporan)
type ArtifactStore interface {
	Upload(ctx context.Context, localPath, key string) (string, error)
	UploadAndCleanup(ctx context.Context, localPath, key string) (string, error)
}
