package validations

import (
	"time"
)

// ID tipe untuk Validation
type ValidationID string

// Check enum: jenis pemeriksaan digital twin
type Check string

const (
	CheckDeviation Check = "deviation"
	CheckStress    Check = "stress"
	CheckRealtime  Check = "realtime"
)

// Status enum
type Status string

const (
	StatusRunning Status = "running"
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusError   Status = "error"
)

// Measurements value object: angka hasil pengukuran dari tool eksternal.
// Field yang tidak relevan untuk sebuah check dibiarkan nol.
type Measurements struct {
	AccuracyPct     float64 `json:"accuracy_pct"`
	TotalDeviation  float64 `json:"total_deviation"`
	RealWorldVolume float64 `json:"real_world_volume"`
	MaxDeviationMM  float64 `json:"max_deviation_mm"`
	AvgDeviationMM  float64 `json:"avg_deviation_mm"`
	LoadTimeSec     float64 `json:"load_time_sec"`
	FPS             float64 `json:"fps"`
	Interactions    int     `json:"interactions"`
	Crashed         bool    `json:"crashed"`
	ScanSec         float64 `json:"scan_sec"`
	UpdateSec       float64 `json:"update_sec"`
	TotalSec        float64 `json:"total_sec"`
}

// Aggregate Root: Validation
type Validation struct {
	ID          ValidationID `json:"id"`
	TenantID    string       `json:"tenant_id"`
	TriggeredAt time.Time    `json:"triggered_at"`
	Check       Check        `json:"check"`
	ScanFile    string       `json:"scan_file,omitempty"`
	ModelFile   string       `json:"model_file,omitempty"`
	Scene       string       `json:"scene,omitempty"`
	Status      Status       `json:"status"`
	Measures    Measurements `json:"measures"`
	ReportURL   string       `json:"report_url,omitempty"`
	RawFormat   string       `json:"raw_format,omitempty"`
	DurationMS  int64        `json:"duration_ms"`
	Source      string       `json:"source,omitempty"`
	Operator    string       `json:"operator,omitempty"`
	Metadata    any          `json:"metadata,omitempty"`
}
