package twintools

import (
	"context"
	"fmt"
	"time"

	domain "github.com/bryanwahyu/twin-verify/internal/domain/validations"
)

type realtimeSummary struct {
	ScanSec     float64 `json:"scan_s"`
	UpdateSec   float64 `json:"update_s"`
	TotalSec    float64 `json:"total_s"`
	AccuracyPct float64 `json:"accuracy_pct"`
}

// runRealtime ukur propagasi perubahan fisik ke twin virtual: trigger
// scan LiDAR (blocking), trigger sync twin, lalu tanya akurasi.
// Batas waktu TIDAK dipakai untuk membatalkan operasi; waktu total
// cuma dibandingkan setelah selesai.
func (r *Runner) runRealtime(ctx context.Context, req domain.RunRequest, artifactPath string) (domain.RunResult, error) {
	scanner := r.scannerURL
	twin := r.twinURL
	if req.Target != "" {
		scanner = req.Target
		twin = req.Target
	}
	if scanner == "" || twin == "" {
		return domain.RunResult{}, fmt.Errorf("scanner/twin bridge URL is not configured")
	}

	start := time.Now()
	if err := r.postJSON(ctx, scanner+"/scan", map[string]string{}, nil); err != nil {
		return domain.RunResult{}, err
	}
	scanDone := time.Now()

	if err := r.postJSON(ctx, twin+"/sync", map[string]string{}, nil); err != nil {
		return domain.RunResult{}, err
	}
	updateDone := time.Now()

	var acc struct {
		AccuracyPct float64 `json:"accuracy_pct"`
	}
	if err := r.getJSON(ctx, twin+"/accuracy", &acc); err != nil {
		return domain.RunResult{}, err
	}

	summary := realtimeSummary{
		ScanSec:     scanDone.Sub(start).Seconds(),
		UpdateSec:   updateDone.Sub(scanDone).Seconds(),
		TotalSec:    updateDone.Sub(start).Seconds(),
		AccuracyPct: acc.AccuracyPct,
	}
	artifactPath += ".json"
	if err := writeArtifact(artifactPath, summary); err != nil {
		return domain.RunResult{}, err
	}

	return domain.RunResult{
		Measures: domain.Measurements{
			ScanSec:     summary.ScanSec,
			UpdateSec:   summary.UpdateSec,
			TotalSec:    summary.TotalSec,
			AccuracyPct: summary.AccuracyPct,
		},
		LocalArtifactPath: artifactPath,
		RawFormat:         "json",
		ExitCode:          0,
	}, nil
}
