package validations

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	domain "github.com/bryanwahyu/twin-verify/internal/domain/validations"
	verrs "github.com/bryanwahyu/twin-verify/internal/domain/validationerrors"
)

// Thresholds aturan lulus per check, dari config
type Thresholds struct {
	DeviationTolerance float64
	Interactions       int
	UpdateLimitSec     float64
	AccuracyThreshold  float64
	AccuracyTolerance  float64
	FPSTarget          float64
}

// Service implements use-cases untuk Validation
// Service is designed to be used concurrently and is thread-safe
type Service struct {
	Repo       domain.Repository
	Errors     verrs.Repository
	Runner     domain.Runner
	Artifacts  domain.ArtifactStore
	Clock      Clock
	Thresholds Thresholds
}

// Clock abstraction supaya gampang ditest
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

//
// ==== USE CASES ====
//

// Command untuk trigger validasi
type TriggerValidationCommand struct {
	TenantID  string
	Check     string
	ScanFile  string
	ModelFile string
	Scene     string
	Target    string
	Source    string
	Operator  string
	Metadata  any
}

type TriggerValidationResult struct {
	ID         string              `json:"id"`
	Status     string              `json:"status"`
	Measures   domain.Measurements `json:"measures"`
	Messages   []string            `json:"messages,omitempty"`
	ReportURL  string              `json:"report_url"`
	RawFormat  string              `json:"raw_format"`
	DurationMS int64               `json:"duration_ms"`
}

// TriggerValidationUntilDone → jalanin check dengan context.Background()
// cocok dipanggil dari goroutine di router supaya gak kena context canceled
func (s *Service) TriggerValidationUntilDone(cmd TriggerValidationCommand) (TriggerValidationResult, error) {
	return s.TriggerValidation(context.Background(), cmd)
}

// UpdateStatus → untuk update status validasi terakhir di repo
func (s *Service) UpdateStatus(tenant string, status string) error {
	return s.Repo.UpdateStatus(context.Background(), tenant, domain.Status(status))
}

// MarkDone → simpan hasil akhir sebuah run
func (s *Service) MarkDone(tenant string, res TriggerValidationResult) error {
	return s.Repo.UpdateResult(
		context.Background(),
		tenant,
		domain.ValidationID(res.ID),
		domain.Status(res.Status),
		res.ReportURL,
		res.Measures,
	)
}

// TriggerValidation jalankan check → parse hasil → tulis laporan →
// upload artifact → simpan ke repo
func (s *Service) TriggerValidation(ctx context.Context, cmd TriggerValidationCommand) (TriggerValidationResult, error) {
	now := s.Clock.Now()
	uniqueID := uuid.New().String()
	id := fmt.Sprintf("%s-%s", uniqueID, cmd.Check)

	check := domain.Check(cmd.Check)
	meta := s.annotateMetadata(check, cmd.Metadata)

	// Create an initial row so we always have an ID to reference
	initial := &domain.Validation{
		ID:          domain.ValidationID(id),
		TenantID:    cmd.TenantID,
		TriggeredAt: now,
		Check:       check,
		ScanFile:    cmd.ScanFile,
		ModelFile:   cmd.ModelFile,
		Scene:       cmd.Scene,
		Status:      domain.StatusRunning,
		Source:      cmd.Source,
		Operator:    cmd.Operator,
		Metadata:    meta,
	}
	if err := s.Repo.Save(ctx, initial); err != nil {
		return TriggerValidationResult{ID: id, Status: string(domain.StatusError)}, err
	}

	// jalankan runner sekali, tanpa retry; kegagalan tool eksternal
	// tidak di-recover, cuma dicatat
	res, err := s.Runner.Run(ctx, domain.RunRequest{
		Check:        check,
		ScanFile:     cmd.ScanFile,
		ModelFile:    cmd.ModelFile,
		Scene:        cmd.Scene,
		Target:       cmd.Target,
		Interactions: s.Thresholds.Interactions,
		Tolerance:    s.Thresholds.DeviationTolerance,
	})
	if err != nil {
		_ = s.Repo.UpdateStatus(context.Background(), cmd.TenantID, domain.StatusError)
		s.recordError(cmd.TenantID, id, cmd.Check, "trigger", err)
		return TriggerValidationResult{ID: id, Status: string(domain.StatusError)}, err
	}

	// parse artifact; kalau gak kebaca pakai angka langsung dari runner
	m, perr := domain.ParseMeasurements(check, res.LocalArtifactPath)
	if perr != nil {
		m = res.Measures
	}

	status := domain.VerdictFor(check, m, res.ExitCode,
		s.Thresholds.UpdateLimitSec, s.Thresholds.AccuracyThreshold)
	messages := s.verdictMessages(check, m)
	for _, msg := range messages {
		log.Printf("validation %s: %s", id, msg)
	}

	// untuk deviation: artifact yang diupload adalah laporan 3 baris,
	// bukan console log mentah
	uploadPath := res.LocalArtifactPath
	rawFormat := res.RawFormat
	if check == domain.CheckDeviation {
		reportPath, werr := writeDeviationReport(res.LocalArtifactPath, m)
		if werr != nil {
			os.Remove(res.LocalArtifactPath)
			s.recordError(cmd.TenantID, id, cmd.Check, "report", werr)
			return TriggerValidationResult{ID: id, Status: string(domain.StatusError)}, werr
		}
		os.Remove(res.LocalArtifactPath)
		uploadPath = reportPath
		rawFormat = "txt"
	}

	// upload artifact and clean up automatically
	key := fmt.Sprintf("%s/%s/%s", cmd.TenantID, cmd.Check, filepath.Base(uploadPath))
	url, err := s.Artifacts.UploadAndCleanup(ctx, uploadPath, key)
	if err != nil {
		os.Remove(uploadPath)
		s.recordError(cmd.TenantID, id, cmd.Check, "upload", err)
		return TriggerValidationResult{ID: id, Status: string(domain.StatusError)}, err
	}

	// update entity with final results
	v := &domain.Validation{
		ID:          domain.ValidationID(id),
		TenantID:    cmd.TenantID,
		TriggeredAt: now,
		Check:       check,
		ScanFile:    cmd.ScanFile,
		ModelFile:   cmd.ModelFile,
		Scene:       cmd.Scene,
		Status:      status,
		Measures:    m,
		ReportURL:   url,
		RawFormat:   rawFormat,
		DurationMS:  res.DurationMS,
		Source:      cmd.Source,
		Operator:    cmd.Operator,
		Metadata:    meta,
	}
	if err := s.Repo.Save(ctx, v); err != nil {
		return TriggerValidationResult{ID: id, Status: string(v.Status)}, err
	}

	return TriggerValidationResult{
		ID:         string(v.ID),
		Status:     string(v.Status),
		Measures:   v.Measures,
		Messages:   messages,
		ReportURL:  v.ReportURL,
		RawFormat:  v.RawFormat,
		DurationMS: v.DurationMS,
	}, nil
}

// RetryValidation: jalankan ulang run yang sudah ada (biasanya yang error/failed)
func (s *Service) RetryValidation(ctx context.Context, tenant string, id domain.ValidationID) (TriggerValidationResult, error) {
	existing, err := s.Repo.Get(ctx, tenant, id)
	if err != nil {
		return TriggerValidationResult{}, err
	}
	if existing == nil {
		return TriggerValidationResult{}, fmt.Errorf("validation not found: %s", id)
	}

	cmd := TriggerValidationCommand{
		TenantID:  tenant,
		Check:     string(existing.Check),
		ScanFile:  existing.ScanFile,
		ModelFile: existing.ModelFile,
		Scene:     existing.Scene,
		Source:    existing.Source,
		Operator:  existing.Operator,
		Metadata:  existing.Metadata,
	}

	_ = s.Repo.UpdateStatus(context.Background(), tenant, domain.StatusRunning)
	res, err := s.TriggerValidation(ctx, cmd)
	if err != nil {
		s.recordError(tenant, string(id), cmd.Check, "retry", err)
	}
	return res, err
}

// Latest ambil N run terakhir
func (s *Service) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Validation, error) {
	return s.Repo.Latest(ctx, tenant, limit)
}

// Get ambil 1 run by id
func (s *Service) Get(ctx context.Context, tenant string, id domain.ValidationID) (*domain.Validation, error) {
	return s.Repo.Get(ctx, tenant, id)
}

// Summary rekap hasil N hari terakhir
func (s *Service) Summary(ctx context.Context, tenant string, sinceDays int) (domain.Summary, error) {
	return s.Repo.Summary(ctx, tenant, sinceDays)
}

// verdictMessages susun baris pass/fail per check
func (s *Service) verdictMessages(check domain.Check, m domain.Measurements) []string {
	switch check {
	case domain.CheckStress:
		return []string{domain.StressMessage(m, s.Thresholds.FPSTarget)}
	case domain.CheckRealtime:
		return []string{
			domain.UpdateTimeMessage(m.TotalSec, s.Thresholds.UpdateLimitSec),
			domain.AccuracyMessage(m.AccuracyPct, s.Thresholds.AccuracyThreshold),
		}
	default:
		return nil
	}
}

// annotateMetadata sisipkan toleransi/target yang cuma dicatat, bukan aturan
func (s *Service) annotateMetadata(check domain.Check, meta any) any {
	out := map[string]any{}
	if m, ok := meta.(map[string]any); ok {
		for k, v := range m {
			out[k] = v
		}
	} else if meta != nil {
		out["request"] = meta
	}
	switch check {
	case domain.CheckRealtime:
		out["accuracy_tolerance"] = s.Thresholds.AccuracyTolerance
	case domain.CheckStress:
		out["fps_target"] = s.Thresholds.FPSTarget
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (s *Service) recordError(tenant, id, check, phase string, cause error) {
	if s.Errors == nil {
		return
	}
	details, _ := json.Marshal(map[string]string{"error": cause.Error()})
	e := &verrs.ValidationError{
		TenantID:     tenant,
		ValidationID: id,
		Check:        check,
		Phase:        phase,
		Message:      cause.Error(),
		DetailsJSON:  string(details),
		CreatedAt:    s.Clock.Now(),
	}
	if err := s.Errors.Save(context.Background(), e); err != nil {
		log.Printf("save validation error: %v", err)
	}
}

// writeDeviationReport tulis laporan 3 baris di samping console log
func writeDeviationReport(logPath string, m domain.Measurements) (string, error) {
	base := strings.TrimSuffix(logPath, filepath.Ext(logPath))
	reportPath := base + "-report.txt"
	if err := os.WriteFile(reportPath, []byte(domain.DeviationReport(m)), 0o644); err != nil {
		return "", err
	}
	return reportPath, nil
}
