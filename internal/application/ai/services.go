package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/twin-verify/internal/domain/ai"
	"github.com/bryanwahyu/twin-verify/internal/domain/analyst"
)

type Service struct {
	client ai.Client
	repo   analyst.Repository
}

func NewService(client ai.Client, repo analyst.Repository) *Service {
	return &Service{client: client, repo: repo}
}

// Analyze panggil AI untuk satu report URL, tanpa simpan
func (s *Service) Analyze(ctx context.Context, reportURL string) (string, error) {
	return s.client.Analyze(ctx, reportURL)
}

// AnalyzeAndStore analisa laporan validasi lalu simpan hasilnya untuk audit
func (s *Service) AnalyzeAndStore(ctx context.Context, tenant, validationID, reportURL string) (*analyst.Analysis, error) {
	if s.client == nil {
		return nil, fmt.Errorf("ai client is not configured")
	}
	result, err := s.client.Analyze(ctx, reportURL)
	if err != nil {
		return nil, err
	}

	a := &analyst.Analysis{
		ID:           analyst.AnalysisID(uuid.New().String()),
		TenantID:     tenant,
		ValidationID: validationID,
		ReportURL:    reportURL,
		Result:       result,
		CreatedAt:    time.Now(),
	}
	if s.repo != nil {
		if err := s.repo.Save(ctx, a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// ListAnalyses ambil halaman hasil analisa per tenant
func (s *Service) ListAnalyses(ctx context.Context, tenant string, page, pageSize int) ([]*analyst.Analysis, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("analyst repository is not configured")
	}
	return s.repo.Paginate(ctx, tenant, page, pageSize)
}
