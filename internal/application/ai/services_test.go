package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/twin-verify/internal/domain/analyst"
)

type stubClient struct {
	result string
	err    error
	calls  int
}

func (c *stubClient) Analyze(_ context.Context, _ string) (string, error) {
	c.calls++
	return c.result, c.err
}

type stubAnalystRepo struct {
	saved []*analyst.Analysis
}

func (r *stubAnalystRepo) Save(_ context.Context, a *analyst.Analysis) error {
	r.saved = append(r.saved, a)
	return nil
}

func (r *stubAnalystRepo) Paginate(_ context.Context, _ string, _, _ int) ([]*analyst.Analysis, error) {
	return r.saved, nil
}

func (r *stubAnalystRepo) LatestByValidation(_ context.Context, _ string, _ string) (*analyst.Analysis, error) {
	if len(r.saved) == 0 {
		return nil, errors.New("no analysis")
	}
	return r.saved[len(r.saved)-1], nil
}

func TestAnalyzeAndStore(t *testing.T) {
	client := &stubClient{result: `{"verdict":"fail"}`}
	repo := &stubAnalystRepo{}
	svc := NewService(client, repo)

	a, err := svc.AnalyzeAndStore(context.Background(), "site-a", "run-1-deviation", "http://store/report.txt")
	require.NoError(t, err)
	require.Equal(t, 1, client.calls)

	require.NotEmpty(t, a.ID)
	require.Equal(t, "site-a", a.TenantID)
	require.Equal(t, "run-1-deviation", a.ValidationID)
	require.Equal(t, "http://store/report.txt", a.ReportURL)
	require.Equal(t, `{"verdict":"fail"}`, a.Result)

	require.Len(t, repo.saved, 1)
	require.Equal(t, a, repo.saved[0])
}

func TestAnalyzeAndStoreClientError(t *testing.T) {
	client := &stubClient{err: errors.New("model overloaded")}
	svc := NewService(client, &stubAnalystRepo{})

	_, err := svc.AnalyzeAndStore(context.Background(), "site-a", "run-1", "http://store/report.txt")
	require.Error(t, err)
	require.Contains(t, err.Error(), "model overloaded")
}

func TestAnalyzeAndStoreWithoutClient(t *testing.T) {
	svc := NewService(nil, &stubAnalystRepo{})

	_, err := svc.AnalyzeAndStore(context.Background(), "site-a", "run-1", "http://store/report.txt")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not configured")
}

func TestListAnalyses(t *testing.T) {
	repo := &stubAnalystRepo{saved: []*analyst.Analysis{{ID: "a1"}, {ID: "a2"}}}
	svc := NewService(&stubClient{}, repo)

	list, err := svc.ListAnalyses(context.Background(), "site-a", 1, 20)
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestListAnalysesWithoutRepo(t *testing.T) {
	svc := NewService(&stubClient{}, nil)
	_, err := svc.ListAnalyses(context.Background(), "site-a", 1, 20)
	require.Error(t, err)
}
