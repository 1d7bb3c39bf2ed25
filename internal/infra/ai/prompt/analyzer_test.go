package prompt

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

type analysisOutput struct {
	ReportURL string `json:"report_url"`
	Verdict   string `json:"verdict"`
	Findings  []struct {
		Title   string `json:"title"`
		Verdict string `json:"verdict"`
	} `json:"findings"`
	Advice string `json:"advice"`
}

func analyze(t *testing.T, content string) analysisOutput {
	t.Helper()
	raw := AnalyzeReportContent("http://store/report.txt", content)
	var out analysisOutput
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	require.Equal(t, "http://store/report.txt", out.ReportURL)
	return out
}

func TestAnalyzeExplicitFailure(t *testing.T) {
	out := analyze(t, "Test Failed: Update exceeded time limit.")
	require.Equal(t, "fail", out.Verdict)
	require.NotEmpty(t, out.Findings)
	require.Equal(t, "Explicit test failure", out.Findings[0].Title)
	require.Contains(t, out.Advice, "Resolve the failing check")
}

func TestAnalyzeDeviationReportLowAccuracy(t *testing.T) {
	report := "Accuracy: 87.50%\nMaximum Deviation: 3.20 mm\nAverage Deviation: 1.10 mm\n"
	out := analyze(t, report)
	require.Equal(t, "fail", out.Verdict)
	require.Equal(t, "Twin accuracy below 90%", out.Findings[0].Title)
}

func TestAnalyzeDeviationReportMarginalAccuracy(t *testing.T) {
	report := "Accuracy: 92.00%\nMaximum Deviation: 1.00 mm\nAverage Deviation: 0.40 mm\n"
	out := analyze(t, report)
	// marginal bukan fail, tapi tercatat sebagai finding
	require.Equal(t, "inconclusive", out.Verdict)
	require.Equal(t, "Twin accuracy marginal", out.Findings[0].Title)
}

func TestAnalyzeDeviationReportHealthy(t *testing.T) {
	report := "Accuracy: 99.00%\nMaximum Deviation: 0.80 mm\nAverage Deviation: 0.30 mm\n"
	out := analyze(t, report)
	require.Equal(t, "pass", out.Verdict)
	require.Contains(t, out.Advice, "healthy")
}

func TestAnalyzeStressCrash(t *testing.T) {
	out := analyze(t, `{"load_time_s": 4.5, "fps": 60.1, "crashed": true, "interactions": 50}`)
	require.Equal(t, "fail", out.Verdict)
	require.Equal(t, "Environment crash during stress test", out.Findings[0].Title)
}

func TestAnalyzeStressNoCrash(t *testing.T) {
	out := analyze(t, `{"load_time_s": 4.5, "fps": 60.1, "crashed": false, "interactions": 50}`)
	require.NotEqual(t, "fail", out.Verdict)
	for _, f := range out.Findings {
		require.NotEqual(t, "Environment crash during stress test", f.Title)
	}
}

func TestAnalyzeEmptyContent(t *testing.T) {
	out := analyze(t, "")
	require.Equal(t, "inconclusive", out.Verdict)
	require.Len(t, out.Findings, 1)
	require.Equal(t, "No obvious issues detected", out.Findings[0].Title)
}
