package twintools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"time"

	domain "github.com/bryanwahyu/twin-verify/internal/domain/validations"
)

// Runner jalankan check lewat tool eksternal: CLI alignment untuk
// deviation, bridge HTTP untuk stress dan realtime.
type Runner struct {
	alignBin   string
	engineURL  string
	scannerURL string
	twinURL    string
	httpc      *http.Client
	randSource *rand.Rand
}

func NewRunner(alignBin, engineURL, scannerURL, twinURL string) *Runner {
	// Create a dedicated random source to avoid contention
	src := rand.NewSource(time.Now().UnixNano())
	return &Runner{
		alignBin:   alignBin,
		engineURL:  engineURL,
		scannerURL: scannerURL,
		twinURL:    twinURL,
		// scan + sync bisa makan waktu menit-an, jangan kasih timeout client;
		// pembatalan lewat ctx
		httpc:      &http.Client{},
		randSource: rand.New(src),
	}
}

func (r *Runner) Run(ctx context.Context, req domain.RunRequest) (domain.RunResult, error) {
	start := time.Now()

	// Use ./temp directory instead of system temp
	tempDir := filepath.Join(".", "temp")
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return domain.RunResult{}, err
	}
	artifactPath := filepath.Join(tempDir, fmt.Sprintf("%s-%d", req.Check, r.randSource.Int()))

	var (
		res domain.RunResult
		err error
	)
	switch req.Check {
	case domain.CheckDeviation:
		res, err = r.runDeviation(ctx, req, artifactPath)
	case domain.CheckStress:
		res, err = r.runStress(ctx, req, artifactPath)
	case domain.CheckRealtime:
		res, err = r.runRealtime(ctx, req, artifactPath)
	default:
		return domain.RunResult{}, fmt.Errorf("unsupported check: %s", req.Check)
	}
	if err != nil {
		return domain.RunResult{}, err
	}

	res.DurationMS = time.Since(start).Milliseconds()
	return res, nil
}

// postJSON kirim body JSON dan decode respons ke out (boleh nil)
func (r *Runner) postJSON(ctx context.Context, url string, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return r.do(req, out)
}

func (r *Runner) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return r.do(req, out)
}

func (r *Runner) do(req *http.Request, out any) error {
	resp, err := r.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("bridge %s %s: unexpected status %d", req.Method, req.URL.Path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func writeArtifact(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
