package twintools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/twin-verify/internal/domain/validations"
)

// engineStub mensimulasikan bridge VR engine untuk stress test
type engineStub struct {
	mu        sync.Mutex
	loads     int
	interacts int
	validates int
	crashed   bool
}

func (e *engineStub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /scene/load", func(w http.ResponseWriter, r *http.Request) {
		e.mu.Lock()
		e.loads++
		e.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]float64{"load_time_s": 4.2})
	})
	mux.HandleFunc("POST /interact", func(w http.ResponseWriter, r *http.Request) {
		e.mu.Lock()
		e.interacts++
		e.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /validate", func(w http.ResponseWriter, r *http.Request) {
		e.mu.Lock()
		e.validates++
		n := e.validates
		e.mu.Unlock()
		// selang-seling gagal, loop tetap harus jalan penuh
		json.NewEncoder(w).Encode(map[string]bool{"ok": n%2 == 0})
	})
	mux.HandleFunc("GET /metrics/fps", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]float64{"fps": 68.4})
	})
	mux.HandleFunc("GET /crashed", func(w http.ResponseWriter, r *http.Request) {
		e.mu.Lock()
		c := e.crashed
		e.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]bool{"crashed": c})
	})
	return mux
}

func TestRunStressFullInteractionLoop(t *testing.T) {
	t.Chdir(t.TempDir())

	stub := &engineStub{}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	r := NewRunner("CloudCompare", srv.URL, "", "")
	res, err := r.Run(context.Background(), domain.RunRequest{
		Check:        domain.CheckStress,
		Scene:        "scenes/factory.scene",
		Interactions: 50,
	})
	require.NoError(t, err)

	// loop interaksi jalan persis 50x meskipun separuh validate gagal
	require.Equal(t, 1, stub.loads)
	require.Equal(t, 50, stub.interacts)
	require.Equal(t, 50, stub.validates)

	require.InDelta(t, 4.2, res.Measures.LoadTimeSec, 1e-9)
	require.InDelta(t, 68.4, res.Measures.FPS, 1e-9)
	require.False(t, res.Measures.Crashed)
	require.Equal(t, 50, res.Measures.Interactions)
	require.Equal(t, "json", res.RawFormat)

	// artifact bisa diparse balik jadi Measurements
	m, err := domain.ParseMeasurements(domain.CheckStress, res.LocalArtifactPath)
	require.NoError(t, err)
	require.Equal(t, res.Measures, m)
}

func TestRunStressCrashPropagates(t *testing.T) {
	t.Chdir(t.TempDir())

	stub := &engineStub{crashed: true}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	r := NewRunner("CloudCompare", srv.URL, "", "")
	res, err := r.Run(context.Background(), domain.RunRequest{
		Check:        domain.CheckStress,
		Scene:        "scenes/factory.scene",
		Interactions: 3,
	})
	require.NoError(t, err)
	require.True(t, res.Measures.Crashed)
	require.Equal(t, 3, stub.interacts)
}

func TestRunStressMissingEngineURL(t *testing.T) {
	t.Chdir(t.TempDir())

	r := NewRunner("CloudCompare", "", "", "")
	_, err := r.Run(context.Background(), domain.RunRequest{Check: domain.CheckStress})
	require.Error(t, err)
	require.Contains(t, err.Error(), "engine bridge URL")
}

func TestRunRealtime(t *testing.T) {
	t.Chdir(t.TempDir())

	mux := http.NewServeMux()
	mux.HandleFunc("POST /scan", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /sync", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /accuracy", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]float64{"accuracy_pct": 96.3})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	r := NewRunner("CloudCompare", "", srv.URL, srv.URL)
	res, err := r.Run(context.Background(), domain.RunRequest{Check: domain.CheckRealtime})
	require.NoError(t, err)

	require.InDelta(t, 96.3, res.Measures.AccuracyPct, 1e-9)
	require.GreaterOrEqual(t, res.Measures.TotalSec, 0.0)
	require.GreaterOrEqual(t, res.DurationMS, int64(0))

	var summary realtimeSummary
	b, err := os.ReadFile(res.LocalArtifactPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, &summary))
	require.InDelta(t, 96.3, summary.AccuracyPct, 1e-9)
}

func TestRunRealtimeBridgeFailure(t *testing.T) {
	t.Chdir(t.TempDir())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "scanner offline", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	r := NewRunner("CloudCompare", "", srv.URL, srv.URL)
	_, err := r.Run(context.Background(), domain.RunRequest{Check: domain.CheckRealtime})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected status 503")
}

func TestRunDeviationCapturesConsoleLog(t *testing.T) {
	t.Chdir(t.TempDir())

	// pakai echo sebagai pengganti binary alignment: argumen jadi isi log
	r := NewRunner("echo", "", "", "")
	res, err := r.Run(context.Background(), domain.RunRequest{
		Check:     domain.CheckDeviation,
		ScanFile:  "scans/hall.ply",
		ModelFile: "models/hall.obj",
		Tolerance: 0.5,
	})
	require.NoError(t, err)
	require.Equal(t, 0, res.ExitCode)
	require.Equal(t, "log", res.RawFormat)

	b, err := os.ReadFile(res.LocalArtifactPath)
	require.NoError(t, err)
	out := string(b)
	require.Contains(t, out, "-ICP")
	require.Contains(t, out, "-C2M_DIST")
	require.Contains(t, out, "-MAX_DIST 0.5")
	require.Contains(t, out, "scans/hall.ply")
}

func TestRunDeviationNonZeroExit(t *testing.T) {
	t.Chdir(t.TempDir())

	r := NewRunner("false", "", "", "")
	res, err := r.Run(context.Background(), domain.RunRequest{
		Check:     domain.CheckDeviation,
		ScanFile:  "scans/hall.ply",
		ModelFile: "models/hall.obj",
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.ExitCode)
}

func TestRunDeviationMissingBinary(t *testing.T) {
	t.Chdir(t.TempDir())

	r := NewRunner("definitely-not-a-binary-xyz", "", "", "")
	_, err := r.Run(context.Background(), domain.RunRequest{
		Check:     domain.CheckDeviation,
		ScanFile:  "scans/hall.ply",
		ModelFile: "models/hall.obj",
	})
	require.Error(t, err)
}

func TestRunUnsupportedCheck(t *testing.T) {
	t.Chdir(t.TempDir())

	r := NewRunner("CloudCompare", "", "", "")
	_, err := r.Run(context.Background(), domain.RunRequest{Check: domain.Check("fuzz")})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported check")
}
