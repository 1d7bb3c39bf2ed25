package validations

// RunRequest untuk Runner
type RunRequest struct {
	Check        Check
	ScanFile     string  // path point cloud hasil scan (.ply)
	ModelFile    string  // path model virtual (.obj/.ply)
	Scene        string  // path/ID scene VR
	Target       string  // override base URL bridge (kosong = pakai config)
	Interactions int     // jumlah interaksi stress test
	Tolerance    float64 // toleransi alignment (mm)
}

// RunResult hasil dari Runner
type RunResult struct {
	Measures          Measurements
	LocalArtifactPath string
	RawFormat         string
	ExitCode          int
	DurationMS        int64
}
