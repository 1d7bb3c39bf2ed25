package twintools

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	domain "github.com/bryanwahyu/twin-verify/internal/domain/validations"
)

// runDeviation exec CLI alignment (CloudCompare): buka scan + model,
// ICP align, lalu hitung jarak cloud-to-mesh. Console log disimpan
// sebagai artifact dan angka-angkanya di-parse di layer domain.
func (r *Runner) runDeviation(ctx context.Context, req domain.RunRequest, artifactPath string) (domain.RunResult, error) {
	artifactPath += ".log"

	args := []string{
		"-SILENT",
		"-AUTO_SAVE", "OFF",
		"-O", req.ScanFile,
		"-O", req.ModelFile,
		"-ICP", "-OVERLAP", "90",
		"-C2M_DIST",
	}
	if req.Tolerance > 0 {
		args = append(args, "-MAX_DIST", strconv.FormatFloat(req.Tolerance, 'f', -1, 64))
	}
	cmd := exec.CommandContext(ctx, r.alignBin, args...)

	out, err := cmd.CombinedOutput()
	exitCode := 0
	if err != nil {
		// ambil exit code
		if ee, ok := err.(*exec.ExitError); ok {
			exitCode = ee.ExitCode()
		} else {
			return domain.RunResult{}, fmt.Errorf("run error: %v, output=%s", err, string(out))
		}
	}

	if werr := os.WriteFile(artifactPath, out, 0o644); werr != nil {
		return domain.RunResult{}, werr
	}

	return domain.RunResult{
		LocalArtifactPath: artifactPath,
		RawFormat:         "log",
		ExitCode:          exitCode,
	}, nil
}
