package twintools

import (
	"context"
	"fmt"

	domain "github.com/bryanwahyu/twin-verify/internal/domain/validations"
)

type stressSummary struct {
	LoadTimeSec  float64 `json:"load_time_s"`
	FPS          float64 `json:"fps"`
	Crashed      bool    `json:"crashed"`
	Interactions int     `json:"interactions"`
}

// runStress stress test lewat remote API VR engine: load scene (ukur
// load time), interaksi N kali masing-masing diikuti validate, lalu
// ambil FPS dan crash flag. Loop interaksi selalu jalan penuh,
// hasil validate tidak menghentikan loop.
func (r *Runner) runStress(ctx context.Context, req domain.RunRequest, artifactPath string) (domain.RunResult, error) {
	base := req.Target
	if base == "" {
		base = r.engineURL
	}
	if base == "" {
		return domain.RunResult{}, fmt.Errorf("engine bridge URL is not configured")
	}

	var load struct {
		LoadTimeSec float64 `json:"load_time_s"`
	}
	if err := r.postJSON(ctx, base+"/scene/load", map[string]string{"scene": req.Scene}, &load); err != nil {
		return domain.RunResult{}, err
	}

	for i := 0; i < req.Interactions; i++ {
		if err := r.postJSON(ctx, base+"/interact", map[string]int{"seq": i}, nil); err != nil {
			return domain.RunResult{}, err
		}
		var vr struct {
			OK bool `json:"ok"`
		}
		if err := r.getJSON(ctx, base+"/validate", &vr); err != nil {
			return domain.RunResult{}, err
		}
		// vr.OK sengaja diabaikan
	}

	var fps struct {
		FPS float64 `json:"fps"`
	}
	if err := r.getJSON(ctx, base+"/metrics/fps", &fps); err != nil {
		return domain.RunResult{}, err
	}
	var crashed struct {
		Crashed bool `json:"crashed"`
	}
	if err := r.getJSON(ctx, base+"/crashed", &crashed); err != nil {
		return domain.RunResult{}, err
	}

	summary := stressSummary{
		LoadTimeSec:  load.LoadTimeSec,
		FPS:          fps.FPS,
		Crashed:      crashed.Crashed,
		Interactions: req.Interactions,
	}
	artifactPath += ".json"
	if err := writeArtifact(artifactPath, summary); err != nil {
		return domain.RunResult{}, err
	}

	return domain.RunResult{
		Measures: domain.Measurements{
			LoadTimeSec:  summary.LoadTimeSec,
			FPS:          summary.FPS,
			Crashed:      summary.Crashed,
			Interactions: summary.Interactions,
		},
		LocalArtifactPath: artifactPath,
		RawFormat:         "json",
		ExitCode:          0,
	}, nil
}
