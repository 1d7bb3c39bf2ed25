package validations

import (
	"encoding/json"
	"os"
	"regexp"
	"strconv"
	"strings"
)

func ParseMeasurements(check Check, artifactPath string) (Measurements, error) {
	switch check {
	case CheckDeviation:
		return parseAlignmentLog(artifactPath)
	case CheckStress:
		return parseStressJSON(artifactPath)
	case CheckRealtime:
		return parseRealtimeJSON(artifactPath)
	default:
		return Measurements{}, nil
	}
}

var (
	rxTotalDev = regexp.MustCompile(`total\s+deviation\s*[:=]\s*([0-9]+\.?[0-9]*(?:[eE][+-]?[0-9]+)?)`)
	rxVolume   = regexp.MustCompile(`(?:reference|real[\s-]?world)\s+volume\s*[:=]\s*([0-9]+\.?[0-9]*(?:[eE][+-]?[0-9]+)?)`)
	rxMaxDev   = regexp.MustCompile(`max(?:imum)?\s+(?:distance|deviation)\s*[:=]\s*([0-9]+\.?[0-9]*(?:[eE][+-]?[0-9]+)?)`)
	rxAvgDev   = regexp.MustCompile(`(?:mean|average)\s+(?:distance|deviation)\s*[:=]\s*([0-9]+\.?[0-9]*(?:[eE][+-]?[0-9]+)?)`)
	// format klasik CloudCompare: "Mean distance = 0.0025 / std deviation = 0.0012"
	rxC2MStats = regexp.MustCompile(`mean\s+distance\s*=\s*([0-9]+\.?[0-9]*(?:[eE][+-]?[0-9]+)?)\s*/\s*std\s+deviation\s*=\s*([0-9]+\.?[0-9]*(?:[eE][+-]?[0-9]+)?)`)
)

// parseAlignmentLog scrape angka deviasi dari console log tool alignment.
// Regex heuristik; label bisa sedikit beda antar versi tool.
func parseAlignmentLog(path string) (Measurements, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Measurements{}, err
	}
	s := strings.ToLower(string(b))

	var m Measurements
	if g := rxTotalDev.FindStringSubmatch(s); g != nil {
		m.TotalDeviation, _ = strconv.ParseFloat(g[1], 64)
	}
	if g := rxVolume.FindStringSubmatch(s); g != nil {
		m.RealWorldVolume, _ = strconv.ParseFloat(g[1], 64)
	}
	if g := rxMaxDev.FindStringSubmatch(s); g != nil {
		m.MaxDeviationMM, _ = strconv.ParseFloat(g[1], 64)
	}
	if g := rxAvgDev.FindStringSubmatch(s); g != nil {
		m.AvgDeviationMM, _ = strconv.ParseFloat(g[1], 64)
	}

	// Fallback: log C2M_DIST tanpa label "average deviation"
	if m.AvgDeviationMM == 0 {
		if g := rxC2MStats.FindStringSubmatch(s); g != nil {
			m.AvgDeviationMM, _ = strconv.ParseFloat(g[1], 64)
		}
	}

	if m.RealWorldVolume > 0 {
		m.AccuracyPct = AccuracyFromDeviation(m.TotalDeviation, m.RealWorldVolume)
	}
	return m, nil
}

func parseStressJSON(path string) (Measurements, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Measurements{}, err
	}
	var obj struct {
		LoadTimeSec  float64 `json:"load_time_s"`
		FPS          float64 `json:"fps"`
		Crashed      bool    `json:"crashed"`
		Interactions int     `json:"interactions"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return Measurements{}, err
	}
	return Measurements{
		LoadTimeSec:  obj.LoadTimeSec,
		FPS:          obj.FPS,
		Crashed:      obj.Crashed,
		Interactions: obj.Interactions,
	}, nil
}

func parseRealtimeJSON(path string) (Measurements, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Measurements{}, err
	}
	var obj struct {
		ScanSec     float64 `json:"scan_s"`
		UpdateSec   float64 `json:"update_s"`
		TotalSec    float64 `json:"total_s"`
		AccuracyPct float64 `json:"accuracy_pct"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return Measurements{}, err
	}
	m := Measurements{
		ScanSec:     obj.ScanSec,
		UpdateSec:   obj.UpdateSec,
		TotalSec:    obj.TotalSec,
		AccuracyPct: obj.AccuracyPct,
	}
	if m.TotalSec == 0 {
		m.TotalSec = m.ScanSec + m.UpdateSec
	}
	return m, nil
}
