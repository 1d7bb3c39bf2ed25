package validations

import (
	"fmt"
	"strings"
)

// AccuracyFromDeviation hitung akurasi (%) dari total deviasi vs volume nyata.
// accuracy = 100 - (total_deviation / real_world_volume) * 100
func AccuracyFromDeviation(totalDeviation, realWorldVolume float64) float64 {
	if realWorldVolume <= 0 {
		return 0
	}
	return 100 - (totalDeviation/realWorldVolume)*100
}

// DeviationReport render laporan 3 baris dengan 2 angka desimal.
// Urutan baris tetap: Accuracy, Maximum Deviation, Average Deviation.
func DeviationReport(m Measurements) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Accuracy: %.2f%%\n", m.AccuracyPct)
	fmt.Fprintf(&b, "Maximum Deviation: %.2f mm\n", m.MaxDeviationMM)
	fmt.Fprintf(&b, "Average Deviation: %.2f mm\n", m.AvgDeviationMM)
	return b.String()
}

// UpdateTimePassed cek apakah propagasi update selesai dalam batas waktu.
func (m Measurements) UpdateTimePassed(limitSec float64) bool {
	return m.TotalSec <= limitSec
}

// AccuracyPassed cek apakah akurasi twin memenuhi threshold.
// Toleransi assertion dari tool asli tidak dipakai di aturan ini.
func (m Measurements) AccuracyPassed(threshold float64) bool {
	return m.AccuracyPct >= threshold
}

// StressPassed: verdict stress test murni dari crash flag.
// FPS dilaporkan tapi tidak pernah jadi syarat lulus.
func (m Measurements) StressPassed() bool {
	return !m.Crashed
}

// UpdateTimeMessage pesan pass/fail untuk check waktu update
func UpdateTimeMessage(totalSec, limitSec float64) string {
	if totalSec <= limitSec {
		return fmt.Sprintf("Test Passed: Virtual environment updated in %.2f seconds.", totalSec)
	}
	return "Test Failed: Update exceeded time limit."
}

// AccuracyMessage pesan pass/fail untuk check akurasi twin
func AccuracyMessage(accuracyPct, threshold float64) string {
	if accuracyPct >= threshold {
		return fmt.Sprintf("Test Passed: Twin accuracy %.2f%% is within %.0f%% threshold.", accuracyPct, threshold)
	}
	return fmt.Sprintf("Test Failed: Twin accuracy %.2f%% is below threshold.", accuracyPct)
}

// StressMessage pesan pass/fail untuk stress test. fpsTarget hanya dilaporkan.
func StressMessage(m Measurements, fpsTarget float64) string {
	if m.Crashed {
		return fmt.Sprintf("Test Failed: environment crashed after %d interactions.", m.Interactions)
	}
	return fmt.Sprintf("Test Passed: no crash after %d interactions (load %.2fs, fps %.2f, target %.0f).",
		m.Interactions, m.LoadTimeSec, m.FPS, fpsTarget)
}

// VerdictFor tentukan status akhir sebuah run berdasarkan jenis check.
// deviation ikut exit code tool eksternal; stress ikut crash flag;
// realtime lulus hanya kalau waktu DAN akurasi dua-duanya lulus.
func VerdictFor(check Check, m Measurements, exitCode int, limitSec, accuracyThreshold float64) Status {
	switch check {
	case CheckStress:
		if m.StressPassed() {
			return StatusPassed
		}
		return StatusFailed
	case CheckRealtime:
		if m.UpdateTimePassed(limitSec) && m.AccuracyPassed(accuracyThreshold) {
			return StatusPassed
		}
		return StatusFailed
	default:
		if exitCode == 0 {
			return StatusPassed
		}
		return StatusFailed
	}
}
