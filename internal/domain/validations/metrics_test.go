package validations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccuracyFromDeviation(t *testing.T) {
	require.InDelta(t, 99.0, AccuracyFromDeviation(10, 1000), 1e-9)
	require.InDelta(t, 100.0, AccuracyFromDeviation(0, 500), 1e-9)
	require.Equal(t, 0.0, AccuracyFromDeviation(10, 0))
	require.Equal(t, 0.0, AccuracyFromDeviation(10, -1))
}

func TestDeviationReport(t *testing.T) {
	m := Measurements{
		AccuracyPct:    99.0,
		MaxDeviationMM: 0.8,
		AvgDeviationMM: 0.3,
	}
	report := DeviationReport(m)

	require.Equal(t, "Accuracy: 99.00%\nMaximum Deviation: 0.80 mm\nAverage Deviation: 0.30 mm\n", report)

	lines := strings.Split(strings.TrimRight(report, "\n"), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "Accuracy:"))
	require.True(t, strings.HasPrefix(lines[1], "Maximum Deviation:"))
	require.True(t, strings.HasPrefix(lines[2], "Average Deviation:"))
}

func TestUpdateTimeMessage(t *testing.T) {
	require.Equal(t, "Test Failed: Update exceeded time limit.", UpdateTimeMessage(601, 600))
	require.Equal(t, "Test Passed: Virtual environment updated in 599.00 seconds.", UpdateTimeMessage(599, 600))
	// batas persis masih lulus
	require.Contains(t, UpdateTimeMessage(600, 600), "Test Passed")
}

func TestAccuracyMessage(t *testing.T) {
	require.Equal(t, "Test Failed: Twin accuracy 89.00% is below threshold.", AccuracyMessage(89, 90))
	require.Equal(t, "Test Passed: Twin accuracy 90.00% is within 90% threshold.", AccuracyMessage(90, 90))
}

func TestStressMessageReportsFPSWithoutGating(t *testing.T) {
	// FPS jauh di bawah target tapi tidak crash → tetap lulus
	m := Measurements{FPS: 11.5, LoadTimeSec: 4.2, Interactions: 50}
	msg := StressMessage(m, 72)
	require.Contains(t, msg, "Test Passed")
	require.Contains(t, msg, "fps 11.50")
	require.Contains(t, msg, "target 72")

	m.Crashed = true
	require.Equal(t, "Test Failed: environment crashed after 50 interactions.", StressMessage(m, 72))
}

func TestVerdictFor(t *testing.T) {
	// stress: cuma crash flag yang menentukan
	require.Equal(t, StatusPassed, VerdictFor(CheckStress, Measurements{FPS: 5, Crashed: false}, 0, 600, 90))
	require.Equal(t, StatusFailed, VerdictFor(CheckStress, Measurements{FPS: 120, Crashed: true}, 0, 600, 90))

	// realtime: dua-duanya harus lulus
	require.Equal(t, StatusPassed, VerdictFor(CheckRealtime, Measurements{TotalSec: 599, AccuracyPct: 95}, 0, 600, 90))
	require.Equal(t, StatusFailed, VerdictFor(CheckRealtime, Measurements{TotalSec: 601, AccuracyPct: 95}, 0, 600, 90))
	require.Equal(t, StatusFailed, VerdictFor(CheckRealtime, Measurements{TotalSec: 100, AccuracyPct: 89}, 0, 600, 90))

	// deviation: ikut exit code tool
	require.Equal(t, StatusPassed, VerdictFor(CheckDeviation, Measurements{}, 0, 600, 90))
	require.Equal(t, StatusFailed, VerdictFor(CheckDeviation, Measurements{}, 1, 600, 90))
}

func TestMeasurementVerdicts(t *testing.T) {
	require.True(t, Measurements{TotalSec: 600}.UpdateTimePassed(600))
	require.False(t, Measurements{TotalSec: 600.01}.UpdateTimePassed(600))
	require.True(t, Measurements{AccuracyPct: 90}.AccuracyPassed(90))
	require.False(t, Measurements{AccuracyPct: 89.99}.AccuracyPassed(90))
	require.True(t, Measurements{}.StressPassed())
	require.False(t, Measurements{Crashed: true}.StressPassed())
}
