package application

import "time"

// Clock dipakai buat stempel waktu TriggeredAt supaya run gampang ditest
// dengan waktu tetap
type Clock interface {
	Now() time.Time
}

// SystemClock implementasi default, pakai time.Now()
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
