package domain

import "time"

// RaceStatus represents the lifecycle state of a race.
type RaceStatus string

const (
	RaceStatusBetting  RaceStatus = "betting"
	RaceStatusLocked   RaceStatus = "locked"
	RaceStatusRunning  RaceStatus = "running"
	RaceStatusFinished RaceStatus = "finished"
)

// Race is one timed betting cycle around a simulated price outcome. Exactly
// one race is active at a time; the engine owns it exclusively.
type Race struct {
	ID            string
	Name          string
	Sequence      int
	Status        RaceStatus
	CurrentPrice  float64 // price sampled at race creation
	TargetPrice   float64 // final price, set only at finish
	TimeRemaining int     // seconds left in the countdown, never negative
	Models        []Model
	Winner        string // winning model ID, set only at finish
	StartedAt     time.Time
}

// Model is a simulated prediction agent competing in a race. Identity, name,
// personality, and color come from static configuration; the prediction and
// confidence are generated fresh for each race and are immutable once the
// race is running.
type Model struct {
	ID          string
	Name        string
	Personality string
	Color       string
	Prediction  float64
	Confidence  int // 0-100
}
