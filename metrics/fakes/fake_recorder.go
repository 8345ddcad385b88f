package fakes

import (
	"time"
)

type StageObservation struct {
	Stage    string
	Outcome  string
	Duration time.Duration
}

type FakeRecorder struct {
	Scans          []int
	ScanErrs       []error
	Analyses       []string
	Stages         []StageObservation
	ShrinkOutcomes []string
}

func (r *FakeRecorder) RecordScan(partitions int, err error) {
	r.Scans = append(r.Scans, partitions)
	r.ScanErrs = append(r.ScanErrs, err)
}

func (r *FakeRecorder) RecordAnalysis(result string) {
	r.Analyses = append(r.Analyses, result)
}

func (r *FakeRecorder) ObserveStage(stage string, outcome string, duration time.Duration) {
	r.Stages = append(r.Stages, StageObservation{Stage: stage, Outcome: outcome, Duration: duration})
}

func (r *FakeRecorder) RecordShrinkOutcome(state string) {
	r.ShrinkOutcomes = append(r.ShrinkOutcomes, state)
}
