package main

import (
	"fmt"
	"io"

	"github.com/sweeney/buzzer-sweep/internal/analysis"
	"github.com/sweeney/buzzer-sweep/internal/sweep"
)

type analyzeOptions struct {
	pattern    string
	rng        string
	speed      int
	seconds    float64
	sampleRate int
	seed       uint16
}

func runAnalyze(w io.Writer, opts analyzeOptions) error {
	r, err := sweep.ParseRange(opts.rng)
	if err != nil {
		return err
	}
	aopts := analysis.Options{
		SampleRate: opts.sampleRate,
		Seconds:    opts.seconds,
		Seed:       opts.seed,
	}

	var reports []analysis.Report
	if opts.pattern == "all" {
		reports, err = analysis.AnalyzeAll(r, opts.speed, aopts)
		if err != nil {
			return err
		}
	} else {
		p, err := sweep.ParsePattern(opts.pattern)
		if err != nil {
			return err
		}
		rep, err := analysis.Analyze(p, r, opts.speed, aopts)
		if err != nil {
			return err
		}
		reports = append(reports, rep)
	}

	_, err = fmt.Fprintln(w, analysis.FormatTable(reports, opts.sampleRate))
	return err
}
