package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/example/signal-worker/internal/detector"
	"github.com/example/signal-worker/internal/events"
	"github.com/spf13/cobra"
)

// signalStats aggregates the detections of one signal across targets.
type signalStats struct {
	SignalID       string  `json:"signalId"`
	Evaluated      int     `json:"evaluated"`
	Detected       int     `json:"detected"`
	Failed         int     `json:"failed"`
	MeanConfidence float64 `json:"meanConfidence"`
}

func newReportCmd() *cobra.Command {
	var inputPath string
	var summaryPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate aggregate stats from a detections artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			if inputPath == "" {
				return errors.New("--input is required")
			}

			data, err := os.ReadFile(inputPath)
			if err != nil {
				return err
			}

			var report detector.Report
			if err := json.Unmarshal(data, &report); err != nil {
				return fmt.Errorf("parse %s: %w", inputPath, err)
			}

			stats := map[string]interface{}{
				"input":       inputPath,
				"generatedAt": time.Now().UTC().Format(time.RFC3339),
				"targets":     countTargets(report),
				"detections":  len(report.Detections),
				"failures":    len(report.Failures),
				"signals":     aggregateSignals(report),
			}

			emitter := events.NewEmitter(cmd.OutOrStdout())
			if err := emitter.Emit(events.Event{Type: events.TypeReport, Message: "Report generated", Fields: stats}); err != nil {
				return err
			}

			if summaryPath != "" {
				if err := writeJSON(summaryPath, stats, 0o600); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Summary written to %s\n", summaryPath)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "Path to JSON detections artifact")
	cmd.Flags().StringVar(&summaryPath, "summary-file", "", "Optional path to store summary JSON")
	if err := cmd.MarkFlagRequired("input"); err != nil {
		panic(err)
	}

	return cmd
}

func countTargets(report detector.Report) int {
	seen := map[string]struct{}{}
	for _, d := range report.Detections {
		seen[d.Target] = struct{}{}
	}
	for _, f := range report.Failures {
		seen[f.Target] = struct{}{}
	}
	return len(seen)
}

// aggregateSignals returns per-signal statistics sorted by signal id. The mean
// confidence covers positive verdicts only.
func aggregateSignals(report detector.Report) []signalStats {
	bySignal := map[string]*signalStats{}
	get := func(id string) *signalStats {
		s, ok := bySignal[id]
		if !ok {
			s = &signalStats{SignalID: id}
			bySignal[id] = s
		}
		return s
	}

	sums := map[string]float64{}
	for _, d := range report.Detections {
		s := get(d.SignalID)
		s.Evaluated++
		if d.Detected {
			s.Detected++
			sums[d.SignalID] += d.Confidence
		}
	}
	for _, f := range report.Failures {
		get(f.SignalID).Failed++
	}

	out := make([]signalStats, 0, len(bySignal))
	for id, s := range bySignal {
		if s.Detected > 0 {
			s.MeanConfidence = sums[id] / float64(s.Detected)
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SignalID < out[j].SignalID })
	return out
}
