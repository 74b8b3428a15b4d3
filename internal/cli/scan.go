package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/example/signal-worker/internal/config"
	"github.com/example/signal-worker/internal/detector"
	"github.com/example/signal-worker/internal/events"
	"github.com/example/signal-worker/internal/metrics"
	"github.com/example/signal-worker/internal/page"
	"github.com/spf13/cobra"
)

func newScanCmd(loader *config.Loader, registry detector.Registry) *cobra.Command {
	flags := &runtimeFlagSet{}

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Evaluate every target against the selected signals",
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := flags.toOverrides(cmd)
			cfg, err := loader.Load(overrides)
			if err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := ensureOutputDir(cfg.OutputDir); err != nil {
				return err
			}

			dets, err := registry.BuildDetectors(cfg.Signals)
			if err != nil {
				return err
			}

			emitter := events.NewEmitter(cmd.OutOrStdout()).WithRunID(events.NewRunID())
			if err := emitter.Emit(events.Event{Type: events.TypeScanStart, Message: "Starting scan", Fields: map[string]interface{}{
				"targets": len(cfg.Targets),
				"signals": signalIDs(dets),
				"threads": cfg.Threads,
				"dryRun":  cfg.DryRun,
			}}); err != nil {
				return err
			}

			var report detector.Report
			if cfg.DryRun {
				for _, target := range cfg.Targets {
					if err := emitter.Emit(events.Event{Type: events.TypeScanPlan, Fields: map[string]interface{}{"target": target, "signals": signalIDs(dets)}}); err != nil {
						return err
					}
				}
			} else {
				recorder := metrics.NewRecorder()
				fetcher := page.NewFetcher(
					&http.Client{Timeout: cfg.Timeout},
					page.WithMaxBodyBytes(cfg.MaxBodyBytes),
					page.WithUserAgent(cfg.UserAgent),
				)

				report, err = detector.Run(cmd.Context(), page.NewOpener(fetcher), dets, cfg.Targets, detector.RunOptions{
					Concurrency: cfg.Threads,
					Observer:    recorder,
				})
				if err != nil {
					return err
				}

				if err := emitReport(emitter, report); err != nil {
					return err
				}

				if cfg.MetricsFile != "" {
					if err := ensureOutputDir(filepath.Dir(cfg.MetricsFile)); err != nil {
						return err
					}
					if err := recorder.WriteTextfile(cfg.MetricsFile); err != nil {
						return err
					}
				}
			}

			now := time.Now()
			var outputs []string

			for _, format := range cfg.Formats {
				outputPath := artifactPath(cfg.OutputDir, now, format)
				if cfg.DryRun {
					if err := writePlaceholderArtifact(outputPath, format, cfg.Targets); err != nil {
						return err
					}
				} else if err := writeDetectionsArtifact(outputPath, format, report); err != nil {
					return err
				}

				outputs = append(outputs, outputPath)
				if err := emitter.Emit(events.Event{Type: events.TypeArtifactWritten, Fields: map[string]interface{}{"path": outputPath, "format": format}}); err != nil {
					return err
				}
			}

			if cfg.SummaryFile != "" {
				if err := writeSummary(cfg.SummaryFile, cfg, emitter.RunID(), outputs, report); err != nil {
					return err
				}
			}

			return emitter.Emit(events.Event{Type: events.TypeScanFinished, Message: "Scan complete", Fields: map[string]interface{}{
				"artifacts":  len(outputs),
				"detections": len(report.Detections),
				"detected":   countDetected(report.Detections),
				"failures":   len(report.Failures),
			}})
		},
	}

	bindRuntimeFlags(cmd, flags)

	return cmd
}

func signalIDs(dets []detector.Detector) []string {
	ids := make([]string, 0, len(dets))
	for _, d := range dets {
		ids = append(ids, d.Identity().SignalID)
	}
	return ids
}

func countDetected(detections []detector.Detection) int {
	n := 0
	for _, d := range detections {
		if d.Detected {
			n++
		}
	}
	return n
}

func emitReport(emitter *events.Emitter, report detector.Report) error {
	for _, d := range report.Detections {
		if err := emitter.Emit(events.Event{Type: events.TypeSignalResult, Fields: map[string]interface{}{
			"target":     d.Target,
			"signalId":   d.SignalID,
			"detected":   d.Detected,
			"confidence": d.Confidence,
			"evidence":   d.Evidence,
		}}); err != nil {
			return err
		}
	}
	for _, f := range report.Failures {
		if err := emitter.Emit(events.Event{Type: events.TypeSignalFailed, Level: events.LevelWarn, Message: f.Error, Fields: map[string]interface{}{
			"target":   f.Target,
			"signalId": f.SignalID,
		}}); err != nil {
			return err
		}
	}
	return nil
}

func writePlaceholderArtifact(path, format string, targets []string) error {
	if err := ensureOutputDir(filepath.Dir(path)); err != nil {
		return err
	}

	switch format {
	case "json":
		payload := map[string]interface{}{
			"generatedAt": time.Now().UTC().Format(time.RFC3339),
			"targets":     targets,
			"note":        "dry-run placeholder artifact",
		}
		return writeJSON(path, payload, 0o644)
	case "csv":
		rows := [][]string{{"target", "status"}}
		for _, target := range targets {
			rows = append(rows, []string{target, "placeholder"})
		}
		return writeCSV(path, rows)
	default:
		return fmt.Errorf("unsupported format %s", format)
	}
}

// writeDetectionsArtifact stores a run report. Empty slices are written as
// [] so consumers never see null.
func writeDetectionsArtifact(path, format string, report detector.Report) error {
	if err := ensureOutputDir(filepath.Dir(path)); err != nil {
		return err
	}

	if report.Detections == nil {
		report.Detections = []detector.Detection{}
	}
	if report.Failures == nil {
		report.Failures = []detector.Failure{}
	}

	switch format {
	case "json":
		return writeJSON(path, report, 0o644)
	case "csv":
		rows := [][]string{{"target", "signalId", "detected", "confidence", "evidence", "error"}}
		for _, d := range report.Detections {
			evidence, err := json.Marshal(d.Evidence)
			if err != nil {
				return err
			}
			rows = append(rows, []string{
				d.Target,
				d.SignalID,
				strconv.FormatBool(d.Detected),
				strconv.FormatFloat(d.Confidence, 'f', 2, 64),
				string(evidence),
				"",
			})
		}
		for _, f := range report.Failures {
			rows = append(rows, []string{f.Target, f.SignalID, "", "", "", f.Error})
		}
		return writeCSV(path, rows)
	default:
		return fmt.Errorf("unsupported format %s", format)
	}
}

func writeSummary(path string, cfg config.RuntimeConfig, runID string, artifacts []string, report detector.Report) error {
	summary := map[string]interface{}{
		"generatedAt": time.Now().UTC().Format(time.RFC3339),
		"runId":       runID,
		"targets":     cfg.Targets,
		"signals":     cfg.Signals,
		"artifacts":   artifacts,
		"dryRun":      cfg.DryRun,
		"detections":  len(report.Detections),
		"detected":    countDetected(report.Detections),
		"failures":    len(report.Failures),
	}

	return writeJSON(path, summary, 0o644)
}
