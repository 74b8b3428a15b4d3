package cli

import (
	"reflect"
	"testing"
	"time"

	"github.com/example/signal-worker/internal/config"
	"github.com/spf13/cobra"
)

func TestRuntimeFlagSetToOverrides(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected config.Overrides
	}{
		{
			name:     "no flags changed",
			args:     nil,
			expected: config.Overrides{},
		},
		{
			name: "targets and signals",
			args: []string{"--targets", "https://one.test,fixtures/a.yml", "--signals", "A, B"},
			expected: config.Overrides{
				Targets: []string{"https://one.test", "fixtures/a.yml"},
				Signals: []string{"A", "B"},
			},
		},
		{
			name: "targets file",
			args: []string{"--targets-file", "/tmp/targets.txt"},
			expected: config.Overrides{
				TargetsFile: "/tmp/targets.txt",
			},
		},
		{
			name: "threads explicitly zero",
			args: []string{"--threads", "0"},
			expected: config.Overrides{
				Threads:    0,
				ThreadsSet: true,
			},
		},
		{
			name: "output settings",
			args: []string{"--output-dir", "out", "--formats", "JSON,csv", "--summary-file", "s.json", "--metrics-file", "m.prom"},
			expected: config.Overrides{
				OutputDir:   "out",
				Formats:     []string{"json", "csv"},
				SummaryFile: "s.json",
				MetricsFile: "m.prom",
			},
		},
		{
			name: "dry run false is still an override",
			args: []string{"--dry-run=false"},
			expected: config.Overrides{
				DryRun: boolPtr(false),
			},
		},
		{
			name: "fetch settings",
			args: []string{"--timeout", "3s", "--max-body-bytes", "1024", "--user-agent", "probe/1"},
			expected: config.Overrides{
				Timeout:      3 * time.Second,
				MaxBodyBytes: 1024,
				UserAgent:    "probe/1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "test"}
			flags := &runtimeFlagSet{}
			bindRuntimeFlags(cmd, flags)

			if err := cmd.Flags().Parse(tt.args); err != nil {
				t.Fatalf("parse flags: %v", err)
			}

			result := flags.toOverrides(cmd)

			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("toOverrides() mismatch\nGot:      %+v\nExpected: %+v", result, tt.expected)
			}
		})
	}
}

// Helper function to create a pointer to a bool value
func boolPtr(b bool) *bool {
	return &b
}
