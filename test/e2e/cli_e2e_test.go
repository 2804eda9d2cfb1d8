package e2e

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// TestCLI_E2E verifies the built binary end to end.
func TestCLI_E2E(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping binary build in short mode")
	}

	tmpDir := t.TempDir()
	binName := "sigvalid"
	if runtime.GOOS == "windows" {
		binName = "sigvalid.exe"
	}
	binPath := filepath.Join(tmpDir, binName)

	// go test runs with the package directory as working directory.
	rootDir := "../.."

	build := exec.Command("go", "build", "-o", binPath, "./cmd/sigvalid")
	build.Dir = rootDir
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		t.Fatalf("Failed to build sigvalid: %v", err)
	}

	candidate := filepath.Join("testdata", "candidate.csv")
	ref := filepath.Join("testdata", "reference.csv")
	unrelated := filepath.Join("testdata", "unrelated.csv")
	reportPath := filepath.Join(tmpDir, "out", "report.txt")
	historyPath := filepath.Join(tmpDir, "history.db")

	tests := []struct {
		name     string
		args     []string
		wantOut  string // substring match (case-insensitive)
		wantCode int
	}{
		{
			name:     "Full Report",
			args:     []string{"validate", "-c", candidate, "-r", ref, "--rate", "250"},
			wantOut:  "EXCELLENT: the candidate practically matches the reference.",
			wantCode: 0,
		},
		{
			name:     "Quiet Mode",
			args:     []string{"validate", "-c", candidate, "-r", ref, "--rate", "250", "-q"},
			wantOut:  "EXCELLENT",
			wantCode: 0,
		},
		{
			name:     "Save Report And History",
			args:     []string{"validate", "-c", candidate, "-r", ref, "--rate", "250", "-o", reportPath, "--history", historyPath},
			wantOut:  "Report saved to",
			wantCode: 0,
		},
		{
			name:     "History Listing",
			args:     []string{"history", "--history", historyPath},
			wantOut:  "EXCELLENT",
			wantCode: 0,
		},
		{
			name:     "Verdict Below Minimum",
			args:     []string{"validate", "-c", candidate, "-r", unrelated, "--rate", "250", "--min-verdict", "good", "-q"},
			wantOut:  "POOR",
			wantCode: 3,
		},
		{
			name:     "Missing Reference",
			args:     []string{"validate", "-c", candidate, "-r", filepath.Join(tmpDir, "missing.csv"), "--rate", "250"},
			wantOut:  "VALIDATION ERROR:",
			wantCode: 5,
		},
		{
			name:     "Missing Rate",
			args:     []string{"validate", "-c", candidate, "-r", ref},
			wantOut:  "--rate",
			wantCode: 4,
		},
		{
			name:     "Unknown Flag",
			args:     []string{"validate", "--bogus"},
			wantOut:  "unknown flag",
			wantCode: 4,
		},
		{
			name:     "Help",
			args:     []string{"--help"},
			wantOut:  "usage",
			wantCode: 0,
		},
		{
			name:     "Version Flag",
			args:     []string{"--version"},
			wantOut:  "sigvalid",
			wantCode: 0,
		},
	}

	if runtime.GOOS != "windows" {
		tests = append(tests, struct {
			name     string
			args     []string
			wantOut  string
			wantCode int
		}{
			name:     "Reference Command",
			args:     []string{"validate", "-c", candidate, "--reference-cmd", "cat", "--rate", "250", "-q"},
			wantOut:  "EXCELLENT",
			wantCode: 0,
		})
	}

	// Cases run in order: the history listing reads the run recorded before it.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binPath, tt.args...)
			cmd.Env = append(os.Environ(), "NO_COLOR=1")
			output, err := cmd.CombinedOutput()
			outStr := string(output)

			code := 0
			if err != nil {
				var exitErr *exec.ExitError
				if !errors.As(err, &exitErr) {
					t.Fatalf("Command did not run: %v", err)
				}
				code = exitErr.ExitCode()
			}
			if code != tt.wantCode {
				t.Errorf("Exit code = %d, want %d\nOutput: %s", code, tt.wantCode, outStr)
			}

			if tt.wantOut != "" && !strings.Contains(strings.ToLower(outStr), strings.ToLower(tt.wantOut)) {
				t.Errorf("Output missing expected string.\nExpected: %q\nGot:\n%s", tt.wantOut, outStr)
			}
		})
	}

	content, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("report was not saved: %v", err)
	}
	if !strings.HasPrefix(string(content), "VALIDATION REPORT") {
		t.Errorf("saved report has unexpected content:\n%s", content)
	}
}
