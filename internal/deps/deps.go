package deps

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Requirement defines an external dependency dupsweep relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	// VersionArgs, when set, are passed to the resolved binary and the first
	// output line is reported as its version.
	VersionArgs []string
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Path        string
	Description string
	Optional    bool
	Available   bool
	Version     string
	Detail      string
}

const versionProbeTimeout = 5 * time.Second

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(ctx context.Context, requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		path, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Path = path
		status.Available = true
		if len(req.VersionArgs) > 0 {
			status.Version = probeVersion(ctx, path, req.VersionArgs)
		}
		results = append(results, status)
	}
	return results
}

// MissingRequired returns the required dependencies that are unavailable.
func MissingRequired(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status)
		}
	}
	return missing
}

func probeVersion(ctx context.Context, path string, args []string) string {
	if ctx == nil {
		ctx = context.Background()
	}
	probeCtx, cancel := context.WithTimeout(ctx, versionProbeTimeout)
	defer cancel()

	var stdout bytes.Buffer
	cmd := exec.CommandContext(probeCtx, path, args...)
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return ""
	}
	scanner := bufio.NewScanner(&stdout)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text())
	}
	return ""
}
