package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"stagehand/internal/definition"
	"stagehand/internal/orchestrator"
	"stagehand/pkg/logging"
	stringsutil "stagehand/pkg/strings"
)

// TypeExec is the definition type of ExecService.
const TypeExec = "exec"

// waitDelay bounds how long output is drained after the command is killed.
const waitDelay = time.Second

// ExecService is loaded by running a command to completion.
type ExecService struct {
	*BaseService
	path     string
	output   string
	duration time.Duration
}

// NewExecService is the Factory for TypeExec. It runs def.Path with the
// service name in STAGEHAND_SERVICE and succeeds when the command exits 0.
// The command is killed when ctx is cancelled.
func NewExecService(ctx context.Context, def definition.Definition) (orchestrator.Instance, error) {
	if strings.TrimSpace(def.Path) == "" {
		return nil, fmt.Errorf("service %s: exec type requires a path", def.Name)
	}

	s := &ExecService{
		BaseService: NewBaseService(def.Name, TypeExec, def.Dependencies),
		path:        def.Path,
	}
	s.UpdateState(StateStarting, nil)

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, def.Path)
	cmd.Env = append(os.Environ(), "STAGEHAND_SERVICE="+def.Name)
	cmd.Stdout = &out
	cmd.Stderr = &out
	cmd.WaitDelay = waitDelay

	start := time.Now()
	err := cmd.Run()
	s.duration = time.Since(start)
	s.output = stringsutil.Truncate(out.String(), stringsutil.OutputMaxLen)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w (%v)", ctxErr, err)
		}
		err = fmt.Errorf("service %s: %s failed: %w", def.Name, def.Path, err)
		s.UpdateState(StateFailed, err)
		if s.output != "" {
			logging.Debug("ExecService", "Output of %s: %s", def.Name, stringsutil.SingleLine(s.output))
		}
		return nil, err
	}

	logging.Debug("ExecService", "%s completed in %s", def.Path, s.duration)
	s.UpdateState(StateRunning, nil)
	return s, nil
}

// Output returns the captured, possibly truncated, command output.
func (s *ExecService) Output() string {
	return s.output
}

// Duration returns how long the command ran.
func (s *ExecService) Duration() time.Duration {
	return s.duration
}

// Path returns the command that was run.
func (s *ExecService) Path() string {
	return s.path
}

// Stop marks the service stopped. The command has already exited.
func (s *ExecService) Stop(ctx context.Context) error {
	s.UpdateState(StateStopped, nil)
	return nil
}
