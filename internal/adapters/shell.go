package adapters

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/RayMarquina/dbt-project-sub004/internal/ctxlog"
	"github.com/RayMarquina/dbt-project-sub004/internal/executor"
	"github.com/RayMarquina/dbt-project-sub004/internal/node"
	"github.com/RayMarquina/dbt-project-sub004/internal/result"
)

// errCancelled marks a command killed through CancelAll.
var errCancelled = errors.New("cancelled")

// waitDelay bounds how long Wait blocks on output pipes held open by
// grandchildren of a killed shell.
const waitDelay = 2 * time.Second

// Shell executes node commands through `sh -c`.
type Shell struct {
	dir string
	env []string

	mu        sync.Mutex
	running   map[string]*exec.Cmd
	cancelled map[string]struct{}
}

// NewShell creates a shell adapter running commands in dir with env appended
// to the current environment.
func NewShell(dir string, env ...string) *Shell {
	return &Shell{
		dir:       dir,
		env:       env,
		running:   make(map[string]*exec.Cmd),
		cancelled: make(map[string]struct{}),
	}
}

func (s *Shell) Open(_ context.Context, n *node.Node) (executor.Conn, error) {
	return &shellConn{shell: s, node: n}, nil
}

// IsCancelable implements executor.Canceler.
func (s *Shell) IsCancelable() bool { return true }

// CancelAll kills every running command and returns the affected node ids.
func (s *Shell) CancelAll() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	for id, cmd := range s.running {
		s.cancelled[id] = struct{}{}
		_ = cmd.Process.Kill()
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// untrack forgets id and reports whether it was cancelled.
func (s *Shell) untrack(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.running, id)
	_, cancelled := s.cancelled[id]
	delete(s.cancelled, id)
	return cancelled
}

type shellConn struct {
	shell *Shell
	node  *node.Node
}

func (c *shellConn) Execute(ctx context.Context) (*result.RunResult, error) {
	n := c.node
	logger := ctxlog.FromContext(ctx).With("nodeID", n.ID())
	if strings.TrimSpace(n.Command()) == "" {
		logger.Debug("Node has no command, nothing to run.")
		return &result.RunResult{NodeID: n.ID(), Status: result.StatusSuccess, Message: "no command"}, nil
	}

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, "sh", "-c", n.Command())
	cmd.Dir = c.shell.dir
	cmd.Env = append(os.Environ(), c.shell.env...)
	cmd.Env = append(cmd.Env,
		"GRAPHRUN_NODE_ID="+n.ID(),
		"GRAPHRUN_NODE_NAME="+n.Name(),
		"GRAPHRUN_RESOURCE_TYPE="+n.Kind().String(),
	)
	cmd.Stdout = &out
	cmd.Stderr = &out
	cmd.WaitDelay = waitDelay

	logger.Debug("Running shell command.", "command", n.Command())
	err := c.start(cmd)
	if err == nil {
		err = cmd.Wait()
	}
	cancelled := c.shell.untrack(n.ID())
	output := strings.TrimSpace(out.String())

	if cancelled {
		return nil, &executor.NodeError{NodeID: n.ID(), Err: errCancelled}
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return &result.RunResult{NodeID: n.ID(), Status: result.StatusSuccess, Message: "OK", Payload: output}, nil
	case errors.As(err, &exitErr) && n.Kind() == node.KindTest:
		status := result.StatusFail
		if cfg, ok := n.TestConfig(); ok && cfg.Severity == node.SeverityWarn {
			status = result.StatusWarn
		}
		return &result.RunResult{
			NodeID:  n.ID(),
			Status:  status,
			Message: fmt.Sprintf("test exited with code %d: %s", exitErr.ExitCode(), lastLine(output)),
			Payload: output,
		}, nil
	case errors.As(err, &exitErr):
		return nil, &executor.NodeError{
			NodeID: n.ID(),
			Err:    fmt.Errorf("command exited with code %d: %s", exitErr.ExitCode(), lastLine(output)),
		}
	default:
		return nil, &executor.NodeError{NodeID: n.ID(), Err: fmt.Errorf("failed to run command: %w", err)}
	}
}

// start launches cmd and registers it for cancellation under the same lock,
// so CancelAll never sees a command without a process.
func (c *shellConn) start(cmd *exec.Cmd) error {
	c.shell.mu.Lock()
	defer c.shell.mu.Unlock()
	if err := cmd.Start(); err != nil {
		return err
	}
	c.shell.running[c.node.ID()] = cmd
	return nil
}

func (c *shellConn) Close() error { return nil }

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
