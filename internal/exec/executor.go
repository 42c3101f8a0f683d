package exec

import (
	"context"
	"io"
	osexec "os/exec"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/moldable-ai/agent-sandbox/internal/execenv"
	"github.com/moldable-ai/agent-sandbox/internal/sandbox"
)

// DefaultGracePeriod is how long a cancelled process gets to exit after
// SIGTERM before the whole group is killed.
const DefaultGracePeriod = 5 * time.Second

// streamChunkSize is the read size for stdout/stderr pumping.
const streamChunkSize = 8 * 1024

// OutputEvent is one chunk of live output. Chunks within a stream arrive in
// order; stdout and stderr carry no cross-stream ordering guarantee.
type OutputEvent struct {
	Stream string // "stdout" or "stderr"
	Chunk  []byte
}

// Request describes one command invocation.
type Request struct {
	// Command is the raw shell command, run via "bash -c".
	Command string
	Cwd     string

	// Env, when non-nil, replaces the inherited environment.
	Env map[string]string

	// DisableSandbox runs the command without sandbox wrapping. The caller
	// is expected to have routed such requests through approval.
	DisableSandbox bool

	// GracePeriod overrides DefaultGracePeriod when positive.
	GracePeriod time.Duration

	// OnOutput, when non-nil, receives live output chunks.
	OnOutput func(OutputEvent)
}

// Result is the outcome of a command invocation. Failure is data, never an
// error: a bad command must not abort the agent loop.
type Result struct {
	Success  bool
	ExitCode int
	Stdout   string
	Stderr   string
	Killed   bool

	// Signal is the name of the signal that terminated the process
	// ("SIGKILL"), empty when the process exited on its own.
	Signal string

	Sandboxed bool
	Truncated bool

	// Error describes a harness-level failure (the command could not be
	// spawned). Empty when the command ran, even unsuccessfully.
	Error string

	Duration time.Duration
}

// Executor runs shell commands under a sandbox manager and policy.
type Executor struct {
	manager sandbox.Manager
	policy  *sandbox.Policy
	envPol  *execenv.Policy
	home    string
	logger  *zap.Logger
}

// NewExecutor creates an executor. manager and logger must be non-nil;
// policy and envPolicy may be nil for unrestricted execution.
func NewExecutor(manager sandbox.Manager, policy *sandbox.Policy, envPolicy *execenv.Policy, home string, logger *zap.Logger) *Executor {
	return &Executor{
		manager: manager,
		policy:  policy,
		envPol:  envPolicy,
		home:    home,
		logger:  logger,
	}
}

// Run executes the request and always returns a result. Cancellation of ctx
// sends SIGTERM to the process group, escalating to SIGKILL after the grace
// period; the result is then marked Killed and is never a success.
func (e *Executor) Run(ctx context.Context, req Request) *Result {
	start := time.Now()

	spec := sandbox.CommandSpec{
		Program: "bash",
		Args:    []string{"-c", req.Command},
		Cwd:     req.Cwd,
	}

	execEnv, sandboxed := e.transform(spec, req.DisableSandbox)

	cmd := osexec.Command(execEnv.Command[0], execEnv.Command[1:]...)
	cmd.Dir = execEnv.Cwd
	cmd.Env = e.buildEnv(req.Env, execEnv.Env)
	setupProcessGroup(cmd)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return e.spawnFailure(err, start)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return e.spawnFailure(err, start)
	}

	if err := cmd.Start(); err != nil {
		return e.spawnFailure(err, start)
	}

	var stdout, stderr cappedBuffer
	var pumps errgroup.Group
	pumps.Go(func() error {
		pump(stdoutPipe, "stdout", &stdout, req.OnOutput)
		return nil
	})
	pumps.Go(func() error {
		pump(stderrPipe, "stderr", &stderr, req.OnOutput)
		return nil
	})

	killed := e.superviseCancellation(ctx, cmd, req.GracePeriod)

	_ = pumps.Wait()
	waitErr := cmd.Wait()
	close(killed.done)
	<-killed.finished

	result := &Result{
		ExitCode:  exitCode(cmd, waitErr),
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		Killed:    killed.wasKilled(),
		Signal:    terminationSignal(cmd),
		Sandboxed: sandboxed,
		Truncated: stdout.truncated || stderr.truncated,
		Duration:  time.Since(start),
	}
	result.Success = waitErr == nil && !result.Killed

	if sandboxed && !result.Success {
		result.Stderr = AnnotateStderr(result.Stderr, DetectViolations(result.Stderr))
	}

	e.logger.Debug("command finished",
		zap.String("command", req.Command),
		zap.Int("exit_code", result.ExitCode),
		zap.Bool("sandboxed", result.Sandboxed),
		zap.Bool("killed", result.Killed),
		zap.Duration("duration", result.Duration),
	)

	return result
}

// transform wraps the command for the sandbox, falling back to direct
// execution when wrapping fails.
func (e *Executor) transform(spec sandbox.CommandSpec, disabled bool) (*sandbox.ExecEnv, bool) {
	direct := &sandbox.ExecEnv{
		Command: append([]string{spec.Program}, spec.Args...),
		Cwd:     spec.Cwd,
	}

	if disabled || e.policy == nil || e.manager.Name() == "none" {
		return direct, false
	}

	execEnv, err := e.manager.Transform(spec, e.policy)
	if err != nil {
		e.logger.Warn("sandbox transform failed, running unsandboxed", zap.Error(err))
		return direct, false
	}
	return execEnv, true
}

// buildEnv derives the child environment: the filtered base set, PATH
// augmented with developer tool directories, plus sandbox-injected vars.
func (e *Executor) buildEnv(override, sandboxVars map[string]string) []string {
	var env map[string]string
	if override != nil {
		env = execenv.CreateEnvFrom(override, e.envPol)
	} else {
		env = execenv.CreateEnv(e.envPol)
	}
	env["PATH"] = execenv.AugmentedPath(e.home)
	for k, v := range sandboxVars {
		env[k] = v
	}
	return execenv.ToSlice(env)
}

func (e *Executor) spawnFailure(err error, start time.Time) *Result {
	e.logger.Warn("command spawn failed", zap.Error(err))
	return &Result{
		Success:  false,
		ExitCode: -1,
		Error:    err.Error(),
		Duration: time.Since(start),
	}
}

// killState tracks the cancellation supervisor for one invocation.
type killState struct {
	done     chan struct{}
	finished chan struct{}
	killedCh chan struct{}
}

func (k *killState) wasKilled() bool {
	select {
	case <-k.killedCh:
		return true
	default:
		return false
	}
}

// superviseCancellation watches ctx and terminates the process group on
// cancellation: SIGTERM first, SIGKILL after the grace period.
func (e *Executor) superviseCancellation(ctx context.Context, cmd *osexec.Cmd, grace time.Duration) *killState {
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	k := &killState{
		done:     make(chan struct{}),
		finished: make(chan struct{}),
		killedCh: make(chan struct{}),
	}

	go func() {
		defer close(k.finished)
		select {
		case <-k.done:
			return
		case <-ctx.Done():
		}

		close(k.killedCh)
		if err := interruptProcess(cmd); err != nil {
			return
		}

		select {
		case <-k.done:
		case <-time.After(grace):
			_ = killProcess(cmd)
		}
	}()

	return k
}

// pump streams reads from r into buf, forwarding each chunk to onOutput.
func pump(r io.Reader, stream string, buf *cappedBuffer, onOutput func(OutputEvent)) {
	chunk := make([]byte, streamChunkSize)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			data := chunk[:n]
			buf.Write(data)
			if onOutput != nil {
				copied := make([]byte, n)
				copy(copied, data)
				onOutput(OutputEvent{Stream: stream, Chunk: copied})
			}
		}
		if err != nil {
			return
		}
	}
}

// cappedBuffer accumulates up to ExecOutputMaxBytes and drops the rest.
type cappedBuffer struct {
	data      []byte
	truncated bool
}

func (b *cappedBuffer) Write(p []byte) {
	room := ExecOutputMaxBytes - len(b.data)
	if room <= 0 {
		b.truncated = true
		return
	}
	if len(p) > room {
		p = p[:room]
		b.truncated = true
	}
	b.data = append(b.data, p...)
}

func (b *cappedBuffer) String() string { return string(b.data) }

func exitCode(cmd *osexec.Cmd, waitErr error) int {
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	if waitErr != nil {
		return -1
	}
	return 0
}
