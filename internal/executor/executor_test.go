package executor

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/RayMarquina/dbt-project-sub004/internal/ctxlog"
	"github.com/RayMarquina/dbt-project-sub004/internal/graph"
	"github.com/RayMarquina/dbt-project-sub004/internal/node"
	"github.com/RayMarquina/dbt-project-sub004/internal/result"
	"github.com/RayMarquina/dbt-project-sub004/internal/scheduler"
	"github.com/RayMarquina/dbt-project-sub004/internal/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAdapter returns per-node behaviours and records lifecycle calls.
type fakeAdapter struct {
	mu       sync.Mutex
	exec     map[string]func() (*result.RunResult, error)
	openErr  error
	closeErr error
	opened   []string
	closed   []string
}

type fakeConn struct {
	a  *fakeAdapter
	id string
}

func (a *fakeAdapter) Open(_ context.Context, n *node.Node) (Conn, error) {
	if a.openErr != nil {
		return nil, a.openErr
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.opened = append(a.opened, n.ID())
	return &fakeConn{a: a, id: n.ID()}, nil
}

func (c *fakeConn) Execute(context.Context) (*result.RunResult, error) {
	if fn, ok := c.a.exec[c.id]; ok {
		return fn()
	}
	return &result.RunResult{Status: result.StatusSuccess}, nil
}

func (c *fakeConn) Close() error {
	c.a.mu.Lock()
	defer c.a.mu.Unlock()
	c.a.closed = append(c.a.closed, c.id)
	return c.a.closeErr
}

func task(name string) scheduler.Task {
	return scheduler.Task{Node: node.New(node.KindModel, "p", name)}
}

// captureLogs returns a context whose logger writes text records into buf.
func captureLogs(buf *bytes.Buffer) context.Context {
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger)
}

func TestWorker_Process(t *testing.T) {
	ctx := context.Background()

	t.Run("success fills id and duration", func(t *testing.T) {
		a := &fakeAdapter{}
		out := NewWorker(0, a).Process(ctx, task("a"))
		require.False(t, out.Fatal())
		assert.Equal(t, "model.p.a", out.Result.NodeID)
		assert.Equal(t, result.StatusSuccess, out.Result.Status)
		assert.Equal(t, []string{"model.p.a"}, a.closed)
	})

	t.Run("skip cause bypasses adapter", func(t *testing.T) {
		a := &fakeAdapter{}
		tk := task("a")
		tk.SkipCause = &result.SkipCause{Upstream: &result.RunResult{NodeID: "model.p.b", Status: result.StatusError}}

		out := NewWorker(0, a).Process(ctx, tk)
		assert.Equal(t, result.StatusSkipped, out.Result.Status)
		assert.Equal(t, "model.p.b", out.Result.SkipCause.UpstreamID())
		assert.Empty(t, a.opened)
	})

	t.Run("ephemeral is compiled only", func(t *testing.T) {
		a := &fakeAdapter{}
		tk := scheduler.Task{Node: node.New(node.KindModel, "p", "eph", node.WithMaterialized(node.MaterializedEphemeral))}

		out := NewWorker(0, a).Process(ctx, tk)
		assert.Equal(t, result.StatusSuccess, out.Result.Status)
		assert.True(t, out.Result.Ephemeral)
		assert.Empty(t, a.opened)
	})

	t.Run("node error is recorded", func(t *testing.T) {
		a := &fakeAdapter{exec: map[string]func() (*result.RunResult, error){
			"model.p.a": func() (*result.RunResult, error) {
				return nil, &NodeError{NodeID: "model.p.a", Err: errors.New("relation missing")}
			},
		}}
		out := NewWorker(0, a).Process(ctx, task("a"))
		require.False(t, out.Fatal())
		assert.Equal(t, result.StatusError, out.Result.Status)
		assert.Contains(t, out.Result.Message, "relation missing")
		assert.Equal(t, []string{"model.p.a"}, a.closed)
	})

	t.Run("internal error is recorded", func(t *testing.T) {
		a := &fakeAdapter{exec: map[string]func() (*result.RunResult, error){
			"model.p.a": func() (*result.RunResult, error) {
				return nil, &InternalError{NodeID: "model.p.a", Err: errors.New("bad state")}
			},
		}}
		out := NewWorker(0, a).Process(ctx, task("a"))
		require.False(t, out.Fatal())
		assert.Equal(t, result.StatusError, out.Result.Status)
	})

	t.Run("nil result is an internal error", func(t *testing.T) {
		a := &fakeAdapter{exec: map[string]func() (*result.RunResult, error){
			"model.p.a": func() (*result.RunResult, error) { return nil, nil },
		}}
		out := NewWorker(0, a).Process(ctx, task("a"))
		require.False(t, out.Fatal())
		assert.Contains(t, out.Result.Message, "adapter returned no result")
	})

	t.Run("unknown error is fatal", func(t *testing.T) {
		boom := errors.New("boom")
		a := &fakeAdapter{exec: map[string]func() (*result.RunResult, error){
			"model.p.a": func() (*result.RunResult, error) { return nil, boom },
		}}
		out := NewWorker(0, a).Process(ctx, task("a"))
		require.True(t, out.Fatal())
		assert.ErrorIs(t, out.Err, boom)
		assert.Nil(t, out.Result)
	})

	t.Run("panic is fatal and connection still closed", func(t *testing.T) {
		a := &fakeAdapter{exec: map[string]func() (*result.RunResult, error){
			"model.p.a": func() (*result.RunResult, error) { panic("kaboom") },
		}}
		var logs bytes.Buffer
		out := NewWorker(0, a).Process(captureLogs(&logs), task("a"))
		require.True(t, out.Fatal())
		var panicErr *PanicError
		require.ErrorAs(t, out.Err, &panicErr)
		assert.Equal(t, "kaboom", panicErr.Value)
		assert.Equal(t, []string{"model.p.a"}, a.closed)
		assert.Contains(t, logs.String(), "stack=")
		assert.Contains(t, logs.String(), "goroutine")
	})

	t.Run("close error fails the node", func(t *testing.T) {
		a := &fakeAdapter{closeErr: errors.New("handle leaked")}
		out := NewWorker(0, a).Process(ctx, task("a"))
		require.False(t, out.Fatal())
		assert.Equal(t, result.StatusError, out.Result.Status)
		assert.Contains(t, out.Result.Message, "handle leaked")
	})

	t.Run("close error keeps failed result", func(t *testing.T) {
		a := &fakeAdapter{
			closeErr: errors.New("conn reset"),
			exec: map[string]func() (*result.RunResult, error){
				"model.p.a": func() (*result.RunResult, error) {
					return &result.RunResult{Status: result.StatusFail, Message: "3 rows violated not_null"}, nil
				},
			},
		}
		var logs bytes.Buffer
		out := NewWorker(0, a).Process(captureLogs(&logs), task("a"))
		require.False(t, out.Fatal())
		assert.Equal(t, result.StatusFail, out.Result.Status)
		assert.Equal(t, "3 rows violated not_null", out.Result.Message)
		assert.Contains(t, logs.String(), "Releasing connection failed.")
		assert.Contains(t, logs.String(), "conn reset")
	})

	t.Run("close error keeps warn result", func(t *testing.T) {
		a := &fakeAdapter{
			closeErr: errors.New("conn reset"),
			exec: map[string]func() (*result.RunResult, error){
				"model.p.a": func() (*result.RunResult, error) {
					return &result.RunResult{Status: result.StatusWarn, Message: "1 row violated unique"}, nil
				},
			},
		}
		out := NewWorker(0, a).Process(ctx, task("a"))
		require.False(t, out.Fatal())
		assert.Equal(t, result.StatusWarn, out.Result.Status)
		assert.Equal(t, "1 row violated unique", out.Result.Message)
	})

	t.Run("close error is logged when execute already errored", func(t *testing.T) {
		a := &fakeAdapter{
			closeErr: errors.New("handle leaked"),
			exec: map[string]func() (*result.RunResult, error){
				"model.p.a": func() (*result.RunResult, error) {
					return nil, &NodeError{NodeID: "model.p.a", Err: errors.New("relation missing")}
				},
			},
		}
		var logs bytes.Buffer
		out := NewWorker(0, a).Process(captureLogs(&logs), task("a"))
		require.False(t, out.Fatal())
		assert.Equal(t, result.StatusError, out.Result.Status)
		assert.Contains(t, out.Result.Message, "relation missing")
		assert.NotContains(t, out.Result.Message, "handle leaked")
		assert.Contains(t, logs.String(), "handle leaked")
	})

	t.Run("open error is fatal", func(t *testing.T) {
		a := &fakeAdapter{openErr: errors.New("no connection")}
		out := NewWorker(0, a).Process(ctx, task("a"))
		assert.True(t, out.Fatal())
	})
}

func TestPool_Run(t *testing.T) {
	s := topology.New()
	for _, name := range []string{"a", "b", "c", "d"} {
		require.NoError(t, s.AddNode(node.New(node.KindModel, "p", name)))
	}
	require.NoError(t, s.AddDependency("model.p.d", "model.p.a"))
	require.NoError(t, s.AddDependency("model.p.d", "model.p.b"))
	require.NoError(t, s.AddDependency("model.p.d", "model.p.c"))
	g, err := graph.New(s, s.IDs())
	require.NoError(t, err)
	q, err := scheduler.New(g)
	require.NoError(t, err)

	pool := NewPool(3, &fakeAdapter{})
	assert.Equal(t, 3, pool.Size())

	events := make(chan Event)
	done := make(chan error, 1)
	go func() { done <- pool.Run(context.Background(), q, events) }()

	started := map[string]bool{}
	finished := map[string]bool{}
	for {
		select {
		case ev := <-events:
			id := ev.Task.Node.ID()
			switch ev.Type {
			case EventStarted:
				if id == "model.p.d" {
					assert.Len(t, finished, 3, "d started before its dependencies finished")
				}
				started[id] = true
			case EventFinished:
				require.False(t, ev.Outcome.Fatal())
				finished[id] = true
				require.NoError(t, q.MarkDone(id))
			}
		case err := <-done:
			require.NoError(t, err)
			assert.Len(t, started, 4)
			assert.Len(t, finished, 4)
			return
		}
	}
}

func TestNewPool_MinimumOneWorker(t *testing.T) {
	assert.Equal(t, 1, NewPool(0, &fakeAdapter{}).Size())
}
