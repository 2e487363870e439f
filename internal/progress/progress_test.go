package progress

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/RayMarquina/dbt-project-sub004/internal/ctxlog"
	"github.com/RayMarquina/dbt-project-sub004/internal/result"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct{ events []Event }

func (r *recorder) Emit(_ context.Context, ev Event) { r.events = append(r.events, ev) }

func TestTracker(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker()

	tr.Emit(ctx, Event{Type: RunStarted, InvocationID: "inv", Total: 3})
	tr.Emit(ctx, Event{Type: NodeStarted, NodeID: "b"})
	tr.Emit(ctx, Event{Type: NodeStarted, NodeID: "a"})
	tr.Emit(ctx, Event{Type: NodeFinished, NodeID: "a", Status: result.StatusSuccess})

	want := Snapshot{
		InvocationID: "inv",
		Total:        3,
		Finished:     1,
		Running:      []string{"b"},
		Counts:       map[result.Status]int{result.StatusSuccess: 1},
	}
	if diff := cmp.Diff(want, tr.Snapshot()); diff != "" {
		t.Errorf("Snapshot() mismatch (-want +got):\n%s", diff)
	}

	snap := tr.Snapshot()
	snap.Counts[result.StatusError] = 99
	assert.NotContains(t, tr.Snapshot().Counts, result.StatusError, "snapshot must be a copy")

	tr.Emit(ctx, Event{Type: NodeFinished, NodeID: "b", Status: result.StatusError})
	tr.Emit(ctx, Event{Type: RunFinished})
	got := tr.Snapshot()
	assert.True(t, got.Done)
	assert.Empty(t, got.Running)
	assert.Equal(t, 2, got.Finished)
}

func TestMulti(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	Multi{a, Discard{}, b}.Emit(context.Background(), Event{Type: NodeStarted, NodeID: "x"})

	require.Len(t, a.events, 1)
	require.Len(t, b.events, 1)
	assert.Equal(t, "x", b.events[0].NodeID)
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	LogSink{}.Emit(ctx, Event{Type: NodeFinished, NodeID: "model.p.a", Status: result.StatusError, Message: "boom", Index: 1, Total: 2})

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "nodeID=model.p.a")
	assert.Contains(t, out, "message=boom")
}

func TestDialSocketIO_BadURL(t *testing.T) {
	_, err := DialSocketIO(context.Background(), "not-a-url", SocketIOOptions{})
	assert.ErrorContains(t, err, "must include scheme and host")
}
