package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCtxHandler_StampsContextValues(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(&ctxHandler{slog.NewJSONHandler(&buf, nil)})

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithUserID(ctx, "testuser")
	ctx = WithTraceID(ctx, "trace-1")
	logger.With("component", "test").InfoContext(ctx, "hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "req-1", record["request_id"])
	assert.Equal(t, "testuser", record["user_id"])
	assert.Equal(t, "trace-1", record["trace_id"])
	assert.Equal(t, "test", record["component"])
}

func TestCtxHandler_OmitsMissingValues(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(&ctxHandler{slog.NewJSONHandler(&buf, nil)})

	logger.InfoContext(context.Background(), "hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.NotContains(t, record, "request_id")
	assert.NotContains(t, record, "user_id")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestExtractUserID(t *testing.T) {
	assert.Empty(t, ExtractUserID(context.Background()))
	assert.Equal(t, "u1", ExtractUserID(WithUserID(context.Background(), "u1")))
}

func counterValue(t *testing.T, target, action string) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, LikeToggles.WithLabelValues(target, action).Write(&m))
	return m.GetCounter().GetValue()
}

func TestRecordToggle(t *testing.T) {
	before := counterValue(t, "post", "like")
	RecordToggle("post", true)
	assert.Equal(t, before+1, counterValue(t, "post", "like"))

	before = counterValue(t, "comment", "unlike")
	RecordToggle("comment", false)
	assert.Equal(t, before+1, counterValue(t, "comment", "unlike"))
}

func TestRepoLogger_Operations(t *testing.T) {
	var buf bytes.Buffer
	prev := Logger
	Logger = slog.New(slog.NewJSONHandler(&buf, nil))
	t.Cleanup(func() { Logger = prev })

	l := NewRepoLogger("likes")
	ctx := context.Background()
	l.LogCreate(ctx, map[string]any{"post_id": 1})
	l.LogDelete(ctx, map[string]any{"post_id": 1})
	l.LogError(ctx, errors.New("boom"), "toggle_like")

	dec := json.NewDecoder(&buf)
	var ops []string
	for dec.More() {
		var record map[string]any
		require.NoError(t, dec.Decode(&record))
		assert.Equal(t, "likes", record["table"])
		ops = append(ops, record["operation"].(string))
	}
	assert.Equal(t, []string{"create", "delete", "toggle_like"}, ops)
}

func TestRepoLogger_Disabled(t *testing.T) {
	var buf bytes.Buffer
	prev := Logger
	Logger = slog.New(slog.NewJSONHandler(&buf, nil))
	RepoLogging = false
	t.Cleanup(func() {
		Logger = prev
		RepoLogging = true
	})

	NewRepoLogger("posts").LogCreate(context.Background(), nil)
	assert.Empty(t, buf.String())
}
