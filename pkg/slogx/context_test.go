package slogx

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContextLogger(t *testing.T) {
	t.Parallel()

	t.Run("falls back to the default logger", func(t *testing.T) {
		require.Equal(t, slog.Default(), FromContext(context.Background()))
	})

	t.Run("actor and request id ride along on every line", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		ctx := WithContext(context.Background(), logger)
		ctx = WithRequestID(ctx, "req-42")
		ctx = WithActor(ctx, "acct-7")

		FromContext(ctx).Info("hello")

		line := buf.String()
		require.Contains(t, line, "req_id=req-42")
		require.Contains(t, line, "account_id=acct-7")
	})
}
