package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))
	ctx := context.Background()

	h.OnSimulateStart(ctx, "demo", 8, 2200)
	h.OnSimulateComplete(ctx, "demo", 2200, time.Second, nil)
	h.OnRenderComplete(ctx, []string{"gif"}, time.Second, errors.New("palette full"))
	h.OnCacheSet(ctx, "artifact", 512)
	h.OnResponse(ctx, "POST", "/v1/render", 200, time.Millisecond)

	out := buf.String()
	for _, want := range []string{
		"simulate start", "scenario=demo", "steps=2200",
		"simulate done", "render failed", "palette full",
		"cache set", "bytes=512", "status=200",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooksRespectLevel(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel}))
	h.OnCacheHit(context.Background(), "scene")
	if buf.Len() != 0 {
		t.Errorf("debug event logged at info level: %q", buf.String())
	}
}
