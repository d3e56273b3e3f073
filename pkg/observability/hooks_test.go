package observability

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

// tally counts events from all three hook sets.
type tally struct {
	NoopPipelineHooks
	NoopCacheHooks
	NoopHTTPHooks
	events []string
}

func (t *tally) OnBuildStart(_ context.Context, declared int) {
	t.events = append(t.events, "build")
}

func (t *tally) OnCacheMiss(_ context.Context, kind string) {
	t.events = append(t.events, "miss "+kind)
}

func (t *tally) OnError(_ context.Context, _, host, _ string, _ error) {
	t.events = append(t.events, "fetch error "+host)
}

func TestDefaultsAreNoop(t *testing.T) {
	Reset()
	ctx := context.Background()

	Pipeline().OnBuildStart(ctx, 3)
	Pipeline().OnBuildComplete(ctx, 4, time.Millisecond, nil)
	Pipeline().OnLayoutStart(ctx, "horizontal", 4)
	Pipeline().OnLayoutComplete(ctx, "horizontal", time.Millisecond, nil)
	Pipeline().OnRenderStart(ctx, []string{"svg", "dot"})
	Pipeline().OnRenderComplete(ctx, []string{"svg", "dot"}, time.Millisecond, errors.New("no converter"))
	Cache().OnCacheHit(ctx, "layout")
	Cache().OnCacheMiss(ctx, "document")
	Cache().OnCacheSet(ctx, "artifact", 2048)
	HTTP().OnRequest(ctx, "GET", "trees.example.com", "/module.json")
	HTTP().OnResponse(ctx, "GET", "trees.example.com", "/module.json", 404, time.Millisecond)
	HTTP().OnError(ctx, "GET", "trees.example.com", "/module.json", context.DeadlineExceeded)

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() = %T, want NoopPipelineHooks", Pipeline())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T, want NoopCacheHooks", Cache())
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Errorf("HTTP() = %T, want NoopHTTPHooks", HTTP())
	}
}

func TestRegisteredHooksReceiveEvents(t *testing.T) {
	t.Cleanup(Reset)
	h := &tally{}
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)

	ctx := context.Background()
	Pipeline().OnBuildStart(ctx, 3)
	Cache().OnCacheMiss(ctx, "layout")
	HTTP().OnError(ctx, "GET", "trees.example.com", "/module.json", context.Canceled)

	want := []string{"build", "miss layout", "fetch error trees.example.com"}
	if !reflect.DeepEqual(h.events, want) {
		t.Errorf("events = %v, want %v", h.events, want)
	}
}

func TestSetNilKeepsCurrentHooks(t *testing.T) {
	t.Cleanup(Reset)
	h := &tally{}
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)

	SetPipelineHooks(nil)
	SetCacheHooks(nil)
	SetHTTPHooks(nil)

	if Pipeline() != PipelineHooks(h) || Cache() != CacheHooks(h) || HTTP() != HTTPHooks(h) {
		t.Error("a nil registration replaced the current hooks")
	}

	Reset()
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset() should restore the no-op cache hooks")
	}
}
