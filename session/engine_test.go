package session

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/hlvm-dev/hqlc/dropdown"
	"github.com/hlvm-dev/hqlc/logger"
	"github.com/hlvm-dev/hqlc/provider"
	"github.com/hlvm-dev/hqlc/textctx"
)

// fakeProvider is a scriptable provider for pipeline tests.
type fakeProvider struct {
	id       string
	async    bool
	debounce time.Duration
	trigger  func(provider.Context) bool
	complete func(context.Context, provider.Context) (provider.Result, error)
	calls    atomic.Int64
}

func (f *fakeProvider) ID() string              { return f.id }
func (f *fakeProvider) Async() bool             { return f.async }
func (f *fakeProvider) Debounce() time.Duration { return f.debounce }
func (f *fakeProvider) HelpText() string        { return "fake help" }

func (f *fakeProvider) ShouldTrigger(cc provider.Context) bool {
	if f.trigger == nil {
		return true
	}
	return f.trigger(cc)
}

func (f *fakeProvider) Completions(ctx context.Context, cc provider.Context) (provider.Result, error) {
	f.calls.Add(1)
	return f.complete(ctx, cc)
}

func wordItems(cc provider.Context, labels ...string) provider.Result {
	items := make([]provider.Item, 0, len(labels))
	for _, label := range labels {
		label := label
		items = append(items, provider.Item{
			ID:      label,
			Label:   label,
			Type:    provider.TypeFunction,
			Actions: provider.SelectAction,
			Apply: func(action provider.Action, in provider.ApplyInput) provider.ApplyResult {
				text := in.Text[:in.Anchor] + label + " " + in.Text[in.Cursor:]
				return provider.ApplyResult{
					Text:          text,
					Cursor:        in.Anchor + len(label) + 1,
					CloseDropdown: true,
				}
			},
		})
	}
	return provider.Result{Items: items, Anchor: cc.WordStart}
}

func newTestEngine(t *testing.T, p provider.Provider, opts ...Option) *Engine {
	t.Helper()
	logger.Logger = zaptest.NewLogger(t).Sugar()
	builder := textctx.NewBuilder(textctx.Tables{})
	reg := provider.NewRegistry(p)
	return NewEngine(builder, reg, opts...)
}

func TestSyncProviderOpensDropdown(t *testing.T) {
	p := &fakeProvider{
		id: "sync",
		complete: func(_ context.Context, cc provider.Context) (provider.Result, error) {
			return wordItems(cc, "map", "mapcat"), nil
		},
	}
	e := newTestEngine(t, p)

	e.Update("(ma", 3)

	st := e.State()
	require.True(t, st.Open)
	require.Len(t, st.Items, 2)
	assert.Equal(t, 0, st.SelectedIndex)
	assert.Equal(t, 1, st.Anchor)
	assert.Equal(t, "sync", st.ProviderID)
	assert.Equal(t, "fake help", e.HelpText())
}

func TestNoProviderClosesDropdown(t *testing.T) {
	p := &fakeProvider{
		id:      "picky",
		trigger: func(cc provider.Context) bool { return strings.HasPrefix(cc.Word, "x") },
		complete: func(_ context.Context, cc provider.Context) (provider.Result, error) {
			return wordItems(cc, "xyz"), nil
		},
	}
	e := newTestEngine(t, p)

	e.Update("xy", 2)
	require.True(t, e.State().Open)

	e.Update("ab", 2)
	st := e.State()
	assert.False(t, st.Open)
	assert.Equal(t, -1, st.SelectedIndex)
	assert.Empty(t, e.HelpText())
}

func TestStaleResultDropped(t *testing.T) {
	entered := make(chan string, 2)
	release := make(chan struct{}, 2)

	p := &fakeProvider{
		id:       "slow",
		async:    true,
		debounce: time.Millisecond,
		complete: func(_ context.Context, cc provider.Context) (provider.Result, error) {
			entered <- cc.Word
			<-release
			return wordItems(cc, cc.Word+"-result"), nil
		},
	}
	e := newTestEngine(t, p)

	e.Update("first", 5)
	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first query never started")
	}

	// Second keystroke supersedes the first while it is still running.
	e.Update("second", 6)

	release <- struct{}{} // let the stale first query finish
	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("second query never started")
	}
	release <- struct{}{}

	require.Eventually(t, func() bool {
		st := e.State()
		return st.Open && len(st.Items) == 1 && st.Items[0].Label == "second-result"
	}, 2*time.Second, 5*time.Millisecond)

	// The stale first result must never surface afterwards.
	st := e.State()
	assert.Equal(t, "second-result", st.Items[0].Label)
}

func TestDebounceCollapsesBursts(t *testing.T) {
	p := &fakeProvider{
		id:       "debounced",
		async:    true,
		debounce: 60 * time.Millisecond,
		complete: func(_ context.Context, cc provider.Context) (provider.Result, error) {
			return wordItems(cc, cc.Word), nil
		},
	}
	e := newTestEngine(t, p)

	for _, text := range []string{"m", "ma", "map", "mapc", "mapca"} {
		e.Update(text, len(text))
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return e.State().Open
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, int64(1), p.calls.Load())
	assert.Equal(t, "mapca", e.State().Items[0].Label)
}

func TestHandleKeyNavigationAndSelect(t *testing.T) {
	p := &fakeProvider{
		id: "sync",
		complete: func(_ context.Context, cc provider.Context) (provider.Result, error) {
			return wordItems(cc, "map", "mapcat", "max"), nil
		},
	}
	e := newTestEngine(t, p)
	e.Update("ma", 2)

	_, out := e.HandleKey(dropdown.KeyDown, false)
	assert.Equal(t, OutcomeNavigated, out)
	assert.Equal(t, 1, e.State().SelectedIndex)

	_, out = e.HandleKey(dropdown.KeyUp, false)
	assert.Equal(t, OutcomeNavigated, out)
	assert.Equal(t, 0, e.State().SelectedIndex)

	res, out := e.HandleKey(dropdown.KeyEnter, false)
	require.Equal(t, OutcomeApplied, out)
	assert.Equal(t, "map ", res.Text)
	assert.Equal(t, 4, res.Cursor)
	assert.True(t, res.CloseDropdown)
	assert.False(t, e.State().Open)
}

func TestHandleKeyEscapeCancels(t *testing.T) {
	p := &fakeProvider{
		id: "sync",
		complete: func(_ context.Context, cc provider.Context) (provider.Result, error) {
			return wordItems(cc, "map"), nil
		},
	}
	e := newTestEngine(t, p)
	e.Update("ma", 2)
	require.True(t, e.State().Open)

	_, out := e.HandleKey(dropdown.KeyEscape, false)
	assert.Equal(t, OutcomeCancelled, out)
	assert.False(t, e.State().Open)
}

func TestHandleKeyClosedIgnored(t *testing.T) {
	p := &fakeProvider{
		id: "sync",
		complete: func(_ context.Context, cc provider.Context) (provider.Result, error) {
			return wordItems(cc, "map"), nil
		},
	}
	e := newTestEngine(t, p)

	for _, key := range []dropdown.Key{dropdown.KeyDown, dropdown.KeyUp, dropdown.KeyTab, dropdown.KeyEnter} {
		_, out := e.HandleKey(key, false)
		assert.Equal(t, OutcomeIgnored, out)
	}
}

func TestDrillFallsBackToSelect(t *testing.T) {
	// Tab on an item without a drill action commits it instead.
	p := &fakeProvider{
		id: "sync",
		complete: func(_ context.Context, cc provider.Context) (provider.Result, error) {
			return wordItems(cc, "map"), nil
		},
	}
	e := newTestEngine(t, p)
	e.Update("ma", 2)

	res, out := e.HandleKey(dropdown.KeyTab, false)
	require.Equal(t, OutcomeApplied, out)
	assert.Equal(t, "map ", res.Text)
}

func TestCloseCancelsPendingQuery(t *testing.T) {
	p := &fakeProvider{
		id:       "slow",
		async:    true,
		debounce: time.Millisecond,
		complete: func(_ context.Context, cc provider.Context) (provider.Result, error) {
			time.Sleep(20 * time.Millisecond)
			return wordItems(cc, "late"), nil
		},
	}
	e := newTestEngine(t, p)

	e.Update("query", 5)
	e.Close()

	time.Sleep(80 * time.Millisecond)
	assert.False(t, e.State().Open)
}

func TestOnChangeNotified(t *testing.T) {
	var changes atomic.Int64
	p := &fakeProvider{
		id: "sync",
		complete: func(_ context.Context, cc provider.Context) (provider.Result, error) {
			return wordItems(cc, "map"), nil
		},
	}
	builder := textctx.NewBuilder(textctx.Tables{})
	reg := provider.NewRegistry(p)
	e := NewEngine(builder, reg, WithOnChange(func(dropdown.State) {
		changes.Add(1)
	}))

	e.Update("ma", 2)
	assert.Positive(t, changes.Load())
}

func TestWindowTracksSelection(t *testing.T) {
	labels := make([]string, 20)
	for i := range labels {
		labels[i] = strings.Repeat("a", i+1)
	}
	p := &fakeProvider{
		id: "sync",
		complete: func(_ context.Context, cc provider.Context) (provider.Result, error) {
			return wordItems(cc, labels...), nil
		},
	}
	e := newTestEngine(t, p, WithVisibleRows(4))
	e.Update("a", 1)

	for i := 0; i < 15; i++ {
		e.HandleKey(dropdown.KeyDown, false)
	}
	require.Equal(t, 15, e.State().SelectedIndex)

	start, end := e.Window()
	assert.Equal(t, 13, start)
	assert.Equal(t, 17, end)
}
