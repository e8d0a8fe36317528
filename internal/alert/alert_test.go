package alert

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func visibleCount(p *Presenter) int {
	n := 0
	for _, b := range p.Banners() {
		if b.Visible {
			n++
		}
	}
	return n
}

func TestNewPresenter_AllHidden(t *testing.T) {
	p := NewPresenter(nil)
	_, ok := p.Visible()
	assert.False(t, ok)
	assert.Len(t, p.Banners(), 3)
	assert.Equal(t, 0, visibleCount(p))
}

func TestFlash_ShowsExactlyOne(t *testing.T) {
	p := NewPresenter(nil)

	p.Flash(Warning, "careful")
	b, ok := p.Visible()
	require.True(t, ok)
	assert.Equal(t, Warning, b.Kind)
	assert.Equal(t, "careful", b.Text)
	assert.Equal(t, 1, visibleCount(p))

	// A new flash replaces the previous one, even of another kind.
	p.Flash(Success, "done")
	b, ok = p.Visible()
	require.True(t, ok)
	assert.Equal(t, Success, b.Kind)
	assert.Equal(t, "done", b.Text)
	assert.Equal(t, 1, visibleCount(p))
}

func TestFlash_UnknownKindIgnored(t *testing.T) {
	p := NewPresenter(nil)
	p.Flash(Success, "kept")
	p.Flash(Kind("info"), "nope")
	b, ok := p.Visible()
	require.True(t, ok)
	assert.Equal(t, "kept", b.Text)
}

func TestHideAllAndDismiss(t *testing.T) {
	p := NewPresenter(nil)
	p.Flash(Danger, "boom")
	p.Dismiss(Success)
	assert.Equal(t, 1, visibleCount(p), "dismissing another kind leaves the banner up")

	p.Dismiss(Danger)
	assert.Equal(t, 0, visibleCount(p))

	p.Flash(Warning, "again")
	p.HideAll()
	assert.Equal(t, 0, visibleCount(p))
}

func TestFlash_LogsAtKindLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p := NewPresenter(logger)

	p.Flash(Danger, "server down")
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "server down")

	buf.Reset()
	p.Flash(Warning, "empty")
	assert.Contains(t, buf.String(), "level=WARN")
}
