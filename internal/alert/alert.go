// Package alert holds the three flash banners shown above the panels.
package alert

import (
	"context"
	"log/slog"
)

// Kind selects one of the banner styles.
type Kind string

const (
	Success Kind = "success"
	Warning Kind = "warning"
	Danger  Kind = "danger"
)

// Kinds lists every banner kind in display order.
var Kinds = []Kind{Success, Warning, Danger}

func (k Kind) Valid() bool {
	switch k {
	case Success, Warning, Danger:
		return true
	}
	return false
}

func (k Kind) level() slog.Level {
	switch k {
	case Danger:
		return slog.LevelError
	case Warning:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// Banner is the state of one alert.
type Banner struct {
	Kind    Kind
	Text    string
	Visible bool
}

// Presenter shows at most one banner at a time. A new Flash replaces whatever
// is showing; nothing is queued and nothing expires on a timer.
//
// Presenter is not safe for concurrent use; it belongs to the view's event loop.
type Presenter struct {
	banners [3]Banner
	logger  *slog.Logger
}

// NewPresenter returns a presenter with every banner hidden. A nil logger
// disables logging of flashed messages.
func NewPresenter(logger *slog.Logger) *Presenter {
	p := &Presenter{logger: logger}
	for i, k := range Kinds {
		p.banners[i] = Banner{Kind: k}
	}
	return p
}

// Flash hides every banner, then shows the one for kind with text. The text
// is stored raw; the document template escapes it on render.
func (p *Presenter) Flash(kind Kind, text string) {
	if !kind.Valid() {
		return
	}
	p.HideAll()
	b := p.banner(kind)
	b.Text = text
	b.Visible = true
	if p.logger != nil {
		p.logger.Log(context.Background(), kind.level(), "flash", "kind", string(kind), "text", text)
	}
}

// HideAll hides every banner.
func (p *Presenter) HideAll() {
	for i := range p.banners {
		p.banners[i].Visible = false
	}
}

// Dismiss hides the banner for kind only.
func (p *Presenter) Dismiss(kind Kind) {
	if b := p.banner(kind); b != nil {
		b.Visible = false
	}
}

// Visible returns the banner currently shown, if any.
func (p *Presenter) Visible() (Banner, bool) {
	for _, b := range p.banners {
		if b.Visible {
			return b, true
		}
	}
	return Banner{}, false
}

// Banners returns a copy of all three banners in display order.
func (p *Presenter) Banners() []Banner {
	out := make([]Banner, len(p.banners))
	copy(out, p.banners[:])
	return out
}

func (p *Presenter) banner(kind Kind) *Banner {
	for i := range p.banners {
		if p.banners[i].Kind == kind {
			return &p.banners[i]
		}
	}
	return nil
}
