package social

import (
	"context"

	"placement/internal/models"
)

// PanelState is the state of a post's comment panel.
type PanelState int

const (
	PanelCollapsed PanelState = iota
	// PanelExpanding means a comment fetch is in flight.
	PanelExpanding
	PanelExpanded
	// PanelExpandedStale means a comment was added but the list could not be refreshed.
	PanelExpandedStale
)

func (s PanelState) String() string {
	switch s {
	case PanelCollapsed:
		return "collapsed"
	case PanelExpanding:
		return "expanding"
	case PanelExpanded:
		return "expanded"
	case PanelExpandedStale:
		return "expanded_stale"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name.
func (s PanelState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Panel returns the current panel state.
func (p *Post) Panel() PanelState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.panel
}

// ToggleComments expands or collapses the comment panel.
//
// Expanding fetches comments only when none were loaded yet or the loaded list is stale.
// A stale list is reloaded past the cache.
// A failed fetch collapses the panel again and returns the error. Collapsing keeps the
// loaded comments. Toggling while a fetch is in flight has no effect.
func (p *Post) ToggleComments(ctx context.Context, sess models.Session) (PanelState, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return PanelCollapsed, ErrViewClosed
	}

	switch p.panel {
	case PanelExpanding:
		p.mu.Unlock()
		return PanelExpanding, nil
	case PanelExpanded, PanelExpandedStale:
		p.panel = PanelCollapsed
		p.mu.Unlock()
		return PanelCollapsed, nil
	}

	if p.loaded && !p.stale {
		p.panel = PanelExpanded
		p.mu.Unlock()
		return PanelExpanded, nil
	}
	load := p.engine.loader.Load
	if p.stale {
		// The cached page may predate the last submission.
		load = p.engine.loader.Refresh
	}
	p.panel = PanelExpanding
	p.loadSeq++
	seq := p.loadSeq
	p.mu.Unlock()

	comments, err := load(ctx, sess, p.id)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return PanelCollapsed, ErrViewClosed
	}
	if seq != p.loadSeq {
		// Superseded by a newer load.
		return p.panel, nil
	}
	if err != nil {
		p.panel = PanelCollapsed
		return PanelCollapsed, err
	}
	p.state.Comments = comments
	p.loaded = true
	p.stale = false
	p.panel = PanelExpanded
	return PanelExpanded, nil
}
