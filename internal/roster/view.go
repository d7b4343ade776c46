package roster

import (
	"context"
	"sync"
)

// State is the lifecycle state of a view.
//
// A view starts out Loading and makes exactly one transition per load, to
// Ready or Failed. There are no further transitions until the next load.
type State int

const (
	StateLoading State = iota
	StateReady
	StateFailed
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ListView is the roster list's fetch state machine. One Load corresponds to
// one mount of the list: a single index fetch, no automatic retry.
type ListView struct {
	client *Client

	mu         sync.Mutex
	generation uint64
	state      State
	slugs      []string
	failure    string
	failureErr error
}

// NewListView creates a list view in the Loading state.
func NewListView(client *Client) *ListView {
	return &ListView{client: client, state: StateLoading}
}

// Load fetches the member index and settles the view in Ready or Failed.
// A Load started after this one supersedes it: the slower result is
// discarded rather than applied to the newer view.
func (v *ListView) Load(ctx context.Context) {
	v.mu.Lock()
	v.generation++
	gen := v.generation
	v.state = StateLoading
	v.slugs = nil
	v.failure = ""
	v.failureErr = nil
	v.mu.Unlock()

	slugs, err := v.client.FetchIndex(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.generation != gen {
		// Superseded by a newer load
		return
	}
	if err != nil {
		v.state = StateFailed
		v.failure = err.Error()
		v.failureErr = err
		return
	}
	v.state = StateReady
	v.slugs = slugs
}

// State returns the current view state.
func (v *ListView) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Slugs returns the fetched member slugs in display order.
// Only meaningful when the view is Ready.
func (v *ListView) Slugs() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	slugs := make([]string, len(v.slugs))
	copy(slugs, v.slugs)
	return slugs
}

// FailureMessage returns the human-readable failure, empty unless Failed.
func (v *ListView) FailureMessage() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.failure
}

// FailureError returns the underlying fetch error, nil unless Failed.
func (v *ListView) FailureError() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.failureErr
}

// PageView is the member page's fetch state machine, keyed by slug. Each
// distinct slug restarts the machine: back to Loading, one markup fetch and
// one stylesheet fetch, then a single transition to Ready or Failed.
//
// The two fetches are independent and unordered. Readiness depends only on
// the markup outcome; a missing stylesheet degrades to an unstyled render
// with a diagnostic on the observability side-channel. The view waits for
// both fetches before leaving Loading so a styled page never first appears
// unstyled.
type PageView struct {
	client *Client

	mu         sync.Mutex
	slug       string
	state      State
	content    PageContent
	failure    string
	failureErr error
}

// NewPageView creates a page view in the Loading state with no slug.
func NewPageView(client *Client) *PageView {
	return &PageView{client: client, state: StateLoading}
}

// SetSlug switches the view to the given slug and fetches its content,
// blocking until the fetch settles. If the slug is changed again while the
// fetches are in flight, the late results are discarded: they are never
// applied to a view that has moved on (results are tagged with the slug that
// was current when the fetch was issued).
func (v *PageView) SetSlug(ctx context.Context, slug string) {
	v.mu.Lock()
	v.slug = slug
	v.state = StateLoading
	v.content = PageContent{}
	v.failure = ""
	v.failureErr = nil
	v.mu.Unlock()

	var (
		wg        sync.WaitGroup
		markup    string
		markupErr error
		style     string
		styleErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		markup, markupErr = v.client.FetchMarkup(ctx, slug)
	}()
	go func() {
		defer wg.Done()
		style, styleErr = v.client.FetchStylesheet(ctx, slug)
	}()
	wg.Wait()

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.slug != slug {
		// The view moved on while the fetches were in flight
		return
	}

	if markupErr != nil {
		v.state = StateFailed
		v.failure = markupErr.Error()
		v.failureErr = markupErr
		return
	}

	if styleErr != nil {
		// Non-fatal: render without styling, diagnostics go to the
		// side-channel only
		v.client.logger.Warn("Stylesheet unavailable, rendering member page unstyled",
			"slug", slug,
			"url", v.client.StylesheetURL(slug),
			"error", styleErr)
		if v.client.metrics != nil {
			v.client.metrics.RecordStylesheetFallback()
		}
		style = ""
	}

	v.state = StateReady
	v.content = PageContent{Markup: markup, Stylesheet: style}
}

// Slug returns the slug the view is currently keyed by.
func (v *PageView) Slug() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.slug
}

// State returns the current view state.
func (v *PageView) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Content returns the fetched page content.
// Only meaningful when the view is Ready.
func (v *PageView) Content() PageContent {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.content
}

// FailureMessage returns the human-readable failure, empty unless Failed.
func (v *PageView) FailureMessage() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.failure
}

// FailureError returns the underlying markup fetch error, nil unless Failed.
func (v *PageView) FailureError() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.failureErr
}
