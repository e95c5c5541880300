package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/zapformai/zapform-analytics/pkg/collector/urlmatch"
)

// Presenter renders and removes engagement actions on the host's display
// surface. Show is called at most once per action per page load.
type Presenter interface {
	Show(action *Action)
	Close(actionID string)
}

// activeActionsResponse is the payload of the active-actions endpoint.
type activeActionsResponse struct {
	Actions []*Action `json:"actions"`
}

// Engine drives per-action trigger state machines for one page load: it
// fetches the active action set, arms one trigger per action, re-checks the
// display gates when a trigger fires, and records the resulting interactions.
type Engine struct {
	trackingID   string
	sessionToken string
	baseURL      string
	client       *http.Client
	dispatcher   *Dispatcher
	presenter    Presenter
	afterFunc    func(d time.Duration, f func()) (stop func())

	mu       sync.Mutex
	pageURL  string
	pagePath string
	actions  map[string]*Action
	triggers map[string]TriggerConfig
	machines map[string]*TriggerMachine
	stops    []func()
}

// EngineOption adjusts an Engine.
type EngineOption func(*Engine)

// WithHTTPClient substitutes the client used for the action fetch.
func WithHTTPClient(client *http.Client) EngineOption {
	return func(e *Engine) { e.client = client }
}

// WithTimerFunc substitutes the scheduler used for time triggers.
func WithTimerFunc(after func(d time.Duration, f func()) (stop func())) EngineOption {
	return func(e *Engine) { e.afterFunc = after }
}

// NewEngine builds an engine for one tracking id and session. The presenter
// may be nil, in which case actions fire and record but render nowhere.
func NewEngine(baseURL, trackingID, sessionToken string, dispatcher *Dispatcher, presenter Presenter, opts ...EngineOption) *Engine {
	e := &Engine{
		trackingID:   trackingID,
		sessionToken: sessionToken,
		baseURL:      trimTrailingSlash(baseURL),
		client:       &http.Client{Timeout: DefaultDispatchTimeout},
		dispatcher:   dispatcher,
		presenter:    presenter,
		actions:      make(map[string]*Action),
		triggers:     make(map[string]TriggerConfig),
		machines:     make(map[string]*TriggerMachine),
	}
	e.afterFunc = func(d time.Duration, f func()) func() {
		t := time.AfterFunc(d, f)
		return func() { t.Stop() }
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start fetches the active action set for the current location and arms one
// trigger per action. The fetch failing is an error; an empty action set is
// not.
func (e *Engine) Start(ctx context.Context, pageURL, pagePath string) error {
	actions, err := e.fetchActions(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.pageURL = pageURL
	e.pagePath = pagePath

	for _, action := range actions {
		cfg := action.ParseTrigger()
		e.actions[action.ID] = action
		e.triggers[action.ID] = cfg
		e.machines[action.ID] = NewTriggerMachine()

		if cfg.Type == TriggerTime {
			id := action.ID
			stop := e.afterFunc(time.Duration(cfg.DelayMs)*time.Millisecond, func() {
				e.fire(context.Background(), id)
			})
			e.stops = append(e.stops, stop)
		}
	}
	return nil
}

// Stop cancels pending time triggers.
func (e *Engine) Stop() {
	e.mu.Lock()
	stops := e.stops
	e.stops = nil
	e.mu.Unlock()
	for _, stop := range stops {
		stop()
	}
}

// OnScroll feeds one scroll-depth sample (a percentage) to the armed scroll
// triggers. The first sample at or past an action's threshold fires it.
func (e *Engine) OnScroll(ctx context.Context, depthPercent int) {
	for _, id := range e.armedOfType(TriggerScroll) {
		if depthPercent >= e.triggerConfig(id).Percentage {
			e.fire(ctx, id)
		}
	}
}

// OnPointerExit feeds one pointer-exit gesture at the given Y offset to the
// armed exit-intent triggers.
func (e *Engine) OnPointerExit(ctx context.Context, y int) {
	for _, id := range e.armedOfType(TriggerExit) {
		if y <= ExitThreshold(e.triggerConfig(id).Sensitivity) {
			e.fire(ctx, id)
		}
	}
}

// Dismiss closes a displayed, dismissable action and records the dismissal.
// Repeat dismissals and dismissals of non-displayed actions are no-ops.
func (e *Engine) Dismiss(ctx context.Context, actionID string) {
	e.mu.Lock()
	action, machine := e.actions[actionID], e.machines[actionID]
	if action == nil || machine == nil || !action.Dismissable() {
		e.mu.Unlock()
		return
	}
	if err := machine.Transition(StateDismissed); err != nil {
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()

	if e.presenter != nil {
		e.presenter.Close(actionID)
	}
	e.record(ctx, action, "dismiss")
}

// Activate handles CTA activation on a displayed action: it records a click
// (or a conversion for conversion-typed actions) and tears the action down.
func (e *Engine) Activate(ctx context.Context, actionID string) {
	e.mu.Lock()
	action, machine := e.actions[actionID], e.machines[actionID]
	if action == nil || machine == nil {
		e.mu.Unlock()
		return
	}
	if err := machine.Transition(StateConverted); err != nil {
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()

	if e.presenter != nil {
		e.presenter.Close(actionID)
	}
	kind := "click"
	if action.Type == ActionTypeConversion {
		kind = "conversion"
	}
	e.record(ctx, action, kind)
}

// State exposes an action's trigger state, mainly for hosts and checks.
func (e *Engine) State(actionID string) (TriggerState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	machine, ok := e.machines[actionID]
	if !ok {
		return 0, false
	}
	return machine.State(), true
}

// fire transitions an armed trigger to fired, then runs the display gates:
// URL targeting against the current location, and the machine itself
// guaranteeing at-most-once display. A failed gate consumes the trigger
// without display.
func (e *Engine) fire(ctx context.Context, actionID string) {
	e.mu.Lock()
	action, machine := e.actions[actionID], e.machines[actionID]
	if action == nil || machine == nil {
		e.mu.Unlock()
		return
	}
	if err := machine.Transition(StateFired); err != nil {
		e.mu.Unlock()
		return
	}
	if !urlmatch.MatchesAny(action.URLPatterns, action.URLMatchType, e.pageURL, e.pagePath) {
		e.mu.Unlock()
		return
	}
	if err := machine.Transition(StateDisplayed); err != nil {
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()

	if e.presenter != nil {
		e.presenter.Show(action)
	}
	e.record(ctx, action, "impression")
}

func (e *Engine) record(ctx context.Context, action *Action, kind string) {
	if e.dispatcher == nil {
		return
	}
	e.dispatcher.SendInteraction(ctx, &Interaction{
		ActionID:     action.ID,
		TrackingID:   e.trackingID,
		SessionToken: e.sessionToken,
		Type:         kind,
		URL:          e.pageURL,
	})
}

// armedOfType snapshots the armed action ids whose trigger is of the given
// kind, so feed methods fire outside any iteration over shared state.
func (e *Engine) armedOfType(triggerType string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var ids []string
	for id, cfg := range e.triggers {
		if cfg.Type == triggerType && e.machines[id].State() == StateArmed {
			ids = append(ids, id)
		}
	}
	return ids
}

func (e *Engine) triggerConfig(actionID string) TriggerConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.triggers[actionID]
}

func (e *Engine) fetchActions(ctx context.Context) ([]*Action, error) {
	url := fmt.Sprintf("%s/api/actions/active/%s", e.baseURL, e.trackingID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build actions request: %w", err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active actions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("active actions endpoint returned status %d", resp.StatusCode)
	}
	var payload activeActionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode active actions: %w", err)
	}
	return payload.Actions, nil
}
