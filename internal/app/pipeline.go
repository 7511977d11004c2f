package app

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ayusman/leaptrack/internal/plugin"
	"github.com/ayusman/leaptrack/internal/tracker"
)

// run is the tracking loop. Every tick polls the tracker once; ticks that
// see no new frame do nothing else.
func (a *App) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(a.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.tick(ctx)
		}
	}
}

// tick advances the tracker and handles whatever it detected. It reports
// whether a new frame was processed.
func (a *App) tick(ctx context.Context) bool {
	if !a.tracker.Update() {
		return false
	}

	a.hub.Publish(a.tracker.Snapshot())

	for _, ev := range a.collect(time.Now()) {
		a.handle(ctx, ev)
	}
	return true
}

// collect consumes every pending detection on the tracker. Grip edges come
// first, followed by the gesture channels in a fixed order.
func (a *App) collect(now time.Time) []Event {
	t := a.tracker
	base := Event{
		HandID:   t.HandID(),
		Position: t.HandPosition(),
		At:       now,
	}

	var events []Event

	switch t.GripTransition() {
	case tracker.TransitionGrip:
		ev := base
		ev.Trigger = TriggerGrip
		events = append(events, ev)
	case tracker.TransitionRelease:
		ev := base
		ev.Trigger = TriggerRelease
		events = append(events, ev)
	}

	if t.IsCircleDetected() {
		ev := base
		ev.Trigger = TriggerCircle
		ev.GestureID = t.CircleID()
		events = append(events, ev)
	}

	if t.IsSwipeDetected() {
		dir := t.SwipeDirection()
		ev := base
		ev.Trigger = SwipeTrigger(dir)
		ev.GestureID = t.SwipeID()
		ev.Direction = dir.String()
		ev.Speed = t.SwipeSpeed()
		events = append(events, ev)
	}

	if t.IsKeyTapDetected() {
		ev := base
		ev.Trigger = TriggerKeyTap
		ev.GestureID = t.KeyTapID()
		events = append(events, ev)
	}

	if t.IsScreenTapDetected() {
		ev := base
		ev.Trigger = TriggerScreenTap
		ev.GestureID = t.ScreenTapID()
		events = append(events, ev)
	}

	return events
}

// handle journals ev, reports it, and runs the plugin bound to its trigger.
func (a *App) handle(ctx context.Context, ev Event) {
	a.logger.Info("gesture event", "trigger", ev.Trigger, "gesture_id", ev.GestureID, "hand_id", ev.HandID)

	if a.config.Store != nil {
		if err := a.config.Store.Events().Create(ev.record()); err != nil {
			a.logger.Warn("failed to journal event", "trigger", ev.Trigger, "error", err)
		}
	}

	if a.config.OnEvent != nil {
		a.config.OnEvent(ev)
	}

	a.dispatch(ctx, ev)
}

// dispatch looks up the binding for ev and runs its plugin in the
// background. Unbound or disabled triggers are ignored.
func (a *App) dispatch(ctx context.Context, ev Event) {
	if a.config.Store == nil || a.config.Plugins == nil {
		return
	}

	binding, err := a.config.Store.Bindings().GetByTrigger(ev.Trigger)
	if err != nil {
		a.logger.Warn("failed to look up binding", "trigger", ev.Trigger, "error", err)
		return
	}
	if binding == nil || !binding.Enabled {
		return
	}

	p, err := a.config.Plugins.Get(binding.PluginName)
	if err != nil {
		a.logger.Warn("bound plugin unavailable", "trigger", ev.Trigger, "plugin", binding.PluginName, "error", err)
		return
	}
	if !p.Manifest.HasAction(binding.ActionName) {
		a.logger.Warn("plugin does not support action", "plugin", p.Manifest.Name, "action", binding.ActionName)
		return
	}

	params, err := json.Marshal(ev)
	if err != nil {
		a.logger.Warn("failed to encode event", "trigger", ev.Trigger, "error", err)
		return
	}

	req := &plugin.Request{
		Action:  binding.ActionName,
		Trigger: ev.Trigger,
		Config:  binding.Config,
		Params:  params,
	}

	a.dispatches.Add(1)
	go func() {
		defer a.dispatches.Done()

		resp, err := a.config.Executor.Execute(ctx, p, req)
		if err != nil {
			a.logger.Error("plugin execution failed", "plugin", p.Manifest.Name, "action", req.Action, "error", err)
			return
		}
		if !resp.Success {
			a.logger.Warn("plugin reported failure", "plugin", p.Manifest.Name, "action", req.Action, "error", resp.Error)
			return
		}
		a.logger.Debug("plugin executed", "plugin", p.Manifest.Name, "action", req.Action)
	}()
}
