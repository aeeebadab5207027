package runner

import (
	"slices"

	"github.com/roach88/palaver/internal/dialogue"
	"github.com/roach88/palaver/internal/lines"
)

// Kind names a notification category the host can subscribe to.
type Kind string

const (
	// KindLine fires when a line of dialogue is ready to present.
	KindLine Kind = "line"
	// KindOptions fires when a choice set is ready to present.
	KindOptions Kind = "options"
	// KindCommand fires before a command line is dispatched.
	KindCommand Kind = "command"
	// KindNodeStart fires when execution enters a node.
	KindNodeStart Kind = "node_start"
	// KindNodeEnd fires when execution leaves a node.
	KindNodeEnd Kind = "node_end"
	// KindComplete fires exactly once, when the dialogue concludes.
	KindComplete Kind = "dialogue_complete"
)

// AllKinds lists every notification kind in a stable order.
func AllKinds() []Kind {
	return []Kind{KindLine, KindOptions, KindCommand, KindNodeStart, KindNodeEnd, KindComplete}
}

// ResolvedOption pairs a runtime option with its localized text.
type ResolvedOption struct {
	dialogue.Option
	Text string
}

// Notification is the payload delivered to subscribers. Exactly the fields
// relevant to Kind are set. Seq is a per-run monotonic sequence number;
// RunToken identifies the run the notification belongs to.
type Notification struct {
	Kind     Kind
	Seq      int64
	RunToken string

	Line    *lines.Line      // KindLine
	Options []ResolvedOption // KindOptions
	Command string           // KindCommand
	Node    string           // KindNodeStart, KindNodeEnd
}

// Handler receives notifications. A non-nil error aborts the step loop and
// propagates to the caller that drove it.
type Handler func(Notification) error

// Subscription is a de-registration handle returned by Subscribe and
// SubscribeAll.
type Subscription struct {
	cancel func()
}

// Cancel removes the subscription. Safe to call more than once.
func (s *Subscription) Cancel() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// subscriber is one registered handler. The id orders removal; handlers
// are invoked in slice order, which is registration order.
type subscriber struct {
	id int64
	fn Handler
}

// Subscribe registers a handler for one notification kind and returns its
// de-registration handle. Handlers for the same kind run in registration
// order.
func (r *Runner) Subscribe(kind Kind, h Handler) *Subscription {
	r.subID++
	id := r.subID
	r.subs[kind] = append(r.subs[kind], subscriber{id: id, fn: h})
	return &Subscription{cancel: func() { r.unsubscribe(kind, id) }}
}

// SubscribeAll registers a handler for every notification kind. One Cancel
// removes it everywhere.
func (r *Runner) SubscribeAll(h Handler) *Subscription {
	r.subID++
	id := r.subID
	kinds := AllKinds()
	for _, kind := range kinds {
		r.subs[kind] = append(r.subs[kind], subscriber{id: id, fn: h})
	}
	return &Subscription{cancel: func() {
		for _, kind := range kinds {
			r.unsubscribe(kind, id)
		}
	}}
}

func (r *Runner) unsubscribe(kind Kind, id int64) {
	list := r.subs[kind]
	for i, sub := range list {
		if sub.id == id {
			r.subs[kind] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// notify stamps and delivers a notification to the kind's subscribers in
// registration order. The first handler error stops delivery and
// propagates. Delivery ranges over a snapshot so a handler cancelling a
// subscription mid-delivery cannot shift later handlers out of this round.
func (r *Runner) notify(n Notification) error {
	r.seq++
	n.Seq = r.seq
	n.RunToken = r.runToken
	for _, sub := range slices.Clone(r.subs[n.Kind]) {
		if err := sub.fn(n); err != nil {
			return err
		}
	}
	return nil
}
