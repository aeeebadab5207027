// Package runner implements the dialogue execution control loop.
//
// A Runner drives a pluggable runtime one step at a time, classifies each
// event it produces, applies command and variable effects, and decides
// when to pause. Suspension points are exactly two: after presenting a
// line (the host calls Continue when the line has been acknowledged) and
// after presenting options (the host calls SelectOption).
//
// ARCHITECTURE:
//
// Single-threaded cooperative execution:
// The step loop runs to completion or to a pause point within one call.
// Stop is cooperative, checked at the top of each iteration, never
// preemptive. A Runner supports one run at a time; callers must not call
// Start, Continue, or SelectOption concurrently on the same instance.
//
// Write-through ordering:
// Variable writes hit durable storage first, then the runtime working
// set. A crash between the two never leaves the runtime holding a value
// absent from durable storage.
//
// Observer semantics:
// Handlers are invoked in registration order. Handler failures are not
// caught: they propagate to whichever call drove the step, leaving state
// as it was at the last successfully processed event.
package runner
