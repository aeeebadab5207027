// Package runtime defines the pluggable dialogue-evaluator contract and
// provides the reference graph-walking implementation.
//
// A Runtime owns dialogue position and produces exactly one event per Step
// call. Any backend implementing the contract is substitutable: a graph
// walker, a bytecode virtual machine, or anything else that can satisfy
// the state-machine guarantees below.
//
// CONTRACT GUARANTEES:
//
// One event per step:
// Step advances the machine by exactly one event, or reports no event once
// the dialogue has concluded. Given identical prior state, Step is
// deterministic.
//
// Option window:
// SelectOption is valid only between an options event and the selection
// that resolves it. Outside that window it fails with InvalidOptionError
// and mutates nothing.
//
// Completion:
// The finished event is produced exactly once per run. After it, Step
// produces no events until Reset or Load.
//
// Visited scope:
// Node-entry events are emitted at most once per node per run; the visited
// marker is cleared by Reset and Load.
package runtime
