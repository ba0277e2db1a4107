/*
Package braid is a predictable state container for Go. It braids several
independently-defined reducers into a single store: one merged state view and
one dispatch entry point that fans every action out to all reducers.

It implements the classic reducer pattern with a "Pluggable Host" architecture,
separating the pure state logic (Reducers) from observation (Hooks), policy
(Interceptors) and persistence (Snapshot stores). This keeps the core a pure,
synchronous value machine while hosts (CLI, HTTP, MCP) own all I/O.

# Concept

State is partitioned into named slices. Each slice is owned by exactly one
reducer, a pure function from (sub-state, action) to the next sub-state.
Dispatching an action forwards it to every reducer in a fixed slice order;
each reducer either produces a new sub-state or returns its input unchanged
when it does not recognize the action type. That "ignore unknown actions"
contract is mandatory: once reducers are combined, every reducer receives
every action, including those addressed to its siblings.

# Key Guarantees

  - Deterministic fan-out: actions reach reducers in a fixed slice order.
  - Fresh views: every State() call returns a newly built map, never a shared
    instance.
  - Explicit fault policy: dispatch is fail-fast by default; WithFaultIsolation
    switches to best-effort fan-out with joined errors.
  - Pure core: the store itself performs no logging, no persistence and no
    validation beyond routing on the action type.

# Usage

	store, err := braid.New(
		braid.WithSlice("todos", todo.Reducer, []todo.Todo{}),
		braid.WithSlice("filter", todo.FilterReducer, todo.FilterAll),
	)
	if err != nil {
		log.Fatal(err)
	}

	if err := store.Dispatch(ctx, todo.Add("write docs")); err != nil {
		log.Fatal(err)
	}

	state := store.State() // map[string]any{"todos": ..., "filter": ...}

Persistence, transports and observability are layered on top: see
pkg/adapters for the memory/Redis snapshot stores and the HTTP/MCP hosts,
pkg/middleware for dispatch interceptors, and pkg/session for serialized
multi-session access.
*/
package braid
