/*
Package domain contains the core value types of a hypermedia traversal.

It defines the positions a traversal moves through, the responses collected on
the way, the lifecycle events emitted per hop and request, and the typed errors
every stage reports. This package is kept free of I/O so that walkers,
transports and the orchestrator can share it without import cycles.

# Key Entities

  - Step: A traversal position (bare URI, fetched URI + Response, or embedded Doc).
  - Response: A materialized HTTP response, or a tagged synthetic one for embedded nodes.
  - RequestOptions: What a terminal or intermediate request sends (body, headers).
  - LifecycleHooks: Callbacks for hop and request observability.
*/
package domain
