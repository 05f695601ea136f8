/*
Package ports defines the driven ports (interfaces) of a hyperwalk traversal.

These interfaces decouple the orchestrator from the per-media-type link walking
engine and from the HTTP client, so either can be replaced without touching
the terminal action logic.

# Key Interfaces

  - Walker: Follows the configured link chain and materializes steps.
  - Transport: Issues single HTTP requests and returns fully read responses.
  - Traversal: The configuration object shared by the orchestrator and its Walker.
*/
package ports
