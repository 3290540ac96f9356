/*
Package observability turns engine lifecycle hooks into Prometheus metrics.

Metrics registers its collectors on the given registerer; Hooks returns a
domain.LifecycleHooks value to pass to the engine (merge it with logging
hooks via LifecycleHooks.Merge).
*/
package observability
