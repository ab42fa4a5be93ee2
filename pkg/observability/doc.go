/*
Package observability provides tools for monitoring the cascade engine.

It includes Prometheus collectors driven by lifecycle hooks, structured logging of rule
firings and cascade outcomes, and Combine for attaching several observers to one engine.
*/
package observability
