/*
Package observability provides Prometheus instrumentation for shapeguard.

Metrics records one verdict per named check, split by outcome (valid, invalid
or fault), and the time each check took. Collectors are registered on a caller
supplied prometheus.Registerer so embedding applications keep control of their
registry.
*/
package observability
