// Package metrics holds the Prometheus collectors shared by the API and
// the worker. Collectors register with the default registry through
// promauto; callers use the Record helpers rather than the vectors.
package metrics
