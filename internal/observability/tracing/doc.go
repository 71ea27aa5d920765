// Package tracing wires OpenTelemetry spans through the HTTP stack and the
// offer workflow. Binaries call InstallProvider at startup; tests swap in
// a tracetest recorder.
package tracing
