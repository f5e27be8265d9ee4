// Package comm talks to one MALOS driver over its four ZeroMQ channels.
//
// Driver with base port P listens on:
// - P   PUSH configuration (DriverConfig)
// - P+1 PUSH keepalive ping, empty payload
// - P+2 SUB  error notifications, free-form string
// - P+3 SUB  telemetry, device specific encoding
//
// Comm opens all channels at construction and owns the messaging context.
// Perform runs error listener, data listener, pinger and optional timeout
// supervisor concurrently, waits for all of them and returns records in arrival order.
// Listener failures are logged, never returned; partial results are normal.
// Destroy releases channels and context, it must run before next Comm in sequential use.
package comm
