/*
Package session orchestrates durable, serialized access to braid stores.

The core store provides no queueing of rapid successive dispatches: callers
originating actions from multiple goroutines or replicas are responsible for
serializing them. The Manager is that caller-side serialization: per-session
reference-counted locks in process, an optional distributed locker across
replicas, and snapshot persistence around every update.
*/
package session
