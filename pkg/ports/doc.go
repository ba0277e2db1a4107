/*
Package ports defines the interfaces between the braid core and its hosts:
snapshot persistence, the dispatcher surface transports depend on, and
distributed locking. Adapters implement these; the core and the session
manager consume them.
*/
package ports
