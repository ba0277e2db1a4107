/*
Package domain contains the core types of the braid state container: actions,
reducers, snapshots, lifecycle events and the sentinel errors shared by all
layers. It has no dependencies on the runtime or on any adapter.
*/
package domain
