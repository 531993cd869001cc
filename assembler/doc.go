// Package assembler discovers function and endpoint modules below a root
// directory and wires them into an export map.
//
// The reactive pass merges every exported value of a "*.function.go" module
// into the bucket of its group. The endpoint pass registers every
// "*.endpoint.go" module on its group's router, mounts the routers on one
// application and stores a deployable entry point for that application
// under each group's "api" key.
//
// Groups come from directory names. With grouping by folder, which is the
// default, orders/notify/notify.function.go belongs to the "orders" group.
// Without it the file's own directory, "notify", is the group.
package assembler
