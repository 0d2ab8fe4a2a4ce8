// Package api define interfaces implemented by memory allocators in
// this repository, applications can program against these interfaces
// and plug a different implementation.
package api
