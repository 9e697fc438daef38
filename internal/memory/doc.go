// Package memory configures the Go soft memory limit for containers.
//
// The service reads whole pack files and decodes thumbnails in memory, so
// in a memory-limited container it sets GOMEMLIMIT below the container
// limit to make the garbage collector work harder before the OOM killer
// steps in. See [Configure].
package memory
