// Package discovery finds module files by naming convention and derives the
// deployment group of each file from its directory.
package discovery
