// Package source loads the modules that assembly consumes.
//
// A Source lists module files matching a glob pattern and loads each file
// into a map of exported names to values. Dir reads Go source files from
// disk and evaluates them with the yaegi interpreter. Memory serves
// pre-built exports and is meant for tests and embedding.
//
// Module files are ordinary Go files in package main:
//
//	//go:build fnweaver
//
//	package main
//
//	import (
//		"net/http"
//
//		"github.com/drblury/fnweaver/endpoint"
//	)
//
//	var Endpoint = endpoint.Get(http.HandlerFunc(list))
//
// Every exported top-level function, variable and constant becomes an export.
// Besides the standard library, module files may import the endpoint and
// router packages of this module.
package source
