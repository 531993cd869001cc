// Package fnweaver wires convention-named Go modules into deployable
// functions. Files ending in ".function.go" contribute background functions
// and files ending in ".endpoint.go" contribute HTTP routes. Each module's
// group is taken from its directory, and the result is an export map a
// serverless host consumes one group at a time.
//
// # Packages
//
//   - assembler: runs the reactive and endpoint passes over a root directory.
//   - discovery: finds module files and resolves their groups.
//   - source: loads module files with the yaegi interpreter, or from memory.
//   - endpoint: the descriptor an endpoint module exports.
//   - export: the export map and its merge rules.
//   - router: per-group routers, the App that mounts them and the middleware
//     chain around a deployed entry point.
//   - deploy: turns an App into the entry point stored under "api".
//   - manifest: summaries and OpenAPI documents of an assembled tree.
//   - responder, info, probe, jsonutil: problem responses, operational
//     endpoints, health checks and the JSON codec.
//
// # Quick Start
//
//	exports := export.Map{}
//	a, err := assembler.New("./functions", exports,
//	    assembler.WithLogger(logger),
//	    assembler.WithHost(deploy.NewHost(router.WithConfig(cfg))),
//	)
//	if err != nil {
//	    return err
//	}
//	api, _ := exports.EntryPoint("orders")
//	http.ListenAndServe(":8080", api)
//
// The fnweaver command runs the same assembly to list what a tree deploys,
// print its OpenAPI document, or serve every group locally.
package fnweaver
