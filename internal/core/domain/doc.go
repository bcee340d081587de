// Package domain defines the core business entities for the web-search
// MCP server and its client registrar.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SearchQuery / SearchResult: one tool invocation against the search provider
//   - Keypair: the client's asymmetric key material, named by a kid
//   - RegistrationRecord: the persisted outcome of a client-to-server binding
//   - RegisteredClient: a client key as seen from the server side
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
