// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
//   - SearchProvider: the external web-search API (Tavily)
//   - KeyStore: local keypair persistence, one keypair per kid
//   - RegistrationClient: the HTTP client side of the registration handshake
//   - RecordStore: local RegistrationRecord persistence with atomic overwrite
//   - ClientStore: server-side registered-client persistence
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
