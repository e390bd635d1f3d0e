// Package domain defines the core business entities for vfw.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ChatSession: A persisted conversation with one legal assistant
//   - Message: One turn in a session, user- or bot-authored
//   - AssistantKind: Which assistant (IPC or BNS) a session belongs to
//   - Credentials: The signed-in user and bearer token
//   - SchemeProfile: The government-scheme recommendation form
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
