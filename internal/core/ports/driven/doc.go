// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - SessionStore: Chat session persistence (SQLite or memory)
//   - ConfigStore: Preferences, credentials and current-session ids (TOML)
//   - Backend: The Voice for the Weak HTTP API
//   - BlobStore: Local playback handles for audio bytes
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Recorder: Microphone capture. Without it, only file attachments work.
//   - Player: Audio playback. Without it, playback URLs are only printed.
//   - Watcher: Data directory change events. Without it, the TUI does not
//     refresh when another process writes sessions.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
