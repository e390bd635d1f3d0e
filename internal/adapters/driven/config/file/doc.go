// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML preference file holding settings, credentials
//     and the current session of each assistant
package file
