// Package audio provides local audio adapters: a file-backed blob store
// for playback URLs, and a recorder and player that drive external
// command-line tools.
package audio
