// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the primary execution lifecycle, decoupled
// from any specific entrypoint like a CLI or server.
//
// An App loads a project directory, builds its node registry once, and then
// selects and runs nodes on demand. Project-level defaults such as thread
// count and fail-fast are merged underneath command-line settings.
package app
