// Package cli implements the interactive PetKeeper client: a small REPL over
// the sync orchestrator, the share acceptor and the local record store.
package cli
