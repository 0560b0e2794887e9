// Package app contains the core application lifecycle: it assembles the
// logger, the context store, and the development host, registers the
// built-in node set, and runs flows to completion. It is decoupled from any
// specific entrypoint like a CLI or server.
package app
