// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. Flags
// layer over FLOWBIND_* environment defaults; the result is the
// application's internal configuration.
package cli
