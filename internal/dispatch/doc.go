// Package dispatch turns a raw command line into a formatted terminal result.
//
// The dispatcher parses the line, resolves the first token against a closed
// set of commands, asks the document cache for the CV when the command needs
// it, and renders deterministic text.
//
// Key properties:
//   - Command names are case-insensitive; extra arguments are accepted and ignored
//   - help, cache and clear never touch the document
//   - Sections render entries in stored order, separated by one blank line
//   - List fields render one bullet per element; long text wraps at word boundaries
//
// Error handling:
//   - Unknown command → error result naming the token and pointing at help
//   - Cache has no document and the fetch failed → data_unavailable error result
//   - Panic while formatting → error result
//
// Execute never returns an error or panics; every outcome is a Result.
package dispatch
