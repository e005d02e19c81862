// Package exitcode defines the process exit statuses of taskhub.
package exitcode

// Exit codes returned by the taskhub binary.
const (
	Success = 0

	// UserError: bad arguments, unknown task reference, or a change the
	// document rejects (unknown project, tag cap, empty title).
	UserError = 1

	// AuthError: credential missing or rejected, repository or OAuth client
	// not configured.
	AuthError = 2

	// BackendError: the document could not be loaded or saved, including a
	// revision conflict, or a GitHub issue or Google Tasks call failed.
	BackendError = 3
)
