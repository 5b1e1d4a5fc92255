package cliparse

// ExitError reports that the process should terminate with a specific exit
// code: 2 for usage errors, 0 for an explicit help request. Library code
// never exits the process itself; the error carries the code out to main.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}
