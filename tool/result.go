package tool

// ErrInfo is the captured failure of a wrapped call: the failure's type
// name, its message, and the trace text (a stack for panics, the unwrapped
// error chain otherwise).
type ErrInfo struct {
	Type    string
	Message string
	Trace   string
}

// Result is the outcome of executing a wrapped function. Status 0 means
// success and Output holds the return value; status 1 means the call failed
// and Err describes the failure.
type Result struct {
	Status int
	Output any
	Err    *ErrInfo
}
