package types

// The four fatal error kinds. Anything else that goes wrong while processing
// a single URL is recorded against that URL and the run continues; these
// abort the whole run.

// ConfigError reports invalid or missing configuration. Raised before any
// network activity.
type ConfigError struct {
	Msg string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NetworkError reports connectivity, authentication or server failures while
// building the existing-URL index or checking connectivity at startup.
type NetworkError struct {
	Msg string
	Err error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ProcessingError reports a malformed response from the recipe server during
// indexing (valid transport, useless payload).
type ProcessingError struct {
	Msg string
	Err error
}

func (e *ProcessingError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// FileError reports problems with the URL input file.
type FileError struct {
	Msg string
	Err error
}

func (e *FileError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *FileError) Unwrap() error { return e.Err }
