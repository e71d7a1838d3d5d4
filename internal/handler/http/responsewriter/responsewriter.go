// Package responsewriter wraps http.ResponseWriter so middleware can
// observe the status code and body size after the handler has run.
package responsewriter

import "net/http"

// Wrapper records the status code and number of body bytes written.
type Wrapper struct {
	http.ResponseWriter
	status int
	bytes  int
}

// Wrap returns a Wrapper around w. The status defaults to 200 in case
// the handler never calls WriteHeader explicitly.
func Wrap(w http.ResponseWriter) *Wrapper {
	return &Wrapper{ResponseWriter: w, status: http.StatusOK}
}

func (w *Wrapper) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *Wrapper) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Status returns the response status code.
func (w *Wrapper) Status() int { return w.status }

// BytesWritten returns the number of body bytes written so far.
func (w *Wrapper) BytesWritten() int { return w.bytes }
