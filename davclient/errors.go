package davclient

import (
	"errors"
	"fmt"
)

var (
	ErrNotConnected      = errors.New("client not connected")
	ErrAlreadyConnected  = errors.New("client already connected")
	ErrMalformedResponse = errors.New("malformed response")
)

// StatusError reports a response whose status code is not accepted by the operation.
type StatusError struct {
	Op   string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s:unexpected response code:%d", e.Op, e.Code)
}

// TransportError reports that no response could be obtained: dns, tcp, tls or body read failures.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s:send request failed, url:%s, err:%v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// LocalResourceError reports a failure of the local byte source or sink.
type LocalResourceError struct {
	Path string
	Err  error
}

func (e *LocalResourceError) Error() string {
	return fmt.Sprintf("local resource failed, path:%s, err:%v", e.Path, e.Err)
}

func (e *LocalResourceError) Unwrap() error {
	return e.Err
}

// StatusCode returns the code carried by a StatusError in err's chain.
func StatusCode(err error) (int, bool) {
	var se *StatusError
	if !errors.As(err, &se) {
		return 0, false
	}
	return se.Code, true
}
