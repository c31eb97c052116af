package davclient

import (
	"net/http"
)

type statusSet map[int]struct{}

func newStatusSet(codes ...int) statusSet {
	s := make(statusSet, len(codes))
	for _, code := range codes {
		s[code] = struct{}{}
	}
	return s
}

func (s statusSet) has(code int) bool {
	_, ok := s[code]
	return ok
}

var (
	connectAccepted = newStatusSet(http.StatusOK)
	listAccepted    = newStatusSet(http.StatusOK, http.StatusMultiStatus)
	uploadAccepted  = newStatusSet(http.StatusOK, http.StatusCreated, http.StatusNoContent)
	deleteAccepted  = newStatusSet(http.StatusOK, http.StatusNoContent)
	mkcolAccepted   = newStatusSet(http.StatusOK, http.StatusCreated, http.StatusAccepted)
	getAccepted     = newStatusSet(http.StatusOK)
)

func checkStatus(op string, rsp *RawResponse, accepted statusSet) error {
	if accepted.has(rsp.StatusCode) {
		return nil
	}
	return &StatusError{Op: op, Code: rsp.StatusCode}
}
