package davclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
)

// RawResponse is everything a transport read back for one request.
// Headers are grouped by canonical name in sorted order. Repeated values of
// one name, such as Set-Cookie, keep the order they arrived in, but the
// arrival order across different names is not preserved.
type RawResponse struct {
	StatusCode int
	Status     string
	Headers    []Header
	Body       []byte
}

// HeaderValue returns the first value of header name.
func (r *RawResponse) HeaderValue(name string) (string, bool) {
	return lookupHeader(r.Headers, name)
}

// ITransport sends one request and returns the raw response.
// On error the response is nil, unless the status line and headers were
// read before the failure, in which case it carries them without a body.
type ITransport interface {
	Send(ctx context.Context, req *RawRequest) (*RawResponse, error)
}

type httpTransport struct {
	client *http.Client
}

func newDefaultHttpClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			IdleConnTimeout:     20 * time.Second,
			MaxIdleConns:        5,
			MaxIdleConnsPerHost: 1,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// NewHttpTransport sends requests with cli. Cookies are handled by the
// caller, so cli should not carry a cookie jar of its own.
func NewHttpTransport(cli *http.Client) ITransport {
	return &httpTransport{client: cli}
}

func (t *httpTransport) Send(ctx context.Context, req *RawRequest) (*RawResponse, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("build http request failed, err:%w", err)
	}
	for _, h := range req.Headers {
		httpReq.Header.Add(h.Name, h.Value)
	}
	if req.Body != nil {
		httpReq.ContentLength = int64(len(req.Body))
	}
	rsp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer rsp.Body.Close()
	rs := &RawResponse{
		StatusCode: rsp.StatusCode,
		Status:     rsp.Status,
		Headers:    flattenHeader(rsp.Header),
	}
	raw, err := io.ReadAll(rsp.Body)
	if err != nil {
		return rs, fmt.Errorf("read response body failed, err:%w", err)
	}
	rs.Body = raw
	return rs, nil
}

// flattenHeader orders headers by name, keeping the received order of
// repeated values such as Set-Cookie.
func flattenHeader(h http.Header) []Header {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)
	rs := make([]Header, 0, len(names))
	for _, name := range names {
		for _, v := range h[name] {
			rs = append(rs, Header{Name: name, Value: v})
		}
	}
	return rs
}

func lookupHeader(hs []Header, name string) (string, bool) {
	for _, h := range hs {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}
