package davclient

import (
	"encoding/base64"
	"strconv"

	"github.com/xxxsen/davc/cookiejar"
)

const (
	defaultAccept         = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	defaultAcceptLanguage = "en-US,en;q=0.5"
	defaultContentType    = "application/octet-stream"
)

type Header = cookiejar.Header

// RawRequest is a request ready to be handed to a transport.
// Body is nil when the request carries no body.
type RawRequest struct {
	Method  string
	URL     string
	Body    []byte
	Headers []Header
}

// HeaderValue returns the first value of header name.
func (r *RawRequest) HeaderValue(name string) (string, bool) {
	return lookupHeader(r.Headers, name)
}

// BasicAuthorization encodes the credential sent in the Authorization header.
// An empty username encodes the password alone.
func BasicAuthorization(username, password string) string {
	auth := password
	if len(username) != 0 {
		auth = username + ":" + password
	}
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(auth))
}

// buildRequest lays out the headers in a fixed, browser like order.
func buildRequest(method string, url string, body []byte, auth string, extra []Header, jar *cookiejar.Jar) *RawRequest {
	headers := make([]Header, 0, 10+len(extra))
	headers = append(headers,
		Header{Name: "Accept", Value: defaultAccept},
		Header{Name: "Accept-Language", Value: defaultAcceptLanguage},
	)
	if len(auth) != 0 {
		headers = append(headers, Header{Name: "Authorization", Value: auth})
	}
	headers = append(headers, extra...)
	if jar != nil {
		if cookie := jar.HeaderValue(); len(cookie) != 0 {
			headers = append(headers, Header{Name: "Cookie", Value: cookie})
		}
	}
	headers = append(headers,
		Header{Name: "Cache-Control", Value: "no-cache"},
		Header{Name: "Upgrade-Insecure-Requests", Value: "1"},
		Header{Name: "Pragma", Value: "no-cache"},
	)
	if body != nil {
		headers = append(headers,
			Header{Name: "Content-Type", Value: defaultContentType},
			Header{Name: "Content-Length", Value: strconv.Itoa(len(body))},
		)
	}
	return &RawRequest{
		Method:  method,
		URL:     url,
		Body:    body,
		Headers: headers,
	}
}
