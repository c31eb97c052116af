package davclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xxxsen/davc/cookiejar"
)

func headerNames(hs []Header) []string {
	rs := make([]string, 0, len(hs))
	for _, h := range hs {
		rs = append(rs, h.Name)
	}
	return rs
}

func TestBasicAuthorization(t *testing.T) {
	assert.Equal(t, "Basic dTpw", BasicAuthorization("u", "p"))
	assert.Equal(t, "Basic cA==", BasicAuthorization("", "p"))
}

func TestBuildRequestWithoutBody(t *testing.T) {
	req := buildRequest("PROPFIND", "http://127.0.0.1/dav/", nil, "", nil, cookiejar.New())
	assert.Equal(t, []string{
		"Accept",
		"Accept-Language",
		"Cache-Control",
		"Upgrade-Insecure-Requests",
		"Pragma",
	}, headerNames(req.Headers))
	assert.Nil(t, req.Body)
}

func TestBuildRequestFull(t *testing.T) {
	jar := cookiejar.New()
	jar.Record([]Header{{Name: "Set-Cookie", Value: "sid=abc123; Path=/"}})
	body := []byte{0x00, 0xff, 0x10}
	req := buildRequest("PUT", "http://127.0.0.1/f.bin", body, BasicAuthorization("u", "p"),
		[]Header{{Name: "Depth", Value: "1"}}, jar)
	assert.Equal(t, []string{
		"Accept",
		"Accept-Language",
		"Authorization",
		"Depth",
		"Cookie",
		"Cache-Control",
		"Upgrade-Insecure-Requests",
		"Pragma",
		"Content-Type",
		"Content-Length",
	}, headerNames(req.Headers))
	v, ok := req.HeaderValue("cookie")
	assert.True(t, ok)
	assert.Equal(t, "sid=abc123", v)
	v, _ = req.HeaderValue("Content-Length")
	assert.Equal(t, "3", v)
	v, _ = req.HeaderValue("Content-Type")
	assert.Equal(t, "application/octet-stream", v)
	v, _ = req.HeaderValue("Authorization")
	assert.Equal(t, "Basic dTpw", v)
	assert.Equal(t, body, req.Body)
}

func TestBuildRequestEmptyBody(t *testing.T) {
	req := buildRequest("PUT", "http://127.0.0.1/empty", []byte{}, "", nil, nil)
	v, ok := req.HeaderValue("Content-Length")
	assert.True(t, ok)
	assert.Equal(t, "0", v)
}

func TestJoinURL(t *testing.T) {
	tests := []struct {
		base string
		name string
		out  string
	}{
		{"http://h/dav", "f.bin", "http://h/dav/f.bin"},
		{"http://h/dav", "/f.bin", "http://h/dav/f.bin"},
		{"http://h/dav/", "/f.bin", "http://h/dav/f.bin"},
		{"http://h/dav/", "d/e", "http://h/dav/d/e"},
	}
	for _, item := range tests {
		assert.Equal(t, item.out, joinURL(item.base, item.name))
	}
}
