package davtest

import (
	"bytes"
	"encoding/xml"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doRequest(t *testing.T, method string, link string, body []byte) (*http.Response, []byte) {
	req, err := http.NewRequest(method, link, bytes.NewReader(body))
	require.NoError(t, err)
	rsp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer rsp.Body.Close()
	raw, err := io.ReadAll(rsp.Body)
	require.NoError(t, err)
	return rsp, raw
}

func TestServerTree(t *testing.T) {
	s := New(WithPrefix("/dav"))
	defer s.Close()

	rsp, _ := doRequest(t, methodMkcol, s.URL()+"/d", nil)
	assert.Equal(t, http.StatusCreated, rsp.StatusCode)
	rsp, _ = doRequest(t, methodMkcol, s.URL()+"/d", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rsp.StatusCode)
	rsp, _ = doRequest(t, http.MethodPut, s.URL()+"/d/f.txt", []byte("hello"))
	assert.Equal(t, http.StatusCreated, rsp.StatusCode)
	rsp, _ = doRequest(t, http.MethodPut, s.URL()+"/missing/f.txt", []byte("hello"))
	assert.Equal(t, http.StatusConflict, rsp.StatusCode)
	rsp, raw := doRequest(t, http.MethodGet, s.URL()+"/d/f.txt", nil)
	assert.Equal(t, http.StatusOK, rsp.StatusCode)
	assert.Equal(t, "hello", string(raw))
	assert.NotEmpty(t, rsp.Header.Get("ETag"))

	rsp, raw = doRequest(t, methodPropfind, s.URL()+"/", nil)
	assert.Equal(t, http.StatusMultiStatus, rsp.StatusCode)
	ms := struct {
		Responses []struct {
			Href string `xml:"href"`
		} `xml:"response"`
	}{}
	require.NoError(t, xml.Unmarshal(raw, &ms))
	require.Len(t, ms.Responses, 2)
	assert.Equal(t, "/dav/", ms.Responses[0].Href)
	assert.Equal(t, "/dav/d/", ms.Responses[1].Href)

	rsp, _ = doRequest(t, http.MethodDelete, s.URL()+"/d", nil)
	assert.Equal(t, http.StatusNoContent, rsp.StatusCode)
	_, ok := s.ReadFile("/d/f.txt")
	assert.False(t, ok)

	rsp, _ = doRequest(t, http.MethodHead, s.svr.URL+"/other", nil)
	assert.Equal(t, http.StatusNotFound, rsp.StatusCode)
}

func TestServerFaultAndCookie(t *testing.T) {
	s := New(WithUser("u", "p"))
	defer s.Close()
	rsp, _ := doRequest(t, http.MethodHead, s.URL(), nil)
	assert.Equal(t, http.StatusUnauthorized, rsp.StatusCode)

	s.InjectStatus(http.MethodGet, http.StatusTeapot)
	s.SetCookie("sid=1; Path=/")
	req, err := http.NewRequest(http.MethodGet, s.URL()+"/x", nil)
	require.NoError(t, err)
	req.SetBasicAuth("u", "p")
	rsp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = rsp.Body.Close()
	assert.Equal(t, http.StatusTeapot, rsp.StatusCode)
	assert.Equal(t, "sid=1; Path=/", rsp.Header.Get("Set-Cookie"))
	assert.Len(t, s.Requests(), 2)
	assert.Equal(t, "/x", s.LastRequest().Path)
}
