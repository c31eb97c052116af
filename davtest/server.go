// Package davtest runs an in-memory WebDAV server for tests. Besides serving
// files it records incoming requests and can be told to answer with
// arbitrary status codes or to hand out cookies.
package davtest

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

const (
	methodPropfind = "PROPFIND"
	methodMkcol    = "MKCOL"
)

var allowMethods = []string{
	http.MethodGet,
	http.MethodPut,
	http.MethodDelete,
	http.MethodHead,
	methodPropfind,
	methodMkcol,
}

type entry struct {
	isDir bool
	data  []byte
	mtime time.Time
}

type Server struct {
	c       *config
	mu      sync.Mutex
	files   map[string]*entry
	reqs    []*Request
	cookies []string
	faults  map[string][]int
	svr     *httptest.Server
}

func New(opts ...Option) *Server {
	s := &Server{
		c:      applyOpts(opts...),
		files:  map[string]*entry{"/": {isDir: true, mtime: time.Now()}},
		faults: make(map[string][]int),
	}
	s.svr = httptest.NewServer(s.buildEngine())
	return s
}

func (s *Server) buildEngine() *gin.Engine {
	engine := gin.New()
	root := engine.Group("/", s.recordMiddleware(), s.authMiddleware(), s.faultMiddleware())
	for _, method := range allowMethods {
		root.Handle(method, "/*all", s.handler)
	}
	return engine
}

// URL is the location a client should connect to.
func (s *Server) URL() string {
	return s.svr.URL + s.c.prefix
}

func (s *Server) Close() {
	s.svr.Close()
}

// SetCookie queues Set-Cookie values sent with the next response.
func (s *Server) SetCookie(vs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cookies = append(s.cookies, vs...)
}

// InjectStatus makes the next requests of method answer with codes, one per request,
// without touching the stored tree.
func (s *Server) InjectStatus(method string, codes ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[method] = append(s.faults[method], codes...)
}

func (s *Server) Requests() []*Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	rs := make([]*Request, len(s.reqs))
	copy(rs, s.reqs)
	return rs
}

func (s *Server) LastRequest() *Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.reqs) == 0 {
		return nil
	}
	return s.reqs[len(s.reqs)-1]
}

// PutFile stores data at p, creating missing parent directories.
func (s *Server) PutFile(p string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p = cleanPath(p)
	s.mkdirAllLocked(path.Dir(p))
	s.files[p] = &entry{data: append([]byte(nil), data...), mtime: time.Now()}
}

func (s *Server) Mkdir(p string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mkdirAllLocked(cleanPath(p))
}

// ReadFile returns the stored content of p.
func (s *Server) ReadFile(p string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ent, ok := s.files[cleanPath(p)]
	if !ok || ent.isDir {
		return nil, false
	}
	return ent.data, true
}

func (s *Server) IsDir(p string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ent, ok := s.files[cleanPath(p)]
	return ok && ent.isDir
}

func (s *Server) mkdirAllLocked(p string) {
	for p != "/" {
		if _, ok := s.files[p]; !ok {
			s.files[p] = &entry{isDir: true, mtime: time.Now()}
		}
		p = path.Dir(p)
	}
}

func cleanPath(p string) string {
	return path.Clean("/" + p)
}

func (s *Server) recordMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		s.mu.Lock()
		s.reqs = append(s.reqs, &Request{
			Method: c.Request.Method,
			Path:   c.Request.URL.Path,
			Header: c.Request.Header.Clone(),
			Body:   body,
		})
		for _, v := range s.cookies {
			c.Writer.Header().Add("Set-Cookie", v)
		}
		s.cookies = nil
		s.mu.Unlock()
	}
}

func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(s.c.users) == 0 {
			return
		}
		u, p, ok := c.Request.BasicAuth()
		if ok {
			if sk, exist := s.c.users[u]; exist && sk == p {
				return
			}
		}
		c.Header("WWW-Authenticate", `Basic realm="Restricted Area"`)
		c.AbortWithStatus(http.StatusUnauthorized)
	}
}

func (s *Server) faultMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		codes := s.faults[c.Request.Method]
		if len(codes) == 0 {
			s.mu.Unlock()
			return
		}
		code := codes[0]
		s.faults[c.Request.Method] = codes[1:]
		s.mu.Unlock()
		c.AbortWithStatus(code)
	}
}

func (s *Server) handler(c *gin.Context) {
	if _, ok := s.target(c); !ok {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	switch c.Request.Method {
	case http.MethodGet:
		s.handleGet(c)
	case http.MethodHead:
		s.handleHead(c)
	case http.MethodPut:
		s.handlePut(c)
	case http.MethodDelete:
		s.handleDelete(c)
	case methodPropfind:
		s.handlePropfind(c)
	case methodMkcol:
		s.handleMkcol(c)
	default:
		logutil.GetLogger(c.Request.Context()).Error("unsupported method", zap.String("method", c.Request.Method))
		c.AbortWithStatus(http.StatusMethodNotAllowed)
	}
}

// target maps the request path into the tree, false if it lies outside the prefix.
func (s *Server) target(c *gin.Context) (string, bool) {
	p := c.Param("all")
	if len(s.c.prefix) == 0 {
		return cleanPath(p), true
	}
	if p != s.c.prefix && !strings.HasPrefix(p, s.c.prefix+"/") {
		return "", false
	}
	return cleanPath(strings.TrimPrefix(p, s.c.prefix)), true
}

func etag(data []byte) string {
	return fmt.Sprintf("\"%x\"", xxhash.Sum64(data))
}

func (s *Server) handleGet(c *gin.Context) {
	p, _ := s.target(c)
	s.mu.Lock()
	ent, ok := s.files[p]
	s.mu.Unlock()
	if !ok {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	if ent.isDir {
		c.AbortWithStatus(http.StatusMethodNotAllowed)
		return
	}
	c.Header("ETag", etag(ent.data))
	c.Header("Last-Modified", ent.mtime.UTC().Format(http.TimeFormat))
	c.Data(http.StatusOK, "application/octet-stream", ent.data)
}

func (s *Server) handleHead(c *gin.Context) {
	p, _ := s.target(c)
	s.mu.Lock()
	ent, ok := s.files[p]
	s.mu.Unlock()
	if !ok {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	if !ent.isDir {
		c.Header("Content-Length", strconv.Itoa(len(ent.data)))
	}
	c.Header("Last-Modified", ent.mtime.UTC().Format(http.TimeFormat))
	c.Status(http.StatusOK)
}

func (s *Server) handlePut(c *gin.Context) {
	p, _ := s.target(c)
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	parent, ok := s.files[path.Dir(p)]
	if !ok || !parent.isDir {
		c.AbortWithStatus(http.StatusConflict)
		return
	}
	old, exist := s.files[p]
	if exist && old.isDir {
		c.AbortWithStatus(http.StatusMethodNotAllowed)
		return
	}
	s.files[p] = &entry{data: data, mtime: time.Now()}
	if exist {
		c.Status(http.StatusNoContent)
		return
	}
	c.Status(http.StatusCreated)
}

func (s *Server) handleDelete(c *gin.Context) {
	p, _ := s.target(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[p]; !ok || p == "/" {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	for name := range s.files {
		if name == p || strings.HasPrefix(name, p+"/") {
			delete(s.files, name)
		}
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleMkcol(c *gin.Context) {
	ctx := c.Request.Context()
	if c.Request.ContentLength > 0 {
		logutil.GetLogger(ctx).Error("mkcol with body is not supported")
		c.AbortWithStatus(http.StatusUnsupportedMediaType)
		return
	}
	p, _ := s.target(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[p]; ok {
		c.AbortWithStatus(http.StatusMethodNotAllowed)
		return
	}
	parent, ok := s.files[path.Dir(p)]
	if !ok || !parent.isDir {
		c.AbortWithStatus(http.StatusConflict)
		return
	}
	s.files[p] = &entry{isDir: true, mtime: time.Now()}
	c.Status(http.StatusCreated)
}

func (s *Server) handlePropfind(c *gin.Context) {
	ctx := c.Request.Context()
	p, _ := s.target(c)
	depth := 1
	if c.GetHeader("Depth") == "0" {
		depth = 0
	}
	s.mu.Lock()
	ms, ok := s.buildMultistatusLocked(p, depth)
	s.mu.Unlock()
	if !ok {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	raw, err := xml.Marshal(ms)
	if err != nil {
		logutil.GetLogger(ctx).Error("encode multistatus failed", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusMultiStatus, "application/xml; charset=utf-8", append([]byte(xml.Header), raw...))
}

func (s *Server) buildMultistatusLocked(p string, depth int) (*Multistatus, bool) {
	base, ok := s.files[p]
	if !ok {
		return nil, false
	}
	ms := &Multistatus{XMLNS: "DAV:"}
	ms.Responses = append(ms.Responses, s.convertEntry(p, base))
	if !base.isDir || depth == 0 {
		return ms, true
	}
	children := make([]string, 0, 16)
	for name := range s.files {
		if name != p && path.Dir(name) == p {
			children = append(children, name)
		}
	}
	sort.Strings(children)
	for _, name := range children {
		ms.Responses = append(ms.Responses, s.convertEntry(name, s.files[name]))
	}
	return ms, true
}

func (s *Server) convertEntry(p string, ent *entry) *Response {
	href := s.c.prefix + p
	if ent.isDir && !strings.HasSuffix(href, "/") {
		href += "/"
	}
	rsp := &Response{
		Href: (&url.URL{Path: href}).EscapedPath(),
		Propstat: Propstat{
			Prop: Prop{
				DisplayName:  path.Base(p),
				LastModified: ent.mtime.UTC().Format(http.TimeFormat),
			},
			Status: "HTTP/1.1 200 OK",
		},
	}
	if ent.isDir {
		rsp.Propstat.Prop.ResourceType.Collection = &struct{}{}
		return rsp
	}
	rsp.Propstat.Prop.ContentLength = int64(len(ent.data))
	rsp.Propstat.Prop.ETag = etag(ent.data)
	return rsp
}
