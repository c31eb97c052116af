package davclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/davc/cookiejar"
	"github.com/xxxsen/davc/localio"
	"go.uber.org/zap"
)

const (
	methodPropfind = "PROPFIND"
	methodMkcol    = "MKCOL"
)

const (
	opConnect         = "connect"
	opList            = "list"
	opUpload          = "upload"
	opUploadFile      = "uploadFile"
	opDeleteFile      = "deleteFile"
	opCreateDirectory = "createDirectory"
	opDownload        = "download"
	opDownloadFile    = "downloadFile"
)

// session exists only once Connect succeeded, its fields never change afterwards.
// basePath stays escaped since servers send escaped hrefs.
type session struct {
	location string
	basePath string
}

type defaultClient struct {
	c    *config
	t    ITransport
	jar  *cookiejar.Jar
	auth string
	sess *session
}

func New(opts ...Option) (IClient, error) {
	c := applyOpts(opts...)
	if c.Timeout < 0 {
		return nil, fmt.Errorf("invalid timeout:%s", c.Timeout)
	}
	t := c.Transport
	if t == nil {
		cli := c.HTTPClient
		if cli == nil {
			cli = newDefaultHttpClient(c.Timeout)
		}
		t = NewHttpTransport(cli)
	}
	if c.Source == nil {
		c.Source = localio.NewFileSource()
	}
	if c.Sink == nil {
		c.Sink = localio.NewFileSink()
	}
	return &defaultClient{
		c:   c,
		t:   t,
		jar: cookiejar.New(),
	}, nil
}

func (d *defaultClient) send(ctx context.Context, op string, method string, link string, body []byte, extra ...Header) (*RawResponse, error) {
	req := buildRequest(method, link, body, d.auth, extra, d.jar)
	start := time.Now()
	rsp, err := d.t.Send(ctx, req)
	if rsp != nil {
		//servers may hand out session cookies on error pages as well
		d.jar.Record(rsp.Headers)
	}
	if err != nil {
		logutil.GetLogger(ctx).Error("send webdav request failed", zap.String("op", op), zap.String("method", method),
			zap.String("url", link), zap.Error(err))
		return nil, &TransportError{Op: op, URL: link, Err: err}
	}
	logutil.GetLogger(ctx).Debug("webdav request finish", zap.String("op", op), zap.String("method", method),
		zap.String("url", link), zap.Int("code", rsp.StatusCode), zap.Int("body_size", len(rsp.Body)),
		zap.Duration("cost", time.Since(start)))
	return rsp, nil
}

func (d *defaultClient) roundTrip(ctx context.Context, op string, method string, link string, body []byte, accepted statusSet, extra ...Header) (*RawResponse, error) {
	rsp, err := d.send(ctx, op, method, link, body, extra...)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(op, rsp, accepted); err != nil {
		return nil, err
	}
	return rsp, nil
}

func (d *defaultClient) requireSession(op string) (*session, error) {
	if d.sess == nil {
		return nil, fmt.Errorf("%s:%w", op, ErrNotConnected)
	}
	return d.sess, nil
}

func (d *defaultClient) Connect(ctx context.Context, location string, username string, password string) error {
	if d.sess != nil {
		return fmt.Errorf("%s:%w, location:%s", opConnect, ErrAlreadyConnected, d.sess.location)
	}
	if len(location) == 0 {
		return fmt.Errorf("%s:empty location", opConnect)
	}
	uri, err := url.Parse(location)
	if err != nil {
		return fmt.Errorf("%s:parse location failed, err:%w", opConnect, err)
	}
	if len(uri.Scheme) == 0 || len(uri.Host) == 0 {
		return fmt.Errorf("%s:location should be an absolute url, location:%s", opConnect, location)
	}
	d.auth = BasicAuthorization(username, password)
	if _, err := d.roundTrip(ctx, opConnect, http.MethodHead, location, nil, connectAccepted); err != nil {
		return err
	}
	d.sess = &session{
		location: location,
		basePath: uri.EscapedPath(),
	}
	return nil
}

func (d *defaultClient) IsConnected() bool {
	return d.sess != nil
}

func (d *defaultClient) BaseURL() string {
	if d.sess == nil {
		return ""
	}
	return d.sess.location
}

func (d *defaultClient) List(ctx context.Context, folder string) ([]string, error) {
	s, err := d.requireSession(opList)
	if err != nil {
		return nil, err
	}
	link := s.location + folder
	rsp, err := d.roundTrip(ctx, opList, methodPropfind, link, nil, listAccepted, Header{Name: "Depth", Value: "1"})
	if err != nil {
		return nil, err
	}
	items, err := parseListing(rsp.Body, s.basePath+folder, d.c.StrictListing)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", opList, err)
	}
	return items, nil
}

func (d *defaultClient) Upload(ctx context.Context, data []byte, remotePath string) error {
	s, err := d.requireSession(opUpload)
	if err != nil {
		return err
	}
	if data == nil {
		data = []byte{}
	}
	_, err = d.roundTrip(ctx, opUpload, http.MethodPut, s.location+remotePath, data, uploadAccepted)
	return err
}

func (d *defaultClient) UploadFile(ctx context.Context, localPath string, remoteFile string) error {
	if _, err := d.requireSession(opUploadFile); err != nil {
		return err
	}
	data, err := d.c.Source.ReadAll(ctx, localPath)
	if err != nil {
		return fmt.Errorf("%s:%w", opUploadFile, &LocalResourceError{Path: localPath, Err: err})
	}
	return d.Upload(ctx, data, remoteFile)
}

func (d *defaultClient) DeleteFile(ctx context.Context, remoteFile string) error {
	s, err := d.requireSession(opDeleteFile)
	if err != nil {
		return err
	}
	_, err = d.roundTrip(ctx, opDeleteFile, http.MethodDelete, joinURL(s.location, remoteFile), nil, deleteAccepted)
	return err
}

func (d *defaultClient) CreateDirectory(ctx context.Context, dir string) error {
	s, err := d.requireSession(opCreateDirectory)
	if err != nil {
		return err
	}
	_, err = d.roundTrip(ctx, opCreateDirectory, methodMkcol, joinURL(s.location, dir), nil, mkcolAccepted)
	return err
}

func (d *defaultClient) Download(ctx context.Context, file string) ([]byte, error) {
	s, err := d.requireSession(opDownload)
	if err != nil {
		return nil, err
	}
	rsp, err := d.roundTrip(ctx, opDownload, http.MethodGet, joinURL(s.location, file), nil, getAccepted)
	if err != nil {
		return nil, err
	}
	return rsp.Body, nil
}

func (d *defaultClient) DownloadFile(ctx context.Context, file string, localPath string) error {
	data, err := d.Download(ctx, file)
	if err != nil {
		return err
	}
	if err := d.c.Sink.WriteAll(ctx, localPath, data); err != nil {
		return fmt.Errorf("%s:%w", opDownloadFile, &LocalResourceError{Path: localPath, Err: err})
	}
	return nil
}

// joinURL puts exactly one '/' between base and name.
func joinURL(base string, name string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(name, "/")
}
