package davclient

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	hrefElement = "href"
)

// parseListing turns a multistatus body into paths relative to basePath.
// The first href names the queried collection itself and is skipped.
//
// Servers in the wild emit sloppy XML, so by default a tokenizer error ends
// the scan and whatever was collected so far is returned. With strict set the
// error is reported as ErrMalformedResponse.
func parseListing(body []byte, basePath string, strict bool) ([]string, error) {
	hrefs, err := extractHrefs(body)
	if err != nil && strict {
		return nil, fmt.Errorf("%w, parse multistatus failed, err:%v", ErrMalformedResponse, err)
	}
	rs := make([]string, 0, len(hrefs))
	for i := 1; i < len(hrefs); i++ {
		item := strings.TrimPrefix(hrefs[i], basePath)
		if len(item) == 0 {
			continue
		}
		rs = append(rs, item)
	}
	return rs, nil
}

// extractHrefs collects the text of every href element regardless of its
// namespace prefix. The hrefs read before an error are returned with it.
func extractHrefs(body []byte) ([]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.Strict = false
	dec.Entity = xml.HTMLEntity

	rs := make([]string, 0, 16)
	var (
		depth    int
		seenRoot bool
		inHref   bool
		text     strings.Builder
	)
	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return rs, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			seenRoot = true
			if t.Name.Local == hrefElement {
				inHref = true
				text.Reset()
			}
		case xml.EndElement:
			depth--
			if t.Name.Local == hrefElement && inHref {
				inHref = false
				rs = append(rs, strings.TrimSpace(text.String()))
			}
		case xml.CharData:
			if inHref {
				text.Write(t)
			}
		}
	}
	if !seenRoot {
		return rs, fmt.Errorf("no xml element found")
	}
	if depth != 0 {
		return rs, fmt.Errorf("unexpected eof, unclosed elements:%d", depth)
	}
	return rs, nil
}
