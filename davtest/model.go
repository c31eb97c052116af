package davtest

import "encoding/xml"

// Multistatus is the root of a PROPFIND reply.
type Multistatus struct {
	XMLName   xml.Name    `xml:"D:multistatus"`
	XMLNS     string      `xml:"xmlns:D,attr"`
	Responses []*Response `xml:"D:response"`
}

type Response struct {
	Href     string   `xml:"D:href"`
	Propstat Propstat `xml:"D:propstat"`
}

type Propstat struct {
	Prop   Prop   `xml:"D:prop"`
	Status string `xml:"D:status"`
}

type Prop struct {
	DisplayName   string       `xml:"D:displayname"`
	LastModified  string       `xml:"D:getlastmodified"`
	ContentLength int64        `xml:"D:getcontentlength,omitempty"`
	ETag          string       `xml:"D:getetag,omitempty"`
	ResourceType  ResourceType `xml:"D:resourcetype"`
}

type ResourceType struct {
	Collection *struct{} `xml:"D:collection,omitempty"`
}

// Request is what the server saw of one incoming request.
type Request struct {
	Method string
	Path   string
	Header map[string][]string
	Body   []byte
}
