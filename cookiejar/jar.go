package cookiejar

import (
	"strings"
)

const (
	setCookieHeader = "Set-Cookie"
)

// Header is a single name/value pair as it appeared on the wire.
type Header struct {
	Name  string
	Value string
}

// Jar keeps the cookies a server handed out during one session.
// It is not safe for concurrent use.
type Jar struct {
	names  []string
	values map[string]string
}

func New() *Jar {
	return &Jar{values: make(map[string]string)}
}

// Record scans headers for Set-Cookie entries and stores the name/value pair of each.
// A cookie with the same name overwrites the previous value.
func (j *Jar) Record(headers []Header) {
	for _, h := range headers {
		if !strings.EqualFold(h.Name, setCookieHeader) {
			continue
		}
		name, value, ok := parseSetCookie(h.Value)
		if !ok {
			continue
		}
		j.set(name, value)
	}
}

func (j *Jar) set(name, value string) {
	if _, ok := j.values[name]; !ok {
		j.names = append(j.names, name)
	}
	j.values[name] = value
}

// Get returns the stored value of cookie name.
func (j *Jar) Get(name string) (string, bool) {
	v, ok := j.values[name]
	return v, ok
}

func (j *Jar) Len() int {
	return len(j.names)
}

// HeaderValue renders the jar as the value of a Cookie request header,
// or an empty string if no cookie was recorded yet.
func (j *Jar) HeaderValue() string {
	if len(j.names) == 0 {
		return ""
	}
	items := make([]string, 0, len(j.names))
	for _, name := range j.names {
		items = append(items, name+"="+j.values[name])
	}
	return strings.Join(items, "; ")
}

// parseSetCookie extracts "name=value" from the front of a Set-Cookie value.
// Attributes after the first ';' are dropped, both parts must be non-empty.
func parseSetCookie(v string) (string, string, bool) {
	idx := strings.Index(v, "=")
	if idx <= 0 {
		return "", "", false
	}
	name := strings.TrimSpace(v[:idx])
	value := v[idx+1:]
	if end := strings.Index(value, ";"); end >= 0 {
		value = value[:end]
	}
	if len(name) == 0 || len(value) == 0 {
		return "", "", false
	}
	return name, value, true
}
