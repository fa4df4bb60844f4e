package scribe

import (
	"strconv"
	"strings"
)

// pathTracker maintains the lexical path of the driver's current position:
// record keys and array indices, rendered as "/a/b/[2]/c". It is pushed on
// descent and popped on return; callers pair every push with a pop that runs
// whether or not the nested call failed (deferred, or called before the
// error is checked), so the pop runs on error paths too.
type pathTracker struct {
	parts []string
}

func (p *pathTracker) pushKey(key string) {
	p.parts = append(p.parts, key)
}

func (p *pathTracker) pushIndex(i int) {
	p.parts = append(p.parts, "["+strconv.Itoa(i)+"]")
}

func (p *pathTracker) pop() {
	p.parts = p.parts[:len(p.parts)-1]
}

func (p *pathTracker) String() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}

// withPath stamps the tracker's current path onto an error that does not
// carry one yet. Errors raised deeper keep their original, more precise
// path.
func withPath(err error, path string) error {
	switch e := err.(type) {
	case *ValidationError:
		if e.Path == "" {
			return &ValidationError{Path: path, Message: e.Message}
		}
	case *ReadError:
		if e.Path == "" {
			return &ReadError{Path: path, Message: e.Message, Cause: e.Cause}
		}
	case *WriteError:
		if e.Path == "" {
			return &WriteError{Path: path, Message: e.Message, Cause: e.Cause}
		}
	}
	return err
}
