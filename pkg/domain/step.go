package domain

import (
	"encoding/json"
	"net/http"
)

// Step is a single position of a traversal.
//
// It takes one of three shapes:
//   - {URI}: an address that has not been fetched yet.
//   - {URI, Response}: an address plus the response obtained for it.
//   - {Doc}: a document reached through embedding. No request was made for it.
type Step struct {
	URI      string         `json:"uri,omitempty"`
	Response *Response      `json:"response,omitempty"`
	Doc      map[string]any `json:"doc,omitempty"`
}

// Embedded reports whether the step was resolved without network I/O.
func (s *Step) Embedded() bool {
	return s != nil && s.Doc != nil && s.Response == nil
}

// Fetched reports whether the step carries a materialized response.
func (s *Step) Fetched() bool {
	return s != nil && s.Response != nil
}

// Context returns the response and URI of s. It is nil-safe so callers can
// surface partial context for a step that was never reached.
func (s *Step) Context() (*Response, string) {
	if s == nil {
		return nil, ""
	}
	return s.Response, s.URI
}

// Response is a materialized HTTP response with a fully read text body.
type Response struct {
	StatusCode int         `json:"status_code"`
	Header     http.Header `json:"header,omitempty"`
	Body       string      `json:"body"`

	// Synthetic marks responses built locally for embedded resources.
	Synthetic bool   `json:"synthetic,omitempty"`
	Remark    string `json:"remark,omitempty"`
}

// OK reports whether the status code is in the 2xx range.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// SyntheticResponse builds the substitute response reported for an embedded
// terminal document: status 200 with the JSON serialization of doc as body.
func SyntheticResponse(doc map[string]any) (*Response, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, &ParseError{Message: "cannot serialize embedded document", Cause: err}
	}
	return &Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{MediaTypeJSON}},
		Body:       string(body),
		Synthetic:  true,
		Remark:     SyntheticRemark,
	}, nil
}

// RequestOptions describes what a single request sends.
type RequestOptions struct {
	// Body is sent verbatim. A nil Body sends no body at all.
	Body []byte
	// Header holds per-request headers merged over the transport defaults.
	Header http.Header
}
