// Package request describes HTTP requests declaratively.
//
// A Descriptor states how to build the URL and the *http.Request for one endpoint, how
// to parse a typed value out of a successful response and how to translate failures into
// domain errors. Descriptors are plain values: embed Defaults and implement URL,
// ParseValue and ParseError, or fill in an Endpoint.
//
//	type GistPage struct {
//		request.Defaults
//	}
//
//	func (GistPage) URL() string { return "https://api.github.com/gists/public" }
//
//	func (GistPage) ParseValue(_ *http.Response, body []byte) (int, error) {
//		return countItems(body)
//	}
//
//	func (GistPage) ParseError(error, *http.Response, []byte) error { return nil }
//
// BuildURL and BuildRequest run the build steps on their own so descriptors can be
// unit tested without a task. Execution lives in the task package.
package request
