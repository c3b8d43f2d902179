// Package result contains results that are used to write out API responses.
package result

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorResponse is the body of every JSON error response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`

	// Diagnostic is set when the error came from compiling a rule base and
	// points at the offending line.
	Diagnostic string `json:"diagnostic,omitempty"`
}

// internalFormat splits the optional trailing internal message arguments
// accepted by most constructors in this package into a format string and its
// args. If none are given, def is used.
func internalFormat(def string, internalMsg []interface{}) (string, []interface{}) {
	if len(internalMsg) < 1 {
		return def, nil
	}
	return internalMsg[0].(string), internalMsg[1:]
}

// OK returns a Result containing an HTTP-200 along with a more detailed
// message (if desired; if none is provided it defaults to a generic one) that
// is not displayed to the user.
func OK(respObj interface{}, internalMsg ...interface{}) Result {
	f, args := internalFormat("OK", internalMsg)
	return Response(http.StatusOK, respObj, f, args...)
}

// Text returns a Result containing an HTTP-200 whose body is written as-is
// with the given content type instead of being encoded as JSON.
func Text(body, contentType string, internalMsg ...interface{}) Result {
	f, args := internalFormat("OK", internalMsg)
	return Result{
		Status:      http.StatusOK,
		InternalMsg: fmt.Sprintf(f, args...),
		resp:        body,
	}.WithHeader("Content-Type", contentType)
}

// NoContent returns a Result containing an HTTP-204.
func NoContent(internalMsg ...interface{}) Result {
	f, args := internalFormat("no content", internalMsg)
	return Response(http.StatusNoContent, nil, f, args...)
}

// Created returns a Result containing an HTTP-201.
func Created(respObj interface{}, internalMsg ...interface{}) Result {
	f, args := internalFormat("created", internalMsg)
	return Response(http.StatusCreated, respObj, f, args...)
}

// Conflict returns a Result containing an HTTP-409 with userMsg shown to the
// client.
func Conflict(userMsg string, internalMsg ...interface{}) Result {
	f, args := internalFormat("conflict", internalMsg)
	return Err(http.StatusConflict, userMsg, f, args...)
}

// BadRequest returns a Result containing an HTTP-400 with userMsg shown to
// the client.
func BadRequest(userMsg string, internalMsg ...interface{}) Result {
	f, args := internalFormat("bad request", internalMsg)
	return Err(http.StatusBadRequest, userMsg, f, args...)
}

// RuleBaseError returns a Result containing an HTTP-400 for a rule base that
// failed to compile. diagnostic is the multi-line report that points at the
// offending line.
func RuleBaseError(userMsg, diagnostic string, internalMsg ...interface{}) Result {
	f, args := internalFormat("rule base rejected", internalMsg)
	r := Err(http.StatusBadRequest, userMsg, f, args...)
	r.resp = ErrorResponse{
		Error:      userMsg,
		Status:     http.StatusBadRequest,
		Diagnostic: diagnostic,
	}
	return r
}

// MethodNotAllowed returns a Result containing an HTTP-405 naming the method
// and path of req.
func MethodNotAllowed(req *http.Request, internalMsg ...interface{}) Result {
	f, args := internalFormat("method not allowed", internalMsg)
	userMsg := fmt.Sprintf("Method %s is not allowed for %s", req.Method, req.URL.Path)
	return Err(http.StatusMethodNotAllowed, userMsg, f, args...)
}

// NotFound returns a Result containing an HTTP-404.
func NotFound(internalMsg ...interface{}) Result {
	f, args := internalFormat("not found", internalMsg)
	return Err(http.StatusNotFound, "The requested resource was not found", f, args...)
}

// Unauthorized returns a Result containing an HTTP-401 response along with
// the proper WWW-Authenticate header. If userMsg is empty a generic one is
// used.
func Unauthorized(userMsg string, internalMsg ...interface{}) Result {
	f, args := internalFormat("unauthorized", internalMsg)

	if userMsg == "" {
		userMsg = "You are not authorized to do that"
	}

	return Err(http.StatusUnauthorized, userMsg, f, args...).
		WithHeader("WWW-Authenticate", `Bearer realm="FRBS registry", charset="utf-8"`)
}

// InternalServerError returns a Result containing an HTTP-500 response along
// with a more detailed message that is not displayed to the user. If
// internalMsg is provided the first argument must be a string that is the
// format string and any subsequent args are passed to Sprintf with the first
// as the format string.
func InternalServerError(internalMsg ...interface{}) Result {
	f, args := internalFormat("internal server error", internalMsg)
	return Err(http.StatusInternalServerError, "An internal server error occurred", f, args...)
}

// Response returns a JSON Result. If status is http.StatusNoContent, respObj
// will not be read and may be nil. Otherwise, respObj MUST NOT be nil.
func Response(status int, respObj interface{}, internalMsg string, v ...interface{}) Result {
	return Result{
		IsJSON:      true,
		Status:      status,
		InternalMsg: fmt.Sprintf(internalMsg, v...),
		resp:        respObj,
	}
}

// Err returns a JSON error Result whose body is an ErrorResponse.
func Err(status int, userMsg, internalMsg string, v ...interface{}) Result {
	return Result{
		IsJSON:      true,
		IsErr:       true,
		Status:      status,
		InternalMsg: fmt.Sprintf(internalMsg, v...),
		resp: ErrorResponse{
			Error:  userMsg,
			Status: status,
		},
	}
}

func Redirection(uri string) Result {
	return Result{
		Status:      http.StatusPermanentRedirect,
		InternalMsg: fmt.Sprintf("redirect -> %s", uri),
		redir:       uri,
	}
}

// TextErr is like Err but it avoids JSON encoding of any kind and writes the
// output as plain text.
func TextErr(status int, userMsg, internalMsg string, v ...interface{}) Result {
	return Result{
		IsErr:       true,
		Status:      status,
		InternalMsg: fmt.Sprintf(internalMsg, v...),
		resp:        userMsg,
	}
}

// Result is the outcome of an endpoint. It is written to the client with
// WriteResponse; InternalMsg is only ever logged.
type Result struct {
	Status      int
	IsErr       bool
	IsJSON      bool
	InternalMsg string

	resp  interface{}
	redir string // only used for redirects
	hdrs  [][2]string

	// set by calling PrepareMarshaledResponse.
	respJSONBytes []byte
}

// WithHeader returns a copy of r that also sets the given header when
// written. Headers given this way override the defaults.
func (r Result) WithHeader(name, val string) Result {
	cp := r
	cp.hdrs = make([][2]string, len(r.hdrs), len(r.hdrs)+1)
	copy(cp.hdrs, r.hdrs)
	cp.hdrs = append(cp.hdrs, [2]string{name, val})
	cp.respJSONBytes = nil
	return cp
}

// Body returns the value that will be written as the body of the response.
func (r Result) Body() interface{} {
	return r.resp
}

// PrepareMarshaledResponse sets the respJSONBytes to the marshaled version of
// the response if required. If required, and there is a problem marshaling, an
// error is returned. If not required, nil error is always returned.
//
// Once PrepareMarshaledResponse has succeeded for r, calling it again has no
// effect.
func (r *Result) PrepareMarshaledResponse() error {
	if r.respJSONBytes != nil {
		return nil
	}

	if r.IsJSON && r.Status != http.StatusNoContent && r.redir == "" {
		var err error
		r.respJSONBytes, err = json.Marshal(r.resp)
		if err != nil {
			return err
		}
	}

	return nil
}

// WriteResponse writes r to w. It panics if r was never populated or its body
// cannot be marshaled; call PrepareMarshaledResponse first to check.
func (r Result) WriteResponse(w http.ResponseWriter) {
	if r.Status == 0 {
		panic("result not populated")
	}

	err := r.PrepareMarshaledResponse()
	if err != nil {
		panic(fmt.Sprintf("could not marshal response: %s", err.Error()))
	}

	var respBytes []byte

	if r.IsJSON {
		w.Header().Set("Content-Type", "application/json")
		if r.redir == "" {
			respBytes = r.respJSONBytes
		}
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if r.Status != http.StatusNoContent && r.redir == "" {
			respBytes = []byte(fmt.Sprintf("%v", r.resp))
		}
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")

	if r.redir != "" {
		w.Header().Set("Location", r.redir)
	}

	for i := range r.hdrs {
		w.Header().Set(r.hdrs[i][0], r.hdrs[i][1])
	}

	w.WriteHeader(r.Status)

	if r.Status != http.StatusNoContent {
		w.Write(respBytes)
	}
}
