// Package api provides HTTP API endpoints for the FRBS registry server.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dekarrin/frbs/server/registry"
	"github.com/dekarrin/frbs/server/result"
	"github.com/dekarrin/frbs/server/serr"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// PathPrefix is the prefix of all paths in the API. Routers should mount
	// a sub-router that routes all requests to the API at this path.
	PathPrefix = "/api/v1"

	// DefaultMaxUploadBytes is the largest rule base body accepted when
	// API.MaxUploadBytes is not set.
	DefaultMaxUploadBytes = 1 << 20
)

// requireIDParam gets the ID of the main entity being referenced in the URI and
// returns it. It panics if the key is not there or is not parsable.
func requireIDParam(r *http.Request) uuid.UUID {
	id, err := getURLParam(r, "id", uuid.Parse)
	if err != nil {
		panic(err.Error())
	}
	return id
}

func getURLParam[E any](r *http.Request, key string, parse func(string) (E, error)) (val E, err error) {
	valStr := chi.URLParam(r, key)
	if valStr == "" {
		// either it does not exist or it is nil; treat both as the same and
		// return an error
		return val, fmt.Errorf("parameter does not exist")
	}

	val, err = parse(valStr)
	if err != nil {
		return val, serr.New("", serr.ErrBadArgument)
	}
	return val, nil
}

// API holds parameters for endpoints needed to run and a service layer that
// will perform most of the actual logic. To use API, create one and then
// assign the result of its HTTP* methods as handlers to a router or some other
// kind of server mux.
//
// This is exclusively an API for serving external requests. For direct
// programmatic access into the backend of a registry via Go code, see
// [registry.Service].
type API struct {
	// Backend is the service that the API calls to perform the requested
	// actions.
	Backend registry.Service

	// UnauthDelay is the amount of time that a request will pause before
	// responding with an HTTP-403, HTTP-401, or HTTP-500 to deprioritize such
	// requests from processing and I/O.
	UnauthDelay time.Duration

	// Secret is the secret used to sign JWT tokens.
	Secret []byte

	// MaxUploadBytes is the largest request body accepted for a rule base.
	// If 0, DefaultMaxUploadBytes is used.
	MaxUploadBytes int64

	// Log receives one entry per response. If nil, nothing is logged.
	Log *zap.Logger
}

func (api API) maxUpload() int64 {
	if api.MaxUploadBytes < 1 {
		return DefaultMaxUploadBytes
	}
	return api.MaxUploadBytes
}

// readSource gets the rule base text from the body of req. A JSON body must
// be an object with the text in its "source" member; any other content type
// is taken as the text itself.
func (api API) readSource(w http.ResponseWriter, req *http.Request) (string, error) {
	req.Body = http.MaxBytesReader(w, req.Body, api.maxUpload())

	contentType := strings.ToLower(req.Header.Get("Content-Type"))
	if strings.HasPrefix(contentType, "application/json") {
		var body RuleBaseSourceModel
		if err := parseJSON(req, &body); err != nil {
			return "", err
		}
		return body.Source, nil
	}

	data, err := io.ReadAll(req.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "", serr.New(fmt.Sprintf("rule base is larger than %d bytes", maxErr.Limit), serr.ErrBadArgument)
		}
		return "", fmt.Errorf("could not read request body: %w", err)
	}
	return string(data), nil
}

// v must be a pointer to a type. Will return error such that
// errors.Is(err, serr.ErrBodyUnmarshal) returns true if it is problem decoding
// the JSON itself.
func parseJSON(req *http.Request, v interface{}) error {
	contentType := req.Header.Get("Content-Type")

	if !strings.HasPrefix(strings.ToLower(contentType), "application/json") {
		return fmt.Errorf("request content-type is not application/json")
	}

	bodyData, err := io.ReadAll(req.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return serr.New(fmt.Sprintf("request body is larger than %d bytes", maxErr.Limit), serr.ErrBadArgument)
		}
		return fmt.Errorf("could not read request body: %w", err)
	}
	defer func() {
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewBuffer(bodyData))
	}()

	err = json.Unmarshal(bodyData, v)
	if err != nil {
		return serr.New("malformed JSON in request", err, serr.ErrBodyUnmarshal)
	}

	return nil
}

// EndpointFunc is an endpoint that has read everything it needs from the
// request and its body.
type EndpointFunc func(req *http.Request) result.Result

// BodyEndpointFunc is an endpoint that also needs the ResponseWriter to limit
// how much of the request body is read.
type BodyEndpointFunc func(w http.ResponseWriter, req *http.Request) result.Result

func (api API) httpEndpoint(ep EndpointFunc) http.HandlerFunc {
	return api.httpBodyEndpoint(func(_ http.ResponseWriter, req *http.Request) result.Result {
		return ep(req)
	})
}

func (api API) httpBodyEndpoint(ep BodyEndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer api.panicTo500(w, req)
		r := ep(w, req)

		// if this hasn't been properly created, output error directly and do not
		// try to read properties
		if r.Status == 0 {
			api.logHttpResponse(zap.ErrorLevel, req, http.StatusInternalServerError, "endpoint result was never populated")
			http.Error(w, "An internal server error occurred", http.StatusInternalServerError)
			return
		}

		// pre-call PrepareMarshaledResponse bc if it fails in call to
		// WriteResponse, it will panic.
		if err := r.PrepareMarshaledResponse(); err != nil {
			newResp := result.Err(http.StatusInternalServerError, "An internal server error occurred", "could not marshal JSON response: %s", err.Error())
			api.logHttpResponse(zap.ErrorLevel, req, newResp.Status, newResp.InternalMsg)
			newResp.WriteResponse(w)
			return
		}

		if r.IsErr {
			api.logHttpResponse(zap.ErrorLevel, req, r.Status, r.InternalMsg)
		} else {
			api.logHttpResponse(zap.InfoLevel, req, r.Status, r.InternalMsg)
		}

		if r.Status == http.StatusUnauthorized || r.Status == http.StatusForbidden || r.Status == http.StatusInternalServerError {
			// if it's one of these statuses, either the client is improperly
			// authenticating or tried to access a forbidden resource, both of
			// which should force the wait time before responding.
			time.Sleep(api.UnauthDelay)
		}

		r.WriteResponse(w)
	}
}

func (api API) panicTo500(w http.ResponseWriter, req *http.Request) {
	if panicErr := recover(); panicErr != nil {
		r := result.TextErr(
			http.StatusInternalServerError,
			"An internal server error occurred",
			"panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack()),
		)
		api.logHttpResponse(zap.ErrorLevel, req, r.Status, r.InternalMsg)
		r.WriteResponse(w)
	}
}

// LogResponse logs a response the same way every API endpoint does. It is
// for handlers that write responses outside of an endpoint, such as the
// router's not-found handler.
func (api API) LogResponse(req *http.Request, r result.Result) {
	lvl := zap.InfoLevel
	if r.IsErr {
		lvl = zap.ErrorLevel
	}
	api.logHttpResponse(lvl, req, r.Status, r.InternalMsg)
}

func (api API) logHttpResponse(level zapcore.Level, req *http.Request, respStatus int, msg string) {
	if api.Log == nil {
		return
	}

	// we don't really care about the ephemeral port from the client end
	remoteAddrParts := strings.SplitN(req.RemoteAddr, ":", 2)
	remoteIP := remoteAddrParts[0]

	api.Log.Check(level, fmt.Sprintf("HTTP-%d %s", respStatus, msg)).Write(
		zap.String("remote", remoteIP),
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", respStatus),
	)
}
