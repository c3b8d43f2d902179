// Package middle contains middleware for use with the FRBS registry server.
package middle

import (
	"context"
	"net/http"
	"time"

	"github.com/dekarrin/frbs/server/result"
	"github.com/dekarrin/frbs/server/token"
)

// Middleware is a function that takes a handler and returns a new handler which
// wraps the given one and provides some additional functionality.
type Middleware func(next http.Handler) http.Handler

// AuthKey is a key in the context of a request populated by an AuthHandler.
type AuthKey int64

const (
	AuthLoggedIn AuthKey = iota
	AuthClient
)

// AuthHandler is middleware that will accept a request, extract the token used
// for authentication, and validate it to find the name of the client making
// the request.
//
// Keys are added to the request context before the request is passed to the
// next step in the chain. AuthClient will contain the client name (or the
// default client if not logged in), and AuthLoggedIn will return whether the
// client is logged in. For required auth, a client that is not logged in gets
// an HTTP-401 before the request reaches the next handler.
type AuthHandler struct {
	secret        []byte
	required      bool
	defaultClient string
	unauthedDelay time.Duration
	next          http.Handler
}

func (ah *AuthHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var loggedIn bool
	client := ah.defaultClient

	tok, err := token.Get(req)
	if err == nil {
		var validated string
		validated, err = token.Validate(tok, ah.secret)
		if err == nil {
			client = validated
			loggedIn = true
		}
	}

	if err != nil && ah.required {
		r := result.Unauthorized("", err.Error())
		time.Sleep(ah.unauthedDelay)
		r.WriteResponse(w)
		return
	}

	ctx := req.Context()
	ctx = context.WithValue(ctx, AuthLoggedIn, loggedIn)
	ctx = context.WithValue(ctx, AuthClient, client)
	req = req.WithContext(ctx)
	ah.next.ServeHTTP(w, req)
}

// RequireAuth returns middleware that rejects any request without a valid
// token.
func RequireAuth(secret []byte, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{
			secret:        secret,
			unauthedDelay: unauthDelay,
			required:      true,
			next:          next,
		}
	}
}

// OptionalAuth returns middleware that lets every request through, using
// defaultClient as the client name for those without a valid token.
func OptionalAuth(secret []byte, unauthDelay time.Duration, defaultClient string) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{
			secret:        secret,
			unauthedDelay: unauthDelay,
			defaultClient: defaultClient,
			required:      false,
			next:          next,
		}
	}
}
