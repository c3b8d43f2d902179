package api

import (
	"net/http"

	"github.com/dekarrin/frbs/internal/version"
	"github.com/dekarrin/frbs/server/middle"
	"github.com/dekarrin/frbs/server/result"
)

// HTTPGetInfo returns a HandlerFunc that retrieves information on the API and
// server.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// a value denoting whether the client making the request is logged-in.
func (api API) HTTPGetInfo() http.HandlerFunc {
	return api.httpEndpoint(api.epGetInfo)
}

func (api API) epGetInfo(req *http.Request) result.Result {
	var resp InfoModel
	resp.Version.Server = version.ServerCurrent
	resp.Version.FRBS = version.Current

	return result.OK(resp, "%s got API info", clientString(req))
}

// clientString describes the client making req for log messages.
func clientString(req *http.Request) string {
	loggedIn, _ := req.Context().Value(middle.AuthLoggedIn).(bool)
	if !loggedIn {
		return "unauthed client"
	}
	client, _ := req.Context().Value(middle.AuthClient).(string)
	return "client '" + client + "'"
}
