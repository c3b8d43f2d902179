package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/dekarrin/frbs/server/api"
	"github.com/dekarrin/frbs/server/middle"
	"github.com/dekarrin/frbs/server/result"
	"github.com/go-chi/chi/v5"
)

var (
	paramTypePats = map[string]string{
		"uuid": "[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}",
	}
)

// p is a quick parameter in a URI, made very small to ease readability in route
// listings.
func p(nameType string) string {
	var name string
	var pat string

	parts := strings.SplitN(nameType, ":", 2)
	name = parts[0]
	if len(parts) == 2 {
		// we have a type, if it's a name in the paramTypePats map use that else
		// treat it as a normal pattern
		pat = parts[1]

		if translatedPat, ok := paramTypePats[parts[1]]; ok {
			pat = translatedPat
		}
	}

	if pat == "" {
		return "{" + name + "}"
	}
	return "{" + name + ":" + pat + "}"
}

func newRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Mount(api.PathPrefix, newAPIRouter(a))

	return r
}

func newAPIRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Mount("/rulebases", newRuleBasesRouter(a))
	r.Mount("/info", newInfoRouter(a))
	r.HandleFunc("/info/", redirectNoTrailingSlash(a))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		res := result.NotFound()
		a.LogResponse(req, res)
		res.WriteResponse(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		res := result.MethodNotAllowed(req)
		a.LogResponse(req, res)
		time.Sleep(a.UnauthDelay)
		res.WriteResponse(w)
	})

	return r
}

func newRuleBasesRouter(a api.API) chi.Router {
	reqAuth := middle.RequireAuth(a.Secret, a.UnauthDelay)
	optAuth := middle.OptionalAuth(a.Secret, a.UnauthDelay, "")

	r := chi.NewRouter()

	r.With(optAuth).Get("/", a.HTTPGetAllRuleBases())
	r.With(reqAuth).Post("/", a.HTTPCreateRuleBase())

	r.Route("/"+p("id:uuid"), func(r chi.Router) {
		r.With(optAuth).Get("/", a.HTTPGetRuleBase())
		r.With(reqAuth).Put("/", a.HTTPReplaceRuleBase())
		r.With(reqAuth).Delete("/", a.HTTPDeleteRuleBase())
	})

	return r
}

func newInfoRouter(a api.API) chi.Router {
	optAuth := middle.OptionalAuth(a.Secret, a.UnauthDelay, "")

	r := chi.NewRouter()

	r.With(optAuth).Get("/", a.HTTPGetInfo())

	return r
}

// redirectNoTrailingSlash is an http.HandlerFunc that redirects to the same URL
// as the request but with no trailing slash.
func redirectNoTrailingSlash(a api.API) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		redirPath := strings.TrimRight(req.URL.Path, "/")
		res := result.Redirection(redirPath)
		a.LogResponse(req, res)
		res.WriteResponse(w)
	}
}
