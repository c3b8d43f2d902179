package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/frbs"
	"github.com/dekarrin/frbs/server/middle"
	"github.com/dekarrin/frbs/server/registry"
	"github.com/dekarrin/frbs/server/result"
	"github.com/dekarrin/frbs/server/serr"
)

// HTTPCreateRuleBase returns a HandlerFunc that compiles the rule base in the
// request body and stores it. The body is either the rule base text itself or
// a JSON RuleBaseSourceModel.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the name of the client making the request.
func (api API) HTTPCreateRuleBase() http.HandlerFunc {
	return api.httpBodyEndpoint(api.epCreateRuleBase)
}

func (api API) epCreateRuleBase(w http.ResponseWriter, req *http.Request) result.Result {
	client := req.Context().Value(middle.AuthClient).(string)

	source, err := api.readSource(w, req)
	if err != nil {
		return sourceReadError(err)
	}

	created, err := api.Backend.Create(req.Context(), source, client)
	if err != nil {
		return ruleBaseWriteError(err)
	}

	return result.Created(ruleBaseToModel(created, true), "client '%s' created rule base %s (%q)", client, created.ID, created.Name)
}

// HTTPReplaceRuleBase returns a HandlerFunc that compiles the rule base in the
// request body and stores it in place of an existing one.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the name of the client making the request and the ID of the rule base must
// be a URL parameter.
func (api API) HTTPReplaceRuleBase() http.HandlerFunc {
	return api.httpBodyEndpoint(api.epReplaceRuleBase)
}

func (api API) epReplaceRuleBase(w http.ResponseWriter, req *http.Request) result.Result {
	id := requireIDParam(req)
	client := req.Context().Value(middle.AuthClient).(string)

	source, err := api.readSource(w, req)
	if err != nil {
		return sourceReadError(err)
	}

	updated, err := api.Backend.Replace(req.Context(), id, source, client)
	if err != nil {
		return ruleBaseWriteError(err)
	}

	return result.OK(ruleBaseToModel(updated, true), "client '%s' replaced rule base %s (%q)", client, updated.ID, updated.Name)
}

// HTTPGetAllRuleBases returns a HandlerFunc that lists every stored rule base
// without its compiled model.
func (api API) HTTPGetAllRuleBases() http.HandlerFunc {
	return api.httpEndpoint(api.epGetAllRuleBases)
}

func (api API) epGetAllRuleBases(req *http.Request) result.Result {
	all, err := api.Backend.List(req.Context())
	if err != nil {
		return result.InternalServerError("%s", err.Error())
	}

	resp := make([]RuleBaseModel, len(all))
	for i := range all {
		resp[i] = ruleBaseToModel(all[i], false)
	}

	return result.OK(resp, "%s got all rule bases", clientString(req))
}

// HTTPGetRuleBase returns a HandlerFunc that gets a single rule base. By
// default the entry is given as JSON with its compiled model; the "format"
// query parameter may instead name an export format, in which case only the
// exported text is returned.
func (api API) HTTPGetRuleBase() http.HandlerFunc {
	return api.httpEndpoint(api.epGetRuleBase)
}

func (api API) epGetRuleBase(req *http.Request) result.Result {
	id := requireIDParam(req)

	rb, err := api.Backend.Get(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not get rule base: %s", err.Error())
	}

	format := req.URL.Query().Get("format")
	if format == "" || format == "json" {
		return result.OK(ruleBaseToModel(rb, true), "%s got rule base %s", clientString(req), rb.ID)
	}

	text, contentType, err := registry.Export(rb, format)
	if err != nil {
		if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), "%s", err.Error())
		}
		return result.InternalServerError("%s", err.Error())
	}

	return result.Text(text, contentType, "%s exported rule base %s as %s", clientString(req), rb.ID, format)
}

// HTTPDeleteRuleBase returns a HandlerFunc that deletes a rule base and
// returns what was deleted.
func (api API) HTTPDeleteRuleBase() http.HandlerFunc {
	return api.httpEndpoint(api.epDeleteRuleBase)
}

func (api API) epDeleteRuleBase(req *http.Request) result.Result {
	id := requireIDParam(req)
	client := req.Context().Value(middle.AuthClient).(string)

	deleted, err := api.Backend.Delete(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not delete rule base: %s", err.Error())
	}

	return result.OK(ruleBaseToModel(deleted, false), "client '%s' deleted rule base %s (%q)", client, deleted.ID, deleted.Name)
}

func sourceReadError(err error) result.Result {
	if errors.Is(err, serr.ErrBadArgument) || errors.Is(err, serr.ErrBodyUnmarshal) {
		return result.BadRequest(err.Error(), "%s", err.Error())
	}
	return result.BadRequest("could not read rule base", "%s", err.Error())
}

func ruleBaseWriteError(err error) result.Result {
	if errors.Is(err, serr.ErrRuleBase) {
		return result.RuleBaseError(err.Error(), frbs.Diagnostic(err), "%s", err.Error())
	} else if errors.Is(err, serr.ErrAlreadyExists) {
		return result.Conflict(err.Error(), "%s", err.Error())
	} else if errors.Is(err, serr.ErrNotFound) {
		return result.NotFound()
	}
	return result.InternalServerError("%s", err.Error())
}
