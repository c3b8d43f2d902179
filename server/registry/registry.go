// Package registry has the service layer of the FRBS registry server. It
// compiles uploaded rule bases and keeps them in a dao.Store. It performs no
// authentication of its own; callers pass in the name of the client acting.
package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dekarrin/frbs"
	"github.com/dekarrin/frbs/internal/frb"
	"github.com/dekarrin/frbs/internal/util"
	"github.com/dekarrin/frbs/server/dao"
	"github.com/dekarrin/frbs/server/serr"
	"github.com/google/uuid"
)

// Export formats understood by Export.
const (
	FormatFRB  = "frb"
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// Service performs the actions of the registry against its DB.
type Service struct {
	DB dao.Store
}

// Create compiles source and stores the result under the name of the rule
// base, owned by owner.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If source does not compile, it
// will match serr.ErrRuleBase as well as the rberrors class and kind of the
// compile error. If a rule base with the same name is already stored, it will
// match serr.ErrAlreadyExists. If the error occured due to an unexpected
// problem with the DB, it will match serr.ErrDB.
func (svc Service) Create(ctx context.Context, source, owner string) (dao.RuleBase, error) {
	m, err := frbs.ParseString(source)
	if err != nil {
		return dao.RuleBase{}, serr.New("", err, serr.ErrRuleBase)
	}

	_, err = svc.DB.RuleBases().GetByName(ctx, m.Name())
	if err == nil {
		return dao.RuleBase{}, serr.New(fmt.Sprintf("rule base %q already exists", m.Name()), serr.ErrAlreadyExists)
	} else if !errors.Is(err, dao.ErrNotFound) {
		return dao.RuleBase{}, serr.WrapDB("", err)
	}

	rb := dao.RuleBase{
		Name:   m.Name(),
		Source: source,
		Model:  m,
		Owner:  owner,
	}

	rb, err = svc.DB.RuleBases().Create(ctx, rb)
	if err != nil {
		if errors.Is(err, dao.ErrConstraintViolation) {
			return dao.RuleBase{}, serr.New(fmt.Sprintf("rule base %q already exists", m.Name()), serr.ErrAlreadyExists)
		}
		return dao.RuleBase{}, serr.WrapDB("could not create rule base", err)
	}

	return rb, nil
}

// Replace compiles source and stores it in place of the rule base with the
// given ID. The owner is changed to owner. The compiled rule base may have a
// different name than the one it replaces, as long as the new name is not
// taken by another entry.
//
// Errors match the same values as for Create, and additionally
// serr.ErrNotFound if there is no rule base with the given ID.
func (svc Service) Replace(ctx context.Context, id uuid.UUID, source, owner string) (dao.RuleBase, error) {
	m, err := frbs.ParseString(source)
	if err != nil {
		return dao.RuleBase{}, serr.New("", err, serr.ErrRuleBase)
	}

	existing, err := svc.DB.RuleBases().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.RuleBase{}, serr.ErrNotFound
		}
		return dao.RuleBase{}, serr.WrapDB("could not get rule base", err)
	}

	existing.Name = m.Name()
	existing.Source = source
	existing.Model = m
	existing.Owner = owner

	updated, err := svc.DB.RuleBases().Update(ctx, id, existing)
	if err != nil {
		if errors.Is(err, dao.ErrConstraintViolation) {
			return dao.RuleBase{}, serr.New(fmt.Sprintf("rule base %q already exists", m.Name()), serr.ErrAlreadyExists)
		} else if errors.Is(err, dao.ErrNotFound) {
			return dao.RuleBase{}, serr.ErrNotFound
		}
		return dao.RuleBase{}, serr.WrapDB("could not update rule base", err)
	}

	return updated, nil
}

// Get returns the rule base with the given ID.
//
// The returned error, if non-nil, will match serr.ErrNotFound if there is no
// such rule base, or serr.ErrDB for any other problem with the DB.
func (svc Service) Get(ctx context.Context, id uuid.UUID) (dao.RuleBase, error) {
	rb, err := svc.DB.RuleBases().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.RuleBase{}, serr.ErrNotFound
		}
		return dao.RuleBase{}, serr.WrapDB("could not get rule base", err)
	}

	return rb, nil
}

// List returns every stored rule base, ordered by name.
func (svc Service) List(ctx context.Context) ([]dao.RuleBase, error) {
	all, err := svc.DB.RuleBases().GetAll(ctx)
	if err != nil {
		return nil, serr.WrapDB("", err)
	}
	return all, nil
}

// Delete removes the rule base with the given ID and returns it.
//
// The returned error, if non-nil, will match serr.ErrNotFound if there is no
// such rule base, or serr.ErrDB for any other problem with the DB.
func (svc Service) Delete(ctx context.Context, id uuid.UUID) (dao.RuleBase, error) {
	rb, err := svc.DB.RuleBases().Delete(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.RuleBase{}, serr.ErrNotFound
		}
		return dao.RuleBase{}, serr.WrapDB("could not delete rule base", err)
	}

	return rb, nil
}

// Export renders the model of rb in the named format and returns the text
// along with the MIME type to serve it as. format is one of FormatFRB,
// FormatTOML, or FormatYAML, in any case. If it is anything else, the returned
// error will match serr.ErrBadArgument.
func Export(rb dao.RuleBase, format string) (text string, contentType string, err error) {
	var sb strings.Builder

	switch strings.ToLower(format) {
	case FormatFRB:
		err = frbs.Format(&sb, rb.Model)
		contentType = "text/plain; charset=utf-8"
	case FormatTOML:
		err = frb.EncodeTOML(&sb, rb.Model)
		contentType = "application/toml"
	case FormatYAML:
		err = frb.EncodeYAML(&sb, rb.Model)
		contentType = "application/yaml"
	default:
		formats := []string{FormatFRB, FormatTOML, FormatYAML}
		return "", "", serr.New(fmt.Sprintf("format must be %s", util.MakeTextList(formats, "or")), serr.ErrBadArgument)
	}

	if err != nil {
		return "", "", fmt.Errorf("export %s: %w", format, err)
	}

	return sb.String(), contentType, nil
}
