// Package inmem provides a dao.Store that keeps everything in memory. All data
// is lost when the store is closed.
package inmem

import (
	"github.com/dekarrin/frbs/server/dao"
)

type store struct {
	ruleBases *InMemoryRuleBasesRepository
}

func NewDatastore() dao.Store {
	return &store{
		ruleBases: NewRuleBasesRepository(),
	}
}

func (s *store) RuleBases() dao.RuleBaseRepository {
	return s.ruleBases
}

func (s *store) Close() error {
	return s.ruleBases.Close()
}
