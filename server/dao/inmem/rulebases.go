package inmem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dekarrin/frbs/internal/util"
	"github.com/dekarrin/frbs/server/dao"
	"github.com/google/uuid"
)

func NewRuleBasesRepository() *InMemoryRuleBasesRepository {
	return &InMemoryRuleBasesRepository{
		ruleBases:   make(map[uuid.UUID]dao.RuleBase),
		byNameIndex: make(map[string]uuid.UUID),
	}
}

type InMemoryRuleBasesRepository struct {
	mtx         sync.RWMutex
	ruleBases   map[uuid.UUID]dao.RuleBase
	byNameIndex map[string]uuid.UUID
}

func (imrr *InMemoryRuleBasesRepository) Close() error {
	return nil
}

func (imrr *InMemoryRuleBasesRepository) Create(ctx context.Context, rb dao.RuleBase) (dao.RuleBase, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.RuleBase{}, fmt.Errorf("could not generate ID: %w", err)
	}

	imrr.mtx.Lock()
	defer imrr.mtx.Unlock()

	if _, ok := imrr.byNameIndex[rb.Name]; ok {
		return dao.RuleBase{}, dao.ErrConstraintViolation
	}

	now := time.Now()

	rb.ID = newUUID
	rb.Created = now
	rb.Modified = now

	imrr.ruleBases[rb.ID] = rb
	imrr.byNameIndex[rb.Name] = rb.ID

	return rb, nil
}

func (imrr *InMemoryRuleBasesRepository) GetAll(ctx context.Context) ([]dao.RuleBase, error) {
	imrr.mtx.RLock()
	defer imrr.mtx.RUnlock()

	all := make([]dao.RuleBase, 0, len(imrr.ruleBases))
	for k := range imrr.ruleBases {
		all = append(all, imrr.ruleBases[k])
	}

	all = util.SortBy(all, func(l, r dao.RuleBase) bool {
		return l.Name < r.Name
	})

	return all, nil
}

func (imrr *InMemoryRuleBasesRepository) Update(ctx context.Context, id uuid.UUID, rb dao.RuleBase) (dao.RuleBase, error) {
	imrr.mtx.Lock()
	defer imrr.mtx.Unlock()

	existing, ok := imrr.ruleBases[id]
	if !ok {
		return dao.RuleBase{}, dao.ErrNotFound
	}

	// check for conflicts on this table only
	if rb.ID != id {
		if _, ok := imrr.ruleBases[rb.ID]; ok {
			return dao.RuleBase{}, dao.ErrConstraintViolation
		}
	}
	if rb.Name != existing.Name {
		if _, ok := imrr.byNameIndex[rb.Name]; ok {
			return dao.RuleBase{}, dao.ErrConstraintViolation
		}
	}

	rb.Modified = time.Now()

	delete(imrr.ruleBases, id)
	delete(imrr.byNameIndex, existing.Name)
	imrr.ruleBases[rb.ID] = rb
	imrr.byNameIndex[rb.Name] = rb.ID

	return rb, nil
}

func (imrr *InMemoryRuleBasesRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.RuleBase, error) {
	imrr.mtx.RLock()
	defer imrr.mtx.RUnlock()

	rb, ok := imrr.ruleBases[id]
	if !ok {
		return dao.RuleBase{}, dao.ErrNotFound
	}

	return rb, nil
}

func (imrr *InMemoryRuleBasesRepository) GetByName(ctx context.Context, name string) (dao.RuleBase, error) {
	imrr.mtx.RLock()
	defer imrr.mtx.RUnlock()

	id, ok := imrr.byNameIndex[name]
	if !ok {
		return dao.RuleBase{}, dao.ErrNotFound
	}

	return imrr.ruleBases[id], nil
}

func (imrr *InMemoryRuleBasesRepository) Delete(ctx context.Context, id uuid.UUID) (dao.RuleBase, error) {
	imrr.mtx.Lock()
	defer imrr.mtx.Unlock()

	rb, ok := imrr.ruleBases[id]
	if !ok {
		return dao.RuleBase{}, dao.ErrNotFound
	}

	delete(imrr.byNameIndex, rb.Name)
	delete(imrr.ruleBases, rb.ID)

	return rb, nil
}
