package sqlite

import (
	"context"
	"testing"

	"github.com/dekarrin/frbs/fuzzy"
	"github.com/dekarrin/frbs/server/dao"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func testModel(t *testing.T, name string) fuzzy.Model {
	temp, err := fuzzy.NewVariable("Temp", fuzzy.Trapezoid("cold", 0, 10, 0, 5), fuzzy.Trapezoid("hot", 25, 40, 5, 0))
	if err != nil {
		t.Fatal(err)
	}
	fan, err := fuzzy.NewVariable("Fan", fuzzy.Trapezoid("off", 0, 0, 0, 10), fuzzy.Trapezoid("max", 90, 100, 10, 0))
	if err != nil {
		t.Fatal(err)
	}
	rules := []fuzzy.CompiledRule{
		{
			Label:      "R1",
			Antecedent: fuzzy.OrExpr(fuzzy.AtomExpr("Temp", "hot"), fuzzy.AtomExpr("Temp", "cold")),
			Consequent: fuzzy.AtomExpr("Fan", "max"),
		},
	}
	m, err := fuzzy.NewModel(name, []fuzzy.Variable{temp.WithRole(fuzzy.RoleAntecedent), fan.WithRole(fuzzy.RoleConsequent)}, rules, []fuzzy.Measurement{{Variable: "Temp", Value: 31.5}})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func openStore(t *testing.T) dao.Store {
	st, err := NewDatastore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func Test_RuleBasesDB_CreateAndGet(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	repo := openStore(t).RuleBases()

	created, err := repo.Create(ctx, dao.RuleBase{Name: "Fans", Source: "Fans\n...", Model: testModel(t, "Fans"), Owner: "ops"})
	if !assert.NoError(err) {
		return
	}
	assert.NotEqual(uuid.Nil, created.ID)
	assert.Equal("Fans\n...", created.Source)
	assert.Equal("ops", created.Owner)
	assert.True(created.Model.Equal(testModel(t, "Fans")))

	byName, err := repo.GetByName(ctx, "Fans")
	assert.NoError(err)
	assert.Equal(created.ID, byName.ID)

	_, err = repo.Create(ctx, dao.RuleBase{Name: "Fans", Model: testModel(t, "Fans")})
	assert.ErrorIs(err, dao.ErrConstraintViolation)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(err, dao.ErrNotFound)
}

func Test_RuleBasesDB_GetAll(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	repo := openStore(t).RuleBases()

	for _, name := range []string{"b", "c", "a"} {
		_, err := repo.Create(ctx, dao.RuleBase{Name: name, Model: testModel(t, name)})
		if !assert.NoError(err) {
			return
		}
	}

	all, err := repo.GetAll(ctx)
	assert.NoError(err)
	if assert.Len(all, 3) {
		assert.Equal("a", all[0].Name)
		assert.Equal("b", all[1].Name)
		assert.Equal("c", all[2].Name)
	}
}

func Test_RuleBasesDB_UpdateAndDelete(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	repo := openStore(t).RuleBases()

	created, err := repo.Create(ctx, dao.RuleBase{Name: "Old", Model: testModel(t, "Old")})
	if !assert.NoError(err) {
		return
	}

	created.Name = "New"
	created.Model = testModel(t, "New")
	updated, err := repo.Update(ctx, created.ID, created)
	assert.NoError(err)
	assert.Equal("New", updated.Name)
	assert.Equal("New", updated.Model.Name())

	deleted, err := repo.Delete(ctx, created.ID)
	assert.NoError(err)
	assert.Equal("New", deleted.Name)

	_, err = repo.Delete(ctx, created.ID)
	assert.ErrorIs(err, dao.ErrNotFound)
	_, err = repo.Update(ctx, created.ID, created)
	assert.ErrorIs(err, dao.ErrNotFound)
}
