package api

import (
	"time"

	"github.com/dekarrin/frbs/fuzzy"
	"github.com/dekarrin/frbs/server/dao"
)

// InfoModel is the body of a response to GET /info.
type InfoModel struct {
	Version struct {
		Server string `json:"server"`
		FRBS   string `json:"frbs"`
	} `json:"version"`
}

// RuleBaseSourceModel is the JSON form of a request that uploads a rule base.
type RuleBaseSourceModel struct {
	Source string `json:"source"`
}

// RuleBaseModel is a stored rule base. Model is only filled when a single
// rule base is requested.
type RuleBaseModel struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Owner    string         `json:"owner"`
	Created  string         `json:"created"`
	Modified string         `json:"modified"`
	Counts   CountsModel    `json:"counts"`
	Model    *CompiledModel `json:"model,omitempty"`
}

type CountsModel struct {
	Variables    int `json:"variables"`
	Rules        int `json:"rules"`
	Measurements int `json:"measurements"`
}

// CompiledModel is the JSON form of a fuzzy.Model.
type CompiledModel struct {
	Variables    []VariableModel    `json:"variables"`
	Rules        []RuleModel        `json:"rules"`
	Measurements []MeasurementModel `json:"measurements"`
}

type VariableModel struct {
	Name string     `json:"name"`
	Role string     `json:"role"`
	Min  int        `json:"min"`
	Max  int        `json:"max"`
	Sets []SetModel `json:"sets"`
}

type SetModel struct {
	Name    string `json:"name"`
	Corners [4]int `json:"corners"`
}

// RuleModel gives each clause of a rule as its compiled expression in prefix
// notation.
type RuleModel struct {
	Label      string `json:"label"`
	Text       string `json:"text"`
	Antecedent string `json:"antecedent"`
	Consequent string `json:"consequent"`
}

type MeasurementModel struct {
	Variable string  `json:"variable"`
	Value    float64 `json:"value"`
}

func ruleBaseToModel(rb dao.RuleBase, withModel bool) RuleBaseModel {
	m := RuleBaseModel{
		ID:       rb.ID.String(),
		Name:     rb.Name,
		Owner:    rb.Owner,
		Created:  rb.Created.UTC().Format(time.RFC3339),
		Modified: rb.Modified.UTC().Format(time.RFC3339),
		Counts: CountsModel{
			Variables:    len(rb.Model.Variables()),
			Rules:        len(rb.Model.Rules()),
			Measurements: len(rb.Model.Measurements()),
		},
	}

	if withModel {
		cm := compiledToModel(rb.Model)
		m.Model = &cm
	}

	return m
}

func compiledToModel(fm fuzzy.Model) CompiledModel {
	var cm CompiledModel

	cm.Variables = make([]VariableModel, 0, len(fm.Variables()))
	for _, v := range fm.Variables() {
		lo, hi := v.Bounds()
		vm := VariableModel{
			Name: v.Name(),
			Role: v.Role().String(),
			Min:  lo,
			Max:  hi,
		}
		for _, fs := range v.Sets() {
			vm.Sets = append(vm.Sets, SetModel{Name: fs.Name, Corners: fs.Corners})
		}
		cm.Variables = append(cm.Variables, vm)
	}

	cm.Rules = make([]RuleModel, 0, len(fm.Rules()))
	for _, r := range fm.Rules() {
		cm.Rules = append(cm.Rules, RuleModel{
			Label:      r.Label,
			Text:       r.String(),
			Antecedent: r.Antecedent.String(),
			Consequent: r.Consequent.String(),
		})
	}

	cm.Measurements = make([]MeasurementModel, 0, len(fm.Measurements()))
	for _, meas := range fm.Measurements() {
		cm.Measurements = append(cm.Measurements, MeasurementModel{Variable: meas.Variable, Value: meas.Value})
	}

	return cm
}
