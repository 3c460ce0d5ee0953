package lifecycle

import (
	"github.com/SscSPs/refinance_review_app/internal/core/domain"
)

// Evaluation is the result of checking a stage's preconditions.
type Evaluation struct {
	Stage     domain.StageID `json:"stage"`
	Satisfied bool           `json:"satisfied"`
	Missing   []string       `json:"missing"`
}

// Evaluate checks that every required document of stageID has a non-empty
// latest reference and every required field is non-blank. It never panics:
// a nil application reports every requirement as missing and an unknown stage
// reports the stage itself.
func (r *Registry) Evaluate(app *domain.Application, stageID domain.StageID) Evaluation {
	res := Evaluation{Stage: stageID, Missing: []string{}}

	i, ok := r.byID[stageID]
	if !ok {
		res.Missing = append(res.Missing, "stage:"+string(stageID))
		return res
	}
	def := r.stages[i]

	for _, kind := range def.RequiredDocuments {
		if app == nil {
			res.Missing = append(res.Missing, string(kind))
			continue
		}
		ref, found := app.LatestDocument(kind)
		if !found || ref.IsEmpty() {
			res.Missing = append(res.Missing, string(kind))
		}
	}
	for _, key := range def.RequiredFields {
		if app == nil || app.Field(key) == "" {
			res.Missing = append(res.Missing, string(key))
		}
	}

	res.Satisfied = len(res.Missing) == 0
	return res
}

// Evaluate runs the default registry's evaluator.
func Evaluate(app *domain.Application, stageID domain.StageID) Evaluation {
	return defaultRegistry.Evaluate(app, stageID)
}
