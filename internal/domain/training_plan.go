package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// TrainingPlan represents a named collection of exercises and training days
// published by a creator.
type TrainingPlan struct {
	ID           int64     `json:"id" yaml:"id" db:"id"`
	Name         string    `json:"name" yaml:"name" db:"name" validate:"required,notblank,max=100"`
	Description  string    `json:"description" yaml:"description" db:"description" validate:"required,notblank,max=1000"`
	Exercises    string    `json:"exercises" yaml:"exercises" db:"exercises" validate:"required,notblank"`
	TrainingDays string    `json:"trainingDays" yaml:"trainingDays" db:"training_days" validate:"required,notblank"`
	CreatedBy    string    `json:"createdBy" yaml:"createdBy" db:"created_by" validate:"required,notblank,max=100"`
	CreatedAt    time.Time `json:"createdAt" yaml:"createdAt" db:"created_at"`
}

// FieldError describes a single failed validation rule
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError lists every field of a plan that failed validation
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return fmt.Sprintf("validation failed for fields: %s", strings.Join(names, ", "))
}

// FieldNames returns the names of the failed fields in declaration order
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return names
}

// Messages returns a human readable message per failed field
func (e *ValidationError) Messages() map[string]string {
	msgs := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		if _, seen := msgs[f.Field]; seen {
			continue
		}
		switch f.Rule {
		case "required", "notblank":
			msgs[f.Field] = fmt.Sprintf("The %s field is required.", f.Field)
		case "max":
			msgs[f.Field] = fmt.Sprintf("The %s field is too long.", f.Field)
		default:
			msgs[f.Field] = fmt.Sprintf("The %s field is invalid.", f.Field)
		}
	}
	return msgs
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func planValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// required accepts whitespace-only strings, notblank does not
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
	return validate
}

// Validate checks the plan against its field rules. It returns a
// *ValidationError naming every failing field, or nil.
func (p *TrainingPlan) Validate() error {
	err := planValidator().Struct(p)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	seen := make(map[string]bool, len(verrs))
	result := &ValidationError{}
	for _, fe := range verrs {
		if seen[fe.Field()] {
			continue
		}
		seen[fe.Field()] = true
		result.Fields = append(result.Fields, FieldError{Field: fe.Field(), Rule: fe.Tag()})
	}
	return result
}

// ExerciseList splits the comma-delimited exercises into trimmed items
func (p *TrainingPlan) ExerciseList() []string {
	return SplitList(p.Exercises)
}

// TrainingDayList splits the comma-delimited training days into trimmed items
func (p *TrainingPlan) TrainingDayList() []string {
	return SplitList(p.TrainingDays)
}

// SplitList splits comma-delimited free text, dropping empty items
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// SortByID orders plans by ascending ID in place
func SortByID(plans []*TrainingPlan) {
	sort.Slice(plans, func(i, j int) bool { return plans[i].ID < plans[j].ID })
}

// Snapshot describes an exported copy of the plan collection
type Snapshot struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	PlanCount int       `json:"planCount"`
	CreatedAt time.Time `json:"createdAt"`
}
