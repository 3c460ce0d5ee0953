package dto

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/SscSPs/refinance_review_app/internal/apperrors"
	"github.com/SscSPs/refinance_review_app/internal/core/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// fieldRules holds the per-field format rules applied to stage payloads.
// Presence is the evaluator's job; these only check values that were sent.
var fieldRules = map[domain.FieldKey]string{
	domain.FieldApplicantName:  "max=200",
	domain.FieldApplicantPhone: "min=7,max=20",
	domain.FieldApplicantEmail: "email",
	domain.FieldDateOfBirth:    "datetime=2006-01-02",
	domain.FieldCNICNumber:     "cnic",
	domain.FieldBankID:         "max=64",
	domain.FieldAccountTitle:   "max=200",
	domain.FieldIBAN:           "alphanum,min=15,max=34",
	domain.FieldCurrentAddress: "max=500",

	domain.FieldVehicleYear: "numeric,len=4",

	domain.FieldInspectionDate: "datetime=2006-01-02",
	domain.FieldMileage:        "decimal_gte0",
	domain.FieldEstimatedValue: "decimal_gt0",

	domain.FieldCreditLimit: "decimal_gt0",

	domain.FieldContractStatus: "oneof=Pending Signed",

	domain.FieldCollectionDate: "datetime=2006-01-02",
	domain.FieldCollectionTime: "datetime=15:04",

	domain.FieldLienStatus: "oneof='Not Started' 'In Process' Done Removed",

	domain.FieldHasInsurance: "oneof=Yes No",
}

const defaultFieldRule = "max=500"

var cnicPattern = regexp.MustCompile(`^\d{5}-?\d{7}-?\d$`)

var (
	fieldValidatorOnce sync.Once
	fieldValidator     *validator.Validate
)

func stageFieldValidator() *validator.Validate {
	fieldValidatorOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("decimal_gt0", func(fl validator.FieldLevel) bool {
			d, err := decimal.NewFromString(fl.Field().String())
			return err == nil && d.IsPositive()
		})
		_ = v.RegisterValidation("decimal_gte0", func(fl validator.FieldLevel) bool {
			d, err := decimal.NewFromString(fl.Field().String())
			return err == nil && !d.IsNegative()
		})
		_ = v.RegisterValidation("cnic", func(fl validator.FieldLevel) bool {
			return cnicPattern.MatchString(fl.Field().String())
		})
		fieldValidator = v
	})
	return fieldValidator
}

// ValidateFieldValues checks the format of every non-blank submitted field.
// Blank values are skipped since they never overwrite stored data. Every
// offending key is reported in one error wrapping apperrors.ErrValidation.
func ValidateFieldValues(fields map[string]string) error {
	return ValidateFieldMap(ToFieldMap(fields))
}

// ValidateFieldMap is ValidateFieldValues over domain field keys.
func ValidateFieldMap(fields map[domain.FieldKey]string) error {
	v := stageFieldValidator()
	var invalid []string
	for key, value := range fields {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		rule, ok := fieldRules[key]
		if !ok {
			rule = defaultFieldRule
		}
		if err := v.Var(value, rule); err != nil {
			invalid = append(invalid, string(key))
		}
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return fmt.Errorf("%w: invalid value for %s", apperrors.ErrValidation, strings.Join(invalid, ", "))
	}
	return nil
}
