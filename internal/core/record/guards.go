// Package record contains the pure validation rules for shift records.
// Guards are pure functions that evaluate preconditions without side effects.
package record

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/example/shiftlog/internal/core/clock"
)

// MaxAssistMinutes is the longest assist interval accepted without confirmation.
const MaxAssistMinutes = 12 * 60

var digitsPattern = regexp.MustCompile(`^\d+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		return digitsPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return clock.Valid(fl.Field().String())
	})
	return v
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string

	// NeedsConfirmation is set when the input is valid but unusual enough
	// that the caller must confirm it explicitly.
	NeedsConfirmation bool
}

// RequestContext is the trimmed form input for a request.
type RequestContext struct {
	Num  string `validate:"required,digits"`
	Addr string `validate:"required"`
	T1   string `validate:"omitempty,hhmm"`
	T2   string `validate:"omitempty,hhmm"`
	T3   string `validate:"omitempty,hhmm"`
}

// DeliveredContext is the trimmed form input for a delivered entry.
type DeliveredContext struct {
	Name string `validate:"required"`
	Time string `validate:"omitempty,hhmm"`
}

// AssistContext is the trimmed form input for an assist entry.
type AssistContext struct {
	Service   string `validate:"required"`
	Start     string `validate:"required,hhmm"`
	End       string `validate:"required,hhmm"`
	Confirmed bool
}

// reasons maps "Field.tag" to the message shown to the operator.
var reasons = map[string]string{
	"Num.required":     "request number must contain digits only",
	"Num.digits":       "request number must contain digits only",
	"Addr.required":    "address is required",
	"T1.hhmm":          "t1 must be HH:MM",
	"T2.hhmm":          "t2 must be HH:MM",
	"T3.hhmm":          "t3 must be HH:MM",
	"Name.required":    "name is required",
	"Time.hhmm":        "time must be HH:MM",
	"Service.required": "service is required",
	"Start.required":   "invalid time format",
	"Start.hhmm":       "invalid time format",
	"End.required":     "invalid time format",
	"End.hhmm":         "invalid time format",
}

func check(ctx any) GuardResult {
	err := validate.Struct(ctx)
	if err == nil {
		return GuardResult{Allowed: true}
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if msg, ok := reasons[fe.Field()+"."+fe.Tag()]; ok {
			return GuardResult{Allowed: false, Reason: msg}
		}
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("%s is invalid", fe.Field())}
	}
	return GuardResult{Allowed: false, Reason: err.Error()}
}

// CanSaveRequest evaluates whether a request can be created or updated.
// Rules:
// - Number is digits only
// - Address is non-empty
// - Any given stamp is HH:MM
func CanSaveRequest(ctx RequestContext) GuardResult {
	return check(ctx)
}

// CanSaveDelivered evaluates whether a delivered entry can be saved.
// Rules:
// - Name is non-empty
// - Time, if given, is HH:MM
func CanSaveDelivered(ctx DeliveredContext) GuardResult {
	return check(ctx)
}

// CanSaveAssist evaluates whether an assist entry can be saved.
// Rules:
// - Service is non-empty
// - Start and end are HH:MM
// - Intervals over 12h need explicit confirmation
func CanSaveAssist(ctx AssistContext) GuardResult {
	if res := check(ctx); !res.Allowed {
		return res
	}
	mins, _ := clock.AssistDuration(ctx.Start, ctx.End)
	if mins > MaxAssistMinutes && !ctx.Confirmed {
		return GuardResult{
			Allowed:           false,
			Reason:            fmt.Sprintf("interval %s looks too long; confirm to save", clock.Format(mins)),
			NeedsConfirmation: true,
		}
	}
	return GuardResult{Allowed: true}
}
