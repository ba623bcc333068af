package draft

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// PreconditionError lists the problems that keep a draft from being submitted.
type PreconditionError struct {
	Problems []string
}

func (e *PreconditionError) Error() string {
	return "draft is incomplete: " + strings.Join(e.Problems, "; ")
}

// submittable mirrors the required-field constraints of the create-event form.
type submittable struct {
	Title                string `json:"title" validate:"required"`
	Category             string `json:"category" validate:"required,oneof=Conference Workshop Networking Seminar"`
	Mode                 string `json:"mode" validate:"required,oneof=offline online"`
	StartDate            string `json:"startDate" validate:"required,datetime=2006-01-02"`
	StartTime            string `json:"startTime" validate:"required,datetime=15:04"`
	EndDate              string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	EndTime              string `json:"endTime" validate:"required,datetime=15:04"`
	Timezone             string `json:"timezone" validate:"required,timezone"`
	RegistrationDeadline string `json:"registrationDeadline" validate:"omitempty,datetime=2006-01-02"`
	ImageURL             string `json:"imageUrl" validate:"omitempty,url"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// CheckPreconditions reports every reason d cannot be submitted yet, or nil.
// Unlike Assemble it also rejects an end instant earlier than the start instant.
func CheckPreconditions(d Draft) error {
	var problems []string
	err := validate.Struct(submittable{
		Title:                strings.TrimSpace(d.Title),
		Category:             d.Category,
		Mode:                 string(d.Mode),
		StartDate:            d.StartDate,
		StartTime:            d.StartTime,
		EndDate:              d.EndDate,
		EndTime:              d.EndTime,
		Timezone:             d.Timezone,
		RegistrationDeadline: d.RegistrationDeadline,
		ImageURL:             d.ImageURL,
	})
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			problems = append(problems, describe(fe))
		}
	} else if err != nil {
		return err
	}

	if !d.IsFree {
		if price, err := strconv.ParseFloat(strings.TrimSpace(d.TicketPrice), 64); err != nil || price < 0 {
			problems = append(problems, "ticketPrice must be a non-negative number")
		}
	}
	if c := strings.TrimSpace(d.Capacity); c != "" {
		if n, err := strconv.ParseInt(c, 10, 32); err != nil || n <= 0 {
			problems = append(problems, "capacity must be a positive integer")
		}
	}
	if len(problems) == 0 {
		start, errStart := time.Parse("2006-01-02T15:04", d.StartDate+"T"+d.StartTime)
		end, errEnd := time.Parse("2006-01-02T15:04", d.EffectiveEndDate()+"T"+d.EndTime)
		if errStart == nil && errEnd == nil && end.Before(start) {
			problems = append(problems, "end must not be before start")
		}
	}

	if len(problems) > 0 {
		return &PreconditionError{Problems: problems}
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must match %s", fe.Field(), fe.Param())
	case "timezone":
		return fe.Field() + " must be an IANA time zone"
	case "url":
		return fe.Field() + " must be a URL"
	}
	return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
}
