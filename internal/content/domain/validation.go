package domain

import (
	"errors"
	"math"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	MinProjectNameLength        = 3
	MinProjectDescriptionLength = 10
)

// linkPattern is the URL shape accepted for article hyperlinks and demo links.
var linkPattern = regexp.MustCompile(`(?i)^(https?://)?([\da-z.-]+)\.([a-z.]{2,6})([/\w .-]*)*/?$`)

var notBlank = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
})

var finite = validation.By(func(value interface{}) error {
	f, _ := value.(float64)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return errors.New("must be a finite number")
	}
	return nil
})

var urlShaped = validation.Match(linkPattern).Error("must be a valid URL")

// IsLink reports whether s has the accepted URL shape.
func IsLink(s string) bool {
	return linkPattern.MatchString(s)
}

// Validate checks the article invariants before any request is made.
func (p ArticlePayload) Validate() error {
	return wrapValidation(validation.ValidateStruct(&p,
		validation.Field(&p.Title, notBlank),
		validation.Field(&p.Description, notBlank),
		validation.Field(&p.Hyperlink, urlShaped),
	))
}

// Validate checks the project item invariants before any request is made.
func (p ProjectItemPayload) Validate() error {
	return wrapValidation(validation.ValidateStruct(&p,
		validation.Field(&p.Name,
			notBlank,
			validation.RuneLength(MinProjectNameLength, 0),
		),
		validation.Field(&p.Description,
			notBlank,
			validation.RuneLength(MinProjectDescriptionLength, 0),
		),
		validation.Field(&p.DemoLink, urlShaped),
		validation.Field(&p.Price, finite, validation.Min(0.0)),
	))
}

func wrapValidation(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}
	fields := make(map[string]string, len(errs))
	for field, fieldErr := range errs {
		fields[field] = fieldErr.Error()
	}
	return &ValidationError{Fields: fields}
}
