package recommend

import "errors"

var (
	ErrNoReviews  = errors.New("no user reviews provided for generating recommendations")
	ErrParse      = errors.New("model response is not valid JSON")
	ErrValidation = errors.New("model response has an invalid structure")
)
