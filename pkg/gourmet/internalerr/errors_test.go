package internalerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowParseErrorUnwrap(t *testing.T) {
	cause := errors.New("wrong number of fields")
	err := &RowParseError{Line: 7, Err: cause}

	assert.Equal(t, "row 7: wrong number of fields", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestMissingInput(t *testing.T) {
	err := MissingInput("data/staged/clean_reviews.csv")

	assert.ErrorIs(t, err, ErrMissingInput)
	assert.Contains(t, err.Error(), "data/staged/clean_reviews.csv")
}
