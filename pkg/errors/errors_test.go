package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneMatchesTemplate(t *testing.T) {
	err := Clone(ErrNoMatch, "nothing for year 3")
	assert.True(t, errors.Is(err, ErrNoMatch))
	assert.False(t, errors.Is(err, ErrUnresolvedRoom))
	assert.Equal(t, "nothing for year 3", err.Error())

	wrapped := fmt.Errorf("select: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNoMatch))
}

func TestFromErrorNormalisesUnknownErrors(t *testing.T) {
	appErr := FromError(errors.New("boom"))
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Nil(t, FromError(nil))
}

func TestExitCode(t *testing.T) {
	cases := map[string]struct {
		err  error
		code int
	}{
		"nil":       {nil, 0},
		"no match":  {Clone(ErrNoMatch, ""), 1},
		"upstream":  {Wrap(errors.New("dial"), ErrUpstream.Code, ErrUpstream.Status, "fetch"), 1},
		"fork":      {Clone(ErrAmbiguousFork, ""), 2},
		"room":      {fmt.Errorf("assemble: %w", Clone(ErrUnresolvedRoom, "room X")), 2},
		"export":    {Clone(ErrExport, ""), 3},
		"aborted":   {ErrAborted, 4},
		"unrelated": {errors.New("x"), 1},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.code, ExitCode(tc.err))
		})
	}
}
