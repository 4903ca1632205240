package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Acme":               "acme",
		"Acme Rockets, Inc.": "acme-rockets-inc",
		"  spaced   out  ":   "spaced-out",
		"ALL CAPS":           "all-caps",
		"--- punctuation!!!": "punctuation",
		"release 2.0":        "release-2-0",
		"":                   "",
	}

	for input, want := range cases {
		assert.Equal(t, want, slugify(input), "slugify(%q)", input)
	}
}
