package conventions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slok/sendtovrc/internal/conventions"
)

func TestCroppedPath(t *testing.T) {
	tests := map[string]struct {
		input string
		exp   string
	}{
		"A PNG should keep its extension.": {
			input: "/tmp/shots/vrc-1.png",
			exp:   "/tmp/shots/vrc-1-cropped.png",
		},
		"Only the last extension should be kept.": {
			input: "shot.final.jpeg",
			exp:   "shot.final-cropped.jpeg",
		},
		"A file without extension should get the suffix.": {
			input: "shot",
			exp:   "shot-cropped",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.exp, conventions.CroppedPath(test.input))
		})
	}
}

func TestDBPath(t *testing.T) {
	assert.Equal(t, "/home/alice/.sendtovrc/sendtovrc.db", conventions.DBPath("/home/alice/.sendtovrc"))
}
