package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTags(t *testing.T) {
	cases := []struct {
		name    string
		tags    []string
		wantErr bool
	}{
		{name: "none"},
		{name: "plain", tags: []string{"resume", "two-column", "dark mode"}},
		{name: "comma", tags: []string{"resume", "a,b"}, wantErr: true},
		{name: "blank", tags: []string{"resume", "  "}, wantErr: true},
		{name: "empty", tags: []string{""}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateTags(tc.tags)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrValidationFailed)
				return
			}
			assert.NoError(t, err)
		})
	}
}
