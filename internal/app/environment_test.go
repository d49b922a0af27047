package app

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/jbeshir/template-catalog/internal/domain"
	"github.com/stretchr/testify/assert"
)

func testContext() context.Context {
	return domain.ContextWithLogger(context.Background(), slog.New(slog.DiscardHandler))
}

func TestMustGetEnvAsStrings(t *testing.T) {
	cases := []struct {
		name  string
		value string
		want  []string
	}{
		{name: "empty", value: "", want: nil},
		{name: "single", value: "auth0", want: []string{"auth0"}},
		{name: "trims_and_drops_blanks", value: " auth0, ,trusted_header ", want: []string{"auth0", "trusted_header"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("TEST_STRINGS", tc.value)
			assert.Equal(t, tc.want, MustGetEnvAsStrings(testContext(), "TEST_STRINGS"))
		})
	}
}

func TestMustGetEnv_Parses(t *testing.T) {
	t.Setenv("TEST_INT", "3")
	t.Setenv("TEST_BOOL", "TRUE")
	t.Setenv("TEST_DURATION", "90s")

	ctx := testContext()
	assert.Equal(t, 3, MustGetEnvAsInt(ctx, "TEST_INT"))
	assert.True(t, MustGetEnvAsBoolean(ctx, "TEST_BOOL"))
	assert.Equal(t, 90*time.Second, MustGetEnvAsDuration(ctx, "TEST_DURATION"))
}

func TestMustGetEnv_PanicsOnBadValues(t *testing.T) {
	t.Setenv("TEST_INT", "three")
	t.Setenv("TEST_BOOL", "yes")
	t.Setenv("TEST_DURATION", "soon")

	ctx := testContext()
	assert.Panics(t, func() { MustGetEnvAsString(ctx, "TEST_DEFINITELY_UNSET_VARIABLE") })
	assert.Panics(t, func() { MustGetEnvAsInt(ctx, "TEST_INT") })
	assert.Panics(t, func() { MustGetEnvAsBoolean(ctx, "TEST_BOOL") })
	assert.Panics(t, func() { MustGetEnvAsDuration(ctx, "TEST_DURATION") })
}

func TestSetupDatasetRepository_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")

	_, err := SetupDatasetRepository(testContext(), nil)
	assert.ErrorContains(t, err, "unknown store driver")
}
