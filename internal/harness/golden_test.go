package harness

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserLifecycle_Golden(t *testing.T) {
	sc, err := LoadScenario("testdata/user_lifecycle.yaml")
	require.NoError(t, err)

	h := New(t.TempDir())
	RunWithGolden(t, h, sc)
}
