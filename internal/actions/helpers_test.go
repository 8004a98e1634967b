package actions_test

import (
	"testing"

	"gitcore.dev/gitcore/internal/runtime"
	"gitcore.dev/gitcore/testhelpers"
)

// testContext pairs a scripted runner with a throwaway directory
type testContext struct {
	ctx    *runtime.Context
	runner *testhelpers.FakeRunner
	dir    string
}

func newTestContext(t *testing.T, opts ...testhelpers.ContextOption) *testContext {
	t.Helper()
	runner := testhelpers.NewFakeRunner()
	return &testContext{
		ctx:    testhelpers.NewTestContext(t, runner, opts...),
		runner: runner,
		dir:    t.TempDir(),
	}
}
