package xdeploy

// TB is the part of testing.TB used by ForTest.
type TB interface {
	Helper()
	Cleanup(func())
	Logf(format string, args ...any)
	Fatalf(format string, args ...any)
}

// ForTest returns a Deployer that is closed when t finishes. A failure to
// remove the directory is logged through t and does not fail the test.
func ForTest(t TB, ref Reference, opts ...Option) *Deployer {
	t.Helper()

	d, err := New(ref, opts...)
	if err != nil {
		t.Fatalf("xdeploy: %v", err)
		return nil
	}

	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Logf("xdeploy: %v", err)
		}
	})
	return d
}
