// Package helpers holds test helpers shared by the xdeploy packages.
//
// IsolateEnv keeps XDEPLOY_* settings of the machine running the tests out
// of a test, and NewObservedZap captures deployer logs for assertions:
//
//	func TestSomething(t *testing.T) {
//	    helpers.IsolateEnv(t, "XDEPLOY_")
//	    log, recorded := helpers.NewObservedZap(zapcore.InfoLevel)
//	    d, err := xdeploy.New(ref, xdeploy.WithLogger(log))
//	    // ...
//	    assert.Equal(t, 1, recorded.FilterMessage("Keeping deployment directory").Len())
//	}
package helpers
