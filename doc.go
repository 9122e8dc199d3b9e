/*
Package xdeploy deploys bundled test data into a private temporary directory
for the duration of a test.

Tests that exercise code reading real files usually ship those files next to
the test and embed them. A Deployer copies them out of the embedded file
system into a directory owned by one test, so parallel tests never see each
other's files, and removes the directory when the test is done.

# Resolving resources

Resources are addressed with slash-delimited paths; '\' is accepted as well.
A rooted path ("/testdata/1-line.txt") is looked up from the top of the
Container. A relative path ("1-line.txt") is only accepted by an
InstanceContext and is looked up under its location.

	//go:embed testdata
	var testdata embed.FS

	var bundle = xdeploy.NewContainer("fileops", testdata)

	func TestLineCount(t *testing.T) {
		d := xdeploy.ForTest(t, bundle.Instance("testdata"))

		path, err := d.Deploy(`SomeFolder\2-lines.txt`) // <dir>/2-lines.txt
		require.NoError(t, err)
		...
	}

Only the file name of the resource is kept. DeployTo places the file in a
subdirectory of the session directory instead:

	path, err := d.DeployTo("1-line.txt", "thedirectory/nesteddirectory")

Path segments made only of dots are rejected everywhere, so neither a
resource nor an output subdirectory can point outside the session directory.
Deployments never overwrite an existing file.

# Lifecycle

The session directory is created lazily. Close removes it; calling Close
again does nothing. A Deployer that is never closed is cleaned up on a
best-effort basis once it is garbage collected.

# Configuration

XDEPLOY_TEMP_ROOT, XDEPLOY_DIR_PREFIX, XDEPLOY_KEEP, XDEPLOY_LOG_LEVEL and
XDEPLOY_LOG_FORMAT adjust the defaults, and XDEPLOY_CONFIG may name a
configuration file holding the same keys. Setting XDEPLOY_KEEP=true leaves
session directories behind for inspection.
*/
package xdeploy
