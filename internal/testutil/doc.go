// Package testutil groups helpers for the xdeploy test suites. See the
// helpers sub-package.
package testutil
