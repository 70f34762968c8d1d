package core

import (
	"testing"

	"zooapi/testutil"
)

func TestCoreStaysTransportAgnostic(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.TransportImportForbidden, "core must not depend on HTTP transport")
}

func TestCoreBuildGraphExcludesRouter(t *testing.T) {
	testutil.AssertNoTransitiveDependency(t, ".", testutil.RouterImportForbidden, "core must be usable without gin")
}
