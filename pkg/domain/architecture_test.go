package domain

import (
	"testing"

	"zooapi/testutil"
)

// TestDomainDoesNotImportInternal keeps the domain layer free of implementation
// packages so every backend and adapter can depend on it.
func TestDomainDoesNotImportInternal(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InternalImportForbidden, "domain must not depend on internal packages")
}

func TestDomainDoesNotImportTransport(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.TransportImportForbidden, "domain must stay transport agnostic")
}

func TestDomainBuildGraphExcludesTransportAndDrivers(t *testing.T) {
	testutil.AssertNoTransitiveDependency(t, ".",
		testutil.Any(testutil.TransportImportForbidden, testutil.StorageDriverImportForbidden),
		"domain must not pull in HTTP or storage clients")
}
