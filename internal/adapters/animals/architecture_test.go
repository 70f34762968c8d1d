package animals

import (
	"testing"

	"zooapi/testutil"
)

func TestHandlersReachStorageThroughService(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.StorageDriverImportForbidden, "handlers must go through the core service")
}
