package version

import "testing"

func TestInfo(t *testing.T) {
	bi := Info("snapverse-api")
	if bi.Service != "snapverse-api" || bi.Version != Version() || bi.Commit == "" || bi.Date == "" {
		t.Fatalf("Info = %+v", bi)
	}
}
