package testutil

import (
	"encoding/json"
	"testing"

	"github.com/davecgh/go-spew/spew"
	. "github.com/octohelm/x/testing"
)

func PrintJSON(t testing.TB, v any) {
	t.Helper()

	data, err := json.MarshalIndent(v, "", "  ")
	Expect(t, err, Be[error](nil))
	t.Log(string(data))
}

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Dump logs v with unexported fields, useful for descriptor sets.
func Dump(t testing.TB, v any) {
	t.Helper()
	t.Log(dumper.Sdump(v))
}
