// Package poseidontest installs kimchi Poseidon tables for tests.
//
// The kimchi round constants in testdata/poseidon/kimchi_test_params.json
// are synthetic. They exercise every kimchi code path, but hashes made with
// them do not match other Mina implementations, so tests must not pin
// kimchi outputs against external vectors.
package poseidontest

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/mina-signer-go/pkg/poseidon"
)

// ParamsPath returns the path of the synthetic kimchi parameter file.
func ParamsPath() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "..", "..", "testdata", "poseidon", "kimchi_test_params.json")
}

// InstallKimchi loads the synthetic kimchi tables.
func InstallKimchi(tb testing.TB) {
	tb.Helper()
	require.NoError(tb, poseidon.LoadFile(ParamsPath()))
}
