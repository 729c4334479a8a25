package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/mina-signer-go/pkg/api"
	"github.com/suffix-labs/mina-signer-go/pkg/field"
)

func TestNanomina(t *testing.T) {
	n, err := nanomina("fee", "0.01")
	require.NoError(t, err)
	assert.Equal(t, "10000000", n)

	n, err = nanomina("amount", "42")
	require.NoError(t, err)
	assert.Equal(t, "42000000000", n)

	_, err = nanomina("fee", "0.0000000001")
	assert.ErrorContains(t, err, "--fee")
}

func TestParseFields(t *testing.T) {
	fields, err := parseFields([]string{"0", "12"})
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, int64(12), fields[1].Int64())

	_, err = parseFields([]string{"1", field.Fp.Modulus().String()})
	assert.ErrorIs(t, err, field.ErrOutOfRange)
	assert.ErrorContains(t, err, "argument 2")
}

func TestReadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "signed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"signature":{"field":"1","scalar":"2"},"publicKey":"B62","data":"hi"}`), 0o600))

	var s api.SignedLegacy[string]
	require.NoError(t, readJSON(path, &s))
	assert.Equal(t, "hi", s.Data)
	assert.Equal(t, "1", s.Signature.Field)

	require.NoError(t, os.WriteFile(path, []byte(`{"unexpected":true}`), 0o600))
	assert.Error(t, readJSON(path, &s))
}

func TestReadPrivateKeyFile(t *testing.T) {
	const key = "EKFKgDtU3rcuFTVSEpmpXSkukjmX4cKefYREi6Sdsk7E7wsT7KRw"
	dir := t.TempDir()

	path := filepath.Join(dir, "key")
	require.NoError(t, os.WriteFile(path, []byte(key+"\n"), 0o600))
	sk, err := readPrivateKeyFile(path, nil)
	require.NoError(t, err)
	assert.Equal(t, key, sk)

	sk, err = readPrivateKeyFile("-", strings.NewReader("  "+key+"\nignored\n"))
	require.NoError(t, err)
	assert.Equal(t, key, sk)

	open := filepath.Join(dir, "open")
	require.NoError(t, os.WriteFile(open, []byte(key), 0o600))
	require.NoError(t, os.Chmod(open, 0o644))
	_, err = readPrivateKeyFile(open, nil)
	assert.ErrorContains(t, err, "chmod 600")

	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	_, err = readPrivateKeyFile(empty, nil)
	assert.ErrorContains(t, err, "empty")

	_, err = readPrivateKeyFile(filepath.Join(dir, "missing"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
