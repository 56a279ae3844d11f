// info_test.go -- tests for the CLI helpers
//
// (c) 2026 Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/opencoff/x25f"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShareFile(t *testing.T) {
	assert.Equal(t, "backup_share_01.sss", shareFile("backup", 0))
	assert.Equal(t, "dir/k_share_12.sss", shareFile("dir/./k", 11))
}

func TestWriteShares(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "k")

	shares, err := x25f.SplitSecret([]byte("attack at dawn"), 2, 3)
	require.NoError(t, err)

	names, err := writeShares(prefix, shares, false)
	require.NoError(t, err)
	require.Len(t, names, 3)

	got := make([][]byte, 0, 2)
	for _, nm := range names[1:] {
		b, err := x25f.ReadFile(nm)
		require.NoError(t, err)
		got = append(got, b)
	}
	secret, err := x25f.CombineShares(got)
	require.NoError(t, err)
	assert.Equal(t, []byte("attack at dawn"), secret)

	// a failure part way leaves none of the new share files behind
	p2 := filepath.Join(dir, "p")
	block := shareFile(p2, 1)
	require.NoError(t, os.WriteFile(block, []byte("mine"), 0600))

	names, err = writeShares(p2, shares, false)
	assert.ErrorIs(t, err, x25f.ErrExists)
	assert.Nil(t, names)
	assert.NoFileExists(t, shareFile(p2, 0))
	assert.NoFileExists(t, shareFile(p2, 2))

	b, err := os.ReadFile(block)
	require.NoError(t, err)
	assert.Equal(t, []byte("mine"), b)
}

func TestDescribe(t *testing.T) {
	dir := t.TempDir()

	sk, err := x25f.GenerateKeyPair("alice@example")
	require.NoError(t, err)
	pk := sk.PublicKey()

	pkn := filepath.Join(dir, "alice.pub")
	skn := filepath.Join(dir, "alice.key")
	require.NoError(t, pk.WriteFile(pkn, false))
	require.NoError(t, sk.WriteFile(skn, nil, nil, false))

	s, err := describe(pkn, false)
	require.NoError(t, err)
	assert.Contains(t, s, "public key "+pk.Fingerprint())
	assert.Contains(t, s, "alice@example")

	s, err = describe(skn, false)
	require.NoError(t, err)
	assert.Contains(t, s, "private key "+pk.Fingerprint())

	pkp := filepath.Join(dir, "alice-pw.key")
	kp := &x25f.KeyProtector{N: 1024, R: 8, P: 1}
	require.NoError(t, sk.WriteFile(pkp, []byte("hunter2"), kp, false))
	s, err = describe(pkp, false)
	require.NoError(t, err)
	assert.Contains(t, s, "passphrase protected")

	env, err := x25f.Encrypt([]byte("HELLO"), pk, nil)
	require.NoError(t, err)
	efn := filepath.Join(dir, "hello.x25f")
	require.NoError(t, x25f.WriteFile(efn, env, false, 0600))

	s, err = describe(efn, false)
	require.NoError(t, err)
	assert.Contains(t, s, x25f.KEMAlgo)
	assert.Contains(t, s, pk.Fingerprint())

	s, err = describe(efn, true)
	require.NoError(t, err)

	var md x25f.Metadata
	require.NoError(t, json.Unmarshal([]byte(s), &md))
	assert.Equal(t, uint64(5), md.OriginalSize)
	assert.Equal(t, x25f.Version, md.Version)

	junk := filepath.Join(dir, "junk")
	require.NoError(t, x25f.WriteFile(junk, []byte("not a key\n"), false, 0600))
	_, err = describe(junk, false)
	assert.Error(t, err)
}
