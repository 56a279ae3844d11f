// ssh_test.go -- Test harness for SSH key support
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

package x25f

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
	"testing"

	"golang.org/x/crypto/ssh"
)

type sshKey struct {
	sk   ed25519.PrivateKey
	line string
}

func newSSHKey(t *testing.T, comment string) *sshKey {
	pk, sk, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("ed25519 keygen: %s", err)
	}

	spk, err := ssh.NewPublicKey(pk)
	if err != nil {
		t.Fatalf("ssh public key: %s", err)
	}

	line := strings.TrimSpace(string(ssh.MarshalAuthorizedKey(spk)))
	return &sshKey{
		sk:   sk,
		line: fmt.Sprintf("%s %s", line, comment),
	}
}

func (k *sshKey) private(t *testing.T, comment string, pw []byte) []byte {
	var blk *pem.Block
	var err error

	if len(pw) > 0 {
		blk, err = ssh.MarshalPrivateKeyWithPassphrase(k.sk, comment, pw)
	} else {
		blk, err = ssh.MarshalPrivateKey(k.sk, comment)
	}
	if err != nil {
		t.Fatalf("ssh marshal: %s", err)
	}
	return pem.EncodeToMemory(blk)
}

func TestSSHPublicKeyParsing(t *testing.T) {
	assert := newAsserter(t)

	k := newSSHKey(t, "test-unencrypted-key")

	pk, err := ParsePublicKey([]byte(k.line))
	assert(err == nil, "parse ssh public key: %s", err)
	assert(pk != nil, "nil pk")
	assert(pk.Comment == "test-unencrypted-key", "comment mismatch: got %q", pk.Comment)
	assert(len(pk.Fingerprint()) == 16, "fingerprint %q", pk.Fingerprint())
}

func TestSSHPublicKeyErrors(t *testing.T) {
	assert := newAsserter(t)

	_, err := ParsePublicKey([]byte("ssh-ed25519"))
	assert(err != nil, "malformed key should error")

	_, err = ParsePublicKey([]byte("ssh-ed25519 !!!invalid-base64!!! comment"))
	assert(errors.Is(err, ErrFormat), "invalid base64: %s", err)

	_, err = ParsePublicKey([]byte("ssh-rsa AAAAB3NzaC1yc2EAAAADAQABAAABgQC7 rsa-comment"))
	assert(errors.Is(err, ErrBadPublicKey), "rsa: %s", err)
}

// the converted private and public keys must agree
func TestSSHPrivateKey(t *testing.T) {
	assert := newAsserter(t)

	for _, pw := range []string{"", "ssh-passphrase"} {
		k := newSSHKey(t, "me@host")

		pk, err := ParsePublicKey([]byte(k.line))
		assert(err == nil, "parse pk: %s", err)

		called := false
		getpw := func() ([]byte, error) {
			called = true
			return []byte(pw), nil
		}

		sk, err := ParsePrivateKey(k.private(t, "me@host", []byte(pw)), getpw)
		assert(err == nil, "%q: parse sk: %s", pw, err)
		assert(called == (pw != ""), "%q: getpw called %v", pw, called)
		assert(sk.Comment == "me@host", "%q: comment %q", pw, sk.Comment)
		assert(sk.PublicKey().Equal(pk), "%q: converted keys disagree", pw)

		// and they're usable
		env, err := Encrypt([]byte("HELLO"), pk, nil)
		assert(err == nil, "encrypt: %s", err)
		m, err := Decrypt(env, sk, nil)
		assert(err == nil, "decrypt: %s", err)
		assert(string(m) == "HELLO", "decrypt mismatch %q", m)
	}
}

func TestSSHPrivateKeyErrors(t *testing.T) {
	assert := newAsserter(t)

	k := newSSHKey(t, "x")
	enc := k.private(t, "x", []byte("right"))

	_, err := ParsePrivateKey(enc, pwfunc("wrong"))
	assert(errors.Is(err, ErrAuthentication), "wrong passphrase: %s", err)

	_, err = ParsePrivateKey(enc, nil)
	assert(errors.Is(err, ErrAuthentication), "no getpw: %s", err)

	pwerr := errors.New("no tty")
	_, err = ParsePrivateKey(enc, func() ([]byte, error) { return nil, pwerr })
	assert(errors.Is(err, pwerr), "getpw error: %s", err)

	bad := pem.EncodeToMemory(&pem.Block{Type: "OPENSSH PRIVATE KEY", Bytes: []byte("openssh-key-v0\x00")})
	_, err = ParsePrivateKey(bad, nil)
	assert(errors.Is(err, ErrBadSSHFormat), "bad magic: %s", err)
}

func TestParseAuthorizedKeys(t *testing.T) {
	assert := newAsserter(t)

	k1 := newSSHKey(t, "first-key")
	k2 := newSSHKey(t, "second-key")
	k3 := newSSHKey(t, "third-key")

	file := fmt.Sprintf(`# This is a comment
%s

ssh-rsa AAAAB3NzaC1yc2EAAAADAQABAAABgQC7... rsa-key
restrict,command="/usr/bin/foo" %s
   # Another comment
from="192.168.1.0/24",no-port-forwarding %s
`, k1.line, k2.line, k3.line)

	pks, err := ParseAuthorizedKeys([]byte(file))
	assert(err == nil, "parse: %s", err)
	assert(len(pks) == 3, "expected 3 keys, got %d", len(pks))

	for i, want := range []string{"first-key", "second-key", "third-key"} {
		assert(pks[i].Comment == want, "key %d: comment %q", i, pks[i].Comment)
	}

	pk1, err := ParsePublicKey([]byte(k1.line))
	assert(err == nil, "parse: %s", err)
	assert(pks[0].Equal(pk1), "first key mismatch")

	for _, s := range []string{"", "# Just comments\n   # More comments\n"} {
		pks, err = ParseAuthorizedKeys([]byte(s))
		assert(err == nil, "%q: %s", s, err)
		assert(len(pks) == 0, "%q: got %d keys", s, len(pks))
	}
}
