// protect_test.go -- Test harness for private key protection
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
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestProtectDefault(t *testing.T) {
	assert := newAsserter(t)

	sk, err := GenerateKeyPair("")
	assert(err == nil, "keygen: %s", err)

	blob, err := ProtectPrivateKey(sk, []byte("pw"))
	assert(err == nil, "protect: %s", err)

	var m map[string]interface{}
	err = json.Unmarshal(blob, &m)
	assert(err == nil, "blob json: %s", err)
	for _, k := range blobFields {
		_, ok := m[k]
		assert(ok, "blob missing %s", k)
	}

	p, ok := m["kdf_params"].(map[string]interface{})
	assert(ok, "kdf_params %T", m["kdf_params"])
	assert(p["n"] == float64(16384) && p["r"] == float64(8) && p["p"] == float64(1), "params %v", p)
	assert(p["length"] == float64(32), "length %v", p["length"])
	assert(m["kdf"] == "scrypt", "kdf %v", m["kdf"])
	assert(m["kem_algo"] == "X25519-KEM", "kem %v", m["kem_algo"])

	sk2, err := UnprotectPrivateKey(blob, []byte("pw"))
	assert(err == nil, "unprotect: %s", err)
	assert(sk2.Equal(sk), "key mismatch")

	_, err = UnprotectPrivateKey(blob, []byte("pW"))
	assert(errors.Is(err, ErrWrongPassword), "wrong password: %s", err)
	assert(errors.Is(err, ErrAuthentication), "not an auth error: %s", err)
}

func TestProtectRoundTrip(t *testing.T) {
	assert := newAsserter(t)

	kp := testProtector()
	for _, pw := range []string{"", "pw", "correct horse battery staple", "pässwörd"} {
		sk, err := GenerateKeyPair("rt")
		assert(err == nil, "keygen: %s", err)

		blob, err := kp.Protect(sk, []byte(pw))
		assert(err == nil, "protect %q: %s", pw, err)

		sk2, err := UnprotectPrivateKey(blob, []byte(pw))
		assert(err == nil, "unprotect %q: %s", pw, err)
		assert(sk2.Equal(sk), "%q: key mismatch", pw)
		assert(sk2.PublicKey().Equal(sk.PublicKey()), "%q: pk mismatch", pw)
		assert(sk2.Comment == "rt", "%q: comment %q", pw, sk2.Comment)

		_, err = UnprotectPrivateKey(blob, []byte(pw+"x"))
		assert(errors.Is(err, ErrWrongPassword), "%q: wrong password: %s", pw, err)
	}
}

func TestProtectBadParams(t *testing.T) {
	assert := newAsserter(t)

	sk, err := GenerateKeyPair("")
	assert(err == nil, "keygen: %s", err)

	bad := []KeyProtector{
		{N: 1000, R: 8, P: 1},
		{N: 1, R: 8, P: 1},
		{N: 1 << 21, R: 8, P: 1},
		{N: 1024, R: 0, P: 1},
		{N: 1024, R: 1 << 15, P: 1 << 15},
	}

	for _, kp := range bad {
		_, err := kp.Protect(sk, []byte("pw"))
		assert(errors.Is(err, ErrBadKDFParams), "%+v: %s", kp, err)
	}
}

func TestUnprotectMalformed(t *testing.T) {
	assert := newAsserter(t)

	sk, err := GenerateKeyPair("")
	assert(err == nil, "keygen: %s", err)

	blob, err := testProtector().Protect(sk, []byte("pw"))
	assert(err == nil, "protect: %s", err)

	edit := func(fn func(m map[string]interface{})) []byte {
		var m map[string]interface{}
		err := json.Unmarshal(blob, &m)
		assert(err == nil, "unmarshal: %s", err)
		fn(m)
		b, err := json.Marshal(m)
		assert(err == nil, "marshal: %s", err)
		return b
	}

	params := func(k string, v interface{}) func(m map[string]interface{}) {
		return func(m map[string]interface{}) {
			m["kdf_params"].(map[string]interface{})[k] = v
		}
	}

	tests := []struct {
		name string
		blob []byte
	}{
		{"junk", []byte("not json")},
		{"empty", []byte("{}")},
		{"no-salt", edit(func(m map[string]interface{}) { delete(m, "salt") })},
		{"no-kem", edit(func(m map[string]interface{}) { delete(m, "kem_algo") })},
		{"no-n", edit(func(m map[string]interface{}) { delete(m["kdf_params"].(map[string]interface{}), "n") })},
		{"kdf", edit(func(m map[string]interface{}) { m["kdf"] = "argon2id" })},
		{"version", edit(func(m map[string]interface{}) { m["version"] = 2 })},
		{"nonce", edit(func(m map[string]interface{}) { m["nonce"] = "AAAA" })},
		{"ciphertext", edit(func(m map[string]interface{}) { m["ciphertext"] = "AAAA" })},
		{"salt-type", edit(func(m map[string]interface{}) { m["salt"] = 42 })},
		{"n-pow2", edit(params("n", 1000))},
		{"n-huge", edit(params("n", 1<<22))},
		{"rp", edit(params("r", 1<<30))},
		{"length", edit(params("length", 64))},
		{"case", edit(func(m map[string]interface{}) { m["Kdf"] = "scrypt" })},
		{"param-case", edit(params("N", 1<<14))},
		{"dup", append(bytes.Clone(blob[:len(blob)-1]), []byte(`,"version":3}`)...)},
	}

	for _, tc := range tests {
		_, err := UnprotectPrivateKey(tc.blob, []byte("pw"))
		assert(errors.Is(err, ErrFormat), "%s: %s", tc.name, err)
		assert(!errors.Is(err, ErrAuthentication), "%s: reported as auth failure", tc.name)
	}
}

func Benchmark_Protect(b *testing.B) {
	sk, _ := GenerateKeyPair("")
	kp := DefaultKeyProtector()
	for i := 0; i < b.N; i++ {
		_, _ = kp.Protect(sk, []byte("benchmark"))
	}
}
