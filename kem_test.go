// kem_test.go -- Test harness for key encapsulation and derivation
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
	"errors"
	"testing"

	"github.com/opencoff/x25f/internal/secmem"
)

// RFC 7748, section 6.1
const (
	_rfcAliceSK = "77076d0a7318a57d3c16c17251b26645df4c2f87ebc0992ab177fba51db92c2a"
	_rfcAlicePK = "8520f0098930a754748b7ddcb43ef75a0dbf3a0d26381af4eba4a98eaa9b4e6a"
	_rfcBobSK   = "5dab087e624a8a4b79e17f8b83800ee66f3bb1292618b6fd1c2f8b27ff88e0eb"
	_rfcBobPK   = "de9edb7d7b7dc1b4d35b61c2ece435373f8343c85b78674dadfc7e146f882b4f"
	_rfcShared  = "4a5d9d5ba4ce2de1728e3bf480350f25e07e21c947d19e3376f09b3c1e161742"
)

func TestKEMRoundTrip(t *testing.T) {
	assert := newAsserter(t)

	sk, err := GenerateKeyPair(t.Name())
	assert(err == nil, "keygen: %s", err)
	defer sk.Wipe()

	for i := 0; i < 8; i++ {
		ct, ss1, err := encapsulate(sk.pk.pk)
		assert(err == nil, "encap: %s", err)
		assert(len(ct) == KeySize, "ct len %d", len(ct))

		ss2, err := decapsulate(ct, sk.sk)
		assert(err == nil, "decap: %s", err)
		assert(byteEq(ss1.Bytes(), ss2.Bytes()), "shared secrets differ")

		secmem.Destroy(ss1, ss2)
		assert(ss1.Bytes() == nil, "ss1 not destroyed")
	}
}

func TestKEMVector(t *testing.T) {
	assert := newAsserter(t)

	alice, err := PrivateKeyFromBytes(unhex(_rfcAliceSK))
	assert(err == nil, "alice: %s", err)
	bob, err := PrivateKeyFromBytes(unhex(_rfcBobSK))
	assert(err == nil, "bob: %s", err)

	assert(byteEq(alice.pk.pk, unhex(_rfcAlicePK)), "alice pk mismatch")
	assert(byteEq(bob.pk.pk, unhex(_rfcBobPK)), "bob pk mismatch")

	// Alice's public key as the KEM ciphertext to Bob
	ss, err := decapsulate(unhex(_rfcAlicePK), bob.sk)
	assert(err == nil, "decap: %s", err)
	assert(byteEq(ss.Bytes(), unhex(_rfcShared)), "shared secret mismatch")
	ss.Destroy()
}

func TestKEMErrors(t *testing.T) {
	assert := newAsserter(t)

	sk, err := GenerateKeyPair("")
	assert(err == nil, "keygen: %s", err)

	_, _, err = encapsulate(make([]byte, 31))
	assert(errors.Is(err, ErrFormat), "short pk: %s", err)

	// the all-zero point is of low order
	_, _, err = encapsulate(make([]byte, KeySize))
	assert(errors.Is(err, ErrFormat), "zero pk: %s", err)

	_, err = decapsulate(make([]byte, KeySize), sk.sk)
	assert(errors.Is(err, ErrIntegrity), "zero ct: %s", err)

	_, err = decapsulate(make([]byte, 16), sk.sk)
	assert(errors.Is(err, ErrFormat), "short ct: %s", err)

	sk.Wipe()
	_, err = decapsulate(sk.pk.pk, sk.sk)
	assert(errors.Is(err, ErrFormat), "wiped key: %s", err)
}

// HKDF-SHA256(ikm = RFC 7748 shared secret, salt = 00..0f, info = HKDFInfo)
func TestKDFVector(t *testing.T) {
	assert := newAsserter(t)

	salt := unhex("000102030405060708090a0b0c0d0e0f")
	k, err := deriveKeys(unhex(_rfcShared), salt, []byte(HKDFInfo))
	assert(err == nil, "derive: %s", err)

	enc := unhex("ab99cc5287e69663dfaa03c29a89b343b94a841f583ae379758ece93fe5e1f06")
	mac := unhex("8192c0fdbab7235f05b3cc3c971315b134d75004d5ebe32278dddf16dc19d12c")
	assert(byteEq(k.enc.Bytes(), enc), "enc key mismatch: %x", k.enc.Bytes())
	assert(byteEq(k.mac.Bytes(), mac), "mac key mismatch: %x", k.mac.Bytes())

	assert(byteEq(hmacSum(k.mac.Bytes(), []byte("HELLO")),
		unhex("7027d23b81565cc590f8d4668a7c03750b98241f16d7e0c5f453826e6eba207d")), "hmac mismatch")

	// same inputs, same keys
	k2, err := deriveKeys(unhex(_rfcShared), salt, []byte(HKDFInfo))
	assert(err == nil, "derive: %s", err)
	assert(byteEq(k.enc.Bytes(), k2.enc.Bytes()), "not deterministic")

	// different info, different keys
	k3, err := deriveKeys(unhex(_rfcShared), salt, []byte("x25519-file-encryption:v2"))
	assert(err == nil, "derive: %s", err)
	assert(!byteEq(k.enc.Bytes(), k3.enc.Bytes()), "info ignored")
	assert(!byteEq(k.enc.Bytes(), k.mac.Bytes()), "enc == mac")

	k.destroy()
	assert(k.enc.Bytes() == nil && k.mac.Bytes() == nil, "keys not wiped")
	k2.destroy()
	k3.destroy()
}
