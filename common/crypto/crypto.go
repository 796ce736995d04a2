package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"hash"
)

// Const declarations for supported HMAC hash types
const (
	HashSHA256 = iota
	HashSHA512
	HashSHA512_384
)

var (
	errUnsupportedHashType = errors.New("unsupported hash type")
	errSecretEmpty         = errors.New("secret cannot be empty")
)

// HexEncodeToString takes in a hexadecimal byte array and returns a string
func HexEncodeToString(input []byte) string {
	return hex.EncodeToString(input)
}

// GetSHA512 returns a SHA512 hash of a byte array
func GetSHA512(input []byte) []byte {
	sha := sha512.New()
	sha.Write(input)
	return sha.Sum(nil)
}

// GetHMAC returns a keyed-hash message authentication code using the desired
// hashtype
func GetHMAC(hashType int, input, key []byte) ([]byte, error) {
	var hasher func() hash.Hash

	switch hashType {
	case HashSHA256:
		hasher = sha256.New
	case HashSHA512:
		hasher = sha512.New
	case HashSHA512_384:
		hasher = sha512.New384
	default:
		return nil, errUnsupportedHashType
	}

	h := hmac.New(hasher, key)
	h.Write(input)
	return h.Sum(nil), nil
}

// Sign returns the lowercase hex HMAC-SHA512 of body keyed by secret. This is
// the value sent in the Sign header of authenticated requests.
func Sign(secret, body []byte) (string, error) {
	if len(secret) == 0 {
		return "", errSecretEmpty
	}
	tag, err := GetHMAC(HashSHA512, body, secret)
	if err != nil {
		return "", err
	}
	return HexEncodeToString(tag), nil
}
