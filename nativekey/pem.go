package nativekey

import (
	"crypto/x509"
	"encoding/pem"
	"os"

	"github.com/cockroachdb/errors"
)

// LoadKeyFromPEM returns a Key loaded from the file
func LoadKeyFromPEM(keyFile string) (*Key, error) {
	data, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	key, err := ParseKeyFromPEM(data)
	if err != nil {
		return nil, errors.WithMessagef(err, "unable to load key: %s", keyFile)
	}
	return key, nil
}

// ParseKeyFromPEM returns a Key parsed from a PEM encoded private or
// public key block.
func ParseKeyFromPEM(data []byte) (*Key, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.Errorf("unable to parse PEM")
	}

	var key any
	var err error
	switch block.Type {
	case "RSA PRIVATE KEY":
		key, err = x509.ParsePKCS1PrivateKey(block.Bytes)
	case "EC PRIVATE KEY":
		key, err = x509.ParseECPrivateKey(block.Bytes)
	case "PRIVATE KEY":
		key, err = x509.ParsePKCS8PrivateKey(block.Bytes)
	case "PUBLIC KEY":
		key, err = x509.ParsePKIXPublicKey(block.Bytes)
	case "RSA PUBLIC KEY":
		key, err = x509.ParsePKCS1PublicKey(block.Bytes)
	default:
		return nil, errors.Errorf("unsupported PEM block: %s", block.Type)
	}
	if err != nil {
		return nil, errors.WithMessagef(err, "unable to parse %s", block.Type)
	}

	return NewKey(key)
}
