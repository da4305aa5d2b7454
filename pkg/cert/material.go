// Package cert handles the client certificate material issued by the
// provisioning service for mutually-authenticated device connections.
package cert

import (
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/pkcs12"
)

// Material parsing errors.
var (
	ErrNoPrivateKey  = errors.New("no private key in material")
	ErrNoCertificate = errors.New("no certificate in material")
)

// Material is the credential bundle a connection attempt needs to open a
// mutually-authenticated socket. It is produced by one provisioning run,
// owned by the connection attempt that requested it, and regenerated on
// every reconnect.
type Material struct {
	// DeviceAddress is the network address of the device, as reported by
	// the certificate retrieval endpoint.
	DeviceAddress string

	// Certificate is the parsed client key pair.
	Certificate tls.Certificate

	// Fingerprint is the expected device certificate fingerprint,
	// normalized to lowercase hex without separators.
	Fingerprint string
}

// Parse builds Material from the raw strings returned by the certificate
// retrieval endpoint. The key and certificate are PEM; certificate data
// that does not parse as PEM is tried as a PKCS#12 bundle containing both
// key and certificate.
func Parse(deviceAddress, privateKey, certificate, fingerprint string) (*Material, error) {
	keyPEM := []byte(privateKey)
	certPEM := []byte(certificate)

	if block, _ := pem.Decode(certPEM); block == nil {
		// Not PEM. PKCS#12 bundles carry the key as well.
		var err error
		keyPEM, certPEM, err = fromPKCS12([]byte(certificate))
		if err != nil {
			return nil, fmt.Errorf("certificate material is neither PEM nor PKCS#12: %w", err)
		}
	}

	pair, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to load client key pair: %w", err)
	}

	return &Material{
		DeviceAddress: deviceAddress,
		Certificate:   pair,
		Fingerprint:   NormalizeFingerprint(fingerprint),
	}, nil
}

// fromPKCS12 converts a PKCS#12 bundle into key and certificate PEM blocks.
func fromPKCS12(data []byte) (keyPEM, certPEM []byte, err error) {
	blocks, err := pkcs12.ToPEM(data, "")
	if err != nil {
		return nil, nil, err
	}
	for _, block := range blocks {
		encoded := pem.EncodeToMemory(block)
		switch block.Type {
		case "CERTIFICATE":
			certPEM = append(certPEM, encoded...)
		default:
			keyPEM = append(keyPEM, encoded...)
		}
	}
	if len(keyPEM) == 0 {
		return nil, nil, ErrNoPrivateKey
	}
	if len(certPEM) == 0 {
		return nil, nil, ErrNoCertificate
	}
	return keyPEM, certPEM, nil
}

// NormalizeFingerprint lowercases a fingerprint and strips colon or space
// separators so fingerprints from different sources compare equal.
func NormalizeFingerprint(fp string) string {
	fp = strings.ToLower(fp)
	fp = strings.ReplaceAll(fp, ":", "")
	return strings.ReplaceAll(fp, " ", "")
}

// Fingerprint computes the normalized SHA-256 fingerprint of a raw DER
// certificate.
func Fingerprint(der []byte) string {
	sum := sha256.Sum256(der)
	return hex.EncodeToString(sum[:])
}

// VerifyFingerprint reports whether the device certificate presented on a
// TLS connection matches the provisioned fingerprint. An empty expected
// fingerprint matches anything; self-signed device certificates make the
// fingerprint the only meaningful identity check.
func (m *Material) VerifyFingerprint(peerDER []byte) bool {
	if m.Fingerprint == "" {
		return true
	}
	return Fingerprint(peerDER) == m.Fingerprint
}

// VerifyPeerCertificate checks the certificate a device presents during
// the TLS handshake against the provisioned fingerprint. It has the
// signature tls.Config.VerifyPeerCertificate expects, for use alongside
// InsecureSkipVerify on self-signed device certificates.
func (m *Material) VerifyPeerCertificate(rawCerts [][]byte, _ [][]*x509.Certificate) error {
	if len(rawCerts) == 0 {
		return errors.New("device presented no certificate")
	}
	if !m.VerifyFingerprint(rawCerts[0]) {
		return fmt.Errorf("device certificate fingerprint %s does not match provisioned %s",
			Fingerprint(rawCerts[0]), m.Fingerprint)
	}
	return nil
}
