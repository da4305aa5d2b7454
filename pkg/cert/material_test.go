package cert

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"testing"
	"time"
)

// generateKeyPair creates a self-signed test certificate, returning the
// key and certificate as PEM plus the raw DER.
func generateKeyPair(t *testing.T) (keyPEM, certPEM string, der []byte) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "test-device"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err = x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}

	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}

	keyPEM = string(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}))
	certPEM = string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}))
	return keyPEM, certPEM, der
}

func TestParsePEM(t *testing.T) {
	keyPEM, certPEM, der := generateKeyPair(t)
	fp := Fingerprint(der)

	m, err := Parse("10.0.0.5", keyPEM, certPEM, fp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.DeviceAddress != "10.0.0.5" {
		t.Errorf("expected address 10.0.0.5, got %s", m.DeviceAddress)
	}
	if len(m.Certificate.Certificate) == 0 {
		t.Fatal("expected parsed certificate chain")
	}
	if m.Fingerprint != fp {
		t.Errorf("expected fingerprint %s, got %s", fp, m.Fingerprint)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse("10.0.0.5", "not a key", "not a cert", ""); err == nil {
		t.Error("expected error for non-PEM, non-PKCS#12 input")
	}
}

func TestParseRejectsMismatchedPair(t *testing.T) {
	keyPEM, _, _ := generateKeyPair(t)
	_, otherCert, _ := generateKeyPair(t)

	if _, err := Parse("10.0.0.5", keyPEM, otherCert, ""); err == nil {
		t.Error("expected error for mismatched key pair")
	}
}

func TestNormalizeFingerprint(t *testing.T) {
	cases := map[string]string{
		"AB:CD:EF": "abcdef",
		"ab cd ef": "abcdef",
		"AbCdEf":   "abcdef",
		"":         "",
		"0123abcd": "0123abcd",
	}
	for in, want := range cases {
		if got := NormalizeFingerprint(in); got != want {
			t.Errorf("NormalizeFingerprint(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestVerifyFingerprint(t *testing.T) {
	keyPEM, certPEM, der := generateKeyPair(t)

	m, err := Parse("10.0.0.5", keyPEM, certPEM, Fingerprint(der))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !m.VerifyFingerprint(der) {
		t.Error("matching fingerprint should verify")
	}
	if m.VerifyFingerprint([]byte("other")) {
		t.Error("different certificate should not verify")
	}

	// Without a provisioned fingerprint there is nothing to check.
	m.Fingerprint = ""
	if !m.VerifyFingerprint([]byte("anything")) {
		t.Error("empty expected fingerprint matches anything")
	}
}

func TestVerifyPeerCertificate(t *testing.T) {
	keyPEM, certPEM, der := generateKeyPair(t)
	_, _, otherDER := generateKeyPair(t)

	m, err := Parse("10.0.0.5", keyPEM, certPEM, Fingerprint(der))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := m.VerifyPeerCertificate([][]byte{der}, nil); err != nil {
		t.Errorf("matching certificate should pass the handshake check: %v", err)
	}
	if err := m.VerifyPeerCertificate([][]byte{otherDER}, nil); err == nil {
		t.Error("mismatched certificate must fail the handshake check")
	}
	if err := m.VerifyPeerCertificate(nil, nil); err == nil {
		t.Error("a peer presenting no certificate must fail")
	}

	m.Fingerprint = ""
	if err := m.VerifyPeerCertificate([][]byte{otherDER}, nil); err != nil {
		t.Errorf("empty provisioned fingerprint accepts any certificate: %v", err)
	}
}
