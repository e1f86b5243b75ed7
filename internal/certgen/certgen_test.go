package certgen

import (
	"context"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/atinyakov/siteadmin/internal/client/api"
)

func writeCA(t *testing.T) (certPath, keyPath string) {
	t.Helper()
	certPEM, keyPEM, err := GenerateCA("Test CA")
	if err != nil {
		t.Fatalf("GenerateCA: %v", err)
	}
	dir := t.TempDir()
	certPath = filepath.Join(dir, "ca.crt")
	keyPath = filepath.Join(dir, "ca.key")
	if err := os.WriteFile(certPath, certPEM, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(keyPath, keyPEM, 0o600); err != nil {
		t.Fatal(err)
	}
	return certPath, keyPath
}

func TestGenerateCA_RoundTrip(t *testing.T) {
	certPath, keyPath := writeCA(t)

	caCert, caKey, err := LoadCACredentials(certPath, keyPath)
	if err != nil {
		t.Fatalf("LoadCACredentials: %v", err)
	}
	if !caCert.IsCA || caCert.Subject.CommonName != "Test CA" {
		t.Errorf("unexpected CA: IsCA=%v CN=%q", caCert.IsCA, caCert.Subject.CommonName)
	}
	if _, ok := caKey.(*ecdsa.PrivateKey); !ok {
		t.Errorf("expected *ecdsa.PrivateKey, got %T", caKey)
	}
}

func TestParseCA_RSAKey(t *testing.T) {
	certPEM, _, err := GenerateCA("RSA CA")
	if err != nil {
		t.Fatal(err)
	}
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(rsaKey)})

	_, key, err := ParseCA(certPEM, keyPEM)
	if err != nil {
		t.Fatalf("ParseCA: %v", err)
	}
	if _, ok := key.(*rsa.PrivateKey); !ok {
		t.Errorf("expected *rsa.PrivateKey, got %T", key)
	}
}

func TestLoadCACredentials_Errors(t *testing.T) {
	certPath, keyPath := writeCA(t)
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.pem")
	if err := os.WriteFile(garbage, []byte("not pem"), 0o600); err != nil {
		t.Fatal(err)
	}
	otherType := filepath.Join(dir, "other.pem")
	if err := os.WriteFile(otherType, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: []byte{1}}), 0o600); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name       string
		cert, key  string
		wantSubstr string
	}{
		{"missing cert", filepath.Join(dir, "nope.crt"), keyPath, "read ca cert"},
		{"missing key", certPath, filepath.Join(dir, "nope.key"), "read ca key"},
		{"bad cert PEM", garbage, keyPath, "invalid CA cert PEM"},
		{"bad key PEM", certPath, garbage, "invalid CA key PEM"},
		{"unsupported key", certPath, otherType, "unsupported key type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := LoadCACredentials(tc.cert, tc.key)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantSubstr) {
				t.Errorf("error = %q; want substring %q", err.Error(), tc.wantSubstr)
			}
		})
	}
}

func TestGenerateServerCertificate_SANs(t *testing.T) {
	caCert, caKey, err := LoadCACredentials(writeCA(t))
	if err != nil {
		t.Fatal(err)
	}
	certPEM, _, err := GenerateServerCertificate([]string{"localhost", "127.0.0.1"}, caCert, caKey)
	if err != nil {
		t.Fatalf("GenerateServerCertificate: %v", err)
	}
	block, _ := pem.Decode(certPEM)
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		t.Fatal(err)
	}
	if cert.Subject.CommonName != "localhost" {
		t.Errorf("CN = %q; want localhost", cert.Subject.CommonName)
	}
	if len(cert.DNSNames) != 1 || len(cert.IPAddresses) != 1 {
		t.Errorf("SANs = %v %v", cert.DNSNames, cert.IPAddresses)
	}
	if err := cert.CheckSignatureFrom(caCert); err != nil {
		t.Errorf("certificate not signed by CA: %v", err)
	}

	if _, _, err := GenerateServerCertificate(nil, caCert, caKey); err == nil {
		t.Error("expected error for empty host list")
	}
}

// The admin client trusts a server certificate issued by the generated CA
// when pointed at the CA bundle.
func TestServerCertificate_TrustedByClient(t *testing.T) {
	caPath, keyPath := writeCA(t)
	caCert, caKey, err := LoadCACredentials(caPath, keyPath)
	if err != nil {
		t.Fatal(err)
	}
	certPEM, keyPEM, err := GenerateServerCertificate([]string{"127.0.0.1"}, caCert, caKey)
	if err != nil {
		t.Fatal(err)
	}
	pair, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"services":2}`))
	}))
	srv.TLS = &tls.Config{Certificates: []tls.Certificate{pair}, MinVersion: tls.VersionTLS12}
	srv.StartTLS()
	defer srv.Close()

	hc, err := api.NewHTTPClient(caPath, 5*time.Second)
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}
	var out struct {
		Services int `json:"services"`
	}
	if err := api.New(srv.URL, hc, nil, nil).Do(context.Background(), http.MethodGet, "/api/analytics/dashboard", nil, &out); err != nil {
		t.Fatalf("request over TLS failed: %v", err)
	}
	if out.Services != 2 {
		t.Errorf("services = %d; want 2", out.Services)
	}
}
