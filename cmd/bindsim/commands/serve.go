package commands

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"embed"
	"fmt"
	"math/big"
	"net"
	"net/http"
	"strings"
	"text/template"
	"time"

	"github.com/hulkholden/gpubind/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	//go:embed templates/*
	templatesFS embed.FS
	indexTmpl   = template.Must(template.ParseFS(templatesFS, "templates/index.html"))
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the WebAssembly client",
	RunE: func(cmd *cobra.Command, args []string) error {
		basePath, _ := cmd.Flags().GetString("base-path")
		handler := newServeMux(canonicalizeBasePath(basePath), http.Dir(cfg.Serve.StaticDir), cfg.Workload)

		addr := fmt.Sprintf(":%d", cfg.Serve.Port)
		if !cfg.Serve.UseTLS {
			logging.Infof("Listening on http://0.0.0.0%s", addr)
			return http.ListenAndServe(addr, logRequest(handler))
		}
		tlsCert, err := generateSelfSignedCert()
		if err != nil {
			return fmt.Errorf("generating self-signed certificate: %v", err)
		}
		srv := &http.Server{
			Addr:    addr,
			Handler: logRequest(handler),
			TLSConfig: &tls.Config{
				Certificates: []tls.Certificate{tlsCert},
			},
		}
		logging.Infof("Listening on https://0.0.0.0%s", addr)
		return srv.ListenAndServeTLS("", "")
	},
}

func init() {
	serveCmd.Flags().Int("port", 8080, "http port to listen on")
	serveCmd.Flags().Bool("tls", false, "enable HTTPS with a self-signed certificate")
	serveCmd.Flags().String("static-dir", "static", "directory holding client.wasm and wasm_exec.js")
	serveCmd.Flags().String("base-path", "", "base path to serve on, e.g. '/foo/'")

	v.BindPFlag("serve.port", serveCmd.Flags().Lookup("port"))
	v.BindPFlag("serve.use_tls", serveCmd.Flags().Lookup("tls"))
	v.BindPFlag("serve.static_dir", serveCmd.Flags().Lookup("static-dir"))
}

type server struct {
	basePath string
	params   any
}

func (s server) index(w http.ResponseWriter, r *http.Request) {
	// "/" matches any path.
	if r.URL.Path != s.basePath {
		http.NotFound(w, r)
		return
	}
	if err := indexTmpl.Execute(w, map[string]any{"BasePath": s.basePath, "Workload": s.params}); err != nil {
		logging.Errorf("rendering index: %v", err)
	}
}

func newServeMux(basePath string, static http.FileSystem, params any) *http.ServeMux {
	srv := server{basePath: basePath, params: params}
	mux := http.NewServeMux()
	mux.HandleFunc(basePath, srv.index)

	staticHandler := http.FileServer(static)
	mux.Handle(basePath+"static/", http.StripPrefix(basePath+"static/", staticHandler))
	// client.wasm is served from its gzipped copy.
	mux.Handle(basePath+"static/client.wasm", http.StripPrefix(basePath+"static/", makeGzipHandler(staticHandler)))
	return mux
}

// makeGzipHandler returns a HTTP HanderFunc which serves a gzipped version of the content.
func makeGzipHandler(h http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			h.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Set("Content-Type", "application/wasm")
		r.URL.Path += ".gz"
		r.URL.RawPath += ".gz"
		h.ServeHTTP(w, r)
	}
}

func logRequest(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sr := &statusRecorder{
			ResponseWriter: w,
			Status:         200,
		}
		handler.ServeHTTP(sr, r)
		logging.Get().WithFields(logrus.Fields{
			"remote": r.RemoteAddr,
			"method": r.Method,
			"status": sr.Status,
		}).Info(r.URL.String())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.Status = status
	r.ResponseWriter.WriteHeader(status)
}

func canonicalizeBasePath(s string) string {
	bp := s
	if !strings.HasSuffix(bp, "/") {
		bp = bp + "/"
	}
	if !strings.HasPrefix(bp, "/") {
		bp = "/" + bp
	}
	return bp
}

// generateSelfSignedCert creates an in-memory self-signed TLS certificate.
func generateSelfSignedCert() (tls.Certificate, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("generating key: %v", err)
	}

	serialNumber, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("generating serial number: %v", err)
	}

	tmpl := x509.Certificate{
		SerialNumber: serialNumber,
		Subject:      pkix.Name{Organization: []string{"bindsim dev"}},
		NotBefore:    time.Now(),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		IPAddresses:  []net.IP{net.IPv4(0, 0, 0, 0), net.IPv6loopback},
	}

	certDER, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &key.PublicKey, key)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("creating certificate: %v", err)
	}

	return tls.Certificate{
		Certificate: [][]byte{certDER},
		PrivateKey:  key,
	}, nil
}
