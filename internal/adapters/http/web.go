package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"

	"github.com/joserubiobejarano/crmtrilogy/internal/adapters/http/middleware"
	"github.com/joserubiobejarano/crmtrilogy/internal/adapters/http/perf"
	emailPkg "github.com/joserubiobejarano/crmtrilogy/internal/adapters/email"
	cityStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/city"
	enrollmentStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/enrollment"
	eventStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/event"
	reportStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/eventreport"
	paymentStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/payment"
	personStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/person"
	programtypeStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/programtype"
)

// Stores holds all storage dependencies.
type Stores struct {
	PersonStore      personStore.Store
	EventStore       eventStore.Store
	EnrollmentStore  enrollmentStore.Store
	PaymentStore     paymentStore.Store
	CityStore        cityStore.Store
	ProgramTypeStore programtypeStore.Store
	ReportStore      reportStore.Store
}

// Global email sender instance (set by SetEmailSender)
var emailSender emailPkg.Sender
var emailFromAddress string
var emailReplyTo string

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender emailPkg.Sender, from, replyTo string) {
	emailSender = sender
	emailFromAddress = from
	emailReplyTo = replyTo
}

// loadCSRFKey reads the CSRF secret from CRM_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("CRM_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("CRM_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("CRM_ENV") == "production" {
		log.Fatal("CRM_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key. Set CRM_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// NewMux wires HTTP handlers for the admin API.
func NewMux(s *Stores, collector *perf.Collector) http.Handler {
	stores = s
	perfCollector = collector

	mux := http.NewServeMux()
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Apply middleware: Timing -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Timing(collector),
	)
}
