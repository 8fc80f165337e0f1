package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	emailPkg "github.com/joserubiobejarano/crmtrilogy/internal/adapters/email"
	web "github.com/joserubiobejarano/crmtrilogy/internal/adapters/http"
	"github.com/joserubiobejarano/crmtrilogy/internal/adapters/http/perf"
	"github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage"
	cityStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/city"
	enrollmentStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/enrollment"
	eventStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/event"
	reportStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/eventreport"
	paymentStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/payment"
	personStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/person"
	programtypeStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/programtype"
	"github.com/joserubiobejarano/crmtrilogy/internal/application/orchestrators"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// .env is optional; real deployments set variables in the environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("skipping .env: %v", err)
	}

	// Open the database with WAL mode, foreign keys, and a busy timeout.
	dbPath := envOrDefault("CRM_DB_PATH", "crm.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize schema: %v", err)
	}

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	ctStore := cityStore.NewSQLiteStore(timedDB)
	ptStore := programtypeStore.NewSQLiteStore(timedDB)
	evStore := eventStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		PersonStore:      personStore.NewSQLiteStore(timedDB),
		EventStore:       evStore,
		EnrollmentStore:  enrollmentStore.NewSQLiteStore(timedDB),
		PaymentStore:     paymentStore.NewSQLiteStore(timedDB),
		CityStore:        ctStore,
		ProgramTypeStore: ptStore,
		ReportStore:      reportStore.NewSQLiteStore(timedDB),
	}

	// Seed cities and program types when the catalog tables are empty
	seedDeps := orchestrators.SeedCatalogDeps{
		CityStore:        ctStore,
		ProgramTypeStore: ptStore,
	}
	if err := orchestrators.ExecuteSeedCatalog(context.Background(), seedDeps); err != nil {
		log.Fatalf("failed to seed catalog: %v", err)
	}

	// Configure email sender
	resendKey := os.Getenv("CRM_RESEND_KEY")
	emailFrom := envOrDefault("CRM_RESEND_FROM", "CRM Trilogy <noreply@crmtrilogy.app>")
	emailReply := envOrDefault("CRM_REPLY_TO", "hola@crmtrilogy.app")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom), emailFrom, emailReply)
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), emailFrom, emailReply)
		if os.Getenv("CRM_ENV") == "production" {
			log.Println("WARNING: CRM_RESEND_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set CRM_RESEND_KEY for real delivery)")
		}
	}

	mux := web.NewMux(stores, collector)

	addr := envOrDefault("CRM_ADDR", ":8080")
	log.Printf("crmtrilogy %s starting on %s (env=%s)", version, addr, envOrDefault("CRM_ENV", "development"))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
