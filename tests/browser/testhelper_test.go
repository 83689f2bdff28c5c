package browser_test

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	web "elearning/internal/adapters/http"
	"elearning/internal/adapters/http/perf"
	"elearning/internal/adapters/storage"
	adminStore "elearning/internal/adapters/storage/admin"
	classStore "elearning/internal/adapters/storage/class"
	contactStore "elearning/internal/adapters/storage/contact"
	courseStore "elearning/internal/adapters/storage/course"
	enrollmentStore "elearning/internal/adapters/storage/enrollment"
	outboxStore "elearning/internal/adapters/storage/outbox"
	videoStore "elearning/internal/adapters/storage/video"
	"elearning/internal/application/orchestrators"
)

const (
	adminUsername = "instructor"
	adminPassword = "TestPass123!long"
)

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL string
	DB      *sql.DB
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
}

// newTestApp creates a fully wired app with a temp SQLite DB and starts an HTTP server.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	if err := storage.MigrateDB(db); err != nil {
		t.Fatalf("failed to migrate test DB: %v", err)
	}

	stores := web.Stores{
		Courses:     courseStore.NewSQLiteStore(db),
		Classes:     classStore.NewSQLiteStore(db),
		Videos:      videoStore.NewSQLiteStore(db),
		Enrollments: enrollmentStore.NewSQLiteStore(db),
		Admins:      adminStore.NewSQLiteStore(db),
		Contacts:    contactStore.NewSQLiteStore(db),
		Outbox:      outboxStore.NewSQLiteStore(db),
	}

	if _, err := orchestrators.ExecuteSeedAdmin(context.Background(), orchestrators.SeedAdminInput{
		Username: adminUsername,
		Password: adminPassword,
		FullName: "Test Instructor",
	}, orchestrators.SeedAdminDeps{Admins: stores.Admins}); err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	done := make(chan struct{})
	server, err := web.NewServer(stores, web.Options{
		CSRFKey:        bytes.Repeat([]byte("c"), 32),
		SessionKey:     bytes.Repeat([]byte("s"), 32),
		TrustedOrigins: []string{fmt.Sprintf("127.0.0.1:%d", port), fmt.Sprintf("localhost:%d", port)},
		RateLimit:      1000,
		Perf:           perf.NewCollector(perf.DefaultRingSize),
		Done:           done,
	})
	if err != nil {
		t.Fatalf("failed to build server: %v", err)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: server.Handler(),
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	// Wait for server to be ready
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	app := &testApp{BaseURL: baseURL, DB: db, Server: srv, PW: pw, Browser: browser}
	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		close(done)
		db.Close()
	})
	return app
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// exec runs a seed statement and returns the inserted id.
func (a *testApp) exec(t *testing.T, query string, args ...any) int64 {
	t.Helper()
	res, err := a.DB.Exec(query, args...)
	if err != nil {
		t.Fatalf("seed %q: %v", query, err)
	}
	id, _ := res.LastInsertId()
	return id
}

// fill types value into the field matched by selector.
func fill(t *testing.T, page playwright.Page, selector, value string) {
	t.Helper()
	if err := page.Locator(selector).Fill(value); err != nil {
		t.Fatalf("failed to fill %s: %v", selector, err)
	}
}

// submit clicks the first submit button inside the form matched by selector.
func submit(t *testing.T, page playwright.Page, formSelector string) {
	t.Helper()
	if err := page.Locator(formSelector + " button[type=submit]").First().Click(); err != nil {
		t.Fatalf("failed to submit %s: %v", formSelector, err)
	}
}

// textOf returns the text content of the first element matched by selector.
func textOf(t *testing.T, page playwright.Page, selector string) string {
	t.Helper()
	text, err := page.Locator(selector).First().TextContent()
	if err != nil {
		t.Fatalf("failed to read %s: %v", selector, err)
	}
	return text
}

// login signs in as the seeded instructor.
func (a *testApp) login(t *testing.T, page playwright.Page) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/admin/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	fill(t, page, "input[name=username]", adminUsername)
	fill(t, page, "input[name=password]", adminPassword)
	submit(t, page, "main form")
	if err := page.WaitForURL(a.BaseURL+"/admin", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("login did not redirect to dashboard: %v", err)
	}
}
