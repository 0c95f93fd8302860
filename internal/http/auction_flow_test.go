package handlers_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/shopspring/decimal"

	"github.com/Tkay24/commerce/internal/http/handlers"
	"github.com/Tkay24/commerce/internal/repos"
	"github.com/Tkay24/commerce/internal/services"
)

// newApp wires the real handlers against an in-memory store, mirroring the
// route setup in cmd/commerce.
func newApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	engine := html.New("../../web/templates", ".html")
	engine.AddFunc("usd", func(d decimal.Decimal) string { return d.StringFixed(2) })
	app := fiber.New(fiber.Config{Views: engine})
	app.Use(requestid.New())
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax"}))

	deps := handlers.NewDeps(db, authSvc)
	app.Get("/", deps.ListingHandler.Index)
	app.Get("/category/:id", deps.ListingHandler.Category)
	app.Get("/listing/:id", deps.ListingHandler.Detail)
	app.Get("/create", handlers.RequireUser(authSvc), deps.ListingHandler.CreateForm)
	app.Post("/create", handlers.RequireUser(authSvc), deps.ListingHandler.Create)
	app.Post("/listing/:id/bid", handlers.RequireUser(authSvc), deps.BidHandler.Place)
	app.Post("/listing/:id/close", handlers.RequireUser(authSvc), deps.BidHandler.Close)
	app.Post("/listing/:id/comment", handlers.RequireUser(authSvc), deps.CommentHandler.Add)
	app.Get("/watchlist", handlers.RequireUser(authSvc), deps.WatchlistHandler.List)
	app.Post("/watchlist", handlers.RequireUser(authSvc), deps.WatchlistHandler.Save)
	app.Post("/watchlist/delete", handlers.RequireUser(authSvc), deps.WatchlistHandler.Unsave)
	app.Get("/login", authH.LoginForm)
	app.Post("/login", authH.Login)
	app.Get("/register", authH.RegisterForm)
	app.Post("/register", authH.Register)
	app.Post("/logout", authH.Logout)

	return app
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// session carries the cookies a browser would resend.
type session struct {
	csrf string
	sid  string
}

func fetchCSRF(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/login", nil))
	if err != nil {
		t.Fatal(err)
	}
	tok := extractCookie(resp, "csrf_")
	if tok == "" {
		t.Fatal("csrf token missing")
	}
	return tok
}

func (s *session) post(t *testing.T, app *fiber.App, path string, form url.Values) *http.Response {
	t.Helper()
	form.Set("csrf", s.csrf)
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: s.csrf})
	if s.sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: s.sid})
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if sid := extractCookie(resp, "sid"); sid != "" {
		s.sid = sid
	}
	return resp
}

func (s *session) get(t *testing.T, app *fiber.App, path string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if s.sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: s.sid})
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func login(t *testing.T, app *fiber.App, username string) *session {
	t.Helper()
	s := &session{csrf: fetchCSRF(t, app)}
	resp := s.post(t, app, "/login", url.Values{"username": {username}, "password": {"Passw0rd!"}})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("login %s: expected redirect, got %d", username, resp.StatusCode)
	}
	if s.sid == "" {
		t.Fatal("sid not set after login")
	}
	return s
}

func createListing(t *testing.T, app *fiber.App, s *session, title, price string) string {
	t.Helper()
	resp := s.post(t, app, "/create", url.Values{
		"title":        {title},
		"description":  {"test item"},
		"starting_bid": {price},
		"category":     {"Electronics"},
	})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("create listing: expected redirect, got %d", resp.StatusCode)
	}
	loc := resp.Header.Get("Location")
	if !strings.HasPrefix(loc, "/listing/") {
		t.Fatalf("create listing: unexpected redirect %q", loc)
	}
	return strings.TrimPrefix(loc, "/listing/")
}

func TestBidAndCloseFlow(t *testing.T) {
	app := newApp(t)

	alice := login(t, app, "alice")
	id := createListing(t, app, alice, "Vintage Lamp", "10.00")

	// fresh listing shows the starting price as current
	resp, body := alice.get(t, app, "/listing/"+id)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("listing page: %d", resp.StatusCode)
	}
	if !strings.Contains(body, "10.00") {
		t.Fatalf("listing page should show starting price, got: %s", body)
	}

	bob := login(t, app, "bob")

	// equal to the seeded current price -> rejected with the threshold
	respBid := bob.post(t, app, "/listing/"+id+"/bid", url.Values{"bid_amount": {"10.00"}})
	loc := respBid.Header.Get("Location")
	if respBid.StatusCode != http.StatusFound || !strings.Contains(loc, "err=") || !strings.Contains(loc, "10.00") {
		t.Fatalf("equal bid should bounce with current price, got %d %q", respBid.StatusCode, loc)
	}

	// below starting price -> rejected naming the initial price
	respBid = bob.post(t, app, "/listing/"+id+"/bid", url.Values{"bid_amount": {"9.99"}})
	loc = respBid.Header.Get("Location")
	if !strings.Contains(loc, "err=") || !strings.Contains(loc, "initial") {
		t.Fatalf("low bid should bounce with initial price message, got %q", loc)
	}

	// higher bid wins
	respBid = bob.post(t, app, "/listing/"+id+"/bid", url.Values{"bid_amount": {"15.00"}})
	loc = respBid.Header.Get("Location")
	if !strings.Contains(loc, "msg=") {
		t.Fatalf("higher bid should succeed, got %q", loc)
	}
	_, body = bob.get(t, app, "/listing/"+id)
	if !strings.Contains(body, "15.00") {
		t.Fatal("listing page should show the new current price")
	}

	// non-owner cannot close
	respClose := bob.post(t, app, "/listing/"+id+"/close", url.Values{})
	if loc := respClose.Header.Get("Location"); !strings.Contains(loc, "err=") {
		t.Fatalf("non-owner close should be denied, got %q", loc)
	}
	_, body = bob.get(t, app, "/listing/"+id)
	if strings.Contains(body, "This auction is closed") {
		t.Fatal("listing must stay active after denied close")
	}

	// owner closes; listing leaves the index
	respClose = alice.post(t, app, "/listing/"+id+"/close", url.Values{})
	if loc := respClose.Header.Get("Location"); !strings.Contains(loc, "msg=") {
		t.Fatalf("owner close should succeed, got %q", loc)
	}
	_, body = alice.get(t, app, "/")
	if strings.Contains(body, "Vintage Lamp") {
		t.Fatal("closed listing should drop off the index")
	}

	// second close reports the combined failure
	respClose = alice.post(t, app, "/listing/"+id+"/close", url.Values{})
	if loc := respClose.Header.Get("Location"); !strings.Contains(loc, "err=") {
		t.Fatalf("second close should be denied, got %q", loc)
	}
}

func TestWatchlistAndCommentFlow(t *testing.T) {
	app := newApp(t)

	alice := login(t, app, "alice")
	id := createListing(t, app, alice, "Tube Radio", "25.00")

	bob := login(t, app, "bob")

	// watch twice; the watchlist lists the item once
	for i := 0; i < 2; i++ {
		resp := bob.post(t, app, "/watchlist", url.Values{"listingId": {id}})
		if resp.StatusCode != http.StatusFound {
			t.Fatalf("watch: expected redirect, got %d", resp.StatusCode)
		}
	}
	_, body := bob.get(t, app, "/watchlist")
	if n := strings.Count(body, "Tube Radio"); n != 1 {
		t.Fatalf("want listing exactly once on watchlist, got %d", n)
	}

	// unwatch empties it; a second unwatch is a quiet no-op
	for i := 0; i < 2; i++ {
		resp := bob.post(t, app, "/watchlist/delete", url.Values{"listingId": {id}})
		if resp.StatusCode != http.StatusFound {
			t.Fatalf("unwatch: expected redirect, got %d", resp.StatusCode)
		}
	}
	_, body = bob.get(t, app, "/watchlist")
	if strings.Contains(body, "Tube Radio") {
		t.Fatal("watchlist should be empty after unwatch")
	}

	// comments land on the listing page in insertion order
	resp := bob.post(t, app, "/listing/"+id+"/comment", url.Values{"message": {"still available?"}})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("comment: expected redirect, got %d", resp.StatusCode)
	}
	_, body = bob.get(t, app, "/listing/"+id)
	if !strings.Contains(body, "still available?") {
		t.Fatal("comment should render on listing page")
	}
}

func TestAnonymousRedirectsAndNotFound(t *testing.T) {
	app := newApp(t)
	anon := &session{}

	resp, _ := anon.get(t, app, "/create")
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/login" {
		t.Fatalf("anonymous create should redirect to login, got %d", resp.StatusCode)
	}

	resp, _ = anon.get(t, app, "/listing/no-such-listing")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown listing: want 404, got %d", resp.StatusCode)
	}

	// index renders for anonymous users
	resp, body := anon.get(t, app, "/")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "Active Listings") {
		t.Fatalf("index should render, got %d", resp.StatusCode)
	}
}
