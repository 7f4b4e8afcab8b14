package testaiket

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"ketscraper/internal/components/telemetry"
)

const fakeSessionId = "0123456789abcdef"

// fakeSite serves the handful of endpoints the client touches.
type fakeSite struct {
	server *httptest.Server

	mutex          sync.Mutex
	listing        string
	images         map[string][]byte
	loginBanner    string
	lastForm       url.Values
	lastQuery      url.Values
	listingCookies map[string]string
	logins         int
	listings       int
	logouts        int
}

func newFakeSite(t testing.TB) *fakeSite {
	site := &fakeSite{
		listing: renderListing(defaultBlocks()),
		images:  map[string][]byte{},
	}
	for i := 3; i <= QuestionsPerPage; i += 3 {
		site.images["/"+imageSrc(i)] = imageBytes(i)
	}
	site.server = httptest.NewServer(http.HandlerFunc(site.handle))
	t.Cleanup(site.server.Close)
	return site
}

func (s *fakeSite) handle(w http.ResponseWriter, r *http.Request) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/":
		s.logins++
		err := r.ParseForm()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.lastForm = r.PostForm
		if s.loginBanner != "" {
			w.Write([]byte(`<html><body><div class="errorMessage">` + s.loginBanner + `<br></div></body></html>`))
			return
		}
		http.SetCookie(w, &http.Cookie{Name: SessionCookieName, Value: fakeSessionId, Path: "/"})
		http.SetCookie(w, &http.Cookie{Name: UserSessionCookieName, Value: fakeSessionId, Path: "/"})
		w.Write([]byte(`<html><body><p>Sveiki prisijungę</p></body></html>`))

	case r.Method == http.MethodGet && r.URL.Path == "/index.php":
		query := r.URL.Query()
		switch {
		case strings.HasPrefix(query.Get("mact"), "FrontEndUsers,cntnt01,logout"):
			s.logouts++
			w.Write([]byte(`<html><body>atsijungta</body></html>`))
		case strings.HasPrefix(query.Get("mact"), "Ket,mb7908,default"):
			s.listings++
			s.lastQuery = query
			s.listingCookies = map[string]string{}
			for _, c := range r.Cookies() {
				s.listingCookies[c.Name] = c.Value
			}
			w.Write([]byte(s.listing))
		default:
			http.NotFound(w, r)
		}

	case r.Method == http.MethodGet:
		image, ok := s.images[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(image)

	default:
		http.NotFound(w, r)
	}
}

func (s *fakeSite) setListing(blocks []fixtureBlock) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.listing = renderListing(blocks)
}

func (s *fakeSite) setLoginBanner(banner string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.loginBanner = banner
}

func (s *fakeSite) form() url.Values {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.lastForm
}

func (s *fakeSite) listingRequest() (url.Values, map[string]string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.lastQuery, s.listingCookies
}

func (s *fakeSite) counts() (logins, listings, logouts int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.logins, s.listings, s.logouts
}

func newTestClient(t testing.TB, site *fakeSite, password, cookie string) (*Client, *telemetry.Recorder) {
	rec := &telemetry.Recorder{}
	client, err := NewClient(ClientOptions{
		BaseUrl:  site.server.URL,
		Password: password,
		Cookie:   cookie,
	}, rec)
	if err != nil {
		t.Fatal(err)
	}
	return client, rec
}
