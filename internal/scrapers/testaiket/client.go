// client.go holds the session side of the site: constructing a cookie bearing
// client, logging in with the access code and logging out.

package testaiket

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"ketscraper/internal/components/assert"
	"ketscraper/internal/components/telemetry"
	"ketscraper/lib/htmlutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

const (
	report_client_log_in      = "client.log-in"
	report_client_log_out     = "client.log-out"
	report_client_scrape      = "client.scrape"
	report_client_fetch_image = "client.fetch-image"
)

const (
	DefaultBaseUrl   = "http://www.testaiket.lt"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

	// SessionCookieName is the CMS session cookie, it is what LogIn hands back.
	SessionCookieName = "CMSSESSID520b200f"
	// UserSessionCookieName is the front end users module cookie, it carries the same value.
	UserSessionCookieName = "feu_sessionid"

	loginPath  = "/"
	logoutPath = "/index.php?mact=FrontEndUsers,cntnt01,logout,0&cntnt01returnid=15"
)

var tracer = otel.Tracer("ketscraper/scrapers/testaiket")

type ClientOptions struct {
	// BaseUrl defaults to DefaultBaseUrl.
	BaseUrl string
	// Exactly one of Password and Cookie must be set.
	Password string
	Cookie   string
	// UserAgent defaults to DefaultUserAgent.
	UserAgent string
	// RequestsPerSecond limits how fast requests are sent, 0 or less means no limit.
	RequestsPerSecond float64
	// CloudflareBypass wraps the transport to look like a browser TLS handshake.
	CloudflareBypass bool
	// Dump receives every HTTP exchange in full, can be nil.
	Dump telemetry.MessageOutput
}

// Client is a session on the practice test site. It is not safe for concurrent use.
type Client struct {
	baseUrl  *url.URL
	http     *resty.Client
	jar      http.CookieJar
	password string
	tel      telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel)

	if (opts.Password == "") == (opts.Cookie == "") {
		return nil, ErrCredentials
	}
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	tel = telemetry.NewScopedAPI("testaiket", tel)

	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if opts.Cookie != "" {
		jar.SetCookies(baseUrl, []*http.Cookie{
			{Name: SessionCookieName, Value: opts.Cookie},
			{Name: UserSessionCookieName, Value: opts.Cookie},
		})
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(opts.BaseUrl)
	httpClient.SetCookieJar(jar)
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	httpClient.SetHeader("user-agent", opts.UserAgent)
	httpClient.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	httpClient.SetTimeout(time.Second * 30)

	if opts.RequestsPerSecond > 0 {
		// burst of 1, requests are never dropped, only delayed
		rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
	}

	telemetry.InstrumentResty(httpClient, tel, opts.Dump)

	return &Client{
		baseUrl:  baseUrl,
		http:     httpClient,
		jar:      jar,
		password: opts.Password,
		tel:      tel,
	}, nil
}

// SessionCookie returns the current value of the session cookie, or an
// empty string if the site has not set one.
func (c *Client) SessionCookie() string {
	for _, cookie := range c.jar.Cookies(c.baseUrl) {
		if cookie.Name == SessionCookieName {
			return cookie.Value
		}
	}
	return ""
}

func (c *Client) loginForm() map[string]string {
	return map[string]string{
		"mact":                     "FrontEndUsers,me69c0,do_login,1",
		"me69c0returnid":           "56",
		"page":                     "56",
		"me69c0nocaptcha":          "1",
		"me69c0feu_input_password": c.password,
		"me69c0submit":             "pradėti",
	}
}

// LogIn submits the access code and returns the session cookie the site
// assigned. The error banner the site renders on failure is mapped to
// ErrInvalidPassword, ErrSessionActive or, for any other text, a *LoginError.
func (c *Client) LogIn(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "client:LogIn")
	defer span.End()

	loginError := func(err error) error {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("testaiket: log in: %w", err)
	}

	if c.password == "" {
		return "", loginError(fmt.Errorf("client was created with a session cookie, there is no password to log in with"))
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetFormData(c.loginForm()).
		Post(loginPath)
	if err != nil {
		c.tel.ReportBroken(
			report_client_log_in,
			fmt.Errorf("login request: %w", err),
		)
		return "", loginError(err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		c.tel.ReportBroken(
			report_client_log_in,
			fmt.Errorf("parse login response: %w", err),
		)
		return "", loginError(err)
	}

	banner := htmlutil.LeadingText(doc.Find("div.errorMessage"))
	err = classifyLoginError(banner)
	if err != nil {
		c.tel.ReportWarning(report_client_log_in, err, banner)
		return "", loginError(err)
	}

	cookie := c.SessionCookie()
	if cookie == "" {
		err := fmt.Errorf("response did not set the %s cookie", SessionCookieName)
		c.tel.ReportBroken(report_client_log_in, err, res.Status())
		return "", loginError(err)
	}

	return cookie, nil
}

// LogOut ends the session. It is best effort, only transport errors are
// returned, the response is not inspected.
func (c *Client) LogOut(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "client:LogOut")
	defer span.End()

	_, err := c.http.R().
		SetContext(ctx).
		Get(logoutPath)
	if err != nil {
		c.tel.ReportBroken(
			report_client_log_out,
			fmt.Errorf("logout request: %w", err),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "logout request failed")
		return fmt.Errorf("testaiket: log out: %w", err)
	}
	return nil
}
