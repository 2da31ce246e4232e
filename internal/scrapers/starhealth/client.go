// client.go contains the HTTP session against the quick-quote portal, it knows nothing
// about scenarios or reports beyond a single quote.Request.

package starhealth

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"starquote/internal/components/assert"
	"starquote/internal/components/telemetry"
	"starquote/internal/quote"
	"starquote/pkg/htmlutil"
	"strconv"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("starquote/scrapers/starhealth")

const (
	report_session_open   = "session.open"
	report_session_fetch  = "session.fetch"
	report_session_option = "session.select-option"
)

// Fields are the form field names the portal expects.
type Fields struct {
	Age        string `json:"age"`
	SumInsured string `json:"sum_insured"`
	Tenure     string `json:"tenure"`
}

type Options struct {
	BaseUrl  string `json:"base_url"`
	FormPath string `json:"form_path"`
	// ResultSelector is the CSS selector of the element holding the premium.
	ResultSelector    string  `json:"result_selector"`
	Fields            Fields  `json:"fields"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	TimeoutSeconds    int     `json:"timeout_seconds"`
	UserAgent         string  `json:"user_agent"`
	// NoCloudflareBypass leaves the default transport in place.
	NoCloudflareBypass bool `json:"no_cloudflare_bypass"`
}

// DefaultOptions targets the public quick-quote page.
func DefaultOptions() Options {
	return Options{
		BaseUrl:        "https://atom.starhealth.in",
		FormPath:       "/quickquote",
		ResultSelector: ".premium-amount",
		Fields: Fields{
			Age:        "age",
			SumInsured: "sumInsured",
			Tenure:     "tenure",
		},
		RequestsPerSecond: 1,
		TimeoutSeconds:    30,
		UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	}
}

// Opener creates portal sessions, it implements quote.Opener.
type Opener struct {
	opts Options
	tel  telemetry.API
	dump telemetry.MessageOutput
}

// NewOpener validates the options, `dump` may be nil.
func NewOpener(opts Options, tel telemetry.API, dump telemetry.MessageOutput) Opener {
	assert.NotNil(tel, "telemetry")
	assert.NotEmptyStr(opts.BaseUrl, "base url")
	assert.NotEmptyStr(opts.ResultSelector, "result selector")
	assert.NotEmptyStr(opts.Fields.Age, "age field")

	return Opener{
		opts: opts,
		tel:  telemetry.NewScopedAPI("starhealth", tel),
		dump: dump,
	}
}

func (o Opener) Open(ctx context.Context) (quote.Session, error) {
	_, span := tracer.Start(ctx, "Opener:Open")
	defer span.End()

	baseUrl, err := url.Parse(o.opts.BaseUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid base url")
		o.tel.ReportBroken(report_session_open, err)
		return nil, err
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(o.opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpClient.SetCookieJar(jar)
	if !o.opts.NoCloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	if o.opts.UserAgent != "" {
		httpClient.SetHeader("user-agent", o.opts.UserAgent)
	}
	httpClient.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	timeout := time.Duration(o.opts.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient.SetTimeout(timeout)

	if o.opts.RequestsPerSecond > 0 {
		rateLimiter := rate.NewLimiter(rate.Limit(o.opts.RequestsPerSecond), 1)
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
	}

	telemetry.InstrumentResty(httpClient, o.tel, o.dump)

	return &session{
		http:    httpClient,
		baseUrl: baseUrl,
		opts:    o.opts,
		tel:     o.tel,
	}, nil
}

type session struct {
	http    *resty.Client
	baseUrl *url.URL
	opts    Options
	tel     telemetry.API
	closed  bool
}

func (s *session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.http.GetClient().CloseIdleConnections()
	return nil
}

func (s *session) Fetch(ctx context.Context, req quote.Request) (string, error) {
	ctx, span := tracer.Start(ctx, "Session:Fetch")
	defer span.End()
	span.SetAttributes(
		attribute.Int("age", req.Age),
		attribute.Int("sum_insured", req.SumInsured),
		attribute.Int("tenure_years", req.TenureYears),
	)

	fail := func(err error) (string, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.tel.ReportDebug(report_session_fetch, err, req.Age, req.SumInsured, req.TenureYears)
		return "", err
	}

	if s.closed {
		return fail(fmt.Errorf("session is closed"))
	}

	page, err := s.get(ctx, s.opts.FormPath)
	if err != nil {
		return fail(fmt.Errorf("load quote form: %w", err))
	}

	values, action, method, err := s.fillForm(page, req)
	if err != nil {
		return fail(err)
	}

	result, err := s.submit(ctx, action, method, values)
	if err != nil {
		return fail(fmt.Errorf("submit quote form: %w", err))
	}

	premium := htmlutil.SelectionText(result.Find(s.opts.ResultSelector).First())
	if premium == "" {
		return fail(fmt.Errorf("no premium found at %q", s.opts.ResultSelector))
	}
	return premium, nil
}

func (s *session) get(ctx context.Context, path string) (*goquery.Document, error) {
	res, err := s.http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return nil, err
	}
	return parseResponse(res)
}

func (s *session) submit(ctx context.Context, action, method string, values url.Values) (*goquery.Document, error) {
	r := s.http.R().SetContext(ctx)

	var (
		res *resty.Response
		err error
	)
	if method == http.MethodGet {
		res, err = r.SetQueryParamsFromValues(values).Get(action)
	} else {
		res, err = r.
			SetHeader("Content-Type", "application/x-www-form-urlencoded").
			SetBody(values.Encode()).
			Post(action)
	}
	if err != nil {
		return nil, err
	}
	return parseResponse(res)
}

func parseResponse(res *resty.Response) (*goquery.Document, error) {
	if res.IsError() {
		return nil, fmt.Errorf("unexpected status %s", res.Status())
	}
	return goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
}

// fillForm builds the submission of the quote form, keeping the hidden fields the portal
// rendered (csrf tokens and the like) and setting the three quote fields.
func (s *session) fillForm(page *goquery.Document, req quote.Request) (url.Values, string, string, error) {
	fields := s.opts.Fields

	form := page.Find(fmt.Sprintf("form:has([name=%q])", fields.Age)).First()
	if form.Length() == 0 {
		return nil, "", "", fmt.Errorf("no form with a %q field", fields.Age)
	}

	values := url.Values{}
	form.Find("input[type=hidden][name]").Each(func(_ int, input *goquery.Selection) {
		name, _ := input.Attr("name")
		values.Add(name, input.AttrOr("value", ""))
	})

	values.Set(fields.Age, strconv.Itoa(req.Age))

	if fields.SumInsured != "" {
		value, err := s.selectOption(form, fields.SumInsured, sumInsuredMatcher(req.SumInsured))
		if err != nil {
			return nil, "", "", err
		}
		values.Set(fields.SumInsured, value)
	}
	if fields.Tenure != "" {
		value, err := s.selectOption(form, fields.Tenure, tenureMatcher(req.TenureYears))
		if err != nil {
			return nil, "", "", err
		}
		values.Set(fields.Tenure, value)
	}

	action := form.AttrOr("action", "")
	if action == "" {
		action = s.opts.FormPath
	}
	method := strings.ToUpper(form.AttrOr("method", http.MethodPost))
	return values, action, method, nil
}

type optionMatcher struct {
	// raw is submitted when the field is a plain input rather than a select
	raw   string
	match func(value, text string) bool
}

// the portal renders sums insured either as rupees ("5,00,000") or in lakhs ("5 Lakh")
func sumInsuredMatcher(sumInsured int) optionMatcher {
	raw := strconv.Itoa(sumInsured)
	lakhs := strconv.Itoa(sumInsured / 100_000)
	return optionMatcher{
		raw: raw,
		match: func(value, text string) bool {
			if htmlutil.Digits(value) == raw || htmlutil.Digits(text) == raw {
				return true
			}
			mentionsLakh := strings.Contains(strings.ToLower(text), "lakh") ||
				strings.HasSuffix(strings.ToUpper(value), "L")
			if mentionsLakh && sumInsured%100_000 == 0 {
				return htmlutil.Digits(value) == lakhs || htmlutil.Digits(text) == lakhs
			}
			return false
		},
	}
}

func tenureMatcher(years int) optionMatcher {
	raw := strconv.Itoa(years)
	return optionMatcher{
		raw: raw,
		match: func(value, text string) bool {
			return htmlutil.Digits(value) == raw || htmlutil.Digits(text) == raw
		},
	}
}

func (s *session) selectOption(form *goquery.Selection, name string, matcher optionMatcher) (string, error) {
	options := form.Find(fmt.Sprintf("select[name=%q] option", name))
	if options.Length() == 0 {
		return matcher.raw, nil
	}

	var found string
	options.EachWithBreak(func(_ int, option *goquery.Selection) bool {
		text := htmlutil.SelectionText(option)
		value, hasValue := option.Attr("value")
		if !hasValue {
			value = text
		}
		if matcher.match(value, text) {
			found = value
			return false
		}
		return true
	})
	if found == "" {
		s.tel.ReportWarning(report_session_option, name, matcher.raw)
		return "", fmt.Errorf("no %q option for %s", name, matcher.raw)
	}
	return found, nil
}
