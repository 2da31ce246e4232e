package starhealth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"starquote/internal/components/telemetry"
	"starquote/internal/quote"

	"github.com/stretchr/testify/require"
)

const quoteFormPage = `<!DOCTYPE html>
<html>
<body>
	<form id="search" action="/search"><input type="text" name="q"></form>
	<form id="quick-quote" method="post" action="/quickquote/premium">
		<input type="hidden" name="csrf" value="token-123">
		<input type="text" name="age" placeholder="Age of eldest member">
		<select name="sumInsured">
			<option value="">Select sum insured</option>
			<option value="3L">₹ 3,00,000</option>
			<option value="5L">₹ 5,00,000</option>
			<option value="10L">₹ 10,00,000</option>
			<option value="15L">₹ 15,00,000</option>
		</select>
		<select name="tenure">
			<option value="1">1 Year</option>
			<option value="2">2 Years</option>
			<option value="3">3 Years</option>
		</select>
		<button type="submit">Get Quote</button>
	</form>
</body>
</html>`

type fakePortal struct {
	formLoads   atomic.Int64
	submissions atomic.Int64
	lastForm    chan map[string]string
	omitPremium bool
}

func (p *fakePortal) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/quickquote", func(w http.ResponseWriter, r *http.Request) {
		p.formLoads.Add(1)
		http.SetCookie(w, &http.Cookie{Name: "portal_session", Value: "abc", Path: "/"})
		fmt.Fprint(w, quoteFormPage)
	})
	mux.HandleFunc("/quickquote/premium", func(w http.ResponseWriter, r *http.Request) {
		p.submissions.Add(1)
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		cookie, err := r.Cookie("portal_session")
		if err != nil || cookie.Value != "abc" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		err = r.ParseForm()
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		form := map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		if p.lastForm != nil {
			p.lastForm <- form
		}
		if p.omitPremium {
			fmt.Fprint(w, `<html><body><p>Please call us for a quote.</p></body></html>`)
			return
		}
		age, _ := strconv.Atoi(form["age"])
		fmt.Fprintf(w, `<html><body><div class="premium-amount">
			₹ %d,%03d
		</div></body></html>`, age/10, age*7%1000)
	})
	return mux
}

func testOptions(baseUrl string) Options {
	opts := DefaultOptions()
	opts.BaseUrl = baseUrl
	opts.NoCloudflareBypass = true
	opts.RequestsPerSecond = 0
	opts.TimeoutSeconds = 5
	return opts
}

func openSession(t *testing.T, baseUrl string) quote.Session {
	t.Helper()
	opener := NewOpener(testOptions(baseUrl), &telemetry.Memory{}, nil)
	session, err := opener.Open(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return session
}

func TestFetch(t *testing.T) {
	portal := &fakePortal{lastForm: make(chan map[string]string, 4)}
	server := httptest.NewServer(portal.handler(t))
	defer server.Close()

	session := openSession(t, server.URL)
	defer session.Close()

	premium, err := session.Fetch(context.Background(), quote.Request{
		Age:         33,
		SumInsured:  1_000_000,
		TenureYears: 3,
	})
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "₹ 3,231", premium)

	form := <-portal.lastForm
	require.Equal(t, map[string]string{
		"csrf":       "token-123",
		"age":        "33",
		"sumInsured": "10L",
		"tenure":     "3",
	}, form)

	_, err = session.Fetch(context.Background(), quote.Request{
		Age:         33,
		SumInsured:  500_000,
		TenureYears: 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	form = <-portal.lastForm
	require.Equal(t, "5L", form["sumInsured"])
	require.Equal(t, "1", form["tenure"])

	require.EqualValues(t, 2, portal.formLoads.Load())
	require.EqualValues(t, 2, portal.submissions.Load())
}

func TestFetchMissingPremium(t *testing.T) {
	portal := &fakePortal{omitPremium: true}
	server := httptest.NewServer(portal.handler(t))
	defer server.Close()

	session := openSession(t, server.URL)
	defer session.Close()

	_, err := session.Fetch(context.Background(), quote.Request{Age: 40, SumInsured: 500_000, TenureYears: 1})
	require.ErrorContains(t, err, "no premium found")
}

func TestFetchUnknownOption(t *testing.T) {
	portal := &fakePortal{}
	server := httptest.NewServer(portal.handler(t))
	defer server.Close()

	tel := &telemetry.Memory{}
	session, err := NewOpener(testOptions(server.URL), tel, nil).Open(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer session.Close()

	_, err = session.Fetch(context.Background(), quote.Request{Age: 40, SumInsured: 2_500_000, TenureYears: 1})
	require.Error(t, err)
	require.EqualValues(t, 0, portal.submissions.Load())
	require.Len(t, tel.Reports(telemetry.KindWarning), 1)
}

func TestFetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	session := openSession(t, server.URL)
	defer session.Close()

	_, err := session.Fetch(context.Background(), quote.Request{Age: 40, SumInsured: 500_000, TenureYears: 1})
	require.ErrorContains(t, err, "503")
}

func TestFetchAfterClose(t *testing.T) {
	session := openSession(t, "http://127.0.0.1:1")
	require.NoError(t, session.Close())
	require.NoError(t, session.Close())

	_, err := session.Fetch(context.Background(), quote.Request{Age: 40, SumInsured: 500_000, TenureYears: 1})
	require.ErrorContains(t, err, "closed")
}

func TestSumInsuredMatcher(t *testing.T) {
	table := []struct {
		sumInsured int
		value      string
		text       string
		expected   bool
	}{
		{sumInsured: 500_000, value: "5L", text: "₹ 5,00,000", expected: true},
		{sumInsured: 500_000, value: "500000", text: "Five lakh", expected: true},
		{sumInsured: 500_000, value: "opt-2", text: "5 Lakh", expected: true},
		{sumInsured: 500_000, value: "15L", text: "₹ 15,00,000", expected: false},
		{sumInsured: 1_000_000, value: "10L", text: "₹ 10,00,000", expected: true},
		{sumInsured: 1_000_000, value: "opt-3", text: "10 Lakh", expected: true},
		{sumInsured: 1_000_000, value: "1L", text: "₹ 1,00,000", expected: false},
	}
	for _, row := range table {
		matcher := sumInsuredMatcher(row.sumInsured)
		require.Equal(t, row.expected, matcher.match(row.value, row.text), "%d %s %s", row.sumInsured, row.value, row.text)
	}
}
