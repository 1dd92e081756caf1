package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><main>hello</main></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Contains(t, result.HTML, "hello")
	assert.Equal(t, "text/html", result.ContentType)
}

func TestURL_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, fetchErr.Message, "404")
	require.NotNil(t, result)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
}

func TestURL_InvalidURL(t *testing.T) {
	_, err := URL(context.Background(), "not a url", nil)
	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
}

func TestExtractMainText_PrefersSelectors(t *testing.T) {
	html := `<html><body>
		<nav>navigation junk</nav>
		<main><p>About our company.</p><p>We build rockets.</p></main>
		<footer>footer junk</footer>
	</body></html>`

	text, err := ExtractMainText(html, CompanyPageSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "About our company.")
	assert.Contains(t, text, "We build rockets.")
	assert.NotContains(t, text, "navigation junk")
	assert.NotContains(t, text, "footer junk")
}

func TestExtractMainText_FallsBackToBody(t *testing.T) {
	html := `<html><body><div><p>plain content</p></div></body></html>`

	text, err := ExtractMainText(html, []string{".does-not-exist"})
	require.NoError(t, err)
	assert.Contains(t, text, "plain content")
}

func TestExtractLinks_SameHostWithMarkers(t *testing.T) {
	html := `<html><body>
		<a href="/about">About us</a>
		<a href="/careers">Careers</a>
		<a href="/pricing">Pricing</a>
		<a href="https://other.example.com/about">External about</a>
	</body></html>`

	links, err := ExtractLinks(html, "https://acme.example.com/", []string{"about", "careers", "culture"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://acme.example.com/about",
		"https://acme.example.com/careers",
	}, links)
}

func TestExtractLinks_Deduplicates(t *testing.T) {
	html := `<html><body>
		<a href="/about">About</a>
		<a href="/about">About again</a>
	</body></html>`

	links, err := ExtractLinks(html, "https://acme.example.com/", []string{"about"})
	require.NoError(t, err)
	assert.Len(t, links, 1)
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser("too short"))

	long := make([]byte, MinContentLength)
	for i := range long {
		long[i] = 'a'
	}
	assert.False(t, ShouldUseBrowser(string(long)))
}
