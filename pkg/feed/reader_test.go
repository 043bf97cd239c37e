package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_ReadFirst(t *testing.T) {
	rssContent := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/">
<channel>
	<title>Test Feed</title>
	<link>http://example.com</link>
	<description>Test Description</description>
	<item>
		<title>Bitcoin sobe 5%</title>
		<link>http://example.com/article1</link>
		<description><![CDATA[<p>Resumo do <b>artigo</b> 1</p>]]></description>
		<content:encoded><![CDATA[<p>Conteúdo completo do artigo 1</p>]]></content:encoded>
		<pubDate>Mon, 02 Jan 2006 15:04:05 -0700</pubDate>
	</item>
	<item>
		<title>Second article</title>
		<link>http://example.com/article2</link>
		<description>Article 2 description</description>
	</item>
</channel>
</rss>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		assert.NotEmpty(t, r.Header.Get("Accept-Language"))
		assert.Contains(t, r.Header.Get("Accept"), "application/rss+xml")
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rssContent))
	}))
	defer server.Close()

	reader := NewReader(5*time.Second, "")
	entry, err := reader.ReadFirst(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "Bitcoin sobe 5%", entry.Title)
	assert.Equal(t, "http://example.com/article1", entry.Link)
	assert.Equal(t, "<p>Resumo do <b>artigo</b> 1</p>", entry.Body, "summary preferred over content")
}

func TestReader_ReadFirst_ContentFallback(t *testing.T) {
	t.Run("rss without description", func(t *testing.T) {
		rssContent := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/">
<channel>
	<title>Test Feed</title>
	<item>
		<title>Only content</title>
		<link>http://example.com/only-content</link>
		<content:encoded><![CDATA[<p>Full content here</p>]]></content:encoded>
	</item>
</channel>
</rss>`
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(rssContent))
		}))
		defer server.Close()

		entry, err := NewReader(5*time.Second, "").ReadFirst(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "<p>Full content here</p>", entry.Body)
	})

	t.Run("atom with summary", func(t *testing.T) {
		atomContent := `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
	<title>Test Atom Feed</title>
	<entry>
		<title>Atom Entry 1</title>
		<link href="http://example.com/entry1"/>
		<id>urn:uuid:1225c695-cfb8-4ebb-aaaa-80da344efa6a</id>
		<updated>2006-01-02T15:04:05Z</updated>
		<summary>Entry 1 summary</summary>
		<content type="html">Entry 1 content</content>
	</entry>
</feed>`
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(atomContent))
		}))
		defer server.Close()

		entry, err := NewReader(5*time.Second, "").ReadFirst(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "Atom Entry 1", entry.Title)
		assert.Equal(t, "http://example.com/entry1", entry.Link)
		assert.Equal(t, "Entry 1 summary", entry.Body)
	})

	t.Run("no body at all", func(t *testing.T) {
		rssContent := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>T</title>
	<item><title>Bare</title><link>http://example.com/bare</link></item>
</channel></rss>`
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(rssContent))
		}))
		defer server.Close()

		entry, err := NewReader(5*time.Second, "").ReadFirst(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Empty(t, entry.Body)
	})
}

func TestReader_ReadFirst_Errors(t *testing.T) {
	t.Run("empty feed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<?xml version="1.0"?><rss version="2.0"><channel><title>Empty</title></channel></rss>`))
		}))
		defer server.Close()

		_, err := NewReader(5*time.Second, "").ReadFirst(context.Background(), server.URL)
		require.ErrorIs(t, err, ErrEmptyFeed)
	})

	t.Run("HTTP error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		_, err := NewReader(5*time.Second, "").ReadFirst(context.Background(), server.URL)
		require.ErrorIs(t, err, ErrBadStatus)
		assert.Contains(t, err.Error(), "unexpected status code: 403")
	})

	t.Run("invalid XML", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not xml"))
		}))
		defer server.Close()

		_, err := NewReader(5*time.Second, "").ReadFirst(context.Background(), server.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse feed")
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte("too late"))
		}))
		defer server.Close()

		_, err := NewReader(50*time.Millisecond, "").ReadFirst(context.Background(), server.URL)
		require.Error(t, err)
		assert.True(t, strings.HasPrefix(err.Error(), "fetch feed"))
	})

	t.Run("invalid URL", func(t *testing.T) {
		_, err := NewReader(5*time.Second, "").ReadFirst(context.Background(), "not-a-url")
		require.Error(t, err)
	})
}

func TestReader_CustomUserAgent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "custom-agent/1.0", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`<rss version="2.0"><channel><item><title>a</title><link>http://x/a</link></item></channel></rss>`))
	}))
	defer server.Close()

	entry, err := NewReader(5*time.Second, "custom-agent/1.0").ReadFirst(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "a", entry.Title)
}
