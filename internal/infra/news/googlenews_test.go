package news

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockwatch/internal/domain/entity"
	"stockwatch/internal/resilience/retry"
)

func rssFeed(items string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<title>stock - Google News</title>
<link>https://news.google.com</link>
%s
</channel></rss>`, items)
}

func rssItem(title, link, desc string) string {
	return fmt.Sprintf(`<item>
<title>%s</title>
<link>%s</link>
<description>%s</description>
<pubDate>Fri, 29 Aug 2026 12:00:00 GMT</pubDate>
</item>`, title, link, desc)
}

func newTestSearcher(t *testing.T, handler http.HandlerFunc) *Searcher {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	s := NewSearcher(server.Client(), nil)
	s.baseURL = server.URL
	s.retryConfig = retry.Config{MaxAttempts: 1, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}
	return s
}

func TestSearcher_Search(t *testing.T) {
	s := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		items := ""
		for i := 1; i <= 7; i++ {
			items += rssItem(
				fmt.Sprintf("Apple earnings beat, part %d - Reuters", i),
				fmt.Sprintf("https://www.reuters.com/article/%d", i),
				"Apple posted strong quarterly results.")
		}
		fmt.Fprint(w, rssFeed(items))
	})

	articles, err := s.Search(context.Background(), "Apple", entity.Ticker("AAPL"))
	require.NoError(t, err)

	assert.Len(t, articles, 5)
	assert.Equal(t, "Apple earnings beat, part 1", articles[0].Title)
	assert.Equal(t, "Reuters", articles[0].Source)
	assert.Equal(t, "Apple posted strong quarterly results.", articles[0].Description)
	assert.Equal(t, 2026, articles[0].PublishedAt.Year())
}

func TestSearcher_Search_WidensWindow(t *testing.T) {
	var queries []string
	s := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		queries = append(queries, q)
		w.Header().Set("Content-Type", "application/xml")
		if strings.Contains(q, "when:1d") {
			fmt.Fprint(w, rssFeed(""))
			return
		}
		fmt.Fprint(w, rssFeed(rssItem("Tesla recalls vehicles - AP News", "https://apnews.com/tesla", "Recall notice.")))
	})

	articles, err := s.Search(context.Background(), "Tesla", entity.Ticker("TSLA"))
	require.NoError(t, err)

	require.Len(t, queries, 2)
	assert.Contains(t, queries[0], "Tesla stock TSLA when:1d")
	assert.Contains(t, queries[1], "Tesla stock TSLA when:2d")
	require.Len(t, articles, 1)
	assert.Equal(t, "Tesla recalls vehicles", articles[0].Title)
}

func TestSearcher_Search_EmptyBothWindows(t *testing.T) {
	s := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprint(w, rssFeed(""))
	})

	articles, err := s.Search(context.Background(), "Obscure Corp", entity.Ticker("OBSC"))
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestSearcher_Search_SourceFallsBackToHost(t *testing.T) {
	s := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprint(w, rssFeed(rssItem("Plain headline with no publisher", "https://www.bloomberg.com/news/1", "Body.")))
	})

	articles, err := s.Search(context.Background(), "Apple", entity.Ticker("AAPL"))
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "bloomberg.com", articles[0].Source)
}

func TestSearcher_Search_ServerError(t *testing.T) {
	s := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := s.Search(context.Background(), "Apple", entity.Ticker("AAPL"))
	assert.Error(t, err)
}

type stubFetcher struct {
	content string
	err     error
	calls   int
}

func (f *stubFetcher) FetchContent(ctx context.Context, articleURL string) (string, error) {
	f.calls++
	return f.content, f.err
}

func TestSearcher_EnhanceDescriptions(t *testing.T) {
	long := strings.Repeat("x", 300)

	tests := []struct {
		name     string
		desc     string
		fetcher  *stubFetcher
		want     string
		wantCall bool
	}{
		{
			name:     "short description gets fetched content",
			desc:     "thin",
			fetcher:  &stubFetcher{content: long},
			want:     long,
			wantCall: true,
		},
		{
			name:     "long description skips fetch",
			desc:     long,
			fetcher:  &stubFetcher{content: "ignored"},
			want:     long,
			wantCall: false,
		},
		{
			name:     "fetch error keeps original",
			desc:     "thin",
			fetcher:  &stubFetcher{err: fmt.Errorf("boom")},
			want:     "thin",
			wantCall: true,
		},
		{
			name:     "fetched shorter than original is ignored",
			desc:     "a reasonably short description",
			fetcher:  &stubFetcher{content: "tiny"},
			want:     "a reasonably short description",
			wantCall: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Searcher{contentFetcher: tt.fetcher, threshold: 200}
			articles := []entity.Article{{URL: "https://example.com/a", Description: tt.desc}}
			s.enhanceDescriptions(context.Background(), articles)

			assert.Equal(t, tt.want, articles[0].Description)
			assert.Equal(t, tt.wantCall, tt.fetcher.calls > 0)
		})
	}
}

func TestSplitTitleSource(t *testing.T) {
	tests := []struct {
		title      string
		wantTitle  string
		wantSource string
	}{
		{"Apple beats estimates - Reuters", "Apple beats estimates", "Reuters"},
		{"Stocks up - markets rally - CNBC", "Stocks up - markets rally", "CNBC"},
		{"No publisher suffix here", "No publisher suffix here", ""},
	}

	for _, tt := range tests {
		title, source := splitTitleSource(tt.title)
		assert.Equal(t, tt.wantTitle, title)
		assert.Equal(t, tt.wantSource, source)
	}
}
