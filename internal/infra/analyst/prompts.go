package analyst

import (
	"fmt"
	"strings"

	"stockwatch/internal/domain/entity"
)

// articlesBlock renders articles as a numbered list for prompts, truncating
// descriptions to keep total input under the configured character budget.
func articlesBlock(articles []entity.Article, maxChars int) string {
	perArticle := maxChars / max(len(articles), 1)

	var b strings.Builder
	for i, a := range articles {
		desc := a.Description
		if len(desc) > perArticle {
			desc = desc[:perArticle] + "..."
		}
		fmt.Fprintf(&b, "%d. %s (%s)\n%s\n\n", i+1, a.Title, a.Source, desc)
	}
	return b.String()
}

func newsSummaryPrompt(ticker entity.Ticker, companyName string, articles []entity.Article, maxChars int) string {
	return fmt.Sprintf(`You are a financial news analyst. Summarize today's news about %s (%s) from the articles below.

Write 3-5 key topics. Format each topic on its own line as:
<emoji> **Topic name**: one concise sentence.

Choose an emoji that fits each topic (📈 📉 💰 🏭 ⚖️ 🤝 etc). No introduction, no conclusion, topics only.

Articles:
%s`, companyName, ticker, articlesBlock(articles, maxChars))
}

func sentimentPrompt(ticker entity.Ticker, companyName string, articles []entity.Article, maxChars int) string {
	return fmt.Sprintf(`You are a financial analyst. Classify the market sentiment of each article below about %s (%s) as bullish, bearish, or neutral, then give the overall sentiment.

Respond in EXACTLY this format with no other text:
OVERALL: <bullish|bearish|neutral>
ARTICLES: 1:<sentiment> 2:<sentiment> ...

Articles:
%s`, companyName, ticker, articlesBlock(articles, maxChars))
}

func headlinesPrompt(articles []entity.Article, maxChars int) string {
	return fmt.Sprintf(`Summarize each article below in one sentence. Respond with exactly one numbered line per article, in order, and no other text:
1: <summary>
2: <summary>

Articles:
%s`, articlesBlock(articles, maxChars))
}

func articleDetailPrompt(article entity.Article, maxChars int) string {
	desc := article.Description
	if len(desc) > maxChars {
		desc = desc[:maxChars] + "..."
	}
	return fmt.Sprintf(`Summarize this article in 3-4 plain sentences for a retail investor. No headings, no bullet points.

Title: %s
Source: %s

%s`, article.Title, article.Source, desc)
}

func dailyDigestPrompt(ticker entity.Ticker, companyName string, articles []entity.Article, maxChars int) string {
	return fmt.Sprintf(`You are a financial news analyst. Write a daily briefing paragraph (4-6 sentences) about %s (%s) covering the most important developments from today's articles. Plain prose, no headings.

Articles:
%s`, companyName, ticker, articlesBlock(articles, maxChars))
}
