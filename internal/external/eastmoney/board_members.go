package eastmoney

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
)

// memberPageURL is the server-rendered board constituents page, used
// only when the API returns an empty member list
const memberPageURL = "https://quote.eastmoney.com/center/api/sidemenu/boardlist/%s.html"

// FetchBoardMembers returns the stock codes belonging to a board. The
// push2 API is authoritative; the HTML page is a fallback for boards
// the clist endpoint does not serve.
func (c *Client) FetchBoardMembers(ctx context.Context, boardCode string) ([]string, error) {
	var codes []string
	err := c.fetchPaged(ctx, c.boardURL, "b:"+boardCode, fieldCode, func(row gjson.Result) {
		if code := row.Get(fieldCode).String(); code != "" {
			codes = append(codes, code)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("fetch board members %s: %w", boardCode, err)
	}

	if len(codes) > 0 {
		return codes, nil
	}

	c.logger.WithField("board", boardCode).Warn("Empty member list from API, scraping page")
	return c.scrapeBoardMembers(ctx, boardCode)
}

func (c *Client) scrapeBoardMembers(ctx context.Context, boardCode string) ([]string, error) {
	resp, err := c.http.Get(ctx, fmt.Sprintf(memberPageURL, boardCode))
	if err != nil {
		return nil, fmt.Errorf("scrape board members %s: %w", boardCode, err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse board page %s: %w", boardCode, err)
	}

	return extractMemberCodes(doc), nil
}

// extractMemberCodes pulls symbol codes out of the constituents table.
// Codes appear as the text of quote links; anything that is not a
// six-digit symbol is noise.
func extractMemberCodes(doc *goquery.Document) []string {
	seen := make(map[string]bool)
	var codes []string

	doc.Find("table tbody tr td a").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if !isSymbolCode(text) || seen[text] {
			return
		}
		seen[text] = true
		codes = append(codes, text)
	})

	return codes
}

func isSymbolCode(s string) bool {
	if len(s) != 6 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
