// Package eastmoney pulls end-of-day market data from the eastmoney
// push2 quote API: the A-share spot list and the sector board list.
// Suspended symbols report "-" for numeric fields and are dropped at
// this boundary.
package eastmoney

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/wonny/tailpick/backend/internal/contracts"
	"github.com/wonny/tailpick/backend/pkg/config"
	"github.com/wonny/tailpick/backend/pkg/httputil"
	"github.com/wonny/tailpick/backend/pkg/logger"
)

// push2 field ids; the API speaks in these, nothing else does
const (
	fieldClose              = "f2"
	fieldChangeRate         = "f3"
	fieldChange             = "f4"
	fieldVolume             = "f5"
	fieldTurnover           = "f6"
	fieldTurnoverRate       = "f8"
	fieldQuantityRelRatio   = "f10"
	fieldCode               = "f12"
	fieldName               = "f14"
	fieldHigh               = "f15"
	fieldLow                = "f16"
	fieldOpen               = "f17"
	fieldCapital            = "f20"
	fieldCirculationCapital = "f21"
	fieldGainerCount        = "f104"
	fieldLoserCount         = "f105"
	fieldTopGainer          = "f128"
	fieldTopGain            = "f136"
)

const (
	// fsAllAShares selects SSE+SZSE A shares
	fsAllAShares = "m:0+t:6,m:0+t:80,m:1+t:2,m:1+t:23"
	// fsConceptBoards selects concept boards
	fsConceptBoards = "m:90+t:3"

	pageSize = 200

	spotFields  = "f2,f5,f6,f8,f10,f12,f14,f15,f16,f17,f20,f21"
	boardFields = "f2,f3,f4,f8,f12,f14,f20,f104,f105,f128,f136"
)

// Client is the push2 API client
type Client struct {
	http     *httputil.Client
	listURL  string
	boardURL string
	logger   *logger.Logger
}

// NewClient creates a push2 client with the configured rate limit
func NewClient(cfg config.EastmoneyConfig, log *logger.Logger) *Client {
	return &Client{
		http:     httputil.New(log).WithRateLimit(cfg.RateLimit, cfg.Burst),
		listURL:  cfg.ListURL,
		boardURL: cfg.BoardURL,
		logger:   log,
	}
}

// FetchSpot pulls the full A-share spot list and converts it to bars
// for the trade day, together with the stock master rows. Symbols with
// no numeric close or volume (suspended, pre-listing) are skipped.
func (c *Client) FetchSpot(ctx context.Context, tradeDay time.Time) ([]contracts.DailyBar, []contracts.Stock, error) {
	day := contracts.Day(tradeDay)

	var (
		bars   []contracts.DailyBar
		stocks []contracts.Stock
	)
	err := c.fetchPaged(ctx, c.listURL, fsAllAShares, spotFields, func(row gjson.Result) {
		bar, stock, ok := parseSpotRow(row, day)
		if !ok {
			return
		}
		bars = append(bars, bar)
		stocks = append(stocks, stock)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("fetch spot list: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"trade_day": day.Format("2006-01-02"),
		"bars":      len(bars),
	}).Info("Spot list fetched")

	return bars, stocks, nil
}

// FetchBoards pulls the concept board list and converts it to sector
// daily stats for the trade day, together with the sector master rows
func (c *Client) FetchBoards(ctx context.Context, tradeDay time.Time) ([]contracts.SectorDailyStat, []contracts.Sector, error) {
	day := contracts.Day(tradeDay)

	var (
		stats   []contracts.SectorDailyStat
		sectors []contracts.Sector
	)
	err := c.fetchPaged(ctx, c.boardURL, fsConceptBoards, boardFields, func(row gjson.Result) {
		stat, sector, ok := parseBoardRow(row, day)
		if !ok {
			return
		}
		stats = append(stats, stat)
		sectors = append(sectors, sector)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("fetch board list: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"trade_day": day.Format("2006-01-02"),
		"boards":    len(stats),
	}).Info("Board list fetched")

	return stats, sectors, nil
}

// fetchPaged walks the clist pages until data.total is exhausted
func (c *Client) fetchPaged(ctx context.Context, base, fs, fields string, visit func(gjson.Result)) error {
	seen := 0
	for page := 1; ; page++ {
		body, err := c.getPage(ctx, base, fs, fields, page)
		if err != nil {
			return err
		}

		data := gjson.GetBytes(body, "data")
		if !data.Exists() {
			// past the last page the API returns a null data object
			return nil
		}

		diff := data.Get("diff")
		diff.ForEach(func(_, row gjson.Result) bool {
			visit(row)
			seen++
			return true
		})

		total := int(data.Get("total").Int())
		if seen >= total || int(diff.Get("#").Int()) == 0 {
			return nil
		}
	}
}

func (c *Client) getPage(ctx context.Context, base, fs, fields string, page int) ([]byte, error) {
	q := url.Values{}
	q.Set("pn", strconv.Itoa(page))
	q.Set("pz", strconv.Itoa(pageSize))
	q.Set("po", "1")
	q.Set("np", "1")
	q.Set("fltt", "2") // decimal prices, not scaled ints
	q.Set("invt", "2")
	q.Set("fid", "f3")
	q.Set("fs", fs)
	q.Set("fields", fields)

	resp, err := c.http.Get(ctx, base+"?"+q.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read page %d: %w", page, err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("page %d: malformed response", page)
	}
	return body, nil
}

func parseSpotRow(row gjson.Result, day time.Time) (contracts.DailyBar, contracts.Stock, bool) {
	code := row.Get(fieldCode).String()
	if code == "" {
		return contracts.DailyBar{}, contracts.Stock{}, false
	}

	closeField := row.Get(fieldClose)
	volumeField := row.Get(fieldVolume)
	if closeField.Type != gjson.Number || volumeField.Type != gjson.Number {
		// suspended for the day
		return contracts.DailyBar{}, contracts.Stock{}, false
	}

	bar := contracts.DailyBar{
		Code:     code,
		TradeDay: day,

		Open:  row.Get(fieldOpen).Float(),
		High:  row.Get(fieldHigh).Float(),
		Low:   row.Get(fieldLow).Float(),
		Close: closeField.Float(),

		Volume:                volumeField.Int(),
		Turnover:              int64(row.Get(fieldTurnover).Float()),
		Capital:               int64(row.Get(fieldCapital).Float()),
		CirculationCapital:    int64(row.Get(fieldCirculationCapital).Float()),
		QuantityRelativeRatio: row.Get(fieldQuantityRelRatio).Float(),
		TurnoverRate:          row.Get(fieldTurnoverRate).Float(),
	}
	stock := contracts.Stock{
		Code:   code,
		Name:   row.Get(fieldName).String(),
		Market: marketOf(code),
	}
	return bar, stock, bar.Eligible()
}

func parseBoardRow(row gjson.Result, day time.Time) (contracts.SectorDailyStat, contracts.Sector, bool) {
	code := row.Get(fieldCode).String()
	if code == "" {
		return contracts.SectorDailyStat{}, contracts.Sector{}, false
	}
	if row.Get(fieldClose).Type != gjson.Number {
		return contracts.SectorDailyStat{}, contracts.Sector{}, false
	}

	stat := contracts.SectorDailyStat{
		SectorCode: code,
		TradeDay:   day,

		Price:        row.Get(fieldClose).Float(),
		Change:       row.Get(fieldChange).Float(),
		ChangeRate:   row.Get(fieldChangeRate).Float(),
		Capital:      int64(row.Get(fieldCapital).Float()),
		TurnoverRate: row.Get(fieldTurnoverRate).Float(),
		GainerCount:  int(row.Get(fieldGainerCount).Int()),
		LoserCount:   int(row.Get(fieldLoserCount).Int()),
		TopGainer:    row.Get(fieldTopGainer).String(),
		TopGain:      row.Get(fieldTopGain).Float(),
	}
	sector := contracts.Sector{
		Code: code,
		Name: row.Get(fieldName).String(),
		Type: "c",
	}
	return stat, sector, true
}

// marketOf maps a symbol prefix to its exchange
func marketOf(code string) string {
	if len(code) == 0 {
		return ""
	}
	switch code[0] {
	case '6':
		return "SH"
	case '0', '3':
		return "SZ"
	case '8', '4':
		return "BJ"
	default:
		return ""
	}
}
