package api

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// dateFormat is the provider's query date format.
const dateFormat = "2006-01-02"

// GetEconomicCalendar fetches macro indicator records for [from, to].
func (c *Client) GetEconomicCalendar(ctx context.Context, from, to time.Time) ([]EconomicRecord, error) {
	query := url.Values{}
	query.Set("from", from.Format(dateFormat))
	query.Set("to", to.Format(dateFormat))

	var records []EconomicRecord
	if err := c.get(ctx, "/economic_calendar", query, &records); err != nil {
		return nil, fmt.Errorf("get economic calendar: %w", err)
	}

	return records, nil
}

// GetEarningsCalendar fetches earnings announcement records for [from, to].
func (c *Client) GetEarningsCalendar(ctx context.Context, from, to time.Time) ([]EarningsRecord, error) {
	query := url.Values{}
	query.Set("from", from.Format(dateFormat))
	query.Set("to", to.Format(dateFormat))

	var records []EarningsRecord
	if err := c.get(ctx, "/earning_calendar", query, &records); err != nil {
		return nil, fmt.Errorf("get earnings calendar: %w", err)
	}

	return records, nil
}
