package api

import (
	"context"
	"fmt"
	"strings"
)

// GetQuotes fetches quotes for up to one batch of symbols. Callers are
// responsible for batching; the symbol list lands comma-joined in the path.
func (c *Client) GetQuotes(ctx context.Context, symbols []string) ([]Quote, error) {
	if len(symbols) == 0 {
		return nil, nil
	}

	path := "/quote/" + strings.Join(symbols, ",")

	var quotes []Quote
	if err := c.get(ctx, path, nil, &quotes); err != nil {
		return nil, fmt.Errorf("get quotes (%d symbols): %w", len(symbols), err)
	}

	return quotes, nil
}
