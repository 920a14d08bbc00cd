package source

import "strconv"

// trimFloat renders a float without trailing zeros ("0.30" -> "0.3").
func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// chunk partitions symbols into fixed-size batches, preserving order.
func chunk(symbols []string, size int) [][]string {
	if size < 1 {
		size = 1
	}
	batches := make([][]string, 0, (len(symbols)+size-1)/size)
	for start := 0; start < len(symbols); start += size {
		end := start + size
		if end > len(symbols) {
			end = len(symbols)
		}
		batches = append(batches, symbols[start:end])
	}
	return batches
}
