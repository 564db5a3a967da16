package ingest

// Quote is a provider-normalized price observation ready for the price
// store. AsOf is zero-padded ISO-8601 UTC text.
type Quote struct {
	Symbol   string
	Price    float64
	AsOf     string
	Currency string
}
