package internal

// RawListing is one scraped catalog entry prior to normalization.
// Optional fields are pointers; nil means the source did not carry the value.
type RawListing struct {
	Code         string
	Title        string
	Link         string
	Tag          *string
	Image        *string
	Fuel         string
	Location     string
	Price        string
	Brand        string
	Year         int
	Advertiser   *string
	Category     *string
	Subcategory  *string
	Transmission string
	Slug         *string
}

// NormalizedListing is a RawListing after transformation: Link is absolute
// and Price is numeric, nil meaning "no price disclosed" or unparseable.
type NormalizedListing struct {
	Code         string
	Title        string
	Link         string
	Tag          *string
	Image        *string
	Fuel         string
	Location     string
	Price        *float64
	Brand        string
	Year         int
	Advertiser   *string
	Category     *string
	Subcategory  *string
	Transmission string
	Slug         *string
}
