package selector

type Selector string

func (s Selector) String() string {
	return string(s)
}

const (
	// pagination
	LastPageLink = Selector("a.c-pagination-content__last-page")

	// one listing card
	ListingContainer = Selector("article.c-results")

	// fields inside a listing card
	ListingTitle    = Selector("h2.c-results__header-title")
	ListingLink     = Selector("a.c-results__link")
	ListingTag      = Selector("div.c-results-tag__stick")
	ListingImage    = Selector("img.c-results-slider__img-inside")
	ListingFuel     = Selector("span.c-results-used__detail-fuel")
	ListingLocation = Selector("span.c-results-details__description-text--highlighted")
	ListingPrice    = Selector("div.c-results-mount__price")
)

// DataGtmAttr is the attribute on a listing container carrying the
// structured JSON blob (brand, year, fuel, transmission, ...).
const DataGtmAttr = "data-gtm"
