package scraper

import (
	"strconv"
	"strings"

	"github.com/taller-autos/neoauto-etl/internal"
	"github.com/taller-autos/neoauto-etl/internal/log"
	"github.com/taller-autos/neoauto-etl/internal/util"
)

// price string meaning "price available on request"
const priceOnRequestSentinel = "consultar"

var priceCleaner = strings.NewReplacer("US$", "", "S/", "", ",", "", " ", "", " ", "")

// Transformer normalizes raw listings: relative detail links become absolute
// against the catalog origin, display prices become nullable numbers.
type Transformer struct {
	origin string
	logger log.Logger
}

func NewTransformer(origin string, logger log.Logger) *Transformer {
	return &Transformer{
		origin: strings.TrimSuffix(origin, "/"),
		logger: logger,
	}
}

// Transform is pure and order-preserving; one output per input.
func (t *Transformer) Transform(raw []internal.RawListing) []internal.NormalizedListing {
	normalized := make([]internal.NormalizedListing, 0, len(raw))

	for _, r := range raw {
		normalized = append(normalized, internal.NormalizedListing{
			Code:         r.Code,
			Title:        r.Title,
			Link:         t.origin + r.Link,
			Tag:          r.Tag,
			Image:        r.Image,
			Fuel:         r.Fuel,
			Location:     r.Location,
			Price:        CleanPrice(r.Price),
			Brand:        r.Brand,
			Year:         r.Year,
			Advertiser:   r.Advertiser,
			Category:     r.Category,
			Subcategory:  r.Subcategory,
			Transmission: r.Transmission,
			Slug:         r.Slug,
		})
	}

	return normalized
}

// CleanPrice converts a display price into a number. The "Consultar"
// sentinel, an empty string, and anything unparseable all map to nil;
// CleanPrice never fails.
func CleanPrice(raw string) *float64 {
	if raw == "" || util.NormalizeStr(raw) == priceOnRequestSentinel {
		return nil
	}

	cleaned := strings.TrimSpace(priceCleaner.Replace(raw))

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || value < 0 {
		return nil
	}

	return &value
}
