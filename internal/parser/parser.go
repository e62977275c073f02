package parser

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"github.com/taller-autos/neoauto-etl/internal"
	"github.com/taller-autos/neoauto-etl/internal/log"
	"github.com/taller-autos/neoauto-etl/internal/selector"
)

var pageNumberPattern = regexp.MustCompile(`page=(\d+)`)

// dataGtm is the structured blob embedded in each listing container.
// Numeric-looking fields arrive as either numbers or strings depending on
// the listing, hence json.Number.
type dataGtm struct {
	ItemId              json.Number `json:"item_id"`
	ItemBrand           string      `json:"item_brand"`
	ItemYear            json.Number `json:"item_year"`
	ItemFuel            string      `json:"item_fuel"`
	ItemAdvertiser      string      `json:"item_advertiser"`
	ItemCategory        string      `json:"item_category"`
	ItemCategory2       string      `json:"item_category_2"`
	ItemTransmission    string      `json:"item_transmission"`
	ItemPublicationSlug string      `json:"item_publication_slug"`
}

// ResolveTotalPages discovers the catalog page count from the first page's
// "jump to last page" link. A missing link or page token means a single-page
// catalog. A positive maxPages clamps the result. The result is always >= 1.
func ResolveTotalPages(content []byte, maxPages int) int {
	totalPages := 1

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err == nil {
		if href, ok := doc.Find(selector.LastPageLink.String()).First().Attr("href"); ok {
			if match := pageNumberPattern.FindStringSubmatch(href); match != nil {
				if pages, err := strconv.Atoi(match[1]); err == nil && pages > 0 {
					totalPages = pages
				}
			}
		}
	}

	if maxPages > 0 && maxPages < totalPages {
		totalPages = maxPages
	}

	return totalPages
}

// ParsePage extracts every listing from one page of catalog markup, in
// document order. A malformed listing is dropped and logged without
// affecting the rest of the page.
func ParsePage(content []byte, logger log.Logger) []internal.RawListing {
	listings := make([]internal.RawListing, 0)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		logger.WithError(err).Warn("failed to parse page markup")
		return listings
	}

	doc.Find(selector.ListingContainer.String()).Each(func(i int, container *goquery.Selection) {
		listing, err := parseListing(container)
		if err != nil {
			logger.WithError(err).WithField("ListingIndex", i).Warn("skipping malformed listing")
			return
		}

		listings = append(listings, listing)
	})

	return listings
}

func parseListing(container *goquery.Selection) (listing internal.RawListing, err error) {
	gtmRaw, ok := container.Attr(selector.DataGtmAttr)
	if !ok {
		return listing, internal.NewElementNotFoundError(selector.ListingContainer)
	}

	var gtm dataGtm
	if err = json.Unmarshal([]byte(gtmRaw), &gtm); err != nil {
		return listing, err
	}

	title, err := getText(container, selector.ListingTitle)
	if err != nil {
		return listing, err
	}

	link, err := getAttr(container, selector.ListingLink, "href")
	if err != nil {
		return listing, err
	}

	image, err := getAttr(container, selector.ListingImage, "data-src")
	if err != nil {
		return listing, err
	}

	// the fuel label must be present for the listing to be usable, but the
	// canonical fuel value comes from the structured blob
	fuelLabel, err := getText(container, selector.ListingFuel)
	if err != nil {
		return listing, err
	}
	fuel := gtm.ItemFuel
	if fuel == "" {
		fuel = fuelLabel
	}

	location, err := getText(container, selector.ListingLocation)
	if err != nil {
		return listing, err
	}

	price, err := getText(container, selector.ListingPrice)
	if err != nil {
		return listing, err
	}

	year, _ := gtm.ItemYear.Int64()

	return internal.RawListing{
		Code:         gtm.ItemId.String(),
		Title:        title,
		Link:         link,
		Tag:          getOptionalText(container, selector.ListingTag),
		Image:        optionalString(image),
		Fuel:         fuel,
		Location:     location,
		Price:        price,
		Brand:        gtm.ItemBrand,
		Year:         int(year),
		Advertiser:   optionalString(gtm.ItemAdvertiser),
		Category:     optionalString(gtm.ItemCategory),
		Subcategory:  optionalString(gtm.ItemCategory2),
		Transmission: gtm.ItemTransmission,
		Slug:         optionalString(gtm.ItemPublicationSlug),
	}, nil
}
