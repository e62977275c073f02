package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/taller-autos/neoauto-etl/internal"
	"github.com/taller-autos/neoauto-etl/internal/selector"
)

func getElement(root *goquery.Selection, sel selector.Selector) (*goquery.Selection, error) {
	el := root.Find(sel.String()).First()
	if el.Length() == 0 {
		return nil, internal.NewElementNotFoundError(sel)
	}

	return el, nil
}

func getText(root *goquery.Selection, sel selector.Selector) (string, error) {
	el, err := getElement(root, sel)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(el.Text()), nil
}

func getAttr(root *goquery.Selection, sel selector.Selector, attr string) (string, error) {
	el, err := getElement(root, sel)
	if err != nil {
		return "", err
	}

	value, ok := el.Attr(attr)
	if !ok {
		return "", internal.NewElementNotFoundError(sel)
	}

	return value, nil
}

// optional fields: absence is a nil value, not an error
func getOptionalText(root *goquery.Selection, sel selector.Selector) *string {
	text, err := getText(root, sel)
	if err != nil {
		return nil
	}

	return &text
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}

	return &value
}
