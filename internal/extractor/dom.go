package extractor

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rohmanhakim/parks-explorer/internal/metadata"
	"github.com/rohmanhakim/parks-explorer/internal/record"
	"github.com/rohmanhakim/parks-explorer/pkg/failure"
	"github.com/rohmanhakim/parks-explorer/pkg/urlutil"
	"golang.org/x/net/html"
)

/*
Responsibilities
- Parse directory site HTML into a DOM tree
- Pull the region menu, the per-region listing and the detail fields

Missing detail fields are reported as absent, never as errors.
A page without the expected list container is an error, so that an
empty directory or listing never ends up in the cache.
*/

type DomExtractor struct {
	metadataSink metadata.MetadataSink
}

func NewDomExtractor(
	metadataSink metadata.MetadataSink,
) DomExtractor {
	return DomExtractor{
		metadataSink: metadataSink,
	}
}

// ExtractDirectory returns the region menu as lower-cased name to absolute URL.
// Later duplicates of a name overwrite earlier ones.
func (d *DomExtractor) ExtractDirectory(
	base url.URL,
	htmlByte []byte,
) (map[string]string, failure.ClassifiedError) {
	doc, err := parseDocument(htmlByte)
	if err != nil {
		d.recordError(base, "DomExtractor.ExtractDirectory", err)
		return nil, err
	}

	menu := doc.Find(regionMenuSelector).First()
	if menu.Length() == 0 {
		err := &ExtractionError{
			Message:   "region menu not found",
			Retryable: false,
			Cause:     ErrCauseMissingContainer,
		}
		d.recordError(base, "DomExtractor.ExtractDirectory", err)
		return nil, err
	}

	regions := make(map[string]string)
	menu.ChildrenFiltered(regionItemSelector).Each(func(_ int, li *goquery.Selection) {
		a := li.Find("a").First()
		name := strings.ToLower(strings.TrimSpace(a.Text()))
		href, ok := a.Attr("href")
		if name == "" || !ok {
			return
		}
		resolved, resolveErr := urlutil.Resolve(base, href)
		if resolveErr != nil {
			return
		}
		regions[name] = resolved
	})

	return regions, nil
}

// ExtractListing returns the absolute URLs of the location pages on a region
// page, in page order.
func (d *DomExtractor) ExtractListing(
	base url.URL,
	htmlByte []byte,
) ([]string, failure.ClassifiedError) {
	doc, err := parseDocument(htmlByte)
	if err != nil {
		d.recordError(base, "DomExtractor.ExtractListing", err)
		return nil, err
	}

	list := doc.Find(listingSelector).First()
	if list.Length() == 0 {
		err := &ExtractionError{
			Message:   "location list not found",
			Retryable: false,
			Cause:     ErrCauseMissingContainer,
		}
		d.recordError(base, "DomExtractor.ExtractListing", err)
		return nil, err
	}

	links := []string{}
	list.Find(listingLinkSelector).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		resolved, resolveErr := urlutil.Resolve(base, href)
		if resolveErr != nil {
			return
		}
		links = append(links, resolved)
	})

	return links, nil
}

// ExtractLocation reads the detail fields of a location page.
func (d *DomExtractor) ExtractLocation(
	source url.URL,
	htmlByte []byte,
) (record.Location, failure.ClassifiedError) {
	doc, err := parseDocument(htmlByte)
	if err != nil {
		d.recordError(source, "DomExtractor.ExtractLocation", err)
		return record.Location{}, err
	}

	location := record.Location{
		Name:       firstText(doc, nameSelector),
		Category:   firstText(doc, categorySelector),
		PostalCode: firstText(doc, postalCodeSelector),
		Phone:      firstText(doc, phoneSelector),
	}
	location.Address = record.JoinAddress(
		firstText(doc, citySelector),
		firstText(doc, regionSelector),
	)

	return location, nil
}

func (d *DomExtractor) recordError(source url.URL, action string, err *ExtractionError) {
	d.metadataSink.RecordError(
		time.Now(),
		"extractor",
		action,
		mapExtractionErrorToMetadataCause(err),
		err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrURL, source.String()),
		},
	)
}

func parseDocument(htmlByte []byte) (*goquery.Document, *ExtractionError) {
	root, err := html.Parse(bytes.NewReader(htmlByte))
	if err != nil {
		return nil, &ExtractionError{
			Message:   fmt.Sprintf("failed to parse HTML: %v", err),
			Retryable: false,
			Cause:     ErrCauseNotHTML,
		}
	}
	return goquery.NewDocumentFromNode(root), nil
}

// firstText returns the trimmed text of the first match, or nil when the
// element is missing or blank.
func firstText(doc *goquery.Document, selector string) *string {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil
	}
	return record.Text(sel.Text())
}
