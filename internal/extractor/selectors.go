package extractor

// Selectors for the directory site's markup.
const (
	// directory page: one item per region in the keyword search menu, the
	// first anchor inside an item names the region
	regionMenuSelector = "ul.dropdown-menu.SearchBar-keywordSearch"
	regionItemSelector = "li"

	// region page: one list item per location
	listingSelector     = "ul#list_parks"
	listingLinkSelector = "li.clearfix h3 a"

	// detail page
	nameSelector       = "a.Hero-title"
	categorySelector   = "span.Hero-designation"
	citySelector       = `span[itemprop="addressLocality"]`
	regionSelector     = `span[itemprop="addressRegion"]`
	postalCodeSelector = `span[itemprop="postalCode"]`
	phoneSelector      = `span[itemprop="telephone"]`
)
