package lookup

import "github.com/rohmanhakim/parks-explorer/internal/record"

// radiusResponse is the subset of the radius search response that is read.
type radiusResponse struct {
	Info          responseInfo   `json:"info"`
	SearchResults []searchResult `json:"searchResults"`
}

type responseInfo struct {
	StatusCode int      `json:"statuscode"`
	Messages   []string `json:"messages"`
}

type searchResult struct {
	Name   string       `json:"name"`
	Fields resultFields `json:"fields"`
}

type resultFields struct {
	GroupSICCodeName string `json:"group_sic_code_name"`
	City             string `json:"city"`
	State            string `json:"state"`
}

func (r searchResult) toNearbyPlace() record.NearbyPlace {
	return record.NearbyPlace{
		Name:     record.Text(r.Name),
		Category: record.Text(r.Fields.GroupSICCodeName),
		City:     record.Text(r.Fields.City),
		Region:   record.Text(r.Fields.State),
	}
}
