package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Text is a dataset value read as a string. Source values arrive as strings,
// numbers, booleans or null; non-string scalars are kept in their JSON text
// form and null becomes "".
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	// Numbers, booleans and nested values are kept verbatim. The attributes
	// blob is sometimes delivered already decoded as an object.
	*t = Text(data)
	return nil
}

func (t Text) String() string { return string(t) }

// RawRecord is one entry of the source dataset as delivered by the crawler
// export. Keys are the dataset's own (Vietnamese) column names.
type RawRecord struct {
	Page         Text          `json:"Trang"`
	Name         Text          `json:"Tên Dự Án"`
	ProjectURL   Text          `json:"URL Dự Án"`
	ListingURL   Text          `json:"URL Tin Rao (1st)"`
	Level1       Text          `json:"Cấp 1"`
	Province     Text          `json:"Cấp 2"`
	District     Text          `json:"Cấp 3"`
	Ward         Text          `json:"Cấp 4"`
	Latitude     Text          `json:"Latitude"`
	Longitude    Text          `json:"Longitude"`
	Area         Text          `json:"Diện tích"`
	Units        Text          `json:"Số căn"`
	Towers       Text          `json:"Số tòa"`
	Investor     Text          `json:"Chủ đầu tư"`
	Attributes   Text          `json:"Attributes (Other)"`
	ToolName     Text          `json:"_tool_name"`
	ToolProvince Text          `json:"_tool_province"`
	ToolDistrict Text          `json:"_tool_district"`
	PriceHistory *PriceHistory `json:"priceHistory"`
}

// UnmarshalJSON implements json.Unmarshaler. Fields are decoded one key at a
// time so a malformed value only loses that field; a priceHistory block that
// does not fit the expected shape becomes nil. Only a non-object element is an
// error.
func (r *RawRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var rec RawRecord
	for key, target := range rec.textFields() {
		if raw, ok := fields[key]; ok {
			if err := target.UnmarshalJSON(raw); err != nil {
				*target = ""
			}
		}
	}
	if raw, ok := fields["priceHistory"]; ok {
		var history *PriceHistory
		if err := json.Unmarshal(raw, &history); err == nil {
			rec.PriceHistory = history
		}
	}
	*r = rec
	return nil
}

func (r *RawRecord) textFields() map[string]*Text {
	return map[string]*Text{
		"Trang":              &r.Page,
		"Tên Dự Án":          &r.Name,
		"URL Dự Án":          &r.ProjectURL,
		"URL Tin Rao (1st)":  &r.ListingURL,
		"Cấp 1":              &r.Level1,
		"Cấp 2":              &r.Province,
		"Cấp 3":              &r.District,
		"Cấp 4":              &r.Ward,
		"Latitude":           &r.Latitude,
		"Longitude":          &r.Longitude,
		"Diện tích":          &r.Area,
		"Số căn":             &r.Units,
		"Số tòa":             &r.Towers,
		"Chủ đầu tư":         &r.Investor,
		"Attributes (Other)": &r.Attributes,
		"_tool_name":         &r.ToolName,
		"_tool_province":     &r.ToolProvince,
		"_tool_district":     &r.ToolDistrict,
	}
}

// PriceHistory is a parallel-array time series: one label per period and the
// average, minimum and maximum price for that period.
type PriceHistory struct {
	Labels []string  `json:"labels"`
	Avg    []float64 `json:"avg"`
	Min    []float64 `json:"min"`
	Max    []float64 `json:"max"`
}

// Empty reports whether the history carries no chart data.
func (h *PriceHistory) Empty() bool {
	return h == nil || len(h.Labels) == 0
}

// Project is the canonical record derived from a RawRecord. It is never
// modified after normalization.
type Project struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Province     string        `json:"province"`
	District     string        `json:"district"`
	Lat          float64       `json:"lat"`
	Lng          float64       `json:"lng"`
	Area         string        `json:"area,omitempty"`
	Investor     string        `json:"investor,omitempty"`
	PriceRange   string        `json:"priceRange"`
	URL          string        `json:"url,omitempty"`
	PriceHistory *PriceHistory `json:"priceHistory,omitempty"`

	// Raw is kept for the detail panel only.
	Raw *RawRecord `json:"-"`
}

// ProjectID returns the positional identifier for the index-th admitted record.
func ProjectID(index int) string {
	return "proj-" + strconv.Itoa(index)
}
