package model

// JobFilters narrows a posting search. Empty string fields and a nil Remote
// are unset and match every row on that field.
type JobFilters struct {
	Title    string `json:"title,omitempty"`
	Company  string `json:"company,omitempty"`
	Location string `json:"location,omitempty"`
	Remote   *bool  `json:"remote,omitempty"`
}

func (f JobFilters) Empty() bool {
	return f.Title == "" && f.Company == "" && f.Location == "" && f.Remote == nil
}
