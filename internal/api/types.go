package api

// ImageDTO is one contributing image as exposed over the API.
type ImageDTO struct {
	Name    string `json:"name"`
	Base    uint64 `json:"base"`
	Records int    `json:"records"`
}

// RecordDTO is one content record as exposed over the API. Only the
// portable fields are served; accessor pointers never leave the process.
type RecordDTO struct {
	Image       string `json:"image"`
	Kind        uint32 `json:"kind"`
	Context     uint64 `json:"context"`
	HasAccessor bool   `json:"has_accessor"`
}
