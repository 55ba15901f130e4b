package qrcode

// ResolutionStep is the granularity offered by resolution pickers.
const ResolutionStep = 100

// Options lists the values a client may choose from.
type Options struct {
	ContentTypes      []ContentType      `json:"content_types"`
	WiFiSecurity      []WiFiSecurity     `json:"wifi_security"`
	DotTypes          []DotType          `json:"dot_types"`
	CornerSquareTypes []CornerSquareType `json:"corner_square_types"`
	CornerDotTypes    []CornerDotType    `json:"corner_dot_types"`
	ErrorCorrection   []ErrorCorrection  `json:"error_correction"`
	Formats           []Format           `json:"formats"`
	MinResolution     int                `json:"min_resolution"`
	MaxResolution     int                `json:"max_resolution"`
	DefaultResolution int                `json:"default_resolution"`
	ResolutionStep    int                `json:"resolution_step"`
	PreviewSize       int                `json:"preview_size"`
	Style             Style              `json:"-"`
}
