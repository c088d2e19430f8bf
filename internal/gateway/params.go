package gateway

// Mode values accepted by the extraction API.
const (
	ModeFast     = "fast"
	ModeStandard = "standard"
)

// Params are the request options forwarded with every query.
type Params struct {
	WaitFor                 int    `json:"wait_for"`
	IsScrollToBottomEnabled bool   `json:"is_scroll_to_bottom_enabled"`
	Mode                    string `json:"mode"`
	IsScreenshotEnabled     bool   `json:"is_screenshot_enabled"`
}

// DefaultParams mirrors the API defaults used when nothing is configured.
func DefaultParams() Params {
	return Params{
		WaitFor:                 3,
		IsScrollToBottomEnabled: true,
		Mode:                    ModeFast,
		IsScreenshotEnabled:     false,
	}
}
