package types

// Network is a social network known to the sharing registry
type Network struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"` // stable lowercase key
	Description   string `json:"description"`
	Count         int    `json:"count"` // manual seed count
	APISupport    bool   `json:"is_api_support"`
	Order         int    `json:"order"`
	FormattedName string `json:"formatted_name,omitempty"`
}

// CoreNetworkLabels maps the network keys the sharing widgets understand to
// their display labels.
var CoreNetworkLabels = map[string]string{
	"facebook":    "Facebook",
	"twitter":     "Twitter",
	"linkedin":    "LinkedIn",
	"pinterest":   "Pinterest",
	"reddit":      "Reddit",
	"tumblr":      "Tumblr",
	"vkontakte":   "VKontakte",
	"whatsapp":    "WhatsApp",
	"telegram":    "Telegram",
	"pocket":      "Pocket",
	"buffer":      "Buffer",
	"stumbleupon": "StumbleUpon",
}

// IsCoreNetwork reports whether name is a known network key
func IsCoreNetwork(name string) bool {
	_, ok := CoreNetworkLabels[name]
	return ok
}
