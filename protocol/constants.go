package protocol

// LatestVersion is the newest MCP protocol revision this server speaks.
const LatestVersion = "2025-06-18"

// SupportedVersions lists the protocol revisions accepted during initialize,
// newest first.
var SupportedVersions = []string{
	"2025-06-18",
	"2025-03-26",
	"2024-11-05",
}

// NegotiateVersion picks the protocol version to answer an initialize
// request with. A supported requested version is echoed back; anything else
// gets the latest version.
func NegotiateVersion(requested string) string {
	for _, v := range SupportedVersions {
		if v == requested {
			return v
		}
	}
	return LatestVersion
}

// MCP method names.
const (
	MethodInitialize  = "initialize"
	MethodInitialized = "notifications/initialized"
	MethodToolsList   = "tools/list"
	MethodToolsCall   = "tools/call"
	MethodPing        = "ping"
)
