package metadata

import "strings"

// shortIdentifiers maps long-form framework identifiers (lowercased) to
// their short prefixes.
var shortIdentifiers = map[string]string{
	".netframework":      "net",
	".netstandard":       "netstandard",
	".netcoreapp":        "netcoreapp",
	".netcore":           "netcore",
	".netportable":       "portable",
	".netmicroframework": "netmf",
	"silverlight":        "sl",
	"windowsphone":       "wp",
	"windowsphoneapp":    "wpa",
	"windows":            "win",
	"monoandroid":        "monoandroid",
	"monotouch":          "monotouch",
	"xamarin.ios":        "xamarinios",
	"native":             "native",
}

// ShortFrameworkName converts a target descriptor into its short name.
// Long-form descriptors look like ".NETFramework,Version=v4.5" or
// ".NETPortable,Version=v4.5,Profile=net45+win8"; anything without a
// comma is assumed to already be a short name and is lowercased. An
// unrepresentable descriptor returns "".
func ShortFrameworkName(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, ",") {
		return strings.ToLower(raw)
	}

	var identifier, version, profile string
	for i, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if i == 0 {
			identifier = part
			continue
		}
		key, value, found := strings.Cut(part, "=")
		if !found {
			return ""
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "version":
			version = strings.TrimSpace(value)
		case "profile":
			profile = strings.TrimSpace(value)
		}
	}

	short, ok := shortIdentifiers[strings.ToLower(identifier)]
	if !ok {
		return ""
	}

	if short == "portable" {
		if profile == "" {
			return ""
		}
		return "portable-" + strings.ToLower(profile)
	}

	version = strings.TrimPrefix(strings.ToLower(version), "v")
	version = strings.ReplaceAll(version, ".", "")
	if version == "0" {
		version = ""
	}
	name := short + version
	if profile != "" {
		name += "-" + strings.ToLower(profile)
	}
	return name
}
