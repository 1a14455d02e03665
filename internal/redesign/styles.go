package redesign

import (
	"strings"

	derrors "roomalchemy/pkg/domain-errors"
)

// stylePresets maps normalized style keys to the display names sent to the
// transform provider.
var stylePresets = map[string]string{
	"minimalist":        "Minimalist",
	"japandi":           "Japandi",
	"cozy_scandinavian": "Cozy Scandinavian",
	"luxury_modern":     "Luxury Modern",
	"cyberpunk_neon":    "Cyberpunk Neon",
	"warm_boho":         "Warm Boho",
}

// styleOrder keeps the public listing stable.
var styleOrder = []string{
	"minimalist",
	"japandi",
	"cozy_scandinavian",
	"luxury_modern",
	"cyberpunk_neon",
	"warm_boho",
}

// ResolveStyle normalizes the caller-supplied style and maps it to its preset
// name. Lookup is case- and whitespace-insensitive.
func ResolveStyle(input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", derrors.New(derrors.CodeInvalidStyle, "Style is required.")
	}
	key := strings.Join(strings.Fields(strings.ToLower(input)), "_")
	resolved, ok := stylePresets[key]
	if !ok {
		return "", derrors.New(derrors.CodeInvalidStyle, "Unsupported style selected.")
	}
	return resolved, nil
}

// AvailableStyles lists the supported preset names in a stable order.
func AvailableStyles() []string {
	styles := make([]string, 0, len(styleOrder))
	for _, key := range styleOrder {
		styles = append(styles, stylePresets[key])
	}
	return styles
}
