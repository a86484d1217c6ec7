package schedule

import "strings"

// LocationKind categorizes a session venue.
type LocationKind int

const (
	LocationUnknown LocationKind = iota
	LocationHQ
	LocationRemote
	LocationClientSite
)

// genericWhere is the fallback used when declared addresses and location
// entries disagree; a wrong venue on a convocation is worse than a vague one.
const genericWhere = "Le lieu exact vous sera communiqué ultérieurement."

// KindOfLocation maps a venue label to its category.
func KindOfLocation(label string) LocationKind {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "visio") || strings.Contains(l, "distanciel"):
		return LocationRemote
	case strings.Contains(l, "nos locaux") || strings.Contains(l, "siège"):
		return LocationHQ
	case strings.Contains(l, "site") || strings.Contains(l, "intra"):
		return LocationClientSite
	}
	return LocationUnknown
}

// OnClientPremises reports whether a venue category is billed as a flat
// on-site package rather than per trainee.
func OnClientPremises(kind LocationKind) bool {
	return kind == LocationClientSite
}

// FormatWhere builds the human-readable venue line of a convocation. Each
// location entry is paired with its declared address; when the counts
// disagree the defect is papered over with a generic line rather than a
// possibly wrong pairing. Multiple venues are joined into one sentence.
func FormatWhere(locations, addresses []string) string {
	if len(locations) == 0 {
		return genericWhere
	}
	if len(addresses) != len(locations) {
		return genericWhere
	}

	parts := make([]string, 0, len(locations))
	for i, loc := range locations {
		if KindOfLocation(loc) == LocationRemote {
			parts = append(parts, loc)
			continue
		}
		addr := strings.TrimSpace(addresses[i])
		if addr == "" {
			return genericWhere
		}
		parts = append(parts, loc+", "+addr)
	}
	return strings.Join(parts, " ou ")
}
