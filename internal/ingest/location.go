package ingest

import "strings"

// NormalizeLocation drops a leading "Location:" label and repeated
// comma-separated parts: "Pune, pune, India" becomes "Pune, India".
func NormalizeLocation(loc string) string {
	loc = CleanText(loc)
	if i := strings.Index(loc, ":"); i >= 0 {
		switch strings.ToLower(strings.TrimSpace(loc[:i])) {
		case "location", "locations", "job location":
			loc = strings.TrimSpace(loc[i+1:])
		}
	}

	seen := map[string]bool{}
	var out []string
	for _, p := range strings.Split(loc, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		k := fold(p)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return strings.Join(out, ", ")
}

var remoteMarkers = []string{"remote", "work from home", "wfh", "anywhere"}

// mentionsRemote reports whether a location string advertises remote work.
func mentionsRemote(loc string) bool {
	l := fold(loc)
	for _, m := range remoteMarkers {
		if strings.Contains(l, m) {
			return true
		}
	}
	return false
}
