package research

import "strings"

// Checked in order; the first match wins.
var (
	highQualityDomains = []string{
		".gov", ".edu",
		"nytimes.com", "bbc.com", "reuters.com", "theguardian.com",
		"nature.com", "sciencedirect.com", "washingtonpost.com", "forbes.com",
		"wsj.com", "theatlantic.com", "cnn.com", "npr.org", "harvard.edu",
	}
	mediumQualityDomains = []string{
		".org", "wikipedia.org", "medium.com", "forbes.com",
	}
)

// RateSourceQuality classifies a url by substring match against the domain
// lists. It never fails; empty urls are Low.
func RateSourceQuality(url string) Quality {
	u := strings.ToLower(url)
	if u == "" {
		return QualityLow
	}
	for _, domain := range highQualityDomains {
		if strings.Contains(u, domain) {
			return QualityHigh
		}
	}
	for _, domain := range mediumQualityDomains {
		if strings.Contains(u, domain) {
			return QualityMedium
		}
	}
	return QualityLow
}
