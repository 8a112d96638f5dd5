package sanitizer

import "slices"

// NormalizeFeatures cleans catalog feature bullets. Blank and repeated entries are dropped;
// the first occurrence keeps its position.
func NormalizeFeatures(features []string) []string {
	return normalizeUnique(features, TrimAndNormalize)
}

func normalizeUnique(items []string, normalize func(string) string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if v := normalize(item); v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
