package settings

// Settings sections. Each section is one JSON blob in the settings table.
const (
	SectionGeneral      = "general"
	SectionSEO          = "seo"
	SectionAppearance   = "appearance"
	SectionIntegrations = "integrations"
)

// Sections lists every known section, in dashboard order.
var Sections = []string{SectionGeneral, SectionSEO, SectionAppearance, SectionIntegrations}

// defaults holds the baseline for every section. Stored values are merged
// over these, so a fresh install serves a fully-populated settings object.
func defaults() map[string]map[string]interface{} {
	return map[string]map[string]interface{}{
		SectionGeneral: {
			"site_name":     "LibriBooks",
			"site_url":      "https://libribooks.com",
			"tagline":       "Book reviews worth reading",
			"contact_email": "",
			"logo_url":      "",
			"favicon_url":   "",
		},
		SectionSEO: {
			"meta_title":       "LibriBooks — Book Reviews",
			"meta_description": "In-depth book reviews, author profiles and reading guides.",
			"meta_keywords":    []interface{}{},
			"robots_index":     true,
			"og_image_url":     "",
		},
		SectionAppearance: {
			"theme":            "light",
			"accent_color":     "#1f6feb",
			"books_per_page":   20,
			"show_breadcrumbs": true,
		},
		SectionIntegrations: {
			"analytics_id": "",
			"mail": map[string]interface{}{
				"enable": false,
				"host":   "",
				"port":   587,
				"user":   "",
				"pass":   "",
				"from":   "",
			},
			"notify_email": "",
		},
	}
}

// deepMerge overlays src onto dst recursively. Nested maps merge key by
// key; everything else in src replaces dst.
func deepMerge(dst, src map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		sv, srcIsMap := v.(map[string]interface{})
		dv, dstIsMap := out[k].(map[string]interface{})
		if srcIsMap && dstIsMap {
			out[k] = deepMerge(dv, sv)
			continue
		}
		out[k] = v
	}
	return out
}
