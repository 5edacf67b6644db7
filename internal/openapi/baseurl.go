package openapi

import "strings"

// DefaultBaseURL is used when neither an override nor the document names an origin.
const DefaultBaseURL = "http://localhost:8080"

// ResolveBaseURL returns the origin every operation of spec is sent to.
// Resolution order: override, first 3.x server, Swagger 2 host, DefaultBaseURL.
// The override is returned as given; document-derived URLs lose a trailing slash.
func ResolveBaseURL(spec *Spec, override string) string {
	if override != "" {
		return override
	}
	if spec == nil {
		return DefaultBaseURL
	}

	if len(spec.Servers) > 0 && spec.Servers[0].URL != "" {
		server := spec.Servers[0]
		url := server.URL
		for name, v := range server.Variables {
			url = strings.ReplaceAll(url, "{"+name+"}", v.Default)
		}
		return strings.TrimSuffix(url, "/")
	}

	if spec.Host != "" {
		scheme := "https"
		if len(spec.Schemes) > 0 && spec.Schemes[0] != "" {
			scheme = spec.Schemes[0]
		}
		return strings.TrimSuffix(scheme+"://"+spec.Host+spec.BasePath, "/")
	}

	return DefaultBaseURL
}
