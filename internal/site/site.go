// Package site holds the static branding of the application.
package site

// Links are the public social profiles.
type Links struct {
	Twitter  string `json:"twitter"`
	GitHub   string `json:"github"`
	LinkedIn string `json:"linkedin"`
}

// Config is the site metadata.
type Config struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Links       Links  `json:"links"`
}

// Default is the metadata of the EMMA AI site.
var Default = Config{
	Name:        "EMMA AI",
	URL:         "https://suna.so/",
	Description: "EMMA AI - Your Intelligent Marketing Assistant",
	Links: Links{
		Twitter:  "https://x.com/kortixai",
		GitHub:   "https://github.com/kortix-ai/",
		LinkedIn: "https://www.linkedin.com/company/kortix/",
	},
}
