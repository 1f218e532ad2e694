package importer

import (
	"strings"

	"golang.org/x/net/html"
)

// ImageSources returns the src attribute of every <img> element in fragment,
// in document order.
func ImageSources(fragment string) []string {
	var srcs []string
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return srcs
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "img" || !hasAttr {
				continue
			}
			for {
				key, val, more := z.TagAttr()
				if string(key) == "src" {
					if v := strings.TrimSpace(string(val)); v != "" {
						srcs = append(srcs, v)
					}
				}
				if !more {
					break
				}
			}
		}
	}
}
