// SPDX-License-Identifier: MIT

package registry

import (
	"reflect"
	"sort"
	"strings"
)

// Render returns the result of List as text, one section per sub-namespace
// holding at least one type:
//
//	Hardware of package qkdhal/pkg/hal
//
//	adc
//	---
//	* FakeADC
//	* LoadingADC
//
// Sections are sorted by sub-namespace name; types keep registration order.
func Render(namespace string, contract reflect.Type) string {
	return renderListing(namespace, List(namespace, contract))
}

func renderListing(namespace string, listing map[string][]string) string {
	var b strings.Builder
	b.WriteString("Hardware of package " + namespace + "\n\n")

	subs := make([]string, 0, len(listing))
	for sub := range listing {
		subs = append(subs, sub)
	}
	sort.Strings(subs)

	for _, sub := range subs {
		names := listing[sub]
		if len(names) == 0 {
			continue
		}
		b.WriteString(sub + "\n")
		b.WriteString(strings.Repeat("-", len(sub)) + "\n")
		for _, name := range names {
			b.WriteString("* " + name + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}
