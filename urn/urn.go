// Package urn parses and renders SDMX artefact URNs of the form
//
//	urn:sdmx:org.sdmx.infomodel.<package>.<Class>=<agency>:<id>(<version>)[.<itemID>]
//
// covering both maintainable artefacts and their items.
package urn

import (
	"fmt"
	"regexp"

	"github.com/sdmxkit/sdmxml/model"
)

const prefix = "urn:sdmx:org.sdmx.infomodel."

var pattern = regexp.MustCompile(
	`^urn:sdmx:org\.sdmx\.infomodel` +
		`\.(?P<package>[^.]+)` +
		`\.(?P<class>[^=]+)` +
		`=(?P<agency>[^:]+)` +
		`:(?P<id>[^()]+)` +
		`\((?P<version>[^)]+)\)` +
		`(?:\.(?P<item>.+))?$`)

// URN is a parsed artefact URN. ItemID is empty for maintainable URNs.
type URN struct {
	Package string
	Class   string
	Agency  string
	ID      string
	Version string
	ItemID  string
}

// Parse splits an SDMX URN into its fields.
func Parse(s string) (URN, error) {
	m := pattern.FindStringSubmatch(s)
	if m == nil {
		return URN{}, fmt.Errorf("urn: malformed %q", s)
	}
	return URN{
		Package: m[1],
		Class:   m[2],
		Agency:  m[3],
		ID:      m[4],
		Version: m[5],
		ItemID:  m[6],
	}, nil
}

// String renders the URN.
func (u URN) String() string {
	s := prefix + u.Package + "." + u.Class + "=" + u.Agency + ":" + u.ID + "(" + u.Version + ")"
	if u.ItemID != "" {
		s += "." + u.ItemID
	}
	return s
}

// Make renders the canonical URN for a maintainable artefact. Missing
// version defaults to "1.0"; a missing agency is rendered as "".
func Make(m model.Maintainable) string {
	cls := m.Class()
	version := m.Maint().Version
	if version == "" {
		version = "1.0"
	}
	u := URN{
		Package: model.PackageOf(cls),
		Class:   cls.String(),
		Agency:  m.Maint().MaintainerID(),
		ID:      m.Ident().ID,
		Version: version,
	}
	return u.String()
}

// MakeItem renders the URN of an item within its scheme, using the item's
// hierarchical id.
func MakeItem(s *model.ItemScheme, it *model.Item) string {
	version := s.Version
	if version == "" {
		version = "1.0"
	}
	u := URN{
		Package: model.PackageOf(s.Class()),
		Class:   it.Class().String(),
		Agency:  s.MaintainerID(),
		ID:      s.ID,
		Version: version,
		ItemID:  it.HierarchicalID(),
	}
	return u.String()
}
