// Package model defines the SDMX information-model entity graph produced by
// decoding and consumed by encoding: maintainable artefacts (item schemes,
// data structure definitions, dataflows, constraints), their capability
// layers, and the data-set types (keys, observations).
//
// The capability layers compose by struct embedding:
//
//	AnnotableArtefact → IdentifiableArtefact → NameableArtefact →
//	VersionableArtefact → MaintainableArtefact
//
// Entities are mutable while a decode is in progress (external-reference
// placeholders are promoted in place) and must be treated as immutable once
// the decode returns.
package model

// Annotation is a non-identifying note attached to any artefact.
type Annotation struct {
	ID    string
	Title string
	Type  string
	URL   string
	Text  InternationalString
}

// AnnotableArtefact carries an ordered list of annotations. There is no
// uniqueness constraint on annotations.
type AnnotableArtefact struct {
	Annotations []*Annotation
}

// IdentifiableArtefact adds a stable id and optional urn/uri.
type IdentifiableArtefact struct {
	AnnotableArtefact
	ID  string
	URN string
	URI string
}

// Ident returns the identifiable layer. It satisfies Identifiable for any
// embedding type.
func (a *IdentifiableArtefact) Ident() *IdentifiableArtefact { return a }

// NameableArtefact adds a localized name and description.
type NameableArtefact struct {
	IdentifiableArtefact
	Name        InternationalString
	Description InternationalString
}

// Named returns the nameable layer.
func (n *NameableArtefact) Named() *NameableArtefact { return n }

// VersionableArtefact adds a version string.
type VersionableArtefact struct {
	NameableArtefact
	Version string
}

// MaintainableArtefact adds the maintaining agency and publication flags.
// Identity for resolution purposes is the (maintainer id, id, version)
// tuple; see IdentityKey.
type MaintainableArtefact struct {
	VersionableArtefact
	Maintainer          *Item // an Agency item
	IsFinal             bool
	IsExternalReference bool
	ValidFrom           string
	ValidTo             string
}

// Maint returns the maintainable layer.
func (m *MaintainableArtefact) Maint() *MaintainableArtefact { return m }

// MaintainerID returns the maintaining agency id, or "" when unset.
func (m *MaintainableArtefact) MaintainerID() string {
	if m.Maintainer == nil {
		return ""
	}
	return m.Maintainer.ID
}

// IdentityKey is the resolution identity of a Maintainable. Two
// maintainables with equal keys must converge to one instance within a
// decoded graph.
type IdentityKey struct {
	Agency  string
	ID      string
	Version string
}

// Identity returns the (maintainer, id, version) tuple.
func (m *MaintainableArtefact) Identity() IdentityKey {
	return IdentityKey{Agency: m.MaintainerID(), ID: m.ID, Version: m.Version}
}

// Identifiable is implemented by every artefact with an id.
type Identifiable interface {
	Class() Class
	Ident() *IdentifiableArtefact
}

// Nameable is implemented by every artefact with a localized name.
type Nameable interface {
	Identifiable
	Named() *NameableArtefact
}

// Maintainable is implemented by every agency-maintained, versioned
// artefact.
type Maintainable interface {
	Nameable
	Maint() *MaintainableArtefact
}

// NewMaintainable constructs an empty artefact of a maintainable class.
// It returns nil for classes that are not maintainable.
func NewMaintainable(cls Class) Maintainable {
	switch {
	case cls.IsItemScheme():
		return NewItemScheme(cls)
	case cls == ClassDataStructureDefinition:
		return NewDataStructureDefinition()
	case cls == ClassDataflow:
		return &Dataflow{}
	case cls == ClassContentConstraint:
		return &ContentConstraint{}
	case cls == ClassProvisionAgreement:
		return &ProvisionAgreement{}
	case cls == ClassCategorisation:
		return &Categorisation{}
	}
	return nil
}
