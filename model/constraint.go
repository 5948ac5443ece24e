package model

// Period is one bound of a time range.
type Period struct {
	Value       string
	IsInclusive bool
}

// RangePeriod restricts a time dimension to an interval. Either bound may
// be absent (open interval).
type RangePeriod struct {
	Start *Period
	End   *Period
}

// MemberValue is one selected value of a member selection. Cascade extends
// the selection to the value's codelist descendants.
type MemberValue struct {
	Value   string
	Cascade bool
}

// MemberSelection restricts one component to a set of values.
type MemberSelection struct {
	Included   bool
	ValuesFor  *Component
	Values     []*MemberValue
	TimeRanges []*RangePeriod
}

// Match reports whether a coordinate value satisfies the selection. When
// Included is false the selection excludes the listed values instead.
func (ms *MemberSelection) Match(value string) bool {
	in := false
	for _, mv := range ms.Values {
		if mv.Value == value {
			in = true
			break
		}
		if mv.Cascade && ms.cascades(mv.Value, value) {
			in = true
			break
		}
	}
	if ms.Included {
		return in
	}
	return !in
}

// cascades reports whether candidate is a descendant of root in the
// component's enumerated codelist.
func (ms *MemberSelection) cascades(root, candidate string) bool {
	if ms.ValuesFor == nil || ms.ValuesFor.LocalRepresentation == nil {
		return false
	}
	cl := ms.ValuesFor.LocalRepresentation.Enumerated
	if cl == nil {
		return false
	}
	it, ok := cl.Get(candidate)
	if !ok {
		return false
	}
	for p := it.Parent; p != nil; p = p.Parent {
		if p.ID == root {
			return true
		}
	}
	return false
}

// CubeRegion is a conjunction of member selections over the dimension
// space. Included false negates the whole region.
type CubeRegion struct {
	Included bool
	Member   []*MemberSelection
}

// ContainsKey reports whether a key falls inside the region. Only
// dimensions present in both the key and the region constrain the result;
// a selection for a dimension the key lacks is vacuously satisfied.
func (cr *CubeRegion) ContainsKey(k *Key) bool {
	within := true
	for _, ms := range cr.Member {
		if ms.ValuesFor == nil {
			continue
		}
		kv, ok := k.Get(ms.ValuesFor.ID)
		if !ok {
			continue
		}
		if !ms.Match(kv.Value) {
			within = false
			break
		}
	}
	if cr.Included {
		return within
	}
	return !within
}

// DataKey is one complete key listed by a DataKeySet.
type DataKey struct {
	Included bool
	KeyValue map[*Component]string
}

// Matches reports whether the data key describes k exactly on every listed
// component.
func (dk *DataKey) Matches(k *Key) bool {
	for comp, want := range dk.KeyValue {
		if comp == nil {
			continue
		}
		kv, ok := k.Get(comp.ID)
		if !ok || kv.Value != want {
			return false
		}
	}
	return true
}

// DataKeySet enumerates explicit keys. Included false turns the set into
// an exclusion list.
type DataKeySet struct {
	Included bool
	Keys     []*DataKey
}

// ContainsKey reports whether k is admitted by the set: a listed key
// answers with the conjunction of the set's and the key's Included flags,
// an unlisted key is admitted exactly when the set is an exclusion list.
func (dks *DataKeySet) ContainsKey(k *Key) bool {
	for _, dk := range dks.Keys {
		if dk.Matches(k) {
			return dks.Included && dk.Included
		}
	}
	return !dks.Included
}

// ConstraintRole states what a constraint asserts about its content.
type ConstraintRole int

const (
	// RoleAllowable constrains what keys may validly occur.
	RoleAllowable ConstraintRole = iota
	// RoleActual describes what keys actually occur.
	RoleActual
)

func (r ConstraintRole) String() string {
	if r == RoleActual {
		return "Actual"
	}
	return "Allowable"
}

// ConstraintRoleFor maps the wire type attribute to a role.
func ConstraintRoleFor(s string) ConstraintRole {
	if s == "Actual" {
		return RoleActual
	}
	return RoleAllowable
}

// ContentConstraint restricts the key space of the artefacts it attaches
// to, by explicit key sets or by cube regions.
type ContentConstraint struct {
	MaintainableArtefact
	Role ConstraintRole

	// Content lists the artefacts the constraint attaches to.
	Content []Maintainable

	DataContentKeys   []*DataKeySet
	DataContentRegion []*CubeRegion
}

// Class implements Identifiable.
func (c *ContentConstraint) Class() Class { return ClassContentConstraint }

// ContainsKey reports whether a key satisfies the constraint. Key sets
// take precedence: when any are present the regions are not consulted.
// With neither, every key satisfies the constraint.
func (c *ContentConstraint) ContainsKey(k *Key) bool {
	if len(c.DataContentKeys) > 0 {
		for _, dks := range c.DataContentKeys {
			if !dks.ContainsKey(k) {
				return false
			}
		}
		return true
	}
	for _, cr := range c.DataContentRegion {
		if !cr.ContainsKey(k) {
			return false
		}
	}
	return true
}
