// Package catalog holds the academic taxonomy: subjects, levels, courses,
// topics and the Frayer-model words attached to topics.
package catalog

import "fmt"

type Kind string

const (
	KindSubject Kind = "subject"
	KindLevel   Kind = "level"
	KindCourse  Kind = "course"
	KindTopic   Kind = "topic"
	KindWord    Kind = "word"
)

// PK is a storage key. Zero means the value has not been persisted.
type PK int64

// Identity tags a key with the concrete kind it belongs to.
type Identity struct {
	Kind Kind
	PK   PK
}

func (i Identity) Persisted() bool { return i.PK > 0 }

// Equal is true only for two persisted identities of the same kind and key.
func (i Identity) Equal(o Identity) bool {
	return i.Persisted() && o.Persisted() && i.Kind == o.Kind && i.PK == o.PK
}

func (i Identity) String() string {
	if !i.Persisted() {
		return fmt.Sprintf("%s(unsaved)", i.Kind)
	}
	return fmt.Sprintf("%s#%d", i.Kind, i.PK)
}

// NaturalKey is the (name, slug) pair that recognises the same record across
// imports.
type NaturalKey struct {
	Name string
	Slug string
}

// Keyed is anything carrying a natural key, persisted or not.
type Keyed interface {
	NaturalKey() NaturalKey
}

// Record is a persisted (or persistable) entity.
type Record interface {
	Keyed
	Identity() Identity
}

// Same reports whether a and b denote the same entity. Persisted records
// compare by kind and key; anything unsaved only matches itself.
func Same(a, b Record) bool {
	if a == nil || b == nil {
		return false
	}
	ia, ib := a.Identity(), b.Identity()
	if ia.Persisted() && ib.Persisted() {
		return ia.Equal(ib)
	}
	return a == b
}
