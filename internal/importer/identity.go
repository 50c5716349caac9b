package importer

import (
	types "github.com/nomadicTree/frayerstore/internal/domain/catalog"
)

type Decision string

const (
	DecisionCreate Decision = "CREATE"
	DecisionSkip   Decision = "SKIP"
	DecisionError  Decision = "ERROR"
)

const (
	msgSlugMatchNameDiffers = "Identity conflict: slug matches but name differs"
	msgNameMatchSlugDiffers = "Identity conflict: name matches but slug differs"
	msgSplitRecords         = "Identity conflict: slug and name resolve to different existing records"
	msgStoredKeyTaken       = "Identity conflict: another record already holds one of its unique keys"
)

// Resolution is the outcome of comparing an incoming natural key against
// the rows found by slug and by name. Existing is set only for SKIP, Message
// only for ERROR.
type Resolution[E any] struct {
	Decision Decision
	Incoming types.NaturalKey
	Existing E
	Message  string
}

// Entity is a pointer to a stored catalog value.
type Entity[T any] interface {
	*T
	types.Record
}

// ResolveIdentity decides what to do with incoming given what its slug and
// its name each matched (nil when nothing did). It has no side effects.
func ResolveIdentity[T any, E Entity[T]](incoming types.Keyed, bySlug, byName E) Resolution[E] {
	in := incoming.NaturalKey()
	res := Resolution[E]{Incoming: in}

	switch {
	case bySlug == nil && byName == nil:
		res.Decision = DecisionCreate

	case bySlug != nil && byName != nil:
		if types.Same(bySlug, byName) {
			res.Decision = DecisionSkip
			res.Existing = bySlug
		} else {
			res.Decision = DecisionError
			res.Message = msgSplitRecords
		}

	case bySlug != nil:
		if bySlug.NaturalKey().Name == in.Name {
			res.Decision = DecisionSkip
			res.Existing = bySlug
		} else {
			res.Decision = DecisionError
			res.Message = msgSlugMatchNameDiffers
		}

	default:
		if byName.NaturalKey().Slug == in.Slug {
			res.Decision = DecisionSkip
			res.Existing = byName
		} else {
			res.Decision = DecisionError
			res.Message = msgNameMatchSlugDiffers
		}
	}
	return res
}

// HandleResolution records res in stage. ERROR returns an *ImportError of
// the given kind, SKIP returns the existing entity and CREATE returns nil so
// the caller goes on to create.
func HandleResolution[T any, E Entity[T]](res Resolution[E], kind types.Kind, stage *StageReport[E]) (E, error) {
	switch res.Decision {
	case DecisionError:
		stage.Errors = append(stage.Errors, res.Message)
		return nil, &ImportError{Kind: kind, Name: res.Incoming.Name, Slug: res.Incoming.Slug, Message: res.Message}
	case DecisionSkip:
		stage.Skipped = append(stage.Skipped, res.Existing)
		return res.Existing, nil
	default:
		return nil, nil
	}
}
