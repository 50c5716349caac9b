package importer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	types "github.com/nomadicTree/frayerstore/internal/domain/catalog"
	"github.com/nomadicTree/frayerstore/internal/pkg/slug"
)

// Incoming records built from YAML nodes. Each carries the resolved keys of
// its parents and a slug derived from its trimmed name.

type ImportSubject struct {
	Name string
	Slug string
}

type ImportLevel struct {
	SubjectPK types.PK
	Name      string
	Slug      string
}

type ImportCourse struct {
	SubjectPK types.PK
	LevelPK   types.PK
	Name      string
	Slug      string
}

type ImportTopic struct {
	CoursePK types.PK
	Code     string
	Name     string
	Slug     string
}

func (s ImportSubject) NaturalKey() types.NaturalKey { return types.NaturalKey{Name: s.Name, Slug: s.Slug} }
func (l ImportLevel) NaturalKey() types.NaturalKey   { return types.NaturalKey{Name: l.Name, Slug: l.Slug} }
func (c ImportCourse) NaturalKey() types.NaturalKey  { return types.NaturalKey{Name: c.Name, Slug: c.Slug} }
func (t ImportTopic) NaturalKey() types.NaturalKey   { return types.NaturalKey{Name: t.Name, Slug: t.Slug} }

type namedNode struct {
	Name string `yaml:"name" validate:"required"`
}

type topicNode struct {
	Code string `yaml:"code" validate:"required"`
	Name string `yaml:"name" validate:"required"`
}

var validate = newValidator()

// newValidator reports struct fields by their yaml key.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func ParseSubject(node *yaml.Node) (ImportSubject, error) {
	var raw namedNode
	if err := decodeNode(node, types.KindSubject, &raw); err != nil {
		return ImportSubject{}, err
	}
	s, err := slugFor(node, types.KindSubject, raw.Name)
	if err != nil {
		return ImportSubject{}, err
	}
	return ImportSubject{Name: raw.Name, Slug: s}, nil
}

func ParseLevel(node *yaml.Node, subjectPK types.PK) (ImportLevel, error) {
	var raw namedNode
	if err := decodeNode(node, types.KindLevel, &raw); err != nil {
		return ImportLevel{}, err
	}
	s, err := slugFor(node, types.KindLevel, raw.Name)
	if err != nil {
		return ImportLevel{}, err
	}
	return ImportLevel{SubjectPK: subjectPK, Name: raw.Name, Slug: s}, nil
}

func ParseCourse(node *yaml.Node, subjectPK, levelPK types.PK) (ImportCourse, error) {
	var raw namedNode
	if err := decodeNode(node, types.KindCourse, &raw); err != nil {
		return ImportCourse{}, err
	}
	s, err := slugFor(node, types.KindCourse, raw.Name)
	if err != nil {
		return ImportCourse{}, err
	}
	return ImportCourse{SubjectPK: subjectPK, LevelPK: levelPK, Name: raw.Name, Slug: s}, nil
}

func ParseTopic(node *yaml.Node, coursePK types.PK) (ImportTopic, error) {
	var raw topicNode
	if err := decodeNode(node, types.KindTopic, &raw); err != nil {
		return ImportTopic{}, err
	}
	s, err := slugFor(node, types.KindTopic, raw.Name)
	if err != nil {
		return ImportTopic{}, err
	}
	return ImportTopic{CoursePK: coursePK, Code: raw.Code, Name: raw.Name, Slug: s}, nil
}

// decodeNode checks node is a mapping, decodes its scalar fields into dst,
// trims every string field and validates the result.
func decodeNode(node *yaml.Node, kind types.Kind, dst interface{}) error {
	node = resolveAlias(node)
	if node == nil {
		return &StructureError{Kind: kind, Msg: "node is empty"}
	}
	if node.Kind != yaml.MappingNode {
		return &StructureError{Kind: kind, Line: node.Line, Msg: fmt.Sprintf("must be a mapping, got %s", nodeKindName(node))}
	}
	if k, v := lookup(node, "name"); k != nil {
		if v = resolveAlias(v); v != nil && v.Kind == yaml.ScalarNode && v.Tag != "!!str" && v.Tag != "!!null" {
			return &StructureError{Kind: kind, Field: "name", Line: k.Line, Msg: fmt.Sprintf("must be text, got %s", v.Tag)}
		}
	}
	if err := node.Decode(dst); err != nil {
		return &StructureError{Kind: kind, Line: node.Line, Msg: err.Error()}
	}
	trimStrings(dst)

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := verrs[0].Field()
			line := node.Line
			if key, _ := lookup(node, field); key != nil {
				line = key.Line
			}
			return &StructureError{Kind: kind, Field: field, Line: line, Msg: "is required and must not be blank"}
		}
		return &StructureError{Kind: kind, Line: node.Line, Msg: err.Error()}
	}
	return nil
}

func trimStrings(dst interface{}) {
	v := reflect.ValueOf(dst).Elem()
	for i := 0; i < v.NumField(); i++ {
		if f := v.Field(i); f.Kind() == reflect.String && f.CanSet() {
			f.SetString(strings.TrimSpace(f.String()))
		}
	}
}

// slugFor derives the slug of a parsed name. Stored slugs are never empty, so
// a name with no ASCII letters or digits is rejected here.
func slugFor(node *yaml.Node, kind types.Kind, name string) (string, error) {
	s, err := slug.Slugify(name)
	if err == nil && s == "" {
		err = errors.New("no ASCII letters or digits")
	}
	if err != nil {
		line := node.Line
		if key, _ := lookup(node, "name"); key != nil {
			line = key.Line
		}
		return "", &StructureError{Kind: kind, Field: "name", Line: line, Msg: fmt.Sprintf("cannot be turned into a slug: %v", err)}
	}
	return s, nil
}

// children returns the items under key. Only an absent key yields no items;
// anything but a sequence, null included, is a structure error.
func children(node *yaml.Node, key string, kind types.Kind) ([]*yaml.Node, error) {
	k, v := lookup(resolveAlias(node), key)
	if k == nil {
		return nil, nil
	}
	if v = resolveAlias(v); v != nil && v.Kind == yaml.SequenceNode {
		return v.Content, nil
	}
	got := "nothing"
	if v != nil {
		got = nodeKindName(v)
	}
	return nil, &StructureError{Kind: kind, Field: key, Line: k.Line, Msg: fmt.Sprintf("must be a list, got %s", got)}
}

// lookup finds key in a mapping node and returns the key and value nodes.
func lookup(node *yaml.Node, key string) (*yaml.Node, *yaml.Node) {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil, nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i], node.Content[i+1]
		}
	}
	return nil, nil
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	return node
}

func nodeKindName(node *yaml.Node) string {
	switch node.Kind {
	case yaml.MappingNode:
		return "a mapping"
	case yaml.SequenceNode:
		return "a list"
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return "null"
		}
		return "a scalar"
	case yaml.DocumentNode:
		return "a document"
	default:
		return "an unknown node"
	}
}
