// Package inventory provides item definitions, equipment slots, and the
// placement rules that keep every item instance in exactly one location.
package inventory

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/gusheet/internal/game/dice"
)

// PropertyKind identifies a weapon property.
type PropertyKind string

const (
	PropAmmunition PropertyKind = "ammunition"
	PropFinesse    PropertyKind = "finesse"
	PropHeavy      PropertyKind = "heavy"
	PropLight      PropertyKind = "light"
	PropLoading    PropertyKind = "loading"
	PropReach      PropertyKind = "reach"
	PropSpecial    PropertyKind = "special"
	PropThrown     PropertyKind = "thrown"
	PropTwoHanded  PropertyKind = "twoHanded"
	PropVersatile  PropertyKind = "versatile"
)

type propertyShape int

const (
	shapeFlag propertyShape = iota
	shapeRange
	shapeDice
)

// propertyOrder is the canonical rendering order of weapon properties.
var propertyOrder = []PropertyKind{
	PropAmmunition,
	PropFinesse,
	PropHeavy,
	PropLight,
	PropLoading,
	PropReach,
	PropSpecial,
	PropThrown,
	PropTwoHanded,
	PropVersatile,
}

var propertyShapes = map[PropertyKind]propertyShape{
	PropAmmunition: shapeRange,
	PropFinesse:    shapeFlag,
	PropHeavy:      shapeFlag,
	PropLight:      shapeFlag,
	PropLoading:    shapeFlag,
	PropReach:      shapeFlag,
	PropSpecial:    shapeFlag,
	PropThrown:     shapeRange,
	PropTwoHanded:  shapeFlag,
	PropVersatile:  shapeDice,
}

var propertyNames = map[PropertyKind]string{
	PropAmmunition: "Боеприпасы",
	PropFinesse:    "Фехтовальное",
	PropHeavy:      "Тяжелое",
	PropLight:      "Легкое",
	PropLoading:    "Перезарядка",
	PropReach:      "Досягаемость",
	PropSpecial:    "Особое",
	PropThrown:     "Метательное",
	PropTwoHanded:  "Двуручное",
	PropVersatile:  "Универсальное",
}

// PropertyName returns the display name of a property kind.
func PropertyName(k PropertyKind) string {
	if n, ok := propertyNames[k]; ok {
		return n
	}
	return string(k)
}

// WeaponProperty is one weapon property. The concrete type is one of Flag,
// Range, or Versatile.
type WeaponProperty interface {
	Kind() PropertyKind
	weaponProperty()
}

// Flag is a property with no payload, e.g. finesse or twoHanded.
type Flag struct {
	Of PropertyKind
}

// Range is a property carrying a normal and maximum range in feet.
type Range struct {
	Of     PropertyKind
	Normal int
	Max    int
}

// Versatile carries the two-handed damage dice.
type Versatile struct {
	Dice string
}

func (f Flag) Kind() PropertyKind    { return f.Of }
func (r Range) Kind() PropertyKind   { return r.Of }
func (Versatile) Kind() PropertyKind { return PropVersatile }

func (Flag) weaponProperty()      {}
func (Range) weaponProperty()     {}
func (Versatile) weaponProperty() {}

// PropertySet is the set of properties on one item, held in canonical order
// with at most one entry per kind.
type PropertySet []WeaponProperty

// Has reports whether the set contains kind k.
func (p PropertySet) Has(k PropertyKind) bool {
	_, ok := p.Get(k)
	return ok
}

// Get returns the property of kind k.
func (p PropertySet) Get(k PropertyKind) (WeaponProperty, bool) {
	for _, wp := range p {
		if wp.Kind() == k {
			return wp, true
		}
	}
	return nil, false
}

// Validate checks that every property has the payload its kind requires.
func (p PropertySet) Validate() error {
	seen := make(map[PropertyKind]bool, len(p))
	var errs []error
	for _, wp := range p {
		k := wp.Kind()
		shape, ok := propertyShapes[k]
		if !ok {
			errs = append(errs, fmt.Errorf("unknown weapon property %q", k))
			continue
		}
		if seen[k] {
			errs = append(errs, fmt.Errorf("duplicate weapon property %q", k))
		}
		seen[k] = true
		switch v := wp.(type) {
		case Flag:
			if shape != shapeFlag {
				errs = append(errs, fmt.Errorf("property %q requires a value", k))
			}
		case Range:
			if shape != shapeRange {
				errs = append(errs, fmt.Errorf("property %q does not take a range", k))
			}
			if v.Normal < 0 || v.Max < v.Normal {
				errs = append(errs, fmt.Errorf("property %q: range %d/%d is invalid", k, v.Normal, v.Max))
			}
		case Versatile:
			if _, err := dice.Parse(v.Dice); err != nil {
				errs = append(errs, fmt.Errorf("property %q: %w", k, err))
			}
		}
	}
	return errors.Join(errs...)
}

// propertyValue is the loosely-typed wire form of a single property value:
// true, a dice string, or a {normal, max} range object.
type propertyValue struct {
	flag   bool
	text   string
	normal *int
	max    *int
}

type rangeValue struct {
	Normal *int `json:"normal" yaml:"normal"`
	Max    *int `json:"max" yaml:"max"`
}

func buildProperty(kind PropertyKind, v propertyValue) (WeaponProperty, bool, error) {
	shape, ok := propertyShapes[kind]
	if !ok {
		return nil, false, fmt.Errorf("unknown weapon property %q", kind)
	}
	switch shape {
	case shapeFlag:
		if !v.flag {
			return nil, false, nil
		}
		return Flag{Of: kind}, true, nil
	case shapeRange:
		r := Range{Of: kind}
		if v.normal != nil {
			r.Normal = *v.normal
		}
		if v.max != nil {
			r.Max = *v.max
		}
		return r, true, nil
	default:
		if v.text == "" {
			return nil, false, fmt.Errorf("property %q requires dice", kind)
		}
		return Versatile{Dice: v.text}, true, nil
	}
}

func assemble(values map[PropertyKind]propertyValue) (PropertySet, error) {
	kinds := make([]PropertyKind, 0, len(values))
	for k := range values {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return orderOf(kinds[i]) < orderOf(kinds[j]) })
	var set PropertySet
	for _, k := range kinds {
		wp, keep, err := buildProperty(k, values[k])
		if err != nil {
			return nil, err
		}
		if keep {
			set = append(set, wp)
		}
	}
	return set, nil
}

func orderOf(k PropertyKind) int {
	for i, o := range propertyOrder {
		if o == k {
			return i
		}
	}
	return len(propertyOrder)
}

// UnmarshalYAML decodes the mapping form `{finesse: true, thrown: {normal: 20, max: 60}}`.
func (p *PropertySet) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("properties: expected a mapping, got line %d", node.Line)
	}
	values := make(map[PropertyKind]propertyValue)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		var pv propertyValue
		switch {
		case val.Kind == yaml.MappingNode:
			var rv rangeValue
			if err := val.Decode(&rv); err != nil {
				return fmt.Errorf("properties.%s: %w", key.Value, err)
			}
			pv.normal, pv.max = rv.Normal, rv.Max
		case val.Tag == "!!bool":
			if err := val.Decode(&pv.flag); err != nil {
				return fmt.Errorf("properties.%s: %w", key.Value, err)
			}
		default:
			pv.text = val.Value
		}
		values[PropertyKind(key.Value)] = pv
	}
	set, err := assemble(values)
	if err != nil {
		return err
	}
	*p = set
	return nil
}

// UnmarshalJSON decodes the same mapping form used by YAML content.
func (p *PropertySet) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = nil
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("properties: %w", err)
	}
	values := make(map[PropertyKind]propertyValue, len(raw))
	for key, msg := range raw {
		if string(msg) == "null" {
			continue
		}
		var pv propertyValue
		var b bool
		var s string
		var rv rangeValue
		switch {
		case json.Unmarshal(msg, &b) == nil:
			pv.flag = b
		case json.Unmarshal(msg, &s) == nil:
			pv.text = s
		case json.Unmarshal(msg, &rv) == nil:
			pv.normal, pv.max = rv.Normal, rv.Max
		default:
			return fmt.Errorf("properties.%s: unsupported value %s", key, msg)
		}
		values[PropertyKind(key)] = pv
	}
	set, err := assemble(values)
	if err != nil {
		return err
	}
	*p = set
	return nil
}

// MarshalJSON encodes the set in mapping form.
func (p PropertySet) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p))
	for _, wp := range p {
		switch v := wp.(type) {
		case Flag:
			out[string(v.Of)] = true
		case Range:
			out[string(v.Of)] = map[string]int{"normal": v.Normal, "max": v.Max}
		case Versatile:
			out[string(PropVersatile)] = v.Dice
		}
	}
	return json.Marshal(out)
}
