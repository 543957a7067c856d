// Builds property values from native Go values.

package notion

import (
	"fmt"
	"time"
)

type composer func(native any) (Value, bool, error)

var composers = map[Kind]composer{
	KindTitle: func(native any) (Value, bool, error) {
		rt, ok := composeText(native)
		return &Title{Title: rt}, ok, nil
	},
	KindRichText: func(native any) (Value, bool, error) {
		rt, ok := composeText(native)
		return &Text{RichText: rt}, ok, nil
	},
	KindNumber: func(native any) (Value, bool, error) {
		if native == nil {
			return &Number{}, true, nil
		}
		f, ok := toFloat(native)
		if !ok {
			return nil, false, nil
		}
		if err := checkFinite(f); err != nil {
			return nil, true, err
		}
		return &Number{Number: &f}, true, nil
	},
	KindCheckbox: func(native any) (Value, bool, error) {
		if native == nil {
			// Checkboxes cannot be null; clearing unchecks.
			f := false
			return &Checkbox{Checkbox: &f}, true, nil
		}
		b, ok := native.(bool)
		return &Checkbox{Checkbox: &b}, ok, nil
	},
	KindDate: func(native any) (Value, bool, error) {
		switch d := native.(type) {
		case nil:
			return &Date{}, true, nil
		case DateRange:
			return &Date{Date: &d}, true, nil
		case time.Time:
			return &Date{Date: &DateRange{Start: d}}, true, nil
		case string:
			t, dateOnly, err := parseDate(d)
			if err != nil {
				return nil, true, err
			}
			return &Date{Date: &DateRange{Start: t, DateOnly: dateOnly}}, true, nil
		}
		return nil, false, nil
	},
	KindStatus: func(native any) (Value, bool, error) {
		o, ok := composeOption(native)
		return &Status{Status: o}, ok, nil
	},
	KindSelect: func(native any) (Value, bool, error) {
		o, ok := composeOption(native)
		return &Select{Select: o}, ok, nil
	},
	KindMultiSelect: func(native any) (Value, bool, error) {
		var names []string
		switch n := native.(type) {
		case nil:
		case string:
			names = []string{n}
		case []string:
			names = n
		case []SelectOption:
			return &MultiSelect{MultiSelect: append([]SelectOption{}, n...)}, true, nil
		default:
			return nil, false, nil
		}
		v := &MultiSelect{MultiSelect: []SelectOption{}}
		for _, n := range names {
			if err := v.Add(n); err != nil {
				return nil, true, err
			}
		}
		return v, true, nil
	},
	KindPeople: func(native any) (Value, bool, error) {
		v := &People{People: []User{}}
		switch n := native.(type) {
		case nil:
		case User:
			v.People = append(v.People, n)
		case []User:
			v.People = append(v.People, n...)
		case string:
			v.People = append(v.People, UserRef(n))
		case []string:
			for _, id := range n {
				v.People = append(v.People, UserRef(id))
			}
		default:
			return nil, false, nil
		}
		return v, true, nil
	},
	KindURL: func(native any) (Value, bool, error) {
		s, ok := composeString(native)
		return &URL{URL: s}, ok, nil
	},
	KindEmail: func(native any) (Value, bool, error) {
		s, ok := composeString(native)
		return &Email{Email: s}, ok, nil
	},
	KindPhoneNumber: func(native any) (Value, bool, error) {
		s, ok := composeString(native)
		return &PhoneNumber{PhoneNumber: s}, ok, nil
	},
	KindFiles: func(native any) (Value, bool, error) {
		v := &Files{Files: []File{}}
		switch n := native.(type) {
		case nil:
		case File:
			v.Files = append(v.Files, n)
		case []File:
			v.Files = append(v.Files, n...)
		case string:
			v.Files = append(v.Files, ExternalFile(n, ""))
		case []string:
			for _, u := range n {
				v.Files = append(v.Files, ExternalFile(u, ""))
			}
		default:
			return nil, false, nil
		}
		return v, true, nil
	},
	KindRelation: func(native any) (Value, bool, error) {
		var refs []any
		switch n := native.(type) {
		case nil:
		case string, Identifier:
			refs = []any{n}
		case []string:
			for _, id := range n {
				refs = append(refs, id)
			}
		case []Identifier:
			for _, id := range n {
				refs = append(refs, id)
			}
		case []ObjectReference:
			for _, id := range n {
				refs = append(refs, id)
			}
		default:
			return nil, false, nil
		}
		v := &Relation{Relation: []ObjectReference{}}
		for _, r := range refs {
			if err := v.Add(r); err != nil {
				return nil, true, err
			}
		}
		return v, true, nil
	},
}

func composeText(native any) (RichText, bool) {
	switch t := native.(type) {
	case nil:
		return RichText{}, true
	case string:
		return NewRichText(t), true
	case RichText:
		return t, true
	case fmt.Stringer:
		return NewRichText(t.String()), true
	}
	return nil, false
}

func composeOption(native any) (*SelectOption, bool) {
	switch o := native.(type) {
	case nil:
		return nil, true
	case string:
		return &SelectOption{Name: o}, true
	case SelectOption:
		return &o, true
	case *SelectOption:
		return o, true
	}
	return nil, false
}

func composeString(native any) (*string, bool) {
	switch s := native.(type) {
	case nil:
		return nil, true
	case string:
		return &s, true
	case fmt.Stringer:
		v := s.String()
		return &v, true
	}
	return nil, false
}

// IsReadOnly reports whether values of kind are computed by the server and
// cannot be written.
func IsReadOnly(kind Kind) bool {
	_, ok := composers[kind]
	return !ok
}

// Compose builds a value of the given kind from a native Go value.
//
// A Value of the same kind is returned unchanged. nil builds an empty value
// that clears the cell when written.
func Compose(kind Kind, native any) (Value, error) {
	if v, ok := native.(Value); ok && v.Kind() == kind {
		return v, nil
	}
	c, ok := composers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrReadOnly, kind)
	}
	v, ok, err := c(native)
	if err != nil {
		return nil, fmt.Errorf("failed to compose %s value: %w", kind, err)
	}
	if !ok {
		return nil, fmt.Errorf("cannot compose %s value from %T", kind, native)
	}
	return v, nil
}
