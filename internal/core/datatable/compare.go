package datatable

import (
	"cmp"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// family groups raw values that compare with each other. Values from
// different families order by family rank.
type family int

const (
	familyBool family = iota
	familyNumber
	familyString
	familyTime
	familyOther
	familyMissing
)

type classified struct {
	fam family
	b   bool
	f   float64
	s   string
	t   time.Time
}

func classify(v any) classified {
	if v == nil {
		return classified{fam: familyMissing}
	}
	switch val := v.(type) {
	case bool:
		return classified{fam: familyBool, b: val}
	case string:
		return classified{fam: familyString, s: val}
	case time.Time:
		return classified{fam: familyTime, t: val}
	}

	// Named types (durations, enums) compare by their underlying kind.
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return classified{fam: familyBool, b: rv.Bool()}
	case reflect.String:
		return classified{fam: familyString, s: rv.String()}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return classified{fam: familyNumber, f: float64(rv.Int())}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return classified{fam: familyNumber, f: float64(rv.Uint())}
	case reflect.Float32, reflect.Float64:
		return classified{fam: familyNumber, f: rv.Float()}
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return classified{fam: familyMissing}
		}
		return classify(rv.Elem().Interface())
	}
	return classified{fam: familyOther, s: fmt.Sprint(v)}
}

// CompareValues orders two raw field values. Missing (nil) values sort after
// everything else; the remaining families order bool < number < string <
// time < other.
func CompareValues(a, b any) int {
	ca, cb := classify(a), classify(b)
	if ca.fam != cb.fam {
		return cmp.Compare(ca.fam, cb.fam)
	}
	switch ca.fam {
	case familyBool:
		switch {
		case ca.b == cb.b:
			return 0
		case !ca.b:
			return -1
		default:
			return 1
		}
	case familyNumber:
		return cmp.Compare(ca.f, cb.f)
	case familyString, familyOther:
		return strings.Compare(ca.s, cb.s)
	case familyTime:
		return ca.t.Compare(cb.t)
	default:
		return 0
	}
}

// compareRecords orders records by key. Missing values stay last regardless
// of direction.
func compareRecords(a, b Record, key string, dir Direction) int {
	av, bv := a[key], b[key]
	am, bm := classify(av).fam == familyMissing, classify(bv).fam == familyMissing
	switch {
	case am && bm:
		return 0
	case am:
		return 1
	case bm:
		return -1
	}

	c := CompareValues(av, bv)
	if dir == Descending {
		return -c
	}
	return c
}
