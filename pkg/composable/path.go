package composable

import (
	"strconv"
	"strings"
)

// KeyKind tells how a key addresses its node.
type KeyKind uint8

const (
	FieldKey KeyKind = iota // mapping key
	IndexKey                // all-digit key, usable as a sequence index
)

// Key is one compiled path segment. Name is kept textual; conversion to a
// sequence index happens when the key is applied to a sequence.
type Key struct {
	Name      string
	Bracketed bool
}

// Kind reports IndexKey when Name is a non-negative decimal integer.
func (k Key) Kind() KeyKind {
	if _, ok := k.Index(); ok {
		return IndexKey
	}
	return FieldKey
}

// Index returns the key as a sequence index.
func (k Key) Index() (int, bool) {
	if k.Name == "" {
		return 0, false
	}
	for i := 0; i < len(k.Name); i++ {
		if k.Name[i] < '0' || k.Name[i] > '9' {
			return 0, false
		}
	}
	i, err := strconv.Atoi(k.Name)
	if err != nil {
		return 0, false
	}
	return i, true
}

func (k Key) String() string {
	if k.Bracketed {
		return "[" + k.Name + "]"
	}
	return k.Name
}

// Path is a compiled location in a state tree.
type Path []Key

// Strings returns the raw key names.
func (p Path) Strings() []string {
	out := make([]string, len(p))
	for i, k := range p {
		out[i] = k.Name
	}
	return out
}

func (p Path) String() string {
	var b strings.Builder
	for i, k := range p {
		if i > 0 && !k.Bracketed {
			b.WriteByte('.')
		}
		b.WriteString(k.String())
	}
	return b.String()
}

// Split compiles path leniently: runs of word characters are keys, a non-empty
// bracketed segment is a key with the brackets stripped, and every other byte,
// including an unmatched bracket, is a delimiter. It never fails; an empty or
// key-less path yields an empty Path.
func Split(path string) Path {
	p, _ := lex(path, false)
	return p
}

// CompilePath is the strict form of Split. It accepts the same grammar but
// reports unterminated or empty brackets and stray closing brackets.
func CompilePath(path string) (Path, error) {
	return lex(path, true)
}

// MustCompilePath is like CompilePath but panics on error.
func MustCompilePath(path string) Path {
	p, err := CompilePath(path)
	if err != nil {
		panic(err)
	}
	return p
}

func lex(path string, strict bool) (Path, error) {
	keys := Path{}
	for i := 0; i < len(path); {
		c := path[i]
		switch {
		case isWord(c):
			j := i
			for j < len(path) && isWord(path[j]) {
				j++
			}
			keys = append(keys, Key{Name: path[i:j]})
			i = j
		case c == '[':
			end := strings.IndexByte(path[i+1:], ']')
			if end > 0 {
				keys = append(keys, Key{Name: path[i+1 : i+1+end], Bracketed: true})
				i += end + 2
				continue
			}
			if strict {
				reason := "unterminated bracket"
				if end == 0 {
					reason = "empty bracket"
				}
				return nil, &PathError{Path: path, Offset: i, Reason: reason}
			}
			i++
		case c == ']' && strict:
			return nil, &PathError{Path: path, Offset: i, Reason: "unexpected ']'"}
		default:
			i++
		}
	}
	return keys, nil
}

func isWord(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}
