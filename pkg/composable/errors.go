package composable

import "fmt"

// KindError reports a combinator applied to a node of the wrong kind, such as
// Merge on a sequence. It is a programming error and is raised with panic.
type KindError struct {
	Op   string // combinator name
	Want string // expected node kind
	Got  any    // offending node
	Key  string // key being set, if any
}

func (e *KindError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("composable: %s %q expects %s, got %T", e.Op, e.Key, e.Want, e.Got)
	}
	return fmt.Sprintf("composable: %s expects %s, got %T", e.Op, e.Want, e.Got)
}

// PathError reports a path rejected by CompilePath.
type PathError struct {
	Path   string
	Offset int
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("composable: invalid path %q at offset %d: %s", e.Path, e.Offset, e.Reason)
}

type failure struct {
	err error
}

// Fail aborts the evaluation in progress with err. Transforms that can fail
// at runtime, such as scripted ones, call it; Recover and Apply return err.
func Fail(err error) {
	panic(failure{err: err})
}

// Recover runs fn and converts a *KindError panic, or an error raised with
// Fail, into an error. Any other panic is re-raised.
func Recover(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			switch v := r.(type) {
			case *KindError:
				err = v
			case failure:
				err = v.err
			default:
				panic(r)
			}
		}
	}()
	fn()
	return nil
}

// Apply evaluates a against state, reporting kind mismatches as errors.
func Apply(state any, a Action) (next any, err error) {
	err = Recover(func() {
		next = Composable(state, a)
	})
	return next, err
}
