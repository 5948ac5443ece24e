// Package stack implements the named-stack workspace the decoder builds
// partial objects on: a set of ordered, keyed stacks created on demand,
// with stash frames for nested reuse of the same stack names.
package stack

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// entry is one stored object with its key.
type entry struct {
	key string
	val any
}

// stackSlot is one named stack: entries in insertion order plus a key
// index.
type stackSlot struct {
	entries []entry
	index   map[string]int
}

func newSlot() *stackSlot {
	return &stackSlot{index: make(map[string]int)}
}

// Engine is the decoder workspace. It is not safe for concurrent use; the
// decoder is single-pass and single-goroutine.
type Engine struct {
	stacks  map[string]*stackSlot
	order   []string
	counter int
	stash   [][]stashFrame
	ignore  []any
}

type stashFrame struct {
	name    string
	entries []entry
}

// New returns an empty workspace.
func New() *Engine {
	return &Engine{stacks: make(map[string]*stackSlot)}
}

func (e *Engine) slot(name string) *stackSlot {
	s, ok := e.stacks[name]
	if !ok {
		s = newSlot()
		e.stacks[name] = s
		e.order = append(e.order, name)
	}
	return s
}

func (e *Engine) nextKey() string {
	e.counter++
	return "#" + strconv.Itoa(e.counter)
}

// Push stores v on the named stack under key. An empty key draws a fresh
// synthetic key. When key collides with an existing entry, both the old
// and the new entry are re-keyed to synthetic keys so neither is lost.
func (e *Engine) Push(name, key string, v any) {
	s := e.slot(name)
	if key == "" {
		key = e.nextKey()
	} else if i, ok := s.index[key]; ok {
		old := s.entries[i]
		delete(s.index, key)
		rekeyed := e.nextKey()
		s.entries[i] = entry{key: rekeyed, val: old.val}
		s.index[rekeyed] = i
		key = e.nextKey()
	}
	s.index[key] = len(s.entries)
	s.entries = append(s.entries, entry{key: key, val: v})
}

// PopSingle removes and returns the most recently pushed entry of the
// named stack. It returns false when the stack is empty or absent.
func (e *Engine) PopSingle(name string) (any, bool) {
	s, ok := e.stacks[name]
	if !ok || len(s.entries) == 0 {
		return nil, false
	}
	last := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	delete(s.index, last.key)
	return last.val, true
}

// PopAll removes and returns every entry of the named stack in insertion
// order.
func (e *Engine) PopAll(name string) []any {
	s, ok := e.stacks[name]
	if !ok {
		return nil
	}
	out := make([]any, len(s.entries))
	for i, en := range s.entries {
		out[i] = en.val
	}
	s.entries = nil
	s.index = make(map[string]int)
	return out
}

// PopAllFunc removes and returns the entries satisfying pred, in insertion
// order, leaving the rest in place.
func (e *Engine) PopAllFunc(name string, pred func(any) bool) []any {
	s, ok := e.stacks[name]
	if !ok {
		return nil
	}
	var out []any
	kept := s.entries[:0]
	for _, en := range s.entries {
		if pred(en.val) {
			out = append(out, en.val)
		} else {
			kept = append(kept, en)
		}
	}
	s.entries = kept
	s.index = make(map[string]int)
	for i, en := range s.entries {
		s.index[en.key] = i
	}
	return out
}

// Peek returns the most recently pushed entry without removing it.
func (e *Engine) Peek(name string) (any, bool) {
	s, ok := e.stacks[name]
	if !ok || len(s.entries) == 0 {
		return nil, false
	}
	return s.entries[len(s.entries)-1].val, true
}

// GetSingle returns the sole entry of the named stack without removing it.
// It returns false unless the stack holds exactly one entry.
func (e *Engine) GetSingle(name string) (any, bool) {
	s, ok := e.stacks[name]
	if !ok || len(s.entries) != 1 {
		return nil, false
	}
	return s.entries[0].val, true
}

// GetByKey returns the entry stored under an explicit key.
func (e *Engine) GetByKey(name, key string) (any, bool) {
	s, ok := e.stacks[name]
	if !ok {
		return nil, false
	}
	i, ok := s.index[key]
	if !ok {
		return nil, false
	}
	return s.entries[i].val, true
}

// Scan visits every entry of every stack whose name satisfies nameOK, in
// stack creation order then insertion order, until visit returns false.
func (e *Engine) Scan(nameOK func(string) bool, visit func(name string, v any) bool) {
	for _, name := range e.order {
		if !nameOK(name) {
			continue
		}
		for _, en := range e.stacks[name].entries {
			if !visit(name, en.val) {
				return
			}
		}
	}
}

// Len returns the number of entries on the named stack.
func (e *Engine) Len(name string) int {
	s, ok := e.stacks[name]
	if !ok {
		return 0
	}
	return len(s.entries)
}

// Remove drops the named stack entirely, returning its entries in
// insertion order.
func (e *Engine) Remove(name string) []any {
	out := e.PopAll(name)
	delete(e.stacks, name)
	for i, n := range e.order {
		if n == name {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	return out
}

// Stash moves the current contents of the named stacks into a new stash
// frame, leaving the stacks empty for inner use.
func (e *Engine) Stash(names ...string) {
	frame := make([]stashFrame, 0, len(names))
	for _, name := range names {
		s, ok := e.stacks[name]
		if !ok {
			frame = append(frame, stashFrame{name: name})
			continue
		}
		frame = append(frame, stashFrame{name: name, entries: s.entries})
		s.entries = nil
		s.index = make(map[string]int)
	}
	e.stash = append(e.stash, frame)
}

// Unstash restores the most recent stash frame, prepending the stashed
// entries before anything pushed since the stash. It errors when no frame
// is open.
func (e *Engine) Unstash() error {
	if len(e.stash) == 0 {
		return fmt.Errorf("stack: unstash without matching stash")
	}
	frame := e.stash[len(e.stash)-1]
	e.stash = e.stash[:len(e.stash)-1]
	for _, f := range frame {
		if len(f.entries) == 0 {
			continue
		}
		s := e.slot(f.name)
		s.entries = append(append([]entry{}, f.entries...), s.entries...)
		s.index = make(map[string]int)
		for i, en := range s.entries {
			s.index[en.key] = i
		}
	}
	return nil
}

// StashDepth returns the number of open stash frames.
func (e *Engine) StashDepth() int { return len(e.stash) }

// MarkIgnore exempts v from the leftover check. Values must be comparable
// (in practice they are pointers into the object graph).
func (e *Engine) MarkIgnore(v any) {
	e.ignore = append(e.ignore, v)
}

func (e *Engine) ignored(v any) bool {
	for _, ig := range e.ignore {
		if ig == v {
			return true
		}
	}
	return false
}

// Uncollected returns the names of stacks still holding entries that were
// not marked ignorable, sorted. A non-empty result after a decode means
// the dispatch table missed something.
func (e *Engine) Uncollected() []string {
	var out []string
	for name, s := range e.stacks {
		for _, en := range s.entries {
			if !e.ignored(en.val) {
				out = append(out, name)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

// Dump renders the workspace for debugging.
func (e *Engine) Dump() string {
	var b strings.Builder
	for _, name := range e.order {
		s := e.stacks[name]
		if len(s.entries) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s (%d):", name, len(s.entries))
		for _, en := range s.entries {
			fmt.Fprintf(&b, " %s=%s", en.key, typeName(en.val))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}
