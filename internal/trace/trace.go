// Package trace parses and replays allocation traces.
//
// A trace is a text file with one operation per line:
//
//	a <id> <size>            allocate
//	c <id> <count> <size>    zero-allocate
//	r <id> <size>            resize
//	f <id>                   free
//
// Blank lines and lines starting with '#' are ignored. Ids name logical
// blocks; an id may be reused after it has been freed.
package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrSyntax indicates a malformed trace line.
var ErrSyntax = errors.New("trace: syntax error")

// Kind is the operation code of a trace line.
type Kind byte

const (
	OpAlloc   Kind = 'a'
	OpCalloc  Kind = 'c'
	OpRealloc Kind = 'r'
	OpFree    Kind = 'f'
)

func (k Kind) String() string {
	switch k {
	case OpAlloc:
		return "alloc"
	case OpCalloc:
		return "calloc"
	case OpRealloc:
		return "realloc"
	case OpFree:
		return "free"
	}
	return fmt.Sprintf("Kind(%q)", byte(k))
}

// Op is one parsed trace line.
type Op struct {
	Kind  Kind
	ID    int
	Count int // calloc element count
	Size  int // bytes, or element size for calloc
	Line  int
}

func (o Op) String() string {
	switch o.Kind {
	case OpCalloc:
		return fmt.Sprintf("c %d %d %d", o.ID, o.Count, o.Size)
	case OpFree:
		return fmt.Sprintf("f %d", o.ID)
	}
	return fmt.Sprintf("%c %d %d", byte(o.Kind), o.ID, o.Size)
}

// argCount is the number of numeric fields after the opcode.
var argCount = map[Kind]int{
	OpAlloc:   2,
	OpCalloc:  3,
	OpRealloc: 2,
	OpFree:    1,
}

// Parse reads a whole trace. Errors name the offending line.
func Parse(r io.Reader) ([]Op, error) {
	var ops []Op
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		op, err := parseLine(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		op.Line = line
		ops = append(ops, op)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("trace: read: %w", err)
	}
	return ops, nil
}

func parseLine(text string) (Op, error) {
	fields := strings.Fields(text)
	if len(fields[0]) != 1 {
		return Op{}, fmt.Errorf("%w: unknown op %q", ErrSyntax, fields[0])
	}
	kind := Kind(fields[0][0])
	want, ok := argCount[kind]
	if !ok {
		return Op{}, fmt.Errorf("%w: unknown op %q", ErrSyntax, fields[0])
	}
	if len(fields)-1 != want {
		return Op{}, fmt.Errorf("%w: %s takes %d arguments, got %d", ErrSyntax, kind, want, len(fields)-1)
	}

	args := make([]int, want)
	for i, f := range fields[1:] {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return Op{}, fmt.Errorf("%w: bad number %q", ErrSyntax, f)
		}
		args[i] = n
	}

	op := Op{Kind: kind, ID: args[0]}
	switch kind {
	case OpAlloc, OpRealloc:
		op.Size = args[1]
	case OpCalloc:
		op.Count, op.Size = args[1], args[2]
	}
	return op, nil
}
