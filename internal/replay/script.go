// Package replay drives an image session from a text script, one command
// per line, without a display. It is used to reproduce labeling sessions
// and to export their results.
//
// Script syntax:
//
//	# comment
//	images a.png b.png c.png   replace the image list, open the first
//	enter Box                  start a polygon (category name or code)
//	down 10 20                 press at raw coordinates
//	move 12 22                 pointer motion
//	up 12 22                   release
//	exit                       finish drawing
//	undo                       remove the last clicked vertex
//	next | prev | goto 2       navigate (commits the current image)
//	delete                     delete the selected polygon
//	clear                      delete every polygon of the current image
//	commit                     commit the current image and reload it
package replay

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"parcel-labeler/pkg/geometry"
)

// Op is a script command.
type Op int

const (
	OpImages Op = iota
	OpEnter
	OpDown
	OpMove
	OpUp
	OpExit
	OpUndo
	OpNext
	OpPrev
	OpGoto
	OpDelete
	OpClear
	OpCommit
)

var opNames = map[string]Op{
	"images": OpImages,
	"enter":  OpEnter,
	"down":   OpDown,
	"move":   OpMove,
	"up":     OpUp,
	"exit":   OpExit,
	"undo":   OpUndo,
	"next":   OpNext,
	"prev":   OpPrev,
	"goto":   OpGoto,
	"delete": OpDelete,
	"clear":  OpClear,
	"commit": OpCommit,
}

func (o Op) String() string {
	for name, op := range opNames {
		if op == o {
			return name
		}
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Command is one parsed script line.
type Command struct {
	Line     int
	Op       Op
	Point    geometry.Point2D // down, move, up
	Category string           // enter: name or decimal code
	Images   []string         // images
	Index    int              // goto
}

// ErrSyntax is wrapped by every parse error.
var ErrSyntax = errors.New("syntax error")

// Parse reads a script. Errors name the offending line.
func Parse(r io.Reader) ([]Command, error) {
	var cmds []Command
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = strings.TrimSpace(text[:i])
		}
		if text == "" {
			continue
		}
		cmd, err := parseLine(strings.Fields(text))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		cmd.Line = line
		cmds = append(cmds, cmd)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return cmds, nil
}

func parseLine(fields []string) (Command, error) {
	op, ok := opNames[strings.ToLower(fields[0])]
	if !ok {
		return Command{}, fmt.Errorf("%w: unknown command %q", ErrSyntax, fields[0])
	}
	cmd := Command{Op: op}
	args := fields[1:]

	switch op {
	case OpImages:
		if len(args) == 0 {
			return cmd, fmt.Errorf("%w: images needs at least one path", ErrSyntax)
		}
		cmd.Images = args
	case OpEnter:
		if len(args) != 1 {
			return cmd, fmt.Errorf("%w: enter takes one category", ErrSyntax)
		}
		cmd.Category = args[0]
	case OpDown, OpMove, OpUp:
		p, err := parsePoint(args)
		if err != nil {
			return cmd, fmt.Errorf("%w: %s: %v", ErrSyntax, op, err)
		}
		cmd.Point = p
	case OpGoto:
		if len(args) != 1 {
			return cmd, fmt.Errorf("%w: goto takes one index", ErrSyntax)
		}
		i, err := strconv.Atoi(args[0])
		if err != nil {
			return cmd, fmt.Errorf("%w: goto: %v", ErrSyntax, err)
		}
		cmd.Index = i
	default:
		if len(args) != 0 {
			return cmd, fmt.Errorf("%w: %s takes no arguments", ErrSyntax, op)
		}
	}
	return cmd, nil
}

func parsePoint(args []string) (geometry.Point2D, error) {
	if len(args) != 2 {
		return geometry.Point2D{}, fmt.Errorf("want x y, got %d values", len(args))
	}
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return geometry.Point2D{}, err
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return geometry.Point2D{}, err
	}
	return geometry.Point2D{X: x, Y: y}, nil
}
