package replay

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"termtris/engine"
)

// ErrMalformed is returned when a replay file cannot be parsed.
var ErrMalformed = errors.New("malformed replay")

// Info holds metadata parsed from a replay file header.
type Info struct {
	FilePath    string
	FileName    string
	Mode        Mode
	Seed        uint64
	Players     []string
	Date        string
	Result      string
	ActionCount int
}

// Outcome is the final state reached by replaying a file.
// Only the field matching Mode is meaningful.
type Outcome struct {
	Mode    Mode
	Single  engine.GameState
	Versus  engine.VersusState
	Actions int
}

type property struct {
	key    string
	values []string
}

type node []property

func (n node) get(key string) (string, bool) {
	for _, p := range n {
		if p.key == key && len(p.values) > 0 {
			return p.values[0], true
		}
	}
	return "", false
}

func (n node) all(key string) []string {
	for _, p := range n {
		if p.key == key {
			return p.values
		}
	}
	return nil
}

// ParseHeader reads a replay file and extracts metadata from the root node.
func ParseHeader(filePath string) (*Info, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	info, _, err := parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(filePath), err)
	}
	info.FilePath = filePath
	info.FileName = filepath.Base(filePath)
	return info, nil
}

// ListReplays returns the headers of all replay files in dir, newest first.
// Files that fail to parse are skipped.
func ListReplays(dir string) ([]Info, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var infos []Info
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Extension) {
			continue
		}
		info, err := ParseHeader(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		infos = append(infos, *info)
	}

	// File names start with a timestamp.
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].FileName > infos[j].FileName
	})
	return infos, nil
}

// ReplayToEnd parses a replay file and runs every recorded action through a
// freshly seeded engine.
func ReplayToEnd(filePath string) (*Outcome, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	info, actions, err := parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(filePath), err)
	}
	out := Replay(info.Mode, info.Seed, actions)
	return &out, nil
}

// Replay runs actions through an engine seeded with seed.
func Replay(mode Mode, seed uint64, actions []engine.Action) Outcome {
	e := engine.NewSeeded(seed)
	out := Outcome{Mode: mode, Actions: len(actions)}
	switch mode {
	case ModeVersus:
		s := e.InitVersus()
		for _, a := range actions {
			s = e.ReduceVersus(s, a)
		}
		out.Versus = s
	default:
		s := e.InitGame()
		for _, a := range actions {
			s = e.Reduce(s, a)
		}
		out.Single = s
	}
	return out
}

// ParseActions decodes the action nodes of a replay, skipping the root node.
func ParseActions(content string) ([]engine.Action, error) {
	_, actions, err := parse(content)
	return actions, err
}

func parse(content string) (*Info, []engine.Action, error) {
	nodes, err := parseNodes(content)
	if err != nil {
		return nil, nil, err
	}
	if len(nodes) == 0 {
		return nil, nil, fmt.Errorf("%w: no root node", ErrMalformed)
	}

	root := nodes[0]
	if app, _ := root.get("AP"); !strings.HasPrefix(app, "termtris:") {
		return nil, nil, fmt.Errorf("%w: not a termtris replay", ErrMalformed)
	}

	info := &Info{
		Players: root.all("PN"),
	}
	info.Date, _ = root.get("DT")
	info.Result, _ = root.get("RE")

	mode, _ := root.get("MD")
	switch Mode(mode) {
	case ModeSingle, ModeVersus:
		info.Mode = Mode(mode)
	default:
		return nil, nil, fmt.Errorf("%w: unknown mode %q", ErrMalformed, mode)
	}

	seed, _ := root.get("SD")
	info.Seed, err = strconv.ParseUint(seed, 10, 64)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: bad seed %q", ErrMalformed, seed)
	}

	actions := make([]engine.Action, 0, len(nodes)-1)
	for _, n := range nodes[1:] {
		a, err := decodeAction(n)
		if err != nil {
			return nil, nil, err
		}
		actions = append(actions, a)
	}
	info.ActionCount = len(actions)
	return info, actions, nil
}

// parseNodes splits content into nodes of KEY[value][value] properties.
func parseNodes(content string) ([]node, error) {
	var (
		nodes []node
		cur   node
		open  bool
		key   strings.Builder
	)
	for i := 0; i < len(content); i++ {
		ch := content[i]
		switch {
		case ch == ';':
			if open {
				nodes = append(nodes, cur)
			}
			cur, open = nil, true
			key.Reset()
		case ch == '(' || ch == ')' || ch == ' ' || ch == '\n' || ch == '\r' || ch == '\t':
			// structure and whitespace
		case ch >= 'A' && ch <= 'Z':
			if !open {
				return nil, fmt.Errorf("%w: property outside node at offset %d", ErrMalformed, i)
			}
			key.WriteByte(ch)
		case ch == '[':
			if key.Len() == 0 {
				// Additional value for the previous property.
				if len(cur) == 0 {
					return nil, fmt.Errorf("%w: value without key at offset %d", ErrMalformed, i)
				}
			} else {
				cur = append(cur, property{key: key.String()})
				key.Reset()
			}
			value, end, ok := readValue(content, i+1)
			if !ok {
				return nil, fmt.Errorf("%w: unterminated value at offset %d", ErrMalformed, i)
			}
			last := &cur[len(cur)-1]
			last.values = append(last.values, value)
			i = end
		default:
			return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrMalformed, ch, i)
		}
	}
	if open {
		nodes = append(nodes, cur)
	}
	return nodes, nil
}

// readValue reads an escaped value starting at start and returns it along
// with the index of its closing bracket.
func readValue(content string, start int) (string, int, bool) {
	var b strings.Builder
	for i := start; i < len(content); i++ {
		switch content[i] {
		case '\\':
			if i+1 < len(content) {
				i++
				b.WriteByte(content[i])
			}
		case ']':
			return b.String(), i, true
		default:
			b.WriteByte(content[i])
		}
	}
	return "", 0, false
}

// actionArity is the number of values each action property carries.
var actionArity = map[string]int{"M": 3, "R": 1, "T": 1, "D": 1, "X": 0, "G": 2}

func decodeAction(n node) (engine.Action, error) {
	if len(n) != 1 || len(n[0].values) != 1 {
		return engine.Action{}, fmt.Errorf("%w: action node must hold one property", ErrMalformed)
	}
	key, raw := n[0].key, n[0].values[0]

	var nums []int
	if raw != "" {
		for _, part := range strings.Split(raw, ",") {
			v, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return engine.Action{}, fmt.Errorf("%w: bad number in %s[%s]", ErrMalformed, key, raw)
			}
			nums = append(nums, v)
		}
	}

	count, known := actionArity[key]
	if !known {
		return engine.Action{}, fmt.Errorf("%w: unknown action %q", ErrMalformed, key)
	}
	if len(nums) != count {
		return engine.Action{}, fmt.Errorf("%w: %s takes %d values, got %d", ErrMalformed, key, count, len(nums))
	}

	switch key {
	case "M":
		return engine.Move(nums[1], nums[2]).For(nums[0]), nil
	case "R":
		return engine.RotateAction().For(nums[0]), nil
	case "T":
		return engine.Tick().For(nums[0]), nil
	case "D":
		return engine.Drop().For(nums[0]), nil
	case "G":
		return engine.Garbage(nums[0], nums[1]), nil
	}
	return engine.Restart(), nil
}
