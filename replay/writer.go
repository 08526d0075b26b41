// Package replay records matches as seed plus action log and plays them back.
//
// A replay file is a single tree-less SGF-like record:
//
//	(;AP[termtris:1.0]MD[single]SD[42]DT[2026-10-16]PN[ann]RE[1200]
//	;T[0];M[0,-1,0];D[0];X[])
//
// Because every random choice the engine makes derives from the seed, the
// action log reproduces the match exactly.
package replay

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"termtris/engine"
)

// Extension is the file suffix used for replay files.
const Extension = ".ttr"

const appTag = "termtris:1.0"

// Mode names the reducer a replay was recorded with.
type Mode string

const (
	ModeSingle Mode = "single"
	ModeVersus Mode = "versus"
)

// Recorder tracks a match in progress and writes it to disk.
type Recorder struct {
	FilePath string
	Mode     Mode
	Seed     uint64
	Players  []string
	Date     string
	Result   string
	actions  []string
	file     *os.File
}

// NewRecorder creates a new replay file in dir and writes the header.
func NewRecorder(dir string, mode Mode, seed uint64, players ...string) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create replay dir: %w", err)
	}

	now := time.Now()
	stamp := now.Format("2006-01-02_150405.000")
	var (
		path string
		f    *os.File
		err  error
	)
	for i := 0; ; i++ {
		filename := fmt.Sprintf("%s_%s%s", stamp, mode, Extension)
		if i > 0 {
			filename = fmt.Sprintf("%s-%d_%s%s", stamp, i, mode, Extension)
		}
		path = filepath.Join(dir, filename)
		f, err = os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			break
		}
		if !os.IsExist(err) || i >= 100 {
			return nil, fmt.Errorf("create replay file: %w", err)
		}
	}

	rec := &Recorder{
		FilePath: path,
		Mode:     mode,
		Seed:     seed,
		Players:  players,
		Date:     now.Format("2006-01-02"),
		file:     f,
	}
	if err := rec.flush(); err != nil {
		f.Close()
		return nil, err
	}
	return rec, nil
}

// AddAction appends one dispatched action to the record.
func (r *Recorder) AddAction(a engine.Action) error {
	node, ok := EncodeAction(a)
	if !ok {
		return nil
	}
	r.actions = append(r.actions, node)
	if r.file == nil {
		return fmt.Errorf("file already closed")
	}
	_, err := r.file.WriteString(node)
	return err
}

// SetResult stores the outcome of the match, e.g. a final score or "P1".
func (r *Recorder) SetResult(result string) error {
	r.Result = result
	return r.flush()
}

// Actions returns the number of recorded actions.
func (r *Recorder) Actions() int {
	return len(r.actions)
}

// Close performs a final flush and closes the file handle.
func (r *Recorder) Close() {
	if r.file == nil {
		return
	}
	r.flush()
	r.file.Close()
	r.file = nil
}

// flush rewrites the complete file from scratch. The closing parenthesis is
// only written here, so a file cut short by a crash still parses.
func (r *Recorder) flush() error {
	if r.file == nil {
		return fmt.Errorf("file already closed")
	}

	var b strings.Builder
	b.WriteString("(;")
	writeProp(&b, "AP", appTag)
	writeProp(&b, "MD", string(r.Mode))
	writeProp(&b, "SD", strconv.FormatUint(r.Seed, 10))
	writeProp(&b, "DT", r.Date)
	if len(r.Players) > 0 {
		writeProp(&b, "PN", r.Players...)
	}
	writeProp(&b, "RE", r.Result)
	b.WriteString("\n")
	for _, a := range r.actions {
		b.WriteString(a)
	}

	if _, err := r.file.Seek(0, 0); err != nil {
		return err
	}
	if err := r.file.Truncate(0); err != nil {
		return err
	}
	if _, err := r.file.WriteString(b.String()); err != nil {
		return err
	}
	if r.Result != "" {
		// The record stays open until a result is set.
		if _, err := r.file.WriteString(")\n"); err != nil {
			return err
		}
	}
	return r.file.Sync()
}

func writeProp(b *strings.Builder, key string, values ...string) {
	b.WriteString(key)
	for _, v := range values {
		b.WriteByte('[')
		b.WriteString(escape(v))
		b.WriteByte(']')
	}
}

// escape protects the characters that would end a property value.
func escape(v string) string {
	if !strings.ContainsAny(v, `]\`) {
		return v
	}
	var b strings.Builder
	for _, ch := range v {
		if ch == ']' || ch == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// EncodeAction returns the node written for a, or false for actions that
// carry no information.
func EncodeAction(a engine.Action) (string, bool) {
	switch a.Kind {
	case engine.ActionMove:
		return fmt.Sprintf(";M[%d,%d,%d]", a.Player, a.DX, a.DY), true
	case engine.ActionRotate:
		return fmt.Sprintf(";R[%d]", a.Player), true
	case engine.ActionTick:
		return fmt.Sprintf(";T[%d]", a.Player), true
	case engine.ActionDrop:
		return fmt.Sprintf(";D[%d]", a.Player), true
	case engine.ActionRestart:
		return ";X[]", true
	case engine.ActionAddGarbage:
		return fmt.Sprintf(";G[%d,%d]", a.Player, a.Lines), true
	}
	return "", false
}
