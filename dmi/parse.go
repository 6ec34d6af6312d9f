package dmi

import (
	"strconv"

	"github.com/golang/glog"
)

// Parse parses a DMI description:
//
//	# BEGIN DMI
//	version = 4.0
//		width = 32
//		height = 32
//	state = "idle"
//		dirs = 4
//		frames = 2
//		delay = 1,1
//	# END DMI
//
// Fields apply to the most recently declared state, strictly in the order
// they appear. Each state's first frame position is the number of frames
// (frames times dirs) declared before it; the running total is advanced when
// a frames field is read, using the dirs value set at that moment; a state
// that has not declared dirs yet contributes nothing.
//
// Dirs, frames and the running total are limited to MaxFrameCount.
//
// Parse returns either a complete Metadata or an error, never both.
func Parse(text string) (*Metadata, error) {
	p := &parser{
		lex: newLexer(text),
		md:  newMetadata(),
	}
	if err := p.parse(); err != nil {
		glog.V(1).Infof("dmi.Parse: %v", err)
		return nil, err
	}
	return p.md, nil
}

// MaxFrameCount is the largest number of frames a description may declare,
// in total and for any single field.
const MaxFrameCount = 1 << 20

type parser struct {
	lex *lexer
	md  *Metadata

	// cur is the state currently receiving fields, nil before the first
	// state declaration.
	cur *SpriteState
	// pos is the running frame counter.
	pos int
}

func (p *parser) parse() error {
	for _, kw := range []string{"#", "BEGIN", "DMI", "version", "="} {
		if err := p.expect(kw); err != nil {
			return err
		}
	}
	t := p.lex.next()
	version, err := strconv.ParseFloat(t.text, 64)
	if t.eof || err != nil {
		return p.unexpected("version number", t)
	}
	p.md.version = version

	if p.md.width, err = p.header("width"); err != nil {
		return err
	}
	if p.md.height, err = p.header("height"); err != nil {
		return err
	}
	glog.V(2).Infof("dmi: version %g, %dx%d", p.md.version, p.md.width, p.md.height)

	for {
		t := p.lex.next()
		if t.eof {
			return p.unexpected("#", t)
		}
		if t.text == "#" {
			break
		}
		if err := p.field(t); err != nil {
			return err
		}
	}
	for _, kw := range []string{"END", "DMI"} {
		if err := p.expect(kw); err != nil {
			return err
		}
	}

	p.md.frames = p.pos
	p.md.finish()
	return nil
}

// field parses one directive inside the state block loop.
func (p *parser) field(t token) error {
	switch t.text {
	case "state":
		return p.state()
	case "dirs", "frames", "delay", "rewind":
	default:
		return &ParseError{Kind: ErrUnknownDirective, Found: t.text, Line: t.line}
	}

	if p.cur == nil {
		return &ParseError{Kind: ErrFieldWithoutState, Found: t.text, Line: t.line}
	}
	if err := p.expect("="); err != nil {
		return err
	}

	switch t.text {
	case "dirs":
		v := p.lex.next()
		dirs, ok := atoi(v)
		if !ok || dirs < 1 {
			return p.unexpected("positive integer", v)
		}
		if dirs > MaxFrameCount {
			return p.unexpected(tooMany, v)
		}
		p.cur.Dirs = dirs
	case "frames":
		v := p.lex.next()
		frames, ok := atoi(v)
		if !ok {
			return p.unexpected("non-negative integer", v)
		}
		if frames > MaxFrameCount || (p.cur.Dirs > 0 && frames > (MaxFrameCount-p.pos)/p.cur.Dirs) {
			return p.unexpected(tooMany, v)
		}
		p.cur.Delays = resize(p.cur.Delays, frames)
		p.pos += frames * p.cur.Dirs
		glog.V(3).Infof("dmi: %q: %d frames x %d dirs, running total %d", p.cur.Name, frames, p.cur.Dirs, p.pos)
	case "delay":
		return p.delay(t)
	case "rewind":
		v := p.lex.next()
		rewind, ok := atoi(v)
		if !ok {
			return p.unexpected("0 or 1", v)
		}
		p.cur.Rewind = rewind != 0
	}
	return nil
}

// state parses a state declaration and makes it current. Declaring a name
// again replaces the earlier record.
func (p *parser) state() error {
	if err := p.expect("="); err != nil {
		return err
	}
	t := p.lex.next()
	if t.eof || len(t.text) < 2 || t.text[0] != '"' {
		return p.unexpected("quoted state name", t)
	}
	name := t.text[1 : len(t.text)-1]

	p.cur = &SpriteState{
		Name:          name,
		FirstFramePos: p.pos,
	}
	p.md.put(p.cur)
	glog.V(3).Infof("dmi: state %q at frame %d", name, p.pos)
	return nil
}

// delay fills the current state's delays. It needs exactly as many values as
// the state has frames, separated by commas.
func (p *parser) delay(field token) error {
	n := len(p.cur.Delays)
	if n == 0 {
		return &ParseError{Kind: ErrMalformedDelayList, Expected: "frames before delay", Found: field.text, Line: field.line}
	}
	for i := 0; i < n; i++ {
		if i > 0 {
			if t := p.lex.next(); t.text != "," || t.eof {
				return p.malformedDelay(",", t)
			}
		}
		t := p.lex.next()
		v, ok := atoi(t)
		if !ok {
			return p.malformedDelay("delay value", t)
		}
		p.cur.Delays[i] = v
	}
	if t := p.lex.peek(); !t.eof && t.text == "," {
		return p.malformedDelay(strconv.Itoa(n)+" delay values", t)
	}
	return nil
}

// header parses `name = INT`.
func (p *parser) header(name string) (int, error) {
	if err := p.expect(name); err != nil {
		return 0, err
	}
	if err := p.expect("="); err != nil {
		return 0, err
	}
	t := p.lex.next()
	v, ok := atoi(t)
	if !ok {
		return 0, p.unexpected(name+" value", t)
	}
	return v, nil
}

func (p *parser) expect(text string) error {
	t := p.lex.next()
	if t.eof || t.text != text {
		return p.unexpected(strconv.Quote(text), t)
	}
	return nil
}

var tooMany = "at most " + strconv.Itoa(MaxFrameCount) + " frames in total"

func (p *parser) unexpected(expected string, t token) error {
	return &ParseError{Kind: ErrUnexpectedToken, Expected: expected, Found: t.String(), Line: t.line}
}

func (p *parser) malformedDelay(expected string, t token) error {
	return &ParseError{Kind: ErrMalformedDelayList, Expected: expected, Found: t.String(), Line: t.line}
}

// atoi parses a non-negative decimal integer token.
func atoi(t token) (int, bool) {
	if t.eof {
		return 0, false
	}
	v, err := strconv.Atoi(t.text)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// resize returns s with length n, keeping the common prefix and zeroing any
// new elements.
func resize(s []int, n int) []int {
	if n <= len(s) {
		return s[:n:n]
	}
	return append(s, make([]int, n-len(s))...)
}
