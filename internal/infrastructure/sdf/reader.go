// Package sdf implements a streaming reader for MDL SD files (molfile
// V2000 connection tables separated by $$$$).  One Next call yields one
// molecule.
//
// The reader folds explicit hydrogen atoms into the implicit-hydrogen
// counts of their heavy partners, so the produced molecule carries heavy
// atoms only.  Atoms are added in input order, bond orders are restricted
// to the four creatable kinds, and data-item tag names become unique
// molecule attributes; those are the only contracts the perception core
// imposes.
//
// Three stateless hooks can be installed: after the connection table is
// parsed, after the property block is applied, and after the data items
// are attached.  Each receives the raw lines of its region together with
// the partially built molecule.
package sdf

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/turtacn/RingSense/internal/config"
	"github.com/turtacn/RingSense/internal/domain/molecule"
	"github.com/turtacn/RingSense/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RingSense/pkg/errors"
	"github.com/turtacn/RingSense/pkg/types/chem"
)

// Hooks are optional callbacks invoked while a molecule block is parsed.
// A non-nil error from any hook aborts the block.
type Hooks struct {
	// PostCTAB runs after the counts, atom, and bond lines are parsed.
	PostCTAB func(lines []string, mol *molecule.Molecule) error

	// PostProperties runs after the M CHG/ISO/RAD lines are applied.
	PostProperties func(lines []string, mol *molecule.Molecule) error

	// PostTags runs after the > <tag> data items are attached.
	PostTags func(lines []string, mol *molecule.Molecule) error
}

// Reader iterates molecules out of an SD stream.
type Reader struct {
	scanner *bufio.Scanner
	log     logging.Logger
	strict  bool
	hooks   Hooks
	lineNo  int
	eof     bool
}

// NewReader wraps the given stream.
func NewReader(r io.Reader, cfg config.SDFConfig, log logging.Logger) *Reader {
	sc := bufio.NewScanner(r)
	buf := cfg.BufferSize
	if buf < 1024 {
		buf = config.DefaultSDFBufferSize
	}
	sc.Buffer(make([]byte, buf), buf)
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Reader{
		scanner: sc,
		log:     log.Named("sdf"),
		strict:  cfg.Strict,
	}
}

// SetHooks installs the parse hooks.
func (r *Reader) SetHooks(h Hooks) { r.hooks = h }

// Next answers the next molecule in the stream, or io.EOF when the stream
// is exhausted.  In strict mode a malformed block fails the call; otherwise
// the block is logged, skipped, and reading continues.
func (r *Reader) Next() (*molecule.Molecule, error) {
	for {
		lines, err := r.nextBlock()
		if err != nil {
			return nil, err
		}

		mol, perr := r.parseBlock(lines)
		if perr == nil {
			return mol, nil
		}
		if r.strict {
			return nil, perr
		}
		r.log.Warn("skipping malformed molecule block",
			logging.Int("line", r.lineNo), logging.Err(perr))
	}
}

// nextBlock collects the lines of one molecule record, up to and excluding
// the $$$$ terminator.  io.EOF is answered once no further record exists.
func (r *Reader) nextBlock() ([]string, error) {
	if r.eof {
		return nil, io.EOF
	}

	var lines []string
	for r.scanner.Scan() {
		r.lineNo++
		line := r.scanner.Text()
		if strings.HasPrefix(line, "$$$$") {
			return lines, nil
		}
		lines = append(lines, line)
	}
	if err := r.scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeSDFParseError, "sdf: stream read failed")
	}

	r.eof = true
	// A final record without a $$$$ terminator is still a record.
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return lines, nil
		}
	}
	return nil, io.EOF
}

// field answers the trimmed slice [from:to) of line, tolerating short
// lines.
func field(line string, from, to int) string {
	if from >= len(line) {
		return ""
	}
	if to > len(line) {
		to = len(line)
	}
	return strings.TrimSpace(line[from:to])
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// parseBlock builds a molecule from one record's lines.
func (r *Reader) parseBlock(lines []string) (*molecule.Molecule, error) {
	if len(lines) < 4 {
		return nil, errors.SDFParse("molecule block shorter than the 4 header lines")
	}

	counts := lines[3]
	if !strings.Contains(counts, "V2000") {
		return nil, errors.SDFParse("counts line is not V2000: " + strings.TrimSpace(counts))
	}
	nAtoms := atoi(field(counts, 0, 3))
	nBonds := atoi(field(counts, 3, 6))
	if nAtoms <= 0 {
		return nil, errors.SDFParse("counts line declares no atoms")
	}
	if len(lines) < 4+nAtoms+nBonds {
		return nil, errors.SDFParse("molecule block shorter than its declared atom and bond counts")
	}

	mol := molecule.New()
	if title := strings.TrimSpace(lines[0]); title != "" {
		mol.SetVendorMoleculeId(title)
	}

	// byFileIdx maps the 1-based file atom index to the built atom; nil
	// entries are folded hydrogens.
	byFileIdx := make([]*molecule.Atom, nAtoms+1)

	for i := 0; i < nAtoms; i++ {
		line := lines[4+i]
		sym := field(line, 31, 34)
		if sym == "" {
			return nil, errors.SDFParse("atom line " + strconv.Itoa(i+1) + " has no element symbol")
		}
		if sym == "H" {
			continue // Folded into the heavy partner at bond time.
		}

		a, err := mol.AddAtom(sym)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeSDFParseError,
				"atom line "+strconv.Itoa(i+1))
		}
		byFileIdx[i+1] = a

		x, _ := strconv.ParseFloat(field(line, 0, 10), 32)
		y, _ := strconv.ParseFloat(field(line, 10, 20), 32)
		z, _ := strconv.ParseFloat(field(line, 20, 30), 32)
		a.SetCoordinates(float32(x), float32(y), float32(z))

		applyChargeCode(a, atoi(field(line, 36, 39)))
	}

	for i := 0; i < nBonds; i++ {
		line := lines[4+nAtoms+i]
		f1 := atoi(field(line, 0, 3))
		f2 := atoi(field(line, 3, 6))
		code := atoi(field(line, 6, 9))
		if f1 < 1 || f1 > nAtoms || f2 < 1 || f2 > nAtoms {
			return nil, errors.SDFParse("bond line " + strconv.Itoa(i+1) + " references an unknown atom")
		}

		order := chem.BondOrder(code)
		if !order.IsCreatable() {
			return nil, errors.SDFParse("bond line " + strconv.Itoa(i+1) +
				" carries non-creatable order " + order.String())
		}

		a1, a2 := byFileIdx[f1], byFileIdx[f2]
		switch {
		case a1 == nil && a2 == nil:
			// H-H; nothing to record.
		case a1 == nil:
			a2.SetImplicitHCount(a2.ImplicitHCount() + 1)
		case a2 == nil:
			a1.SetImplicitHCount(a1.ImplicitHCount() + 1)
		default:
			b, err := mol.AddBond(a1, a2, order)
			if err != nil {
				return nil, errors.Wrap(err, errors.CodeSDFParseError,
					"bond line "+strconv.Itoa(i+1))
			}
			b.SetStereo(chem.BondStereo(atoi(field(line, 9, 12))))
		}
	}

	ctabEnd := 4 + nAtoms + nBonds
	if r.hooks.PostCTAB != nil {
		if err := r.hooks.PostCTAB(lines[:ctabEnd], mol); err != nil {
			return nil, err
		}
	}

	// Property block: M CHG/ISO/RAD until M END.
	propEnd := ctabEnd
	supersededCharges := false
	for ; propEnd < len(lines); propEnd++ {
		line := lines[propEnd]
		if strings.HasPrefix(line, "M  END") {
			propEnd++
			break
		}
		if !strings.HasPrefix(line, "M  ") {
			continue
		}
		kind := field(line, 3, 6)
		switch kind {
		case "CHG", "RAD":
			// Per the format, the first charge or radical property line
			// supersedes every atom-block charge code.
			if !supersededCharges {
				for _, a := range mol.Atoms() {
					a.SetCharge(0)
					a.SetRadical(chem.RadicalNone)
				}
				supersededCharges = true
			}
		case "ISO":
		default:
			continue
		}
		if err := applyPropertyLine(line, kind, byFileIdx); err != nil {
			return nil, err
		}
	}

	if r.hooks.PostProperties != nil {
		if err := r.hooks.PostProperties(lines[ctabEnd:propEnd], mol); err != nil {
			return nil, err
		}
	}

	// Data items: > <tag> followed by value lines up to a blank line.
	tagLines := lines[propEnd:]
	for i := 0; i < len(tagLines); {
		line := tagLines[i]
		if !strings.HasPrefix(line, ">") {
			i++
			continue
		}
		open := strings.IndexByte(line, '<')
		if open < 0 {
			return nil, errors.SDFParse("malformed data header: " + strings.TrimSpace(line))
		}
		end := strings.IndexByte(line[open:], '>')
		if end < 0 {
			return nil, errors.SDFParse("malformed data header: " + strings.TrimSpace(line))
		}
		tag := line[open+1 : open+end]

		var values []string
		i++
		for i < len(tagLines) && strings.TrimSpace(tagLines[i]) != "" {
			values = append(values, tagLines[i])
			i++
		}
		if err := mol.AddAttribute(tag, strings.Join(values, "\n")); err != nil {
			return nil, errors.Wrap(err, errors.CodeSDFParseError, "data item <"+tag+">")
		}
	}

	if r.hooks.PostTags != nil {
		if err := r.hooks.PostTags(tagLines, mol); err != nil {
			return nil, err
		}
	}

	return mol, nil
}

// applyChargeCode translates the atom-block charge column: 1..3 are +3..+1,
// 5..7 are -1..-3, and 4 marks a doublet radical.
func applyChargeCode(a *molecule.Atom, code int) {
	switch code {
	case 1:
		a.SetCharge(3)
	case 2:
		a.SetCharge(2)
	case 3:
		a.SetCharge(1)
	case 4:
		a.SetRadical(chem.RadicalDoublet)
	case 5:
		a.SetCharge(-1)
	case 6:
		a.SetCharge(-2)
	case 7:
		a.SetCharge(-3)
	}
}

// applyPropertyLine applies one count-prefixed property line.  The count
// sits at offset 6 and each (atom, value) pair occupies an 8-character
// stride starting at offset 10.
func applyPropertyLine(line, kind string, byFileIdx []*molecule.Atom) error {
	n := atoi(field(line, 6, 9))
	if n <= 0 {
		return errors.SDFParse("property line with no entries: " + strings.TrimSpace(line))
	}
	for p := 0; p < n; p++ {
		off := 10 + 8*p
		idx := atoi(field(line, off, off+3))
		val := atoi(field(line, off+4, off+7))
		if idx < 1 || idx >= len(byFileIdx) {
			return errors.SDFParse("property line references an unknown atom: " + strings.TrimSpace(line))
		}
		a := byFileIdx[idx]
		if a == nil {
			continue // Folded hydrogen.
		}
		switch kind {
		case "CHG":
			a.SetCharge(val)
		case "ISO":
			a.SetMassNumber(val)
		case "RAD":
			a.SetRadical(chem.Radical(val))
		}
	}
	return nil
}
