// Package element provides the process-wide periodic table.  The table is
// built once, is immutable afterwards, and is safe for concurrent reads.
package element

import (
	"strconv"
	"strings"

	"github.com/turtacn/RingSense/pkg/errors"
)

// Element holds the essential chemical information of a natural element.
type Element struct {
	Number  uint8   // Atomic number.
	Symbol  string  // Chemical symbol.
	Name    string  // Element's name.
	Weight  float64 // Standard atomic weight.
	Valence int8    // Default valence.
}

// The subset of the periodic table that organic perception meets in
// practice.  Valences are the neutral-atom defaults used for the implicit
// hydrogen and valence-ceiling arithmetic.
var table = []Element{
	{1, "H", "Hydrogen", 1.008, 1},
	{3, "Li", "Lithium", 6.94, 1},
	{5, "B", "Boron", 10.81, 3},
	{6, "C", "Carbon", 12.011, 4},
	{7, "N", "Nitrogen", 14.007, 3},
	{8, "O", "Oxygen", 15.999, 2},
	{9, "F", "Fluorine", 18.998, 1},
	{11, "Na", "Sodium", 22.990, 1},
	{12, "Mg", "Magnesium", 24.305, 2},
	{13, "Al", "Aluminium", 26.982, 3},
	{14, "Si", "Silicon", 28.085, 4},
	{15, "P", "Phosphorus", 30.974, 3},
	{16, "S", "Sulfur", 32.06, 2},
	{17, "Cl", "Chlorine", 35.45, 1},
	{19, "K", "Potassium", 39.098, 1},
	{20, "Ca", "Calcium", 40.078, 2},
	{26, "Fe", "Iron", 55.845, 2},
	{29, "Cu", "Copper", 63.546, 2},
	{30, "Zn", "Zinc", 65.38, 2},
	{33, "As", "Arsenic", 74.922, 3},
	{34, "Se", "Selenium", 78.971, 2},
	{35, "Br", "Bromine", 79.904, 1},
	{50, "Sn", "Tin", 118.71, 4},
	{53, "I", "Iodine", 126.904, 1},
}

var (
	bySymbol = make(map[string]*Element, len(table))
	byNumber = make(map[uint8]*Element, len(table))
)

func init() {
	for i := range table {
		e := &table[i]
		bySymbol[e.Symbol] = e
		byNumber[e.Number] = e
	}
}

// BySymbol answers the element for the given symbol.  A symbol may carry an
// isotope suffix of the form "C_13"; the base element record is answered and
// the mass number is reported separately (0 when absent).
func BySymbol(sym string) (*Element, int, error) {
	mass := 0
	if idx := strings.IndexByte(sym, '_'); idx >= 0 {
		m, err := strconv.Atoi(sym[idx+1:])
		if err != nil || m <= 0 {
			return nil, 0, errors.UnknownElement("bad isotope suffix in symbol " + sym)
		}
		mass = m
		sym = sym[:idx]
	}
	e, ok := bySymbol[sym]
	if !ok {
		return nil, 0, errors.UnknownElement("unknown element symbol " + sym)
	}
	return e, mass, nil
}

// ByNumber answers the element with the given atomic number, or nil when the
// table does not carry it.
func ByNumber(n uint8) *Element {
	return byNumber[n]
}

// Symbol answers the symbol for the given atomic number, or "?" when the
// table does not carry it.
func Symbol(n uint8) string {
	if e, ok := byNumber[n]; ok {
		return e.Symbol
	}
	return "?"
}
