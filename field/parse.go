package field

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/constraint"
)

func (engine *Engine) fromBigInt(b *big.Int) constraint.Element {
	var e fr.Element
	e.SetBigInt(b)
	return fromFr(&e)
}

func (engine *Engine) parseBase(s string, base int) (constraint.Element, error) {
	b, ok := new(big.Int).SetString(s, base)
	if !ok {
		return constraint.Element{}, fmt.Errorf("field: invalid base-%d literal %q", base, s)
	}
	if b.Sign() < 0 {
		return constraint.Element{}, fmt.Errorf("field: negative literal %q", s)
	}
	b.Mod(b, ScalarField)
	return engine.fromBigInt(b), nil
}

// FromDecimalString parses a base-10 field element literal. Values larger
// than the modulus are reduced. Lookup table entries use this form.
func (engine *Engine) FromDecimalString(s string) (constraint.Element, error) {
	return engine.parseBase(s, 10)
}

// FromHexString parses a base-16 field element literal without a 0x prefix,
// as written in const-mul-<hex> gate mnemonics.
func (engine *Engine) FromHexString(s string) (constraint.Element, error) {
	return engine.parseBase(s, 16)
}

// ParseValue parses an input-file value. The default base is 16; a 0x or 0b
// prefix selects hexadecimal or binary, and a plain decimal digit string is
// also valid hexadecimal, so it parses under the default.
func (engine *Engine) ParseValue(s string) (constraint.Element, error) {
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		return engine.parseBase(s[2:], 16)
	case strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B"):
		return engine.parseBase(s[2:], 2)
	default:
		return engine.parseBase(s, 16)
	}
}
