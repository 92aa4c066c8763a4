// Package field implements the bn254 scalar field engine used throughout the
// compiler. Elements are carried as constraint.Element and the arithmetic is
// delegated to gnark-crypto's fr implementation.
package field

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/constraint"
)

// ScalarField is the modulus of the bn254 scalar field.
var ScalarField = fr.Modulus()

// Engine implements constraint.Field over the bn254 scalar field.
type Engine struct{}

func asFr(a *constraint.Element) *fr.Element {
	return (*fr.Element)(a[:])
}

func fromFr(e *fr.Element) constraint.Element {
	var r constraint.Element
	copy(r[:], e[:])
	return r
}

func (engine *Engine) FromInterface(i interface{}) constraint.Element {
	var e fr.Element
	if _, err := e.SetInterface(i); err != nil {
		panic(fmt.Sprintf("field: unsupported value %v", i))
	}
	return fromFr(&e)
}

func (engine *Engine) ToBigInt(a constraint.Element) *big.Int {
	r := new(big.Int)
	asFr(&a).BigInt(r)
	return r
}

func (engine *Engine) Add(a, b constraint.Element) constraint.Element {
	asFr(&a).Add(asFr(&a), asFr(&b))
	return a
}

func (engine *Engine) Sub(a, b constraint.Element) constraint.Element {
	asFr(&a).Sub(asFr(&a), asFr(&b))
	return a
}

func (engine *Engine) Mul(a, b constraint.Element) constraint.Element {
	asFr(&a).Mul(asFr(&a), asFr(&b))
	return a
}

func (engine *Engine) Neg(a constraint.Element) constraint.Element {
	asFr(&a).Neg(asFr(&a))
	return a
}

// Inverse returns the multiplicative inverse of a. The zero element has no
// inverse; it is returned unchanged with ok == false, which callers rely on
// as the inverse(0) == 0 convention.
func (engine *Engine) Inverse(a constraint.Element) (constraint.Element, bool) {
	e := asFr(&a)
	if e.IsZero() {
		return a, false
	}
	e.Inverse(e)
	return a, true
}

func (engine *Engine) One() constraint.Element {
	e := fr.One()
	return fromFr(&e)
}

func (engine *Engine) IsOne(a constraint.Element) bool {
	return asFr(&a).IsOne()
}

func (engine *Engine) String(a constraint.Element) string {
	return asFr(&a).String()
}

func (engine *Engine) Uint64(a constraint.Element) (uint64, bool) {
	e := asFr(&a)
	if !e.IsUint64() {
		return 0, false
	}
	return e.Uint64(), true
}

func (engine *Engine) Field() *big.Int {
	return fr.Modulus()
}

func (engine *Engine) FieldBitLen() int {
	return fr.Modulus().BitLen()
}

// Equal reports whether a and b are the same field element.
func (engine *Engine) Equal(a, b constraint.Element) bool {
	return asFr(&a).Equal(asFr(&b))
}

// Bit returns bit i of the canonical integer representation of a.
func (engine *Engine) Bit(a constraint.Element, i int) uint {
	return engine.ToBigInt(a).Bit(i)
}

// IsBoolean reports whether a is 0 or 1.
func (engine *Engine) IsBoolean(a constraint.Element) bool {
	return a.IsZero() || engine.IsOne(a)
}
