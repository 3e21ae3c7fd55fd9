package domain

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/google/uuid"
)

type ID string

func NewID() ID {
	return ID(uuid.NewString())
}

// Amount is a price expressed in minor units (cents).
type Amount int64

// MaxPrice is the largest unit price accepted, 10,000,000.00.
const MaxPrice Amount = 1_000_000_000

func NewAmountFromCents(cents int64) Amount {
	return Amount(cents)
}

// Add saturates at the int64 bounds instead of wrapping.
func (a Amount) Add(b Amount) Amount {
	switch {
	case b > 0 && a > math.MaxInt64-b:
		return math.MaxInt64
	case b < 0 && a < math.MinInt64-b:
		return math.MinInt64
	}
	return a + b
}

// Multiply saturates at the int64 bounds instead of wrapping.
func (a Amount) Multiply(n int) Amount {
	negative := (a < 0) != (n < 0)
	hi, lo := bits.Mul64(magnitude(int64(a)), magnitude(int64(n)))
	if hi != 0 || lo > math.MaxInt64 {
		if negative {
			return math.MinInt64
		}
		return math.MaxInt64
	}
	if negative {
		return -Amount(lo)
	}
	return Amount(lo)
}

func magnitude(v int64) uint64 {
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}

func (a Amount) IsNegative() bool {
	return a < 0
}

func (a Amount) String() string {
	sign := ""
	v := int64(a)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

type Event interface {
	GetName() string
	GetEntityName() string
}
