package bus

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Opcode is a controller command byte. Only opcodes listed in a CommandSet
// are accepted by a Transport configured with that set.
type Opcode uint8

func (o Opcode) String() string {
	return fmt.Sprintf("0x%02X", uint8(o))
}

// CommandSet is the command table of one controller model, mapping each legal
// opcode to its mnemonic.
type CommandSet map[Opcode]string

// Validate returns an error if op is not part of s.
func (s CommandSet) Validate(op Opcode) error {
	if _, ok := s[op]; !ok {
		return errors.Errorf("bus: opcode %s is not in the command set", op)
	}
	return nil
}

// Name returns the mnemonic of op, or its hex value when unknown.
func (s CommandSet) Name(op Opcode) string {
	if n, ok := s[op]; ok {
		return n
	}
	return op.String()
}

// Opcodes returns the opcodes of s in ascending order.
func (s CommandSet) Opcodes() []Opcode {
	ops := lo.Keys(s)
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}
