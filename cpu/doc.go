// Package cpu implements the wrist device register machine and its
// program loader.
//
// The machine has a small bank of signed integer registers (four or six in
// practice) and a fixed set of sixteen three-operand opcodes. Operands a and
// b are literals or register indices depending on the opcode; c always names
// the destination register. A program may bind one register as the
// instruction pointer, in which case the program reads and writes its own
// control flow through that register.
//
// The assembler reads the plain text program format, one instruction per
// line, with an optional leading '#ip N' directive.
package cpu
