// Package rtabi defines the target conventions shared by the code generator
// and the driver. These values must match what the system assembler and
// linker expect for the target.
package rtabi

// Target configuration
const (
	// TargetTriple is the target the generated assembly is written for.
	TargetTriple = "arm64-apple-macosx"

	// Arch is the architecture name passed to the assembler and linker.
	Arch = "arm64"
)

// Sections and symbols
const (
	TextSection = "__TEXT,__text"
	DataSection = "__DATA,__data"

	// EntrySymbol is the program entry point.
	EntrySymbol = "_main"

	// StringLabelPrefix prefixes the labels of string constants (str0, str1, ...).
	StringLabelPrefix = "str"
)

// Registers
const (
	ResultReg  = "x0"  // every expression leaves its value here
	ScratchReg = "x1"  // right operand of a binary operation
	SyscallReg = "x16" // system call number
)

// System calls
const (
	// SysExit is the exit system call. Its status argument is in ResultReg.
	SysExit = 1

	// SyscallTrap is the immediate operand of svc for system calls.
	SyscallTrap = "#0x80"
)

// Stack layout
const (
	// StackSlot is the size of one spilled value. sp must stay 16-byte
	// aligned, so each 8-byte push uses a full 16-byte slot.
	StackSlot = 16
)

// Host toolchain
const (
	Assembler = "as"
	Linker    = "ld"
)

// Tools returns the external programs needed to turn generated assembly
// into an executable.
func Tools() []string {
	return []string{Assembler, Linker}
}
