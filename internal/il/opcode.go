package il

import "fmt"

// OpCode is a CIL opcode value. Two-byte opcodes keep their 0xFE prefix in
// the high byte.
type OpCode uint16

type opInfo struct {
	name    string
	operand OperandKind
}

const (
	Nop         OpCode = 0x00
	Break       OpCode = 0x01
	Ldarg0      OpCode = 0x02
	Ldarg1      OpCode = 0x03
	Ldarg2      OpCode = 0x04
	Ldarg3      OpCode = 0x05
	Ldloc0      OpCode = 0x06
	Ldloc1      OpCode = 0x07
	Ldloc2      OpCode = 0x08
	Ldloc3      OpCode = 0x09
	Stloc0      OpCode = 0x0a
	Stloc1      OpCode = 0x0b
	Stloc2      OpCode = 0x0c
	Stloc3      OpCode = 0x0d
	LdargS      OpCode = 0x0e
	LdargaS     OpCode = 0x0f
	StargS      OpCode = 0x10
	LdlocS      OpCode = 0x11
	LdlocaS     OpCode = 0x12
	StlocS      OpCode = 0x13
	Ldnull      OpCode = 0x14
	LdcI4M1     OpCode = 0x15
	LdcI40      OpCode = 0x16
	LdcI41      OpCode = 0x17
	LdcI42      OpCode = 0x18
	LdcI43      OpCode = 0x19
	LdcI44      OpCode = 0x1a
	LdcI45      OpCode = 0x1b
	LdcI46      OpCode = 0x1c
	LdcI47      OpCode = 0x1d
	LdcI48      OpCode = 0x1e
	LdcI4S      OpCode = 0x1f
	LdcI4       OpCode = 0x20
	LdcI8       OpCode = 0x21
	LdcR4       OpCode = 0x22
	LdcR8       OpCode = 0x23
	Dup         OpCode = 0x25
	Pop         OpCode = 0x26
	Jmp         OpCode = 0x27
	Call        OpCode = 0x28
	Ret         OpCode = 0x2a
	BrS         OpCode = 0x2b
	BrfalseS    OpCode = 0x2c
	BrtrueS     OpCode = 0x2d
	BeqS        OpCode = 0x2e
	BgeS        OpCode = 0x2f
	BgtS        OpCode = 0x30
	BleS        OpCode = 0x31
	BltS        OpCode = 0x32
	BneUnS      OpCode = 0x33
	Br          OpCode = 0x38
	Brfalse     OpCode = 0x39
	Brtrue      OpCode = 0x3a
	Beq         OpCode = 0x3b
	Bge         OpCode = 0x3c
	Bgt         OpCode = 0x3d
	Ble         OpCode = 0x3e
	Blt         OpCode = 0x3f
	BneUn       OpCode = 0x40
	Switch      OpCode = 0x45
	Add         OpCode = 0x58
	Sub         OpCode = 0x59
	Mul         OpCode = 0x5a
	Div         OpCode = 0x5b
	Rem         OpCode = 0x5d
	And         OpCode = 0x5f
	Or          OpCode = 0x60
	Xor         OpCode = 0x61
	Shl         OpCode = 0x62
	Shr         OpCode = 0x63
	Neg         OpCode = 0x65
	Not         OpCode = 0x66
	ConvI4      OpCode = 0x69
	ConvI8      OpCode = 0x6a
	ConvR4      OpCode = 0x6b
	ConvR8      OpCode = 0x6c
	Callvirt    OpCode = 0x6f
	Ldstr       OpCode = 0x72
	Newobj      OpCode = 0x73
	Castclass   OpCode = 0x74
	Isinst      OpCode = 0x75
	Throw       OpCode = 0x7a
	Ldfld       OpCode = 0x7b
	Ldflda      OpCode = 0x7c
	Stfld       OpCode = 0x7d
	Ldsfld      OpCode = 0x7e
	Ldsflda     OpCode = 0x7f
	Stsfld      OpCode = 0x80
	Box         OpCode = 0x8c
	Newarr      OpCode = 0x8d
	Ldlen       OpCode = 0x8e
	LdelemRef   OpCode = 0x9a
	StelemRef   OpCode = 0xa2
	UnboxAny    OpCode = 0xa5
	Ldtoken     OpCode = 0xd0
	Endfinally  OpCode = 0xdc
	Leave       OpCode = 0xdd
	LeaveS      OpCode = 0xde
	Ceq         OpCode = 0xfe01
	Cgt         OpCode = 0xfe02
	CgtUn       OpCode = 0xfe03
	Clt         OpCode = 0xfe04
	CltUn       OpCode = 0xfe05
	Ldftn       OpCode = 0xfe06
	Ldvirtftn   OpCode = 0xfe07
	Ldarg       OpCode = 0xfe09
	Ldarga      OpCode = 0xfe0a
	Starg       OpCode = 0xfe0b
	Ldloc       OpCode = 0xfe0c
	Ldloca      OpCode = 0xfe0d
	Stloc       OpCode = 0xfe0e
	Initobj     OpCode = 0xfe15
	Constrained OpCode = 0xfe16
	Rethrow     OpCode = 0xfe1a
	Sizeof      OpCode = 0xfe1c
)

var opcodes = map[OpCode]opInfo{
	Nop:         {"nop", OperandNone},
	Break:       {"break", OperandNone},
	Ldarg0:      {"ldarg.0", OperandNone},
	Ldarg1:      {"ldarg.1", OperandNone},
	Ldarg2:      {"ldarg.2", OperandNone},
	Ldarg3:      {"ldarg.3", OperandNone},
	Ldloc0:      {"ldloc.0", OperandNone},
	Ldloc1:      {"ldloc.1", OperandNone},
	Ldloc2:      {"ldloc.2", OperandNone},
	Ldloc3:      {"ldloc.3", OperandNone},
	Stloc0:      {"stloc.0", OperandNone},
	Stloc1:      {"stloc.1", OperandNone},
	Stloc2:      {"stloc.2", OperandNone},
	Stloc3:      {"stloc.3", OperandNone},
	LdargS:      {"ldarg.s", OperandArgument},
	LdargaS:     {"ldarga.s", OperandArgument},
	StargS:      {"starg.s", OperandArgument},
	LdlocS:      {"ldloc.s", OperandLocal},
	LdlocaS:     {"ldloca.s", OperandLocal},
	StlocS:      {"stloc.s", OperandLocal},
	Ldnull:      {"ldnull", OperandNone},
	LdcI4M1:     {"ldc.i4.m1", OperandNone},
	LdcI40:      {"ldc.i4.0", OperandNone},
	LdcI41:      {"ldc.i4.1", OperandNone},
	LdcI42:      {"ldc.i4.2", OperandNone},
	LdcI43:      {"ldc.i4.3", OperandNone},
	LdcI44:      {"ldc.i4.4", OperandNone},
	LdcI45:      {"ldc.i4.5", OperandNone},
	LdcI46:      {"ldc.i4.6", OperandNone},
	LdcI47:      {"ldc.i4.7", OperandNone},
	LdcI48:      {"ldc.i4.8", OperandNone},
	LdcI4S:      {"ldc.i4.s", OperandInt32},
	LdcI4:       {"ldc.i4", OperandInt32},
	LdcI8:       {"ldc.i8", OperandInt64},
	LdcR4:       {"ldc.r4", OperandFloat32},
	LdcR8:       {"ldc.r8", OperandFloat64},
	Dup:         {"dup", OperandNone},
	Pop:         {"pop", OperandNone},
	Jmp:         {"jmp", OperandMethod},
	Call:        {"call", OperandMethod},
	Ret:         {"ret", OperandNone},
	BrS:         {"br.s", OperandBranch},
	BrfalseS:    {"brfalse.s", OperandBranch},
	BrtrueS:     {"brtrue.s", OperandBranch},
	BeqS:        {"beq.s", OperandBranch},
	BgeS:        {"bge.s", OperandBranch},
	BgtS:        {"bgt.s", OperandBranch},
	BleS:        {"ble.s", OperandBranch},
	BltS:        {"blt.s", OperandBranch},
	BneUnS:      {"bne.un.s", OperandBranch},
	Br:          {"br", OperandBranch},
	Brfalse:     {"brfalse", OperandBranch},
	Brtrue:      {"brtrue", OperandBranch},
	Beq:         {"beq", OperandBranch},
	Bge:         {"bge", OperandBranch},
	Bgt:         {"bgt", OperandBranch},
	Ble:         {"ble", OperandBranch},
	Blt:         {"blt", OperandBranch},
	BneUn:       {"bne.un", OperandBranch},
	Switch:      {"switch", OperandSwitch},
	Add:         {"add", OperandNone},
	Sub:         {"sub", OperandNone},
	Mul:         {"mul", OperandNone},
	Div:         {"div", OperandNone},
	Rem:         {"rem", OperandNone},
	And:         {"and", OperandNone},
	Or:          {"or", OperandNone},
	Xor:         {"xor", OperandNone},
	Shl:         {"shl", OperandNone},
	Shr:         {"shr", OperandNone},
	Neg:         {"neg", OperandNone},
	Not:         {"not", OperandNone},
	ConvI4:      {"conv.i4", OperandNone},
	ConvI8:      {"conv.i8", OperandNone},
	ConvR4:      {"conv.r4", OperandNone},
	ConvR8:      {"conv.r8", OperandNone},
	Callvirt:    {"callvirt", OperandMethod},
	Ldstr:       {"ldstr", OperandString},
	Newobj:      {"newobj", OperandMethod},
	Castclass:   {"castclass", OperandType},
	Isinst:      {"isinst", OperandType},
	Throw:       {"throw", OperandNone},
	Ldfld:       {"ldfld", OperandField},
	Ldflda:      {"ldflda", OperandField},
	Stfld:       {"stfld", OperandField},
	Ldsfld:      {"ldsfld", OperandField},
	Ldsflda:     {"ldsflda", OperandField},
	Stsfld:      {"stsfld", OperandField},
	Box:         {"box", OperandType},
	Newarr:      {"newarr", OperandType},
	Ldlen:       {"ldlen", OperandNone},
	LdelemRef:   {"ldelem.ref", OperandNone},
	StelemRef:   {"stelem.ref", OperandNone},
	UnboxAny:    {"unbox.any", OperandType},
	Ldtoken:     {"ldtoken", OperandToken},
	Endfinally:  {"endfinally", OperandNone},
	Leave:       {"leave", OperandBranch},
	LeaveS:      {"leave.s", OperandBranch},
	Ceq:         {"ceq", OperandNone},
	Cgt:         {"cgt", OperandNone},
	CgtUn:       {"cgt.un", OperandNone},
	Clt:         {"clt", OperandNone},
	CltUn:       {"clt.un", OperandNone},
	Ldftn:       {"ldftn", OperandMethod},
	Ldvirtftn:   {"ldvirtftn", OperandMethod},
	Ldarg:       {"ldarg", OperandArgument},
	Ldarga:      {"ldarga", OperandArgument},
	Starg:       {"starg", OperandArgument},
	Ldloc:       {"ldloc", OperandLocal},
	Ldloca:      {"ldloca", OperandLocal},
	Stloc:       {"stloc", OperandLocal},
	Initobj:     {"initobj", OperandType},
	Constrained: {"constrained.", OperandType},
	Rethrow:     {"rethrow", OperandNone},
	Sizeof:      {"sizeof", OperandType},
}

var opcodesByName = func() map[string]OpCode {
	m := make(map[string]OpCode, len(opcodes))
	for op, info := range opcodes {
		m[info.name] = op
	}
	return m
}()

// LookupOpCode resolves a mnemonic such as "ldstr" or "bne.un.s".
func LookupOpCode(name string) (OpCode, bool) {
	op, ok := opcodesByName[name]
	return op, ok
}

// Known reports whether op is in the opcode table.
func (op OpCode) Known() bool {
	_, ok := opcodes[op]
	return ok
}

// Name returns the mnemonic, or a hex placeholder for unknown opcodes.
func (op OpCode) Name() string {
	if info, ok := opcodes[op]; ok {
		return info.name
	}
	return fmt.Sprintf("op_%04X", uint16(op))
}

func (op OpCode) String() string { return op.Name() }

// OperandKind returns the kind of operand the opcode takes.
func (op OpCode) OperandKind() OperandKind {
	return opcodes[op].operand
}
