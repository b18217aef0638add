package cpu

import (
	"github.com/valerio/chipper/chipper/addr"
	"github.com/valerio/chipper/chipper/bit"
)

func opUnknown(cpu *CPU, _ Instruction) {
	cpu.fault("unknown opcode")
}

//CLS
//#00E0:
func opClearScreen(cpu *CPU, _ Instruction) {
	cpu.bus.ClearScreen()
	cpu.next()
}

//RET
//#00EE:
func opReturn(cpu *CPU, _ Instruction) {
	if cpu.sp == 0 {
		cpu.fault("stack underflow")
		return
	}

	cpu.sp--
	cpu.pc = cpu.stack[cpu.sp] + 2
}

//JP nnn
//#1NNN:
func opJump(cpu *CPU, in Instruction) {
	cpu.pc = in.NNN
}

//CALL nnn
//#2NNN:
func opCall(cpu *CPU, in Instruction) {
	if int(cpu.sp) >= len(cpu.stack) {
		cpu.fault("stack overflow")
		return
	}

	// the call site is pushed, RET skips over it
	cpu.stack[cpu.sp] = cpu.pc
	cpu.sp++
	cpu.pc = in.NNN
}

//SE Vx, nn
//#3XNN:
func opSkipEqualImmediate(cpu *CPU, in Instruction) {
	cpu.skipIf(cpu.v[in.X] == in.NN)
}

//SNE Vx, nn
//#4XNN:
func opSkipNotEqualImmediate(cpu *CPU, in Instruction) {
	cpu.skipIf(cpu.v[in.X] != in.NN)
}

//SE Vx, Vy
//#5XY0:
func opSkipEqualRegisters(cpu *CPU, in Instruction) {
	cpu.skipIf(cpu.v[in.X] == cpu.v[in.Y])
}

//LD Vx, nn
//#6XNN:
func opSetImmediate(cpu *CPU, in Instruction) {
	cpu.v[in.X] = in.NN
	cpu.next()
}

//ADD Vx, nn
//#7XNN: no carry flag
func opAddImmediate(cpu *CPU, in Instruction) {
	cpu.v[in.X] += in.NN
	cpu.next()
}

//LD Vx, Vy
//#8XY0:
func opCopy(cpu *CPU, in Instruction) {
	cpu.v[in.X] = cpu.v[in.Y]
	cpu.next()
}

//OR Vx, Vy
//#8XY1:
func opOr(cpu *CPU, in Instruction) {
	cpu.v[in.X] |= cpu.v[in.Y]
	cpu.next()
}

//AND Vx, Vy
//#8XY2:
func opAnd(cpu *CPU, in Instruction) {
	cpu.v[in.X] &= cpu.v[in.Y]
	cpu.next()
}

//XOR Vx, Vy
//#8XY3:
func opXor(cpu *CPU, in Instruction) {
	cpu.v[in.X] ^= cpu.v[in.Y]
	cpu.next()
}

// The arithmetic group computes flag and result from the operands as they
// were before the instruction, then writes VF ahead of Vx. With X = F the
// result is what remains in VF.

//ADD Vx, Vy
//#8XY4: VF = carry
func opAdd(cpu *CPU, in Instruction) {
	result, carry := bit.CheckedAdd(cpu.v[in.X], cpu.v[in.Y])
	cpu.setFlag(carry)
	cpu.v[in.X] = result
	cpu.next()
}

//SUB Vx, Vy
//#8XY5: VF = 1 when there is no borrow (Vx >= Vy)
func opSub(cpu *CPU, in Instruction) {
	result, borrow := bit.CheckedSub(cpu.v[in.X], cpu.v[in.Y])
	cpu.setFlag(!borrow)
	cpu.v[in.X] = result
	cpu.next()
}

//SHR Vx
//#8XY6: VF = bit shifted out
func opShiftRight(cpu *CPU, in Instruction) {
	value := cpu.v[in.X]
	cpu.v[addr.FlagRegister] = bit.GetBitValue(0, value)
	cpu.v[in.X] = value >> 1
	cpu.next()
}

//SUBN Vx, Vy
//#8XY7: Vx = Vy - Vx, VF = 1 when there is no borrow (Vy >= Vx)
func opSubReverse(cpu *CPU, in Instruction) {
	result, borrow := bit.CheckedSub(cpu.v[in.Y], cpu.v[in.X])
	cpu.setFlag(!borrow)
	cpu.v[in.X] = result
	cpu.next()
}

//SHL Vx
//#8XYE: VF = bit shifted out
func opShiftLeft(cpu *CPU, in Instruction) {
	value := cpu.v[in.X]
	cpu.v[addr.FlagRegister] = bit.GetBitValue(7, value)
	cpu.v[in.X] = value << 1
	cpu.next()
}

//SNE Vx, Vy
//#9XY0:
func opSkipNotEqualRegisters(cpu *CPU, in Instruction) {
	cpu.skipIf(cpu.v[in.X] != cpu.v[in.Y])
}

//LD I, nnn
//#ANNN:
func opSetIndex(cpu *CPU, in Instruction) {
	cpu.i = in.NNN
	cpu.next()
}

//JP V0, nnn
//#BNNN:
func opJumpOffset(cpu *CPU, in Instruction) {
	cpu.pc = in.NNN + uint16(cpu.v[0])
}

//RND Vx, nn
//#CXNN:
func opRandom(cpu *CPU, in Instruction) {
	cpu.v[in.X] = uint8(cpu.rng.UintN(256)) & in.NN
	cpu.next()
}

//DRW Vx, Vy, n
//#DXYN: VF = collision
func opDraw(cpu *CPU, in Instruction) {
	x, y := cpu.v[in.X], cpu.v[in.Y]

	sprite := make([]byte, in.N)
	for row := range sprite {
		sprite[row] = cpu.bus.Read(cpu.i + uint16(row))
	}

	cpu.setFlag(cpu.bus.DrawSprite(x, y, sprite))
	cpu.next()
}

//SKP Vx
//#EX9E:
func opSkipKeyPressed(cpu *CPU, in Instruction) {
	cpu.skipIf(cpu.bus.IsKeyPressed(cpu.v[in.X]))
}

//SKNP Vx
//#EXA1:
func opSkipKeyNotPressed(cpu *CPU, in Instruction) {
	cpu.skipIf(!cpu.bus.IsKeyPressed(cpu.v[in.X]))
}

//LD Vx, DT
//#FX07:
func opGetDelayTimer(cpu *CPU, in Instruction) {
	cpu.v[in.X] = cpu.bus.DelayTimer()
	cpu.next()
}

//LD Vx, K
//#FX0A: retried on the next step until a key is down
func opWaitKey(cpu *CPU, in Instruction) {
	key, ok := cpu.bus.FirstPressedKey()
	if !ok {
		return
	}

	cpu.v[in.X] = key
	cpu.next()
}

//LD DT, Vx
//#FX15:
func opSetDelayTimer(cpu *CPU, in Instruction) {
	cpu.bus.SetDelayTimer(cpu.v[in.X])
	cpu.next()
}

//LD ST, Vx
//#FX18:
func opSetSoundTimer(cpu *CPU, in Instruction) {
	cpu.bus.SetSoundTimer(cpu.v[in.X])
	cpu.next()
}

//ADD I, Vx
//#FX1E: VF = 1 when I leaves the 12 bit range, I itself is not truncated
func opAddIndex(cpu *CPU, in Instruction) {
	value := uint16(cpu.v[in.X])
	cpu.setFlag(uint32(cpu.i)+uint32(value) > uint32(addr.AddressMask))
	cpu.i += value
	cpu.next()
}

//LD F, Vx
//#FX29:
func opIndexGlyph(cpu *CPU, in Instruction) {
	cpu.i = addr.FontStart + uint16(cpu.v[in.X])*addr.GlyphSize
	cpu.next()
}

//LD B, Vx
//#FX33:
func opStoreBCD(cpu *CPU, in Instruction) {
	hundreds, tens, units := bit.BCD(cpu.v[in.X])
	cpu.bus.Write(cpu.i, hundreds)
	cpu.bus.Write(cpu.i+1, tens)
	cpu.bus.Write(cpu.i+2, units)
	cpu.next()
}

//LD [I], Vx
//#FX55: I advances by X+1
func opRegisterDump(cpu *CPU, in Instruction) {
	for r := uint16(0); r <= uint16(in.X); r++ {
		cpu.bus.Write(cpu.i+r, cpu.v[r])
	}
	cpu.i += uint16(in.X) + 1
	cpu.next()
}

//LD Vx, [I]
//#FX65: I advances by X+1
func opRegisterLoad(cpu *CPU, in Instruction) {
	for r := uint16(0); r <= uint16(in.X); r++ {
		cpu.v[r] = cpu.bus.Read(cpu.i + r)
	}
	cpu.i += uint16(in.X) + 1
	cpu.next()
}
