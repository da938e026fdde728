package interpreter

// Execute decodes and executes a single instruction word. The program
// counter is expected to point at the instruction.
func (i *Interpreter) Execute(opcode uint16) error {
	x := uint8(opcode>>8) & 0xF
	y := uint8(opcode>>4) & 0xF
	n := uint8(opcode) & 0xF
	kk := uint8(opcode)
	nnn := opcode & 0x0FFF

	switch opcode >> 12 {
	case 0x0:
		return i.executeSystem(opcode)

	case 0x1: // jp addr
		i.pc = nnn

	case 0x2: // call addr
		if int(i.sp)+1 >= StackSize {
			return ErrStackOverflow
		}
		i.sp++
		i.stack[i.sp] = i.pc
		i.pc = nnn

	case 0x3: // se Vx, byte
		i.skipIf(i.registers[x] == kk)

	case 0x4: // sne Vx, byte
		i.skipIf(i.registers[x] != kk)

	case 0x5: // se Vx, Vy
		if n != 0 {
			return ErrInvalidOpcode
		}
		i.skipIf(i.registers[x] == i.registers[y])

	case 0x6: // ld Vx, byte
		i.registers[x] = kk
		i.pc += instructionSize

	case 0x7: // add Vx, byte
		i.registers[x] += kk
		i.pc += instructionSize

	case 0x8:
		return i.executeArithmetic(x, y, n)

	case 0x9: // sne Vx, Vy
		if n != 0 {
			return ErrInvalidOpcode
		}
		i.skipIf(i.registers[x] != i.registers[y])

	case 0xA: // ld I, addr
		i.index = nnn
		i.pc += instructionSize

	case 0xB: // jp V0, addr
		i.pc = nnn + uint16(i.registers[0])

	case 0xC: // rnd Vx, byte
		i.registers[x] = uint8(i.rng.UintN(256)) & kk
		i.pc += instructionSize

	case 0xD: // drw Vx, Vy, nibble
		i.draw(x, y, n)

	case 0xE:
		return i.executeKey(x, kk)

	case 0xF:
		return i.executeMisc(x, kk)
	}
	return nil
}

func (i *Interpreter) executeSystem(opcode uint16) error {
	switch opcode {
	case 0x00E0: // cls
		i.display.Clear()
		i.redraw = true
		i.pc += instructionSize

	case 0x00EE: // ret
		if i.sp == 0 {
			return ErrStackUnderflow
		}
		i.pc = i.stack[i.sp]
		i.sp--
		i.pc += instructionSize

	default:
		return ErrInvalidOpcode
	}
	return nil
}

// executeArithmetic executes the register to register instructions 8XYN.
// The flag is always written before the result, so for X = F the result
// is what remains in VF.
func (i *Interpreter) executeArithmetic(x, y, n uint8) error {
	vx := i.registers[x]
	vy := i.registers[y]

	switch n {
	case 0x0: // ld Vx, Vy
		i.registers[x] = vy

	case 0x1: // or Vx, Vy
		i.registers[x] = vx | vy

	case 0x2: // and Vx, Vy
		i.registers[x] = vx & vy

	case 0x3: // xor Vx, Vy
		i.registers[x] = vx ^ vy

	case 0x4: // add Vx, Vy
		sum := uint16(vx) + uint16(vy)
		i.setFlag(sum > 0xFF)
		i.registers[x] = uint8(sum)

	case 0x5: // sub Vx, Vy
		i.setFlag(vx > vy)
		i.registers[x] = vx - vy

	case 0x6: // shr Vx
		i.registers[flagRegister] = vx & 0x01
		i.registers[x] = vx >> 1

	case 0x7: // subn Vx, Vy
		i.setFlag(vy > vx)
		i.registers[x] = vy - vx

	case 0xE: // shl Vx
		i.registers[flagRegister] = vx >> 7
		i.registers[x] = vx << 1

	default:
		return ErrInvalidOpcode
	}

	i.pc += instructionSize
	return nil
}

func (i *Interpreter) executeKey(x, kk uint8) error {
	pressed := i.keys[i.registers[x]&0xF]

	switch kk {
	case 0x9E: // skp Vx
		i.skipIf(pressed)
	case 0xA1: // sknp Vx
		i.skipIf(!pressed)
	default:
		return ErrInvalidOpcode
	}
	return nil
}

// executeMisc executes the timer, keyboard and memory instructions FXNN.
// Memory accesses through I wrap around the end of memory.
func (i *Interpreter) executeMisc(x, kk uint8) error {
	switch kk {
	case 0x07: // ld Vx, DT
		i.registers[x] = i.delayTimer

	case 0x0A: // ld Vx, K
		i.state = AwaitingKey
		i.waitRegister = x
		i.resolveKeyWait()
		return nil

	case 0x15: // ld DT, Vx
		i.delayTimer = i.registers[x]

	case 0x18: // ld ST, Vx
		i.soundTimer = i.registers[x]

	case 0x1E: // add I, Vx
		i.index += uint16(i.registers[x])

	case 0x29: // ld F, Vx
		i.index = FontAddress + uint16(i.registers[x]&0xF)*GlyphSize

	case 0x33: // ld B, Vx
		value := i.registers[x]
		i.writeMemory(i.index, value/100)
		i.writeMemory(i.index+1, value/10%10)
		i.writeMemory(i.index+2, value%10)

	case 0x55: // ld [I], Vx
		for reg := range uint16(x) + 1 {
			i.writeMemory(i.index+reg, i.registers[reg])
		}

	case 0x65: // ld Vx, [I]
		for reg := range uint16(x) + 1 {
			i.registers[reg] = i.ReadMemory(i.index + reg)
		}

	default:
		return ErrInvalidOpcode
	}

	i.pc += instructionSize
	return nil
}

// draw blits an n row sprite read from memory at I onto the display.
func (i *Interpreter) draw(x, y, n uint8) {
	rows := make([]byte, n)
	for row := range uint16(n) {
		rows[row] = i.ReadMemory(i.index + row)
	}

	collision := i.display.DrawSprite(int(i.registers[x]), int(i.registers[y]), rows)
	i.setFlag(collision)
	i.redraw = true
	i.pc += instructionSize
}

// resolveKeyWait completes a pending key wait if any key is pressed, the
// lowest pressed key is stored.
func (i *Interpreter) resolveKeyWait() {
	for key, pressed := range i.keys {
		if !pressed {
			continue
		}
		i.registers[i.waitRegister] = uint8(key)
		i.state = Running
		i.pc += instructionSize
		return
	}
}

// skipIf advances the program counter past the next instruction if the
// condition holds.
func (i *Interpreter) skipIf(condition bool) {
	if condition {
		i.pc += 2 * instructionSize
		return
	}
	i.pc += instructionSize
}

func (i *Interpreter) setFlag(set bool) {
	if set {
		i.registers[flagRegister] = 1
	} else {
		i.registers[flagRegister] = 0
	}
}

func (i *Interpreter) writeMemory(address uint16, value byte) {
	i.memory[address%MemorySize] = value
}
