package macro

import "github.com/Alia5/gohidpp/hidpp/memory"

// crcReserve is the number of trailing bytes every page write leaves room
// for: the CRC-CCITT trailer appended on sync (spec §4.5, §4.6).
const crcReserve = 2

// jumpSlotPatch remembers a jump instruction's address slot (a live
// subslice of a page's backing array) until every item's final address is
// known.
type jumpSlotPatch struct {
	slot      []byte
	targetIdx int
}

// WriteMacro lays m's items into mem starting at start, resolving jump
// targets and inserting a trampoline jump to offset 0 of the next page when
// the rest of the macro does not fit before the page's CRC-reserved tail
// (spec §4.6). It returns the first address past the macro.
//
// When an item would leave fewer than JumpLength()+crcReserve bytes before
// the page end, the rest of the macro is measured (counting one alignment
// NoOp per jump target on word-addressed memory). If it fits, no further
// capacity check is made; otherwise the trampoline is written at the current
// position, which always has room for it.
func WriteMacro(m *Macro, f Format, mem *memory.PagedMemory, start memory.Address) (memory.Address, error) {
	sectorSize := mem.SectorSize()
	wordAddr := mem.WordAddressable()

	isTarget := make([]bool, len(m.Items))
	for _, it := range m.Items {
		if it.JumpTarget >= 0 {
			isTarget[it.JumpTarget] = true
		}
	}

	curMemType := start.MemType
	curPage := start.Page
	curByte := int(start.Offset)
	if wordAddr {
		curByte *= 2
	}

	resolved := make([]memory.Address, len(m.Items))
	var patches []jumpSlotPatch

	i := 0
	lookAhead := true
	for i < len(m.Items) {
		it := m.Items[i]
		length := f.Length(it)

		if lookAhead && curByte+length+f.JumpLength() > sectorSize-crcReserve {
			rest := curByte
			for j := i; j < len(m.Items); j++ {
				rest += f.Length(m.Items[j])
				if wordAddr && isTarget[j] {
					rest++ // worst-case alignment NoOp
				}
			}
			if rest <= sectorSize-crcReserve {
				lookAhead = false
			} else {
				if err := writeTrampoline(f, mem, curMemType, curPage, curByte, curPage+1); err != nil {
					return memory.Address{}, err
				}
				curPage++
				curByte = 0
				continue
			}
		}

		if isTarget[i] && wordAddr && curByte%2 != 0 {
			buf, err := pageBuf(mem, curMemType, curPage)
			if err != nil {
				return memory.Address{}, err
			}
			n, _, err := f.Write(buf, curByte, Item{Instr: NoOp, JumpTarget: -1})
			if err != nil {
				return memory.Address{}, err
			}
			curByte += n
			continue
		}

		offset := curByte
		if wordAddr {
			offset /= 2
		}
		resolved[i] = memory.Address{MemType: curMemType, Page: curPage, Offset: uint16(offset)}

		buf, err := pageBuf(mem, curMemType, curPage)
		if err != nil {
			return memory.Address{}, err
		}
		n, slot, err := f.Write(buf, curByte, it)
		if err != nil {
			return memory.Address{}, err
		}
		if slot != nil {
			patches = append(patches, jumpSlotPatch{slot: slot, targetIdx: it.JumpTarget})
		}
		curByte += n
		i++
	}

	for _, p := range patches {
		f.WriteAddress(p.slot, resolved[p.targetIdx])
	}

	nextOffset := curByte
	if wordAddr {
		nextOffset /= 2
	}
	return memory.Address{MemType: curMemType, Page: curPage, Offset: uint16(nextOffset)}, nil
}

func writeTrampoline(f Format, mem *memory.PagedMemory, memType memory.MemType, page uint8, byteOff int, nextPage uint8) error {
	buf, err := pageBuf(mem, memType, page)
	if err != nil {
		return err
	}
	_, slot, err := f.Write(buf, byteOff, Item{Instr: Jump, JumpTarget: -1})
	if err != nil {
		return err
	}
	if slot != nil {
		f.WriteAddress(slot, memory.Address{MemType: memType, Page: nextPage, Offset: 0})
	}
	return nil
}

func pageBuf(mem *memory.PagedMemory, memType memory.MemType, page uint8) ([]byte, error) {
	return mem.WritablePage(memory.Address{MemType: memType, Page: page})
}

// ReadMacro depth-first traverses a macro's bytes starting at start,
// following fall-through and jump edges, and returns the reconstructed
// Macro. Unconditional jumps terminate the current walk; conditional jumps
// (JumpIfPressed, JumpIfReleased) enqueue their destination for later
// visits. A visited-address map avoids re-parsing shared tails.
func ReadMacro(f Format, mem *memory.PagedMemory, start memory.Address) (*Macro, error) {
	m := &Macro{}
	visited := make(map[memory.Address]int) // address -> item index
	var pendingJumps []jumpTodo
	var worklist []memory.Address
	worklist = append(worklist, start)

	for len(worklist) > 0 {
		addr := worklist[0]
		worklist = worklist[1:]
		if _, ok := visited[addr]; ok {
			continue
		}
		if err := walkFrom(f, mem, addr, m, visited, &pendingJumps, &worklist); err != nil {
			return nil, err
		}
	}

	for _, pj := range pendingJumps {
		if idx, ok := visited[pj.target]; ok {
			m.Items[pj.itemIdx].JumpTarget = idx
		}
	}
	return m, nil
}

type jumpTodo struct {
	itemIdx int
	target  memory.Address
}

// walkFrom parses a straight-line run of instructions starting at addr,
// advancing through a page's bytes directly (fall-through never crosses a
// page boundary: WriteMacro always inserts an explicit trampoline jump
// before running out of room). Only a jump's destination address is
// resolved through the page cache, once per entry into this function.
func walkFrom(f Format, mem *memory.PagedMemory, addr memory.Address, m *Macro, visited map[memory.Address]int, pending *[]jumpTodo, worklist *[]memory.Address) error {
	if _, seen := visited[addr]; seen {
		return nil
	}
	buf, byteOff, err := mem.IteratorFor(addr)
	if err != nil {
		return err
	}

	for {
		curAddr, ok := mem.OffsetOf(addr.MemType, addr.Page, byteOff)
		if ok {
			if _, seen := visited[curAddr]; seen {
				return nil
			}
		}

		it, target, isJump, n, err := f.Parse(buf, byteOff)
		if err != nil {
			return err
		}
		idx := len(m.Items)
		m.Items = append(m.Items, it)
		if ok {
			visited[curAddr] = idx
		}

		if isJump {
			*pending = append(*pending, jumpTodo{itemIdx: idx, target: target})
			*worklist = append(*worklist, target)
			if !it.HasSuccessor() {
				return nil // unconditional jump: no fall-through
			}
		} else if !it.HasSuccessor() {
			return nil
		}
		byteOff += n
	}
}
