package macro

// IsLoop recognizes the four canonical loop shapes a macro editor round
// trips without expanding the full instruction list (spec §4.6):
//
//  1. pre..., RepeatUntilRelease, post..., End
//  2. pre..., WaitRelease, post..., End
//  3. pre..., JumpIfReleased->post, body..., JumpIfPressed->body, post..., End
//  4. pre..., body..., Jump->body[0] (single trailing unconditional jump)
//
// It returns the pre/body/post slices (copies, with JumpTarget reset to -1)
// and the hold-poll delay carried by the release-check
// template (0 for the other three), or ok=false if m matches none of them.
func IsLoop(m *Macro) (pre, body, post []Item, delayMs uint, ok bool) {
	n := len(m.Items)
	if n == 0 {
		return nil, nil, nil, 0, false
	}

	// Template 4: single trailing unconditional jump with no End.
	if last := m.Items[n-1]; last.Instr == Jump && last.JumpTarget >= 0 && last.JumpTarget < n-1 {
		pre = cloneItems(m.Items[:last.JumpTarget])
		body = cloneItems(m.Items[last.JumpTarget : n-1])
		return pre, body, nil, 0, true
	}

	if n == 0 || m.Items[n-1].Instr != End {
		return nil, nil, nil, 0, false
	}

	for i, it := range m.Items {
		switch it.Instr {
		case RepeatUntilRelease, WaitRelease:
			pre = cloneItems(m.Items[:i])
			post = cloneItems(m.Items[i+1 : n-1])
			return pre, nil, post, 0, true
		case JumpIfReleased:
			postStart := it.JumpTarget
			if postStart <= i || postStart >= n {
				continue
			}
			jp := findJumpIfPressed(m.Items[i+1:postStart], i+1)
			if jp < 0 {
				continue
			}
			pre = cloneItems(m.Items[:i])
			body = cloneItems(m.Items[i+1 : jp])
			post = cloneItems(m.Items[postStart : n-1])
			return pre, body, post, it.Delay, true
		}
	}
	return nil, nil, nil, 0, false
}

func findJumpIfPressed(items []Item, base int) int {
	for i, it := range items {
		if it.Instr == JumpIfPressed {
			return base + i
		}
	}
	return -1
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	for i := range out {
		out[i].JumpTarget = -1
	}
	return out
}

// BuildLoop is IsLoop's inverse: given the extracted slices, it picks the
// smallest of the four templates that can represent them.
//
//   - body empty: a single control instruction suffices. WaitRelease and
//     RepeatUntilRelease cost the same (1 byte); WaitRelease is emitted.
//   - body non-empty, post empty and delayMs == 0: the single-jump-at-end
//     form, cheapest when the caller does not need a release check.
//   - otherwise: the full jump-if-released / jump-if-pressed template,
//     the only one that can carry both a non-trivial body and a poll delay.
func BuildLoop(pre, body, post []Item, delayMs uint) *Macro {
	m := &Macro{}
	appendAll := func(items []Item) {
		for _, it := range items {
			it.JumpTarget = -1
			m.Items = append(m.Items, it)
		}
	}

	if len(body) == 0 {
		appendAll(pre)
		m.Items = append(m.Items, Item{Instr: WaitRelease, JumpTarget: -1})
		appendAll(post)
		m.Items = append(m.Items, Item{Instr: End, JumpTarget: -1})
		return m
	}

	if len(post) == 0 && delayMs == 0 {
		appendAll(pre)
		bodyStart := len(m.Items)
		appendAll(body)
		m.Items = append(m.Items, Item{Instr: Jump, JumpTarget: bodyStart})
		return m
	}

	appendAll(pre)
	jumpIfReleasedIdx := len(m.Items)
	m.Items = append(m.Items, Item{Instr: JumpIfReleased, JumpTarget: -1, Delay: delayMs})
	bodyStart := len(m.Items)
	appendAll(body)
	m.Items = append(m.Items, Item{Instr: JumpIfPressed, JumpTarget: bodyStart})
	postStart := len(m.Items)
	appendAll(post)
	m.Items[jumpIfReleasedIdx].JumpTarget = postStart
	m.Items = append(m.Items, Item{Instr: End, JumpTarget: -1})
	return m
}
