package macro_test

import (
	"testing"

	"github.com/Alia5/gohidpp/hidpp/macro"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsLoopRecognizesWaitReleaseTemplate(t *testing.T) {
	m := &macro.Macro{Items: []macro.Item{
		{Instr: macro.MouseButtonPress, Buttons: 1, JumpTarget: -1},
		{Instr: macro.WaitRelease, JumpTarget: -1},
		{Instr: macro.MouseButtonRelease, Buttons: 1, JumpTarget: -1},
		{Instr: macro.End, JumpTarget: -1},
	}}

	pre, body, post, delay, ok := macro.IsLoop(m)
	require.True(t, ok)
	assert.Empty(t, body)
	assert.Equal(t, uint(0), delay)
	require.Len(t, pre, 1)
	require.Len(t, post, 1)
	assert.Equal(t, macro.MouseButtonPress, pre[0].Instr)
	assert.Equal(t, macro.MouseButtonRelease, post[0].Instr)
}

func TestBuildLoopWithEmptyBodyUsesWaitRelease(t *testing.T) {
	pre := []macro.Item{{Instr: macro.MouseButtonPress, Buttons: 1}}
	post := []macro.Item{{Instr: macro.MouseButtonRelease, Buttons: 1}}

	m := macro.BuildLoop(pre, nil, post, 0)
	require.Len(t, m.Items, 4)
	assert.Equal(t, macro.WaitRelease, m.Items[1].Instr)
	assert.Equal(t, macro.End, m.Items[3].Instr)

	// round trips through IsLoop.
	rp, rb, rpost, _, ok := macro.IsLoop(m)
	require.True(t, ok)
	assert.Empty(t, rb)
	require.Len(t, rp, 1)
	require.Len(t, rpost, 1)
}

func TestBuildLoopWithBodyNoPostUsesSingleJump(t *testing.T) {
	body := []macro.Item{
		{Instr: macro.Delay, Delay: 10},
		{Instr: macro.MouseWheel, Wheel: 1},
	}
	m := macro.BuildLoop(nil, body, nil, 0)

	last := m.Items[len(m.Items)-1]
	assert.Equal(t, macro.Jump, last.Instr)
	assert.Equal(t, 0, last.JumpTarget)

	rpre, rbody, rpost, _, ok := macro.IsLoop(m)
	require.True(t, ok)
	assert.Empty(t, rpre)
	assert.Empty(t, rpost)
	require.Len(t, rbody, len(body))
	assert.Equal(t, macro.Delay, rbody[0].Instr)
	assert.Equal(t, macro.MouseWheel, rbody[1].Instr)
}

func TestBuildLoopWithBodyAndDelayUsesReleaseCheckTemplate(t *testing.T) {
	pre := []macro.Item{{Instr: macro.MouseButtonPress, Buttons: 1}}
	body := []macro.Item{{Instr: macro.MouseWheel, Wheel: 1}}
	post := []macro.Item{{Instr: macro.MouseButtonRelease, Buttons: 1}}

	m := macro.BuildLoop(pre, body, post, 40)

	var sawJumpIfReleased, sawJumpIfPressed bool
	for _, it := range m.Items {
		switch it.Instr {
		case macro.JumpIfReleased:
			sawJumpIfReleased = true
			assert.Equal(t, uint(40), it.Delay)
		case macro.JumpIfPressed:
			sawJumpIfPressed = true
		}
	}
	assert.True(t, sawJumpIfReleased)
	assert.True(t, sawJumpIfPressed)

	rpre, rbody, rpost, rdelay, ok := macro.IsLoop(m)
	require.True(t, ok)
	require.Len(t, rpre, 1)
	require.Len(t, rbody, 1)
	require.Len(t, rpost, 1)
	assert.Equal(t, uint(40), rdelay)
}
