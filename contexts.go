// contexts.go — execution contexts.
//
// The language model forks execution into contexts that advance in
// lockstep over one instruction stream. In scope here is the
// degenerate single-context case: FullContext holds exactly one
// Context and iteration terminates in one pass. Each context owns a
// variable table: one stack of frames per variable slot, where the top
// frame is the visible binding.
package spwn

// invalidKey marks a declared-but-unbound variable slot.
const invalidKey ValueKey = -1

// Context is one line of execution with its own variable bindings.
type Context struct {
	vars [][]ValueKey // per slot: stack of frames, top is visible
	pos  int
}

// NewContext allocates a context with one frame per variable slot.
func NewContext(varCount int) *Context {
	vars := make([][]ValueKey, varCount)
	for i := range vars {
		vars[i] = []ValueKey{invalidKey}
	}
	return &Context{vars: vars}
}

// GetVar returns the key currently visible for a slot. Reading a slot
// that was never bound is a compiler bug and panics.
func (c *Context) GetVar(slot int) ValueKey {
	k := c.vars[slot][len(c.vars[slot])-1]
	if k == invalidKey {
		panic("spwn: read of unbound variable slot")
	}
	return k
}

// SetVar rebinds the top frame of a slot.
func (c *Context) SetVar(slot int, k ValueKey) {
	c.vars[slot][len(c.vars[slot])-1] = k
}

// PushFrame and PopFrame bracket a scope for one slot. The single-
// context interpreter keeps EnterScope/ExitScope as no-ops, but the
// frame machinery is what they will drive.
func (c *Context) PushFrame(slot int) {
	c.vars[slot] = append(c.vars[slot], invalidKey)
}

func (c *Context) PopFrame(slot int) {
	c.vars[slot] = c.vars[slot][:len(c.vars[slot])-1]
}

// FullContext is the set of concurrently advancing contexts.
type FullContext struct {
	contexts []*Context
}

// NewFullContext creates the single root context.
func NewFullContext(varCount int) *FullContext {
	return &FullContext{contexts: []*Context{NewContext(varCount)}}
}

// Iter returns the contexts in their deterministic enumeration order.
func (fc *FullContext) Iter() []*Context {
	return fc.contexts
}
